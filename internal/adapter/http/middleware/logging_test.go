package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggingMiddlewareRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(zerolog.New(&buf)).Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	for _, want := range []string{`"method":"POST"`, `"path":"/api/v1/accounts/"`, `"status":201`, "request completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestLoggingMiddlewareDefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	handler := NewLoggingMiddleware(zerolog.New(&buf)).Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Errorf("expected implicit 200 in log output: %s", buf.String())
	}
}
