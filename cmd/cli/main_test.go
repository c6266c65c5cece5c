package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintResponsePrettyPrintsJSON(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"a":1}`)),
	}

	out := captureOutput(t, func() {
		printResponse(resp)
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestGetPrintsServerResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/accounts/101" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"uid":101}`))
	}))
	defer srv.Close()

	baseURL = srv.URL

	out := captureOutput(t, func() {
		get("/api/v1/accounts/101")
	})

	if !strings.Contains(out, `"uid": 101`) {
		t.Fatalf("expected account in output, got %q", out)
	}
}

func TestPostSendsIdempotencyKey(t *testing.T) {
	var gotKey, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	baseURL = srv.URL

	captureOutput(t, func() {
		post("/api/v1/settlements/", `{"listid":"L-1"}`, "L-1")
	})

	if gotKey != "L-1" {
		t.Fatalf("expected idempotency key L-1, got %q", gotKey)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected json content type, got %q", gotContentType)
	}
}

func TestCheckConsistencyReportsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"consistent":true,"user_total":"300","gl_total":"300"}`))
	}))
	defer srv.Close()

	baseURL = srv.URL

	out := captureOutput(t, func() {
		checkConsistency()
	})

	if !strings.Contains(out, "Consistency check PASSED") {
		t.Fatalf("expected PASSED, got %q", out)
	}
	if !strings.Contains(out, "User total: 300") {
		t.Fatalf("expected totals in output, got %q", out)
	}
}
