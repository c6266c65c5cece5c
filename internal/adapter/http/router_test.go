package http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zjttbkd/simple-accounting-book/internal/adapter/http/handler"
	apimiddleware "github.com/zjttbkd/simple-accounting-book/internal/adapter/http/middleware"
	"github.com/zjttbkd/simple-accounting-book/internal/domain"
	"github.com/zjttbkd/simple-accounting-book/internal/infrastructure/signing"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase"
	"github.com/zjttbkd/simple-accounting-book/internal/usecase/mocks"
)

type passthroughRetrier struct{}

func (passthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

type stubIdempotencyStore struct {
	*mocks.MockIdempotencyStore

	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return s.MockIdempotencyStore.CheckAndSet(ctx, key, response, ttl)
}

func newRouterConfig(t *testing.T, overrides ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	signer := signing.NewSHA256Signer()
	accountRepo := mocks.NewMockAccountRepository()
	instructionRepo := mocks.NewMockInstructionRepository()
	entryRepo := mocks.NewMockEntryRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()

	for _, seed := range []struct {
		uid        int64
		uin        string
		symbol     domain.Symbol
		ledgerType int
	}{
		{101, "9001000101", domain.SymbolAsset, domain.LedgerTypeUser},
		{102, "9001000102", domain.SymbolAsset, domain.LedgerTypeUser},
		{201, "9002000201", domain.SymbolCommon, domain.LedgerTypeGeneral},
		{202, "9002000202", domain.SymbolCommon, domain.LedgerTypeGeneral},
	} {
		a := &domain.Account{
			UID:         seed.uid,
			UIN:         seed.uin,
			Symbol:      seed.symbol,
			Currency:    "CNY",
			LedgerType:  seed.ledgerType,
			BalanceType: domain.BalanceTypeDebit,
			Balance:     decimal.NewFromInt(1000),
		}
		a.Signature = signer.Digest(a.SignPayload())
		accountRepo.Seed(a)
	}

	settlementUC := usecase.NewSettlementUseCase(
		mocks.NewMockTransactionManager(), instructionRepo, accountRepo, entryRepo,
		signer, mocks.NewMockIDGenerator(), nil,
	)

	cfg := RouterConfig{
		AccountHandler:    handler.NewAccountHandler(usecase.NewAccountUseCase(accountRepo, signer, nil)),
		SettlementHandler: handler.NewSettlementHandler(settlementUC, passthroughRetrier{}),
		EntryHandler:      handler.NewEntryHandler(usecase.NewEntryUseCase(entryRepo)),
		LedgerHandler:     handler.NewLedgerHandler(usecase.NewLedgerUseCase(ledgerRepo)),
		HealthHandler:     handler.NewHealthHandler(nil, nil),
	}

	for _, override := range overrides {
		override(&cfg)
	}

	return cfg
}

func TestRouterLogsRequests(t *testing.T) {
	var buf bytes.Buffer
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.Logger = zerolog.New(&buf)
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if !strings.Contains(buf.String(), `"path":"/health"`) {
		t.Fatalf("expected request log, got %q", buf.String())
	}
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func settlementJSON(listID, amount string) string {
	return fmt.Sprintf(`{
		"listid": %q,
		"type": 1,
		"currency": "CNY",
		"subject": 200,
		"debit":  {"uid": 101, "uin": "9001000101", "amount": %q, "gl_uid": 201, "gl_uin": "9002000201"},
		"credit": {"uid": 102, "uin": "9001000102", "amount": %q, "gl_uid": 202, "gl_uin": "9002000202"}
	}`, listID, amount, amount)
}

func postSettlement(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/settlements/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterSettlementHappyPath(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := postSettlement(router, settlementJSON("L-1", "300"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"listid":"L-1"`) {
		t.Errorf("response missing listid: %s", rec.Body)
	}
}

func TestRouterSettlementGet(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	if rec := postSettlement(router, settlementJSON("L-1", "300")); rec.Code != http.StatusOK {
		t.Fatalf("settlement failed: %d: %s", rec.Code, rec.Body)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settlements/L-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"state":2`) {
		t.Errorf("expected completed instruction, got %s", rec.Body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settlements/L-unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown listid, got %d", rec.Code)
	}
}

func TestRouterSettlementParamConflict(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	if rec := postSettlement(router, settlementJSON("L-1", "300")); rec.Code != http.StatusOK {
		t.Fatalf("first settlement failed: %d: %s", rec.Code, rec.Body)
	}

	rec := postSettlement(router, settlementJSON("L-1", "301"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for conflicting replay, got %d: %s", rec.Code, rec.Body)
	}
}

func TestRouterSettlementInsufficientFunds(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := postSettlement(router, settlementJSON("L-1", "2000"))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body)
	}
}

func TestRouterSettlementInvalidBody(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/settlements/", strings.NewReader(`{"listid": ""}`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRouterAccountGet(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/101", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts/999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown account, got %d", rec.Code)
	}
}

func TestRouterLedgerConsistency(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ledger/consistency", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"consistent":true`) {
		t.Errorf("unexpected body: %s", rec.Body)
	}
}

func TestRouterIdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{MockIdempotencyStore: mocks.NewMockIdempotencyStore()}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/settlements/", strings.NewReader(settlementJSON("L-1", "300")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "L-1")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatal("expected idempotency store to be used")
	}
}
