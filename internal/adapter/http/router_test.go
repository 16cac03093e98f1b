package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/goexpense/internal/adapter/http/dto"
	"github.com/iho/goexpense/internal/adapter/http/handler"
	apimiddleware "github.com/iho/goexpense/internal/adapter/http/middleware"
	"github.com/iho/goexpense/internal/adapter/repository/kv"
	"github.com/iho/goexpense/internal/infrastructure/idgen"
	"github.com/iho/goexpense/internal/usecase"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/", strings.NewReader(`{"title":"Salary","amount":20000}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled || !store.updateCalled {
		t.Fatalf("expected idempotency store to be used, got %+v", store)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t, func(cfg *RouterConfig) {
		cfg.MetricsHandler = http.NotFoundHandler()
	}))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"GET /api/v1/transactions/",
		"POST /api/v1/transactions/",
		"GET /api/v1/transactions/{id}",
		"DELETE /api/v1/transactions/{id}",
		"GET /api/v1/balance",
		"POST /api/v1/refresh",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func TestNewRouter_AddListDeleteFlow(t *testing.T) {
	router := NewRouter(newRouterConfig(t))

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/api/v1/transactions/", `{"title":"Salary","amount":20000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(http.MethodPost, "/api/v1/transactions/", `{"title":"Rent","amount":"-5000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var rent dto.TransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rent))

	rec = do(http.MethodPost, "/api/v1/transactions/", `{"title":"Bad","amount":"abc"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/api/v1/transactions/", "")
	var list dto.TransactionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	require.Equal(t, "Rent", list.Transactions[0].Title)
	require.True(t, list.Balance.Equal(decimal.NewFromInt(15000)))

	rec = do(http.MethodGet, "/api/v1/balance", "")
	var balance dto.BalanceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &balance))
	require.True(t, balance.Celebrate)

	rec = do(http.MethodDelete, "/api/v1/transactions/"+rent.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(http.MethodDelete, "/api/v1/transactions/unknown", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(http.MethodGet, "/api/v1/transactions/"+rent.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(http.MethodPost, "/api/v1/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 1, list.Count)
	require.True(t, list.Balance.Equal(decimal.NewFromInt(20000)))
}

func newRouterConfig(t *testing.T, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	store := kv.NewStore(kv.NewMemorySlot(), kv.Config{Logger: zerolog.Nop()})
	ledger := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		Store:  store,
		IDGen:  idgen.NewULIDGenerator(),
		Logger: zerolog.Nop(),
	})
	require.NoError(t, ledger.Initialize(context.Background()))

	cfg := RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(ledger),
		HealthHandler:      handler.NewHealthHandler(nil),
		Logger:             zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubIdempotencyStore struct {
	checkCalled  bool
	updateCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	s.updateCalled = true
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	return nil
}
