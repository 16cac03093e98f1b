package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/goexpense/internal/adapter/http"
	"github.com/iho/goexpense/internal/adapter/http/handler"
	"github.com/iho/goexpense/internal/adapter/http/middleware"
	fileRepo "github.com/iho/goexpense/internal/adapter/repository/file"
	"github.com/iho/goexpense/internal/adapter/repository/kv"
	postgresRepo "github.com/iho/goexpense/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/goexpense/internal/adapter/repository/redis"
	"github.com/iho/goexpense/internal/infrastructure/config"
	"github.com/iho/goexpense/internal/infrastructure/eventpublisher"
	"github.com/iho/goexpense/internal/infrastructure/idgen"
	"github.com/iho/goexpense/internal/infrastructure/logger"
	"github.com/iho/goexpense/internal/infrastructure/metrics"
	"github.com/iho/goexpense/internal/infrastructure/postgres"
	"github.com/iho/goexpense/internal/infrastructure/redis"
	"github.com/iho/goexpense/internal/usecase"
)

const limiterCleanupInterval = 10 * time.Minute

// app holds the wired server and everything that must be closed on exit.
type app struct {
	router  http.Handler
	ledger  *usecase.LedgerUseCase
	closers []func()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func (a *app) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// newApp connects the configured backends, loads the ledger and builds the router.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	return newAppWithRegistry(ctx, cfg, log, prometheus.NewRegistry())
}

func newAppWithRegistry(ctx context.Context, cfg *config.Config, log zerolog.Logger, reg *prometheus.Registry) (*app, error) {
	a := &app{}
	ready := false
	defer func() {
		if !ready {
			a.Close()
		}
	}()

	threshold, err := parseThreshold(cfg.CelebrationThreshold)
	if err != nil {
		return nil, err
	}

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	checks := map[string]handler.Checker{}

	var redisClient *goredis.Client
	if cfg.NeedsRedis() {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.onClose(func() { redisClient.Close() })
		checks["redis"] = redis.HealthCheck(redisClient)
		log.Info().Msg("connected to redis")
	}

	slot, err := buildSlot(ctx, cfg, redisClient, log, a, checks)
	if err != nil {
		return nil, err
	}

	store := kv.NewStore(slot, kv.Config{
		Key:           cfg.StoreKey,
		SkipMalformed: cfg.StoreSkipMalformed,
		Metrics:       m,
		Logger:        logger.WithComponent(log, "store"),
	})

	publisher, err := buildPublisher(cfg, log, a)
	if err != nil {
		return nil, err
	}

	a.ledger = usecase.NewLedgerUseCase(usecase.LedgerConfig{
		Store:                store,
		IDGen:                idgen.NewULIDGenerator(),
		Publisher:            publisher,
		Metrics:              m,
		Logger:               logger.WithComponent(log, "ledger"),
		CelebrationThreshold: threshold,
	})

	if err := a.ledger.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}
	log.Info().Int("transactions", len(a.ledger.Transactions())).Msg("ledger initialized")

	routerCfg := httpAdapter.RouterConfig{
		TransactionHandler: handler.NewTransactionHandler(a.ledger),
		HealthHandler:      handler.NewHealthHandler(checks),
		Logger:             logger.WithComponent(log, "http"),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		HTTPMetrics:        m,
	}

	if cfg.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnLimited(m.RateLimited)
		routerCfg.RateLimiter = limiter

		cleanupCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		a.onClose(cancel)
		go cleanupLimiters(cleanupCtx, limiter)
	}

	if cfg.IdempotencyEnabled {
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		routerCfg.IdempotencyTTL = cfg.IdempotencyTTL
	}

	a.router = httpAdapter.NewRouter(routerCfg)
	ready = true

	return a, nil
}

// buildSlot returns the kv.Slot for the configured backend and registers
// its readiness check.
func buildSlot(ctx context.Context, cfg *config.Config, redisClient *goredis.Client, log zerolog.Logger, a *app, checks map[string]handler.Checker) (kv.Slot, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return kv.NewMemorySlot(), nil

	case config.BackendFile:
		slot, err := fileRepo.NewSlot(cfg.StoreDir)
		if err != nil {
			return nil, err
		}
		checks["store"] = slot.Ping
		log.Info().Str("dir", cfg.StoreDir).Msg("using file store")
		return slot, nil

	case config.BackendRedis:
		return redisRepo.NewSlot(redisClient, cfg.RedisKeyPrefix), nil

	case config.BackendPostgres:
		migrator := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, logger.WithComponent(log, "migrator"))
		if _, err := migrator.Up(); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL: cfg.DatabaseURL,
			MaxConns:    cfg.DatabaseMaxConns,
			MinConns:    cfg.DatabaseMinConns,
		})
		if err != nil {
			return nil, err
		}
		a.onClose(pool.Close)
		checks["postgres"] = pool.Ping
		log.Info().Msg("connected to postgres")

		retrier := postgresRepo.NewRetrier(postgresRepo.RetryPolicy{
			MaxRetries:     cfg.DatabaseRetryMax,
			MaxElapsedTime: cfg.DatabaseRetryTimeout,
		}, logger.WithComponent(log, "retrier"))

		return postgresRepo.NewSlot(pool, retrier), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// buildPublisher returns a NATS publisher when NATS_URL is set and a log
// publisher otherwise.
func buildPublisher(cfg *config.Config, log zerolog.Logger, a *app) (usecase.Publisher, error) {
	eventLog := logger.WithComponent(log, "events")

	if cfg.NATSURL == "" {
		return eventpublisher.NewLogPublisher(eventLog), nil
	}

	nc, err := eventpublisher.Connect(cfg.NATSURL, eventLog)
	if err != nil {
		return nil, err
	}
	a.onClose(func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	})
	log.Info().Str("url", cfg.NATSURL).Msg("connected to nats")

	return eventpublisher.NewNATSPublisher(nc, cfg.NATSSubject, eventLog), nil
}

func parseThreshold(raw string) (decimal.Decimal, error) {
	threshold, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid CELEBRATION_THRESHOLD %q: %w", raw, err)
	}
	if !threshold.IsPositive() {
		return decimal.Zero, fmt.Errorf("CELEBRATION_THRESHOLD must be positive, got %s", raw)
	}
	return threshold, nil
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters(limiterCleanupInterval)
		}
	}
}
