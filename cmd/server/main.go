package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kyccore/internal/jwt_token"
	"kyccore/internal/kyc/aml"
	"kyccore/internal/kyc/authenticity"
	"kyccore/internal/kyc/files"
	kychandler "kyccore/internal/kyc/handler"
	"kyccore/internal/kyc/lock"
	kycmetrics "kyccore/internal/kyc/metrics"
	"kyccore/internal/kyc/notify"
	"kyccore/internal/kyc/service"
	"kyccore/internal/kyc/store/amlcheck"
	"kyccore/internal/kyc/store/verification"
	"kyccore/internal/kyc/validation"
	"kyccore/internal/platform/config"
	"kyccore/internal/platform/httpserver"
	"kyccore/internal/platform/logger"
	redisclient "kyccore/internal/platform/redis"
	"kyccore/internal/policy"
	"kyccore/migrations"
	audit "kyccore/pkg/platform/audit"
	"kyccore/pkg/platform/audit/publishers/compliance"
	auditmemory "kyccore/pkg/platform/audit/store/memory"
	auditpostgres "kyccore/pkg/platform/audit/store/postgres"
	adminmw "kyccore/pkg/platform/middleware/admin"
	authmw "kyccore/pkg/platform/middleware/auth"
	"kyccore/pkg/platform/middleware/metadata"
	"kyccore/pkg/platform/middleware/request"
	"kyccore/pkg/platform/middleware/requesttime"
	"kyccore/pkg/platform/ratelimit"
	"kyccore/pkg/platform/retry"
	"kyccore/pkg/platform/tx"
)

const (
	tokenIssuer   = "kyccore"
	tokenAudience = "kyc"
)

// main wires dependencies, exposes the HTTP router, and keeps the server
// lifecycle small. Business logic lives in internal/kyc.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pol, err := policy.Load(cfg.PolicyFile)
	if err != nil {
		return fmt.Errorf("load policy: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	fileStore, err := files.NewLocalStore(cfg.FileRoot)
	if err != nil {
		return fmt.Errorf("open file root: %w", err)
	}

	stores, closeStores, err := openStores(cfg, log)
	if err != nil {
		return err
	}
	defer closeStores()

	checks := map[string]healthCheck{}
	if stores.ping != nil {
		checks["database"] = stores.ping
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(kycmetrics.New(reg)),
		service.WithTx(stores.tx),
		service.WithRetryPolicy(retryPolicy(cfg)),
	}

	var watchlist aml.Watchlist = aml.NewStaticWatchlist()
	var limits ratelimit.Store = ratelimit.NewInMemoryStore()
	redis, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redis != nil {
		defer redis.Close()
		watchlist = aml.NewRedisWatchlist(redis, cfg.Redis.WatchlistKey)
		limits = ratelimit.NewRedisStore(redis)
		checks["redis"] = redis.Health
		opts = append(opts, service.WithLocker(lock.NewRedisLocker(redis), cfg.LockTTL))
		log.Info("redis enabled for submission lock, rate limits and AML watchlist")
	} else {
		opts = append(opts, service.WithLocker(lock.NewMemoryLocker(), cfg.LockTTL))
	}

	if cfg.Kafka.Enabled() {
		client, err := notify.DialKafka(cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		notifier := notify.NewKafkaNotifier(client, cfg.Kafka.ApprovedTopic, notify.WithLogger(log))
		defer notifier.Close()
		opts = append(opts, service.WithNotifier(notifier))
		log.Info("approval notifications enabled", "topic", cfg.Kafka.ApprovedTopic)
	}

	svc, err := service.New(service.Dependencies{
		Verifications: stores.verifications,
		AMLChecks:     stores.amlChecks,
		Audit:         compliance.New(stores.audit, compliance.WithLogger(log), compliance.WithMetrics(compliance.NewMetrics(reg))),
		AuditTrail:    stores.audit,
		Validator:     validation.New(fileStore, pol.Documents),
		Analyzer:      authenticity.New(fileStore, pol.Authenticity, authenticity.WithLogger(log)),
		Screener:      aml.New(watchlist, pol.AML),
	}, pol, opts...)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}

	jwtValidator := jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey, tokenIssuer, tokenAudience))
	submitLimiter := ratelimit.New(limits, cfg.SubmitRateLimit, cfg.SubmitRateWindow, log)
	h := kychandler.New(svc, log, kychandler.WithSubmitMiddleware(submitLimiter.PerUser("submit")))

	r := chi.NewRouter()
	r.Use(request.Recovery(log))
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Logger(log))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", readiness(checks, log))
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(jwtValidator, log))
		h.Register(r)
	})
	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireReviewToken(cfg.ReviewToken, log))
		h.RegisterReview(r)
	})
	if cfg.ReviewToken == "" {
		log.Warn("KYC_REVIEW_TOKEN not set; review routes reject every request")
	}

	srv := httpserver.New(cfg.Addr, r)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting kyccore", "addr", cfg.Addr, "postgres", cfg.DatabaseURL != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}

type storeSet struct {
	verifications service.VerificationStore
	amlChecks     service.AMLStore
	audit         audit.Store
	tx            tx.Runner
	ping          healthCheck
}

// openStores connects to Postgres and applies migrations. Without
// DATABASE_URL the engine runs on in-memory stores.
func openStores(cfg config.Server, log *slog.Logger) (storeSet, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set; using in-memory stores")
		return storeSet{
			verifications: verification.NewInMemoryStore(),
			amlChecks:     amlcheck.NewInMemoryStore(),
			audit:         auditmemory.NewInMemoryStore(),
			tx:            tx.NewMemoryRunner(),
		}, func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return storeSet{}, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return storeSet{}, nil, fmt.Errorf("ping database: %w", err)
	}
	if err := migrations.Up(db); err != nil {
		_ = db.Close()
		return storeSet{}, nil, err
	}
	if version, dirty, err := migrations.Version(db); err == nil {
		log.Info("database migrated", "version", version, "dirty", dirty)
	}

	return storeSet{
		verifications: verification.NewPostgres(db),
		amlChecks:     amlcheck.NewPostgres(db),
		audit:         auditpostgres.New(db),
		tx:            tx.NewPostgresRunner(db, 0),
		ping:          db.PingContext,
	}, func() { _ = db.Close() }, nil
}

func retryPolicy(cfg config.Server) retry.Policy {
	p := retry.DefaultPolicy()
	p.Attempts = cfg.StorageRetries
	p.Timeout = cfg.StorageTimeout
	return p
}
