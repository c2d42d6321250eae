package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/glzzd/orion/internal/auth"
	"github.com/glzzd/orion/internal/config"
	"github.com/glzzd/orion/internal/httpapi"
	"github.com/glzzd/orion/internal/obs"
	"github.com/glzzd/orion/internal/orgunit"
	"github.com/glzzd/orion/internal/rbac"
	"github.com/glzzd/orion/internal/store/pg"
	"github.com/glzzd/orion/internal/tenant"
)

var version = "0.3.1"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := obs.InitLogger(cfg.Env, cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	obs.Init()

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	store, err := pg.Open(cfg.DatabaseURL, pg.PoolConfig{
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
		ConnLifetime: cfg.ConnLifetime,
	})
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer store.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTRefresh)
	if err != nil {
		logger.Fatal("token service", zap.Error(err))
	}
	authSvc, err := auth.NewService(store, store, tokens, logger)
	if err != nil {
		logger.Fatal("auth service", zap.Error(err))
	}
	rbacSvc, err := rbac.NewService(store)
	if err != nil {
		logger.Fatal("rbac service", zap.Error(err))
	}
	tenantSvc, err := tenant.NewService(store)
	if err != nil {
		logger.Fatal("tenant service", zap.Error(err))
	}
	unitSvc, err := orgunit.NewService(store)
	if err != nil {
		logger.Fatal("orgunit service", zap.Error(err))
	}

	api := httpapi.New(httpapi.Config{
		Auth:    authSvc,
		RBAC:    rbacSvc,
		Tenants: tenantSvc,
		Units:   unitSvc,
		Ready:   httpapi.ReadyProbe{DB: store.DB()},
		Log:     logger,
		Version: version,
	})

	handler := api.Handler()
	handler = httpapi.SecurityHeaders(handler)
	handler = httpapi.CORS(handler)
	handler = httpapi.MaxBodyBytes(handler, 1<<20)
	handler = httpapi.RateLimit(handler, cfg.RateBurst, cfg.RatePerSec)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("starting orion-api",
		zap.String("version", version),
		zap.String("addr", srv.Addr))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	logger.Info("stopped")
}
