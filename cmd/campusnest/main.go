package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campusnest/internal/authn"
	"campusnest/internal/cache"
	"campusnest/internal/config"
	"campusnest/internal/observability/logging"
	"campusnest/internal/observability/metrics"
	"campusnest/internal/service"
	"campusnest/internal/store"
	httpx "campusnest/internal/transport/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	logger := logging.NewLogger(logging.Config{
		ServiceName: "campusnest",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	metrics.MustRegister(prometheus.DefaultRegisterer, "campusnest")

	logger.Info("starting service")

	db, err := store.OpenPostgres(store.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(db)
	if cfg.AutoMigrate {
		if err := st.AutoMigrate(context.Background()); err != nil {
			logger.Error("auto migrate", "error", err)
			os.Exit(1)
		}
	}

	var schools *cache.Schools
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(context.Background(), cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logger.Error("redis connect", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		defer rc.Close()
		schools = cache.NewSchools(cache.NewRedisKVStore(rc), cfg.SchoolCacheTTL, logger)
	}

	tokens := authn.NewTokens(authn.TokenConfig{
		Issuer:     cfg.Issuer,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})
	svc := service.New(st, service.Options{
		Hasher:             authn.NewHasher(authn.DefaultArgon2Params),
		Tokens:             tokens,
		Schools:            schools,
		AllowedEmailSuffix: cfg.AllowedEmailSuffix,
	})

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpx.NewRouter(svc, tokens, httpx.Options{
			CORSOrigins:        cfg.CORSOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("campusnest listening", "addr", cfg.Addr, "issuer", cfg.Issuer, "school_cache", schools != nil)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
		logger.Info("stopped")
	}
}
