package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitrine/storefront/internal/backend"
	shttp "github.com/vitrine/storefront/internal/http"
	"github.com/vitrine/storefront/internal/localstore"
	"github.com/vitrine/storefront/internal/session"
	"github.com/vitrine/storefront/pkg/logger"
	"github.com/vitrine/storefront/pkg/shutdown"
)

type Config struct {
	HTTPPort        string
	BackendURL      string
	BackendTimeout  time.Duration
	LocalstoreKind  string
	DBPath          string
	MigrationsPath  string
	RedisAddr       string
	LogLevel        string
	Env             string
	ProcessingDelay time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:9000"),
		BackendTimeout:  getDurationEnv("BACKEND_TIMEOUT", 15*time.Second),
		LocalstoreKind:  getEnv("LOCALSTORE", "sqlite"),
		DBPath:          getEnv("DB_PATH", "storefront.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "internal/localstore/migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Env:             getEnv("ENV", "development"),
		ProcessingDelay: getDurationEnv("PAYMENT_PROCESSING_DELAY", 1500*time.Millisecond),
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	log := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	local, err := openLocalstore(cfg)
	if err != nil {
		log.Error("failed to open localstore", "kind", cfg.LocalstoreKind, "error", err)
		os.Exit(1)
	}
	defer local.Close()

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	manager := session.NewManager(client, local, log)
	server := shttp.NewServer(client, cfg.ProcessingDelay, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      shttp.NewRouter(server, manager),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("storefront starting", "port", cfg.HTTPPort, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server exited")
}

// openLocalstore picks the client-state persistence backend: sqlite for
// a single node, redis when instances share sessions.
func openLocalstore(cfg *Config) (localstore.Store, error) {
	switch cfg.LocalstoreKind {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return localstore.NewRedisStore(client), nil
	default:
		store, err := localstore.NewSQLiteStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := store.RunMigrations(cfg.MigrationsPath); err != nil {
			return nil, err
		}
		return store, nil
	}
}
