package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/msomdec/engineers/internal/config"
	"github.com/msomdec/engineers/internal/domain"
	"github.com/msomdec/engineers/internal/handler"
	"github.com/msomdec/engineers/internal/logging"
	"github.com/msomdec/engineers/internal/metrics"
	"github.com/msomdec/engineers/internal/repository/mongostore"
	"github.com/msomdec/engineers/internal/repository/sqlite"
	"github.com/msomdec/engineers/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(cfg.Log, os.Stdout))

	db, err := openStore(cfg.Storage)
	if err != nil {
		slog.Error("failed to open database", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database ready", "driver", cfg.Storage.Driver)

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(db.Users(), tokens, cfg.Auth.BcryptCost)
	engineerService := service.NewEngineerService(db.Engineers(), db.Users(), cfg.Engineers.EnforceOwnership)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, engineerService, db)
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler())
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: handler.Chain(mux,
			middleware.RequestID,
			middleware.RealIP,
			handler.RequestLogger,
			metrics.Middleware,
			middleware.Recoverer,
			handler.SecurityHeaders,
			handler.MethodOverride,
		),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func openStore(cfg config.StorageConfig) (domain.Database, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return mongostore.NewStore(cfg.Mongo.URI, cfg.Mongo.Database)
	default:
		return sqlite.New(cfg.SQLite.Path)
	}
}
