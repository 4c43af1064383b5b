package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msomdec/tasktrack/internal/config"
	"github.com/msomdec/tasktrack/internal/handler"
	"github.com/msomdec/tasktrack/internal/imaging"
	"github.com/msomdec/tasktrack/internal/repository/sqlite"
	"github.com/msomdec/tasktrack/internal/service"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	configPath, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit {
		configPath = config.DefaultPath
	}
	cfg, err := config.Load(configPath, explicit)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied", "path", cfg.Database.Path)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	photoLimits := cfg.PhotoLimits()
	photoService := service.NewPhotoService(imaging.NewJPEGEncoder(photoLimits), service.PhotoOptions{
		MaxBytes:       cfg.Photo.MaxBytes,
		InitialQuality: cfg.Photo.InitialQuality,
		Limits:         photoLimits,
	}, logger)
	authService := service.NewAuthService(db.Users(), photoService, cfg.Auth.JWTSecret, cfg.Auth.BcryptCost, cfg.TokenTTL())
	profileService := service.NewProfileService(db.Users(), photoService, cfg.Auth.BcryptCost)
	todoService := service.NewTodoService(db.Todos(), nil)
	authLimiter := service.PerMinute(ctx, cfg.Auth.LoginRatePerMinute)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, db, authService, profileService, todoService, photoService, authLimiter)

	srv := &http.Server{
		Addr: ":" + cfg.Server.Port,
		Handler: handler.RequestLogger(logger,
			handler.SecurityHeaders(
				handler.MaxBody(cfg.Server.MaxBodyBytes, mux))),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
