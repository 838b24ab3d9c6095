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

	_ "github.com/joho/godotenv/autoload"

	"pulse/internal/config"
	"pulse/internal/database"
	"pulse/internal/logger"
	"pulse/internal/server"
)

func main() {
	logger.SetDefault(logger.New())

	if err := config.ValidateEnv([]string{"DATABASE_URL"}); err != nil {
		slog.Error("Invalid environment", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx)
	cancel()
	if err != nil {
		slog.Error("Failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	slog.Info("Connected to database")

	app := server.New(db)

	if config.GetEnvOrDefault("RUN_MIGRATIONS_ON_BOOT", "true") == "true" {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		applied, err := app.Migrator().Apply(ctx)
		cancel()
		if err != nil {
			slog.Error("Failed to run migrations", "error", err.Error())
			os.Exit(1)
		}
		slog.Info("Migrations applied", "count", len(applied))
	}

	httpServer := app.HTTPServer()

	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err.Error())
	}

	db.Close()
	slog.Info("Server stopped")
}
