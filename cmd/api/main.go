package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/OyamaKema/Hardware-Jack/internal/config"
	"github.com/OyamaKema/Hardware-Jack/internal/database"
	"github.com/OyamaKema/Hardware-Jack/internal/logger"
	"github.com/OyamaKema/Hardware-Jack/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// Give in-flight imports and mutations 30 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")
	done <- true
}

func main() {
	// .env first so viper and SERVER_ENV both see it
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting catalog API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("store_backend", cfg.Store.Backend),
	)

	// The Postgres store backend needs a connection and its migrations;
	// the default file backend needs neither.
	var db *sql.DB
	if cfg.Store.Backend == "postgres" {
		db, err = database.Open(cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.RunMigrations(db, "migrations", log); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	srv := server.NewServer(cfg, log, db)

	done := make(chan bool, 1)
	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
