package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"artistplan/internal/auth"
	"artistplan/internal/config"
	"artistplan/internal/server"
	"artistplan/internal/storage/sqlite"
	"artistplan/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	srv := server.New(store, authenticator, jwtManager, slog.Default())

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server starting", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
