package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/slambookhq/slambook/internal/api"
	"github.com/slambookhq/slambook/internal/config"
	"github.com/slambookhq/slambook/internal/logger"
	"github.com/slambookhq/slambook/internal/middleware"
	"github.com/slambookhq/slambook/internal/store"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	st, err := store.Open(cfg.DataPath)
	if err != nil {
		log.Fatal("failed to open data snapshot", zap.String("path", cfg.DataPath), zap.Error(err))
	}
	log.Info("store ready", zap.String("path", cfg.DataPath))

	auth := middleware.NewAuth(cfg.JWTSecret)
	handler := api.NewHandler(st, auth.SignToken, cfg.TokenTTL, log.Named("api"))

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "name": "Slambook API"})
	})

	// The SPA (login, dashboard, create, answers, fill routes) is served
	// from a static build when configured; API-only deployments skip it.
	if cfg.StaticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
	}

	chain := middleware.CORS(
		middleware.SecureHeaders(
			middleware.NoStore(
				middleware.RequestLog(log.Named("http"))(
					auth.WithAuth(router)))))

	srv := &http.Server{Addr: cfg.Addr, Handler: chain}

	// periodic snapshot flush
	flushStop := make(chan struct{})
	flushDone := make(chan struct{})
	go func() {
		defer close(flushDone)
		ticker := time.NewTicker(cfg.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := st.FlushIfDirty(cfg.DataPath); err != nil {
					log.Error("snapshot flush failed", zap.Error(err))
				}
			case <-flushStop:
				return
			}
		}
	}()

	go func() {
		log.Info("slambook server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	close(flushStop)
	<-flushDone
	if err := st.FlushIfDirty(cfg.DataPath); err != nil {
		log.Error("final snapshot flush failed", zap.Error(err))
	}
	log.Info("bye")
}
