package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/koffiyao/bibleverse-api/internal/annotations"
	"github.com/koffiyao/bibleverse-api/internal/logger"
	"github.com/koffiyao/bibleverse-api/internal/server"
	"github.com/koffiyao/bibleverse-api/pkg/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Fail fast: without the upstream key every proxied call would 401.
		log.Fatal(err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	zl.Info("bible api key configured", zap.String("prefix", keyPrefix(cfg.BibleAPIKey)))

	store, err := annotations.NewStore(cfg.DataDir)
	if err != nil {
		zl.Fatal("opening annotations store", zap.Error(err))
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(cfg, zl, store)
	httpServer := srv.HTTPServer()

	go func() {
		zl.Info("server started", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown error", zap.Error(err))
	}
}

func keyPrefix(key string) string {
	if len(key) < 5 {
		return "*****"
	}
	return key[:5] + "..."
}
