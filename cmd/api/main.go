package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/deadman/internal/config"
	"github.com/hamed0406/deadman/internal/httpapi"
	"github.com/hamed0406/deadman/internal/logging"
	"github.com/hamed0406/deadman/internal/repo"
	"github.com/hamed0406/deadman/internal/repo/memory"
	"github.com/hamed0406/deadman/internal/repo/sqlite"
	"github.com/hamed0406/deadman/internal/scheduler"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store repo.RecordStore
	if cfg.DatabaseURL != "" {
		db, err := sqlite.Open(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("db_open_error", zap.Error(err))
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			logger.Fatal("db_migrate_error", zap.Error(err))
		}
		store = db
	} else {
		logger.Info("using_memory_store")
		store = memory.New()
	}

	api := httpapi.NewServer(logger, store, nil)

	sweeper := scheduler.NewSweeper(logger, store, cfg.SweepInterval, nil)
	go sweeper.Run(ctx)

	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	logger.Info("api_stopped")
}
