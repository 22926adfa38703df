// Package main wires together the bookstore crawler service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/booklore/bookstore-crawler/internal/api"
	"github.com/booklore/bookstore-crawler/internal/catalog"
	"github.com/booklore/bookstore-crawler/internal/config"
	"github.com/booklore/bookstore-crawler/internal/export"
	"github.com/booklore/bookstore-crawler/internal/extract"
	collyfetcher "github.com/booklore/bookstore-crawler/internal/fetcher/colly"
	"github.com/booklore/bookstore-crawler/internal/logging"
	"github.com/booklore/bookstore-crawler/internal/metrics"
	"github.com/booklore/bookstore-crawler/internal/persist"
	"github.com/booklore/bookstore-crawler/internal/run"
	"github.com/booklore/bookstore-crawler/internal/storage/postgres"
	"github.com/booklore/bookstore-crawler/internal/walker"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	var store catalog.BookStore
	if cfg.DB.DSN != "" {
		pgStore, err := postgres.NewBookStore(ctx, postgres.Config{
			DSN:             cfg.DB.DSN,
			Table:           cfg.DB.Table,
			MaxConns:        cfg.DB.MaxConns,
			MinConns:        cfg.DB.MinConns,
			MaxConnLifetime: cfg.ConnLifetime(),
		})
		if err != nil {
			logger.Fatal("postgres init failed", zap.Error(err))
		}
		if err := pgStore.EnsureSchema(ctx); err != nil {
			logger.Fatal("schema init failed", zap.Error(err))
		}
		store = pgStore
	} else {
		logger.Warn("db.dsn not set, using no-op store; rows will be discarded")
		store = catalog.NoopBookStore{}
	}
	defer store.Close()

	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Crawler.UserAgent,
		Timeout:   cfg.FetchTimeout(),
	})
	pageWalker := walker.New(fetcher, extract.New(), walker.Config{
		Delay:    cfg.Delay(),
		MaxPages: cfg.Crawler.MaxPages,
	}, logger.Named("walker"))
	persister := persist.New(export.NewCSVExporter(cfg.Export.Path), store, logger.Named("persist"))
	coordinator := run.New(pageWalker, persister, cfg.Crawler.StartURL, nil, logger.Named("run"))

	if cfg.Crawler.RunOnStart {
		if _, err := coordinator.Trigger(); err != nil {
			logger.Warn("startup crawl not triggered", zap.Error(err))
		}
	}

	apiServer := api.NewServer(coordinator, store, cfg, logger.Named("api"))
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
