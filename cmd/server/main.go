package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/arthur-theuer/signaleditor/internal/api"
	"github.com/arthur-theuer/signaleditor/internal/config"
	"github.com/arthur-theuer/signaleditor/internal/pipeline"
	"github.com/arthur-theuer/signaleditor/internal/report"
	"github.com/arthur-theuer/signaleditor/internal/resolver"
	"github.com/arthur-theuer/signaleditor/internal/routestore"
	"github.com/arthur-theuer/signaleditor/internal/stations"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize storage and the resolver.
	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Error("open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	res, err := resolver.New(routestore.WithRetry(store, cfg.FetchRetries, log), resolver.Options{
		CacheSize: cfg.CacheSize,
		MaxDepth:  cfg.MaxImportDepth,
		Logger:    log,
		Metrics:   resolver.NewMetrics(reg),
	})
	if err != nil {
		log.Error("create resolver", "error", err)
		os.Exit(1)
	}

	// Files edited on disk must not be served from the cache.
	var watcher *routestore.Watcher
	if dir, ok := store.(*routestore.DirStore); ok && cfg.StoreWatch {
		watcher, err = routestore.Watch(ctx, dir.Root(), res.Invalidate, log)
		if err != nil {
			log.Warn("file watching disabled", "error", err)
		}
	}

	lookup, err := stations.Load(cfg.StationsFile)
	if err != nil {
		log.Error("load stations", "file", cfg.StationsFile, "error", err)
		os.Exit(1)
	}
	builder := report.Builder{Stations: lookup}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, res, builder, log)
	orch.Instrument(reg)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(api.Deps{
		Orchestrator: orch,
		Resolver:     res,
		Store:        store,
		Builder:      builder,
		Metrics:      api.NewMetrics(reg),
		Gatherer:     reg,
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if watcher != nil {
			watcher.Close()
		}
		closeStore()
	}()

	log.Info("starting signaleditor",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"stations", lookup.Len(),
	)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore creates the configured route file backend and its cleanup.
func openStore(cfg config.Config) (routestore.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendDir:
		s, err := routestore.NewDirStore(cfg.StoreDir)
		return s, func() {}, err
	case config.BackendHTTP:
		s := routestore.NewHTTPStore(cfg.StoreURL, cfg.StorePrefix, cfg.StoreToken)
		return s, s.Close, nil
	case config.BackendS3:
		s, err := routestore.NewS3Store(routestore.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
			Prefix:    cfg.StorePrefix,
		})
		return s, func() {}, err
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
