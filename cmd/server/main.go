package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tzimmer/lawchunk/internal/api"
	"github.com/tzimmer/lawchunk/internal/chunker"
	"github.com/tzimmer/lawchunk/internal/config"
	"github.com/tzimmer/lawchunk/internal/extractor"
	"github.com/tzimmer/lawchunk/internal/pipeline"
	"github.com/tzimmer/lawchunk/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Error("failed to create upload directory", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open store", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the pipeline.
	chain := extractor.DefaultChain(log, cfg.PDFFallbackPdftotext)
	proc := pipeline.NewProcessor(chain, chunker.Config{
		MinLength: cfg.MinChunkLength,
		MaxLength: cfg.MaxChunkLength,
	}, log)
	orch := pipeline.NewOrchestrator(cfg, st, proc, log)
	orch.Start(ctx)

	// Initialize the HTTP server.
	srv := api.NewServer(orch, st, log, cfg)

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

		st.Close()
	}()

	log.Info("starting lawchunk", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
