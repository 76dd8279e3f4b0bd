package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/new-north/platform-api/internal/api"
	"github.com/new-north/platform-api/internal/config"
	"github.com/new-north/platform-api/internal/repository"
	"github.com/new-north/platform-api/internal/store"
	"github.com/new-north/platform-api/internal/suggest"
	"github.com/new-north/platform-api/pkg/logger"
)

func main() {
	// Initialize logger
	log := logger.New()
	log.Info().Msg("Starting platform API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Open the document store
	st, err := store.Open(&cfg.Store, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Failed to open store")
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}
	log.Info().Str("backend", cfg.Store.Backend).Msg("Store opened")

	// Initialize repositories and seed a fresh store
	repos := repository.New(st, log)
	if err := repos.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed store")
	}

	// Text-suggestion collaborator
	suggester := suggest.New(&cfg.Suggest, log)

	// Initialize router
	router := api.NewRouter(repos, suggester, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}
