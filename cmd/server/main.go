package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ingestdesk/internal/config"
	"ingestdesk/internal/domain"
	"ingestdesk/internal/gateway"
	"ingestdesk/internal/handler"
	"ingestdesk/internal/middleware"
	"ingestdesk/internal/normalize"
	"ingestdesk/internal/port"
	"ingestdesk/internal/prompt/gemini"
	"ingestdesk/internal/resultsync"
	"ingestdesk/internal/router"
	"ingestdesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Log.Level == "debug" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	verifier := middleware.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.Audience)
	if verifier == nil {
		log.Println("WARNING: auth.jwt_secret is empty, API authentication is disabled")
	}

	handlers, cleanup, err := buildHandlers(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	r := router.Setup(handlers, verifier, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:        cfg.Server.Port,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// Zero by default: result streams stay open.
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server exited")
	return nil
}

// buildHandlers wires the backend. Without a configured database only the
// health handler is built and the API answers 503.
func buildHandlers(ctx context.Context, cfg *config.Config) (router.Handlers, func(), error) {
	gw, err := gateway.Open(ctx, cfg)
	if errors.Is(err, domain.ErrBackendNotConfigured) {
		log.Println("WARNING: database is not configured, API will answer 503 BACKEND_NOT_CONFIGURED")
		return router.Handlers{Health: handler.NewHealthHandler(nil)}, func() {}, nil
	}
	if err != nil {
		return router.Handlers{}, nil, err
	}

	var generator port.SchemaGenerator
	if cfg.Gemini.APIKey != "" {
		generator = gemini.NewGenerator(&cfg.Gemini)
	} else {
		log.Println("WARNING: gemini.api_key is empty, schema generation is disabled")
	}

	display := normalize.DisplayOptions{Locale: cfg.Display.Locale, Location: cfg.Display.Location()}
	// The hub stops with ctx; that also ends open result streams, so
	// Shutdown is not held up by them.
	hub := resultsync.NewHub(ctx, gw.Results, gw.Feed, resultsync.Options{
		PollInterval: cfg.Sync.PollInterval,
		PageSize:     cfg.Sync.PageSize,
		RetryDelay:   cfg.Sync.RetryDelay,
	})

	projectSvc := service.NewProjectService(gw.Projects)
	documentSvc := service.NewDocumentService(gw.Projects, gw.Documents, gw.Triggers, gw.Storage, &cfg.Storage, &cfg.Upload)
	promptSvc := service.NewPromptService(gw.Prompts, generator)
	resultSvc := service.NewResultService(gw.Results, gw.Projects, hub, display, cfg.Sync.PageSize)
	importSvc := service.NewImportService(gw.Cases, resultSvc)

	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(gw.DB),
		Projects: handler.NewProjectHandler(projectSvc),
		Docs:     handler.NewDocumentHandler(documentSvc),
		Prompts:  handler.NewPromptHandler(promptSvc),
		Results:  handler.NewResultHandler(resultSvc, cfg.Display.Locale),
		Imports:  handler.NewImportHandler(importSvc),
	}

	cleanup := func() {
		hub.Close()
		if err := gw.Close(); err != nil {
			log.Printf("closing gateway: %v", err)
		}
	}
	return handlers, cleanup, nil
}
