package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clubsite/internal/appinfo"
	"clubsite/internal/config"
	"clubsite/internal/content"
	"clubsite/internal/database"
	"clubsite/internal/handlers"
	"clubsite/internal/middleware"
	"clubsite/internal/session"
	"clubsite/internal/upload"
	"clubsite/pkg/logger"
	"clubsite/pkg/utils"
)

func main() {
	// Load Config & Env
	cfg, err := config.Load()
	if err != nil {
		logger.LogFatal("Configuration error: %v", err)
	}

	if cfg.App.StartMessage && os.Getenv("STARTUP_LOG_ACTIVE") != "false" {
		printSignature(cfg)
	}

	// Connect DB
	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.LogFatal("Database error: %v", err)
	}
	defer database.Close(db)

	uploads, err := upload.NewStore(cfg.Upload)
	if err != nil {
		logger.LogFatal("Upload dir error: %v", err)
	}
	if count, size, err := uploads.Stats(); err == nil {
		appinfo.SetInitialStats(count, size)
		logger.LogInfo("Upload dir %s: %d files (%s)", uploads.Dir(), count, utils.FormatBytes(size))
	}

	creds, err := session.NewCredentials(cfg.Admin)
	if err != nil {
		logger.LogFatal("Admin credentials error: %v", err)
	}
	sessionStore := session.NewStore(cfg.SessionTTL())
	defer sessionStore.Close()

	requestLimiter := middleware.NewRateLimiter(cfg.Security.RateLimit, cfg.Security.TrustProxyHeaders)
	defer requestLimiter.Close()
	loginLimiter := middleware.NewRateLimiter(cfg.Security.LoginRateLimit, cfg.Security.TrustProxyHeaders)
	defer loginLimiter.Close()

	h, err := handlers.New(handlers.Deps{
		Config:       cfg,
		DB:           db,
		Repo:         content.NewRepository(db),
		Uploads:      uploads,
		Sessions:     session.NewManager(sessionStore, creds, cfg.Session),
		Metrics:      middleware.NewMetrics(),
		LoginLimiter: loginLimiter,
	})
	if err != nil {
		logger.LogFatal("Handler setup error: %v", err)
	}

	finalHandler := requestLimiter.Middleware(middleware.LoggerMiddleware(h.Handler()))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      finalHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interval := cfg.CleanupInterval(); interval > 0 {
		go startCleaner(ctx, db, uploads, interval, cfg.CleanupGrace())
	}

	if err := run(ctx, server, cfg); err != nil {
		logger.LogError("Server stopped: %v", err)
		os.Exit(1)
	}
}

// run serves until ctx ends (SIGINT/SIGTERM), then drains in-flight requests.
func run(ctx context.Context, server *http.Server, cfg *config.Config) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.LogServerStart(cfg.App.Name, cfg.Server.Port, cfg.BaseURL)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.LogInfo("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
