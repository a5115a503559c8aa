package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/covergauge/covergauge"
)

func main() {
	// Seed the environment from .env when present; real env vars win.
	godotenv.Load()

	cfg, err := covergauge.LoadConfig()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	})))

	engine, err := covergauge.New(cfg)
	if err != nil {
		slog.Error("creating engine", "error", err)
		os.Exit(1)
	}

	h := newHandler(engine, cfg)
	router := newRouter(h, cfg)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      0, // analysis responses wait on the model
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", addr, "model", cfg.OpenAI.Model)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// newRouter wires routes and the middleware chain:
// request id -> real ip -> recovery -> cors -> auth -> logging -> routes.
func newRouter(h *handler, cfg covergauge.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(recoveryMiddleware)
	r.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	r.Use(authMiddleware(cfg.Server.APIKey))
	r.Use(logMiddleware)

	r.Get("/", h.handleWelcome)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", h.handleInfo)
		r.Post("/analyze-coverage", h.handleAnalyzeCoverage)
		r.Get("/health", h.handleHealth)
	})

	return r
}
