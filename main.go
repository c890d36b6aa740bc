package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kdmarlow/intervue/internal/domain"
	"github.com/kdmarlow/intervue/internal/evaluator"
	"github.com/kdmarlow/intervue/internal/handler"
	"github.com/kdmarlow/intervue/internal/questionbank"
	"github.com/kdmarlow/intervue/internal/repository/memory"
	"github.com/kdmarlow/intervue/internal/repository/sqlite"
	"github.com/kdmarlow/intervue/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Optional; a missing .env file is not an error.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded environment from .env")
	}

	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "intervue.db")

	// Default to secure cookies; disable only for local development.
	cookieSecure := os.Getenv("COOKIE_SECURE") != "false"

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	bank := questionbank.Default()
	if bankPath := os.Getenv("QUESTION_BANK_PATH"); bankPath != "" {
		bank, err = questionbank.LoadFile(bankPath)
		if err != nil {
			slog.Error("failed to load question bank", "path", bankPath, "error", err)
			os.Exit(1)
		}
		slog.Info("question bank loaded", "path", bankPath, "domains", len(bank.Domains()))
	}

	// Remote scoring is optional; without an API key every submission is
	// scored by the heuristic evaluator.
	var remote domain.Evaluator
	if apiKey := os.Getenv("SCORER_API_KEY"); apiKey != "" {
		baseURL := envOrDefault("SCORER_BASE_URL", "https://api.openai.com/v1")
		model := envOrDefault("SCORER_MODEL", "gpt-4o-mini")
		remote = evaluator.NewRemote(baseURL, apiKey, model)
		slog.Info("remote scorer configured", "model", model)
	} else {
		slog.Warn("SCORER_API_KEY not set, relying on heuristic scorer only")
	}
	pipeline := evaluator.NewPipeline(remote, evaluator.NewHeuristic())

	sessions := memory.NewSessionStore()
	authService := service.NewAuthService(db.Users(), sessions, service.DefaultIterations)
	interviewService := service.NewInterviewService(db.Interviews(), db.FileStore(), bank, pipeline)

	// Allow a short burst of login attempts per IP, refilling one every 2s.
	loginLimiter := service.NewAttemptLimiter(0.5, 10)

	authHandler := handler.NewAuthHandler(authService, loginLimiter, cookieSecure)
	interviewHandler := handler.NewInterviewHandler(interviewService)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, authHandler, interviewHandler)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
