package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/shelfd/library/internal/config"
	"github.com/shelfd/library/internal/httpapi"
	"github.com/shelfd/library/internal/library"
	"github.com/shelfd/library/internal/service/book"
	"github.com/shelfd/library/internal/service/loan"
	"github.com/shelfd/library/internal/storage/memory"
	pgstore "github.com/shelfd/library/internal/storage/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is a local convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg.Log)
	slog.SetDefault(logger)

	var bookRepo book.Repo
	var bookWriter book.Writer
	var loanRepo loan.Repo
	var loanWriter loan.Writer
	var ready httpapi.ReadyChecker
	var closeFn func()

	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		pg, err := pgstore.Open(ctx, dsn)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = pg.Close
		if cfg.DevSeed {
			if books, err := pg.SeedDev(ctx); err != nil {
				logger.Error("dev seed failed", "err", err)
			} else {
				logger.Info("dev seed inserted", "books", len(books))
			}
		}
		bookRepo, bookWriter, loanRepo, loanWriter, ready = pg, pg, pg, pg, pg
		logger.Info("storage backend: postgres")
	} else {
		store := memory.New()
		if cfg.DevSeed {
			svc := book.New(store, store)
			seedDev(ctx, svc, logger)
		}
		bookRepo, bookWriter, loanRepo, loanWriter = store, store, store, store
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      httpapi.New(book.New(bookRepo, bookWriter), loan.New(loanRepo, loanWriter), ready, logger).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("library service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// seedDev inserts a few sample books through the service so normalization
// and the copies/available invariant apply.
func seedDev(ctx context.Context, svc book.Service, logger *slog.Logger) {
	books := []library.Book{
		{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Genre: library.GenreNonFiction, ISBN: "9780135957059", Copies: 5, Available: true},
		{Title: "Dune", Author: "Frank Herbert", Genre: library.GenreFiction, ISBN: "9780441172719", Copies: 3, Available: true},
		{Title: "A Brief History of Time", Author: "Stephen Hawking", Genre: library.GenreScience, ISBN: "9780553380163", Copies: 2, Available: true},
	}
	for _, b := range books {
		if _, err := svc.Create(ctx, b); err != nil {
			logger.Error("dev seed failed", "title", b.Title, "err", err)
			return
		}
	}
	logger.Info("dev seed inserted", "books", len(books))
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "DEBUG", "debug":
		return slog.LevelDebug
	case "WARN", "WARNING", "warn", "warning":
		return slog.LevelWarn
	case "ERROR", "ERR", "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(cfg config.LogConfig) *slog.Logger {
	level := parseLogLevel(cfg.Level)
	if strings.ToLower(strings.TrimSpace(cfg.Format)) == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
