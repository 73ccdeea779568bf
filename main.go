package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-poll/cliparse"
	"github.com/danielhkuo/quickly-poll/db"
	"github.com/danielhkuo/quickly-poll/fsstore"
	"github.com/danielhkuo/quickly-poll/handlers"
	"github.com/danielhkuo/quickly-poll/i18n"
	"github.com/danielhkuo/quickly-poll/middleware"
	"github.com/danielhkuo/quickly-poll/models"
	"github.com/danielhkuo/quickly-poll/router"
	"github.com/danielhkuo/quickly-poll/store"
)

// pollStore is a store the server can both serve from and seed
type pollStore interface {
	handlers.Store
	SaveQuestion(ctx context.Context, q models.Question, active bool) error
	SetActive(ctx context.Context, questionID int, active bool) error
}

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Set up logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}
	if cfg.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, logOpts)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, logOpts)))
	}

	texts, err := i18n.LoadTextConfiguration(cfg.TextFile)
	if err != nil {
		slog.Error("text configuration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	st, closer, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store setup failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer closer.Close()
	slog.Info("Store ready", "type", cfg.DatabaseType)

	if cfg.SeedFile != "" {
		if err := seedQuestions(ctx, st, cfg.SeedFile, cfg.RetireUnseeded); err != nil {
			slog.Error("seeding failed", "error", err)
			closer.Close()
			os.Exit(1)
		}
	}

	hub := handlers.NewTallyHub()
	defer hub.Close()

	// Create router
	mux := router.NewRouter(st, cfg, texts, hub)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Listening", "port", cfg.Port, "language", cfg.Language)
		serverErr <- server.ListenAndServe()
	}()

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
		return
	case <-ctrlc:
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not tracked by Shutdown
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("Server closed")
}

// openStore connects the configured backend. SQL databases get their schema
// created on startup.
func openStore(ctx context.Context, cfg cliparse.Config) (pollStore, io.Closer, error) {
	if cfg.DatabaseType == cliparse.DatabaseFirestore {
		fs, err := fsstore.New(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials)
		if err != nil {
			return nil, nil, err
		}
		return fs, fs, nil
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	// Create schema (tables)
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		return nil, nil, err
	}

	return store.NewSQLStore(conn), conn, nil
}

// seedQuestions upserts every question of the seed file. With retire set,
// active questions the file does not list are deactivated.
func seedQuestions(ctx context.Context, s pollStore, path string, retire bool) error {
	seed, err := db.ReadSeed(path)
	if err != nil {
		return err
	}

	seeded := make(map[int]bool, len(seed))
	for _, q := range seed {
		if err := s.SaveQuestion(ctx, q.Question, q.Active); err != nil {
			return err
		}
		seeded[q.ID] = true
	}
	slog.Info("Seeded questions", "count", len(seed), "file", path)

	if !retire {
		return nil
	}

	active, err := s.FetchActiveQuestions(ctx, "")
	if err != nil {
		return err
	}
	for _, q := range active {
		if seeded[q.ID] {
			continue
		}
		if err := s.SetActive(ctx, q.ID, false); err != nil {
			return err
		}
		slog.Info("Retired question", "question_id", q.ID)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
