package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"carepoint.io/care-assistant/internal/api"
	"carepoint.io/care-assistant/internal/auth"
	"carepoint.io/care-assistant/internal/config"
	"carepoint.io/care-assistant/internal/core"
	"carepoint.io/care-assistant/internal/datasync"
	"carepoint.io/care-assistant/internal/store"
)

const tokenTTL = 24 * time.Hour

func main() {
	rootCmd := &cobra.Command{
		Use:           "care-assistant",
		Short:         "Hospital assistant API server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(kbCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(userCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Str("service", "care-assistant").Logger()
}

// app holds everything the commands share.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	db       *store.SQLiteStore
	gen      *core.GeminiGenerator
	rdb      *redis.Client
	resolver *core.Resolver
}

// bootstrap opens storage and builds the resolver. The Gemini client is only
// created when a key is configured.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, db: db}

	var quotaKV core.KV = db
	if cfg.RedisAddr != "" {
		a.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		quotaKV = store.NewRedisKV(a.rdb, "care-assistant:")
		logger.Info().Str("addr", cfg.RedisAddr).Msg("AI quota shared through Redis")
	}

	kb, err := core.LoadKnowledgeBase(ctx, db, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	var gen core.Generator
	if cfg.AIEnabled() {
		a.gen, err = core.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		gen = a.gen
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set; answering from the knowledge base only")
	}

	quota := core.NewQuotaTracker(quotaKV, cfg.AIDailyLimit, cfg.AIQuotaWindow, time.Now, logger)
	a.resolver = core.NewResolver(gen, kb, quota, logger)
	return a, nil
}

func (a *app) Close() {
	if a.gen != nil {
		_ = a.gen.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to close database")
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func runServer(ctx context.Context) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.cfg.RequireServe(); err != nil {
		return err
	}
	logger := a.logger

	notifier := datasync.NewNotifier(datasync.RealClock{}, a.cfg.SyncPollInterval, logger)
	defer notifier.Close()

	handler := api.NewAPIHandler(
		a.db,
		auth.NewTokens(a.cfg.JWTSecret, tokenTTL),
		core.NewChatService(a.db, a.resolver, logger),
		core.NewClinicService(a.db, notifier, logger),
		a.resolver,
		notifier,
		logger,
	)

	serverAddr := fmt.Sprintf(":%s", a.cfg.HTTPPort)
	srv := &http.Server{
		Addr:        serverAddr,
		Handler:     api.NewRouter(handler, a.cfg.CORSOrigins),
		ReadTimeout: 15 * time.Second,
		// Sync streams stay open; JSON routes are bounded by the router's timeout.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}
	srv.RegisterOnShutdown(handler.CloseStreams)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", serverAddr).Bool("ai_enabled", a.resolver.AIEnabled()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server")
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", serverAddr, err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info().Msg("Server exited gracefully")
	return nil
}
