package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/donhauser001/dhs-atlas/internal/agent"
	"github.com/donhauser001/dhs-atlas/internal/config"
	"github.com/donhauser001/dhs-atlas/internal/llm"
	"github.com/donhauser001/dhs-atlas/internal/server"
	"github.com/donhauser001/dhs-atlas/internal/store"
	"github.com/donhauser001/dhs-atlas/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server the frontend talks to.

Endpoints include /api/health, /api/agent/chat, /api/agent/stream and
read-only record endpoints under /api/clients and /api/quotations.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Debug)

	st, err := store.Connect(context.Background(), cfg.MongoURI, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = st.Close(ctx)
	}()
	logger.Info("connected to mongodb", "database", cfg.Database)

	registry := tools.DefaultRegistry(st)
	provider := llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMModel, cfg.LLMAPIKey)
	ag := agent.New(provider, registry)
	logger.Info("agent ready", "model", cfg.LLMModel, "tools", registry.Len())

	srv := server.New(cfg, ag, st, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	return srv.Start()
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
