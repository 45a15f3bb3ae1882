package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/di"
	"github.com/reshetovitsme/n8n-discord-trigger/internal/shared/config"
	httpServer "github.com/reshetovitsme/n8n-discord-trigger/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	// Text to stdout, errors additionally as JSON to stderr
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	logger := slog.New(slogmulti.Fanout(textHandler, jsonHandler))
	slog.SetDefault(logger)

	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		os.Exit(1)
	}

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug() {
		level.Set(slog.LevelDebug)
	}

	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	server := do.MustInvoke[*httpServer.Server](injector)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Failed to start HTTP server", "error", err)
		}
	}()

	session, err := do.Invoke[*discordgo.Session](injector)
	if err != nil {
		slog.Error("Failed to create discord session", "error", err)
		exit(injector)
	}
	if err := session.Open(); err != nil {
		slog.Error("Failed to connect to discord", "error", err)
		exit(injector)
	}

	slog.Info("Application started", "port", cfg.HTTPPort, "env", cfg.AppEnv)
	slog.Info("Press Ctrl+C to stop")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	<-ctx.Done()
	slog.Info("Shutting down...")
}

// exit releases what was started and terminates with a failure status.
func exit(injector do.Injector) {
	if err := di.Shutdown(injector); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
	os.Exit(1)
}
