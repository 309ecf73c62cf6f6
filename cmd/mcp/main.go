package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/accounting-doc-router/internal/adapters/mcp"
	"github.com/kirillkom/accounting-doc-router/internal/bootstrap"
	"github.com/kirillkom/accounting-doc-router/internal/config"
	"github.com/kirillkom/accounting-doc-router/internal/observability/logging"
)

const (
	serviceName    = "doc-router-mcp"
	serviceVersion = "1.0.0"
)

func main() {
	cfg := config.Load()
	// stdout carries the MCP stream.
	slog.SetDefault(logging.New(os.Stderr, serviceName, cfg.LogLevel, cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	tools := mcpadapter.NewTools(app.DueDates, app.Roster, app.Rules)
	slog.Info("mcp_serving_stdio")
	if err := server.ServeStdio(mcpadapter.NewServer(serviceName, serviceVersion, tools)); err != nil {
		slog.Error("mcp_server_failed", "error", err)
	}
}
