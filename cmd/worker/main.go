package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/accounting-doc-router/internal/bootstrap"
	"github.com/kirillkom/accounting-doc-router/internal/config"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/observability/logging"
	"github.com/kirillkom/accounting-doc-router/internal/observability/metrics"
)

const serviceName = "doc-router-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stdout, serviceName, cfg.LogLevel, cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Events.SubscribeDocumentAccepted(ctx, func(handlerCtx context.Context, record domain.AcceptedRecord) error {
		registerCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()

		workerMetrics.StartDocument()
		start := time.Now()
		err := app.Registrar.Register(registerCtx, record)
		workerMetrics.FinishDocument(time.Since(start), err)
		if err == nil {
			slog.Info("document_registered", "document_id", record.ID, "company_id", record.CompanyID, "category", string(record.Category), "due_date", record.DueDate)
		}
		return err
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
