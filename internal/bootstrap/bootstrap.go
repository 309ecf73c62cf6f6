package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/accounting-doc-router/internal/config"
	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/core/duedate"
	"github.com/kirillkom/accounting-doc-router/internal/core/ports"
	"github.com/kirillkom/accounting-doc-router/internal/core/usecase"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/queue/nats"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/report/xlsx"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/resilience"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/upload/remote"
	"github.com/kirillkom/accounting-doc-router/internal/observability/metrics"
)

const (
	UploadModeLocal  = "local"
	UploadModeRemote = "remote"
)

type App struct {
	Config config.Config
	Rules  domain.ClassificationRules

	Events     ports.EventSubscriber
	Docs       ports.DocumentRepository
	Roster     ports.CompanyRoster
	Importer   ports.BatchImporter
	DueDates   ports.DueDateService
	Registrar  ports.DocumentRegistrar
	Report     ports.ReportRenderer
	APIMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string) (*App, error) {
	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load classification rules: %w", err)
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	docs := postgres.NewDocumentRepository(db)
	roster := postgres.NewCompanyRepository(db)

	apiMetrics := metrics.NewHTTPServerMetrics(service)

	uploader, err := newUploader(cfg, apiMetrics.ObserveBreakerState)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init uploader: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ClientName:         service,
		ResilienceExecutor: resilience.NewExecutor(resilience.PublishConfig().WithStateChange(apiMetrics.ObserveBreakerState)),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	processor := usecase.NewBatchProcessor(pdftext.NewExtractor(0), uploader)

	slog.Info("bootstrap_ready",
		"upload_mode", cfg.UploadMode,
		"categories", len(rules.Keywords),
		"holidays", len(rules.Holidays),
		"rules_path", cfg.RulesPath,
	)

	return &App{
		Config: cfg,
		Rules:  rules,

		Events:     queue,
		Docs:       docs,
		Roster:     roster,
		Importer:   usecase.NewImportUseCase(roster, processor, queue, apiMetrics, rules),
		DueDates:   duedate.NewCalculatorFromRules(rules),
		Registrar:  usecase.NewRegisterUseCase(docs),
		Report:     xlsx.NewRenderer(),
		APIMetrics: apiMetrics,

		closeFn: closeAll(queue, db),
	}, nil
}

func newUploader(cfg config.Config, onBreakerChange resilience.StateChangeFunc) (ports.Uploader, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.UploadMode)) {
	case UploadModeLocal, "":
		return localfs.New(cfg.StoragePath)
	case UploadModeRemote:
		rc := resilience.UploadConfig(cfg.BreakerEnabled, cfg.BreakerMinCalls).WithStateChange(onBreakerChange)
		return remote.New(cfg.UploadURL, remote.Options{
			Token:              cfg.UploadToken,
			Timeout:            cfg.UploadTimeout,
			ResilienceExecutor: resilience.NewExecutor(rc),
		})
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "select uploader", fmt.Errorf("unknown upload mode %q", cfg.UploadMode))
	}
}

func closeAll(queue *nats.Queue, db *sql.DB) func() {
	return func() {
		queue.Close()
		_ = db.Close()
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
