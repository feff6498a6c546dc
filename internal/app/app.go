package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/gabriel-softon/transfer-dtec-file/internal/config"
	"github.com/gabriel-softon/transfer-dtec-file/internal/infrastructure/artifact"
	"github.com/gabriel-softon/transfer-dtec-file/internal/infrastructure/storage"
	"github.com/gabriel-softon/transfer-dtec-file/internal/infrastructure/telegram"
	"github.com/gabriel-softon/transfer-dtec-file/internal/infrastructure/transfer"
	"github.com/gabriel-softon/transfer-dtec-file/internal/logging"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
	"github.com/gabriel-softon/transfer-dtec-file/internal/usecase"
)

// runDateLayout is the YYYYMMDD partition directory convention.
const runDateLayout = "20060102"

// Application wires configuration into the pipeline and the
// reconciliation pass.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// RunOptions tune a single batch execution.
type RunOptions struct {
	// Date pins the run partition (YYYYMMDD); empty means today.
	Date string
	// ReconcileOnly skips transfer and publication and only checks the
	// remote host against approved records.
	ReconcileOnly bool
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Run executes one batch. An error return means setup failed or the
// store became unreachable mid-run; per-record failures only show up in
// the report.
func (a *Application) Run(ctx context.Context, opts RunOptions) error {
	runDate := opts.Date
	if runDate == "" {
		runDate = time.Now().Format(runDateLayout)
	}

	db, err := sqlx.Connect("mysql", a.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("connect record store: %w", err)
	}
	defer db.Close()

	channel, err := transfer.Dial(transfer.Options{
		Host:           a.cfg.Transfer.Host,
		Port:           a.cfg.Transfer.Port,
		User:           a.cfg.Transfer.User,
		KeyFile:        a.cfg.Transfer.KeyFile,
		KnownHostsFile: a.cfg.Transfer.KnownHostsFile,
	}, a.logger.With("component", "transfer"))
	if err != nil {
		return fmt.Errorf("connect transfer channel: %w", err)
	}
	defer channel.Close()

	store := storage.NewMySQLRepository(db)

	var notifier ports.ReportNotifier
	if a.cfg.Notifications.Telegram.BotToken != "" {
		notifier = telegram.NewNotifier(
			a.cfg.Notifications.Telegram.BotToken,
			a.cfg.Notifications.Telegram.ChatID,
		)
	}

	if !opts.ReconcileOnly {
		pipeline := usecase.NewPipeline(usecase.PipelineDeps{
			Store:        store,
			Channel:      channel,
			Locator:      artifact.NewLocator(),
			Notifier:     notifier,
			Logger:       a.logger.With("component", "pipeline"),
			LocalBase:    a.cfg.Paths.LocalBase,
			RemoteBase:   a.cfg.Paths.RemoteBase,
			RunDate:      runDate,
			PublishToday: a.cfg.Publish.TodayOnly(),
		})

		report, err := pipeline.Run(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("run finished",
			"transferred_ok", report.TransferredOK,
			"transferred_failed", report.TransferredFail,
			"published_ok", report.PublishedOK,
			"published_failed", report.PublishedFail,
		)
	}

	reconciler := usecase.NewReconciler(
		store,
		channel,
		a.logger.With("component", "reconciler"),
		a.cfg.Paths.RemoteBase,
		runDate,
	)
	missing, err := reconciler.Missing(ctx)
	if err != nil {
		return err
	}
	if len(missing) == 0 {
		a.logger.Info("all approved records present on remote host", "date", runDate)
		return nil
	}
	for _, rec := range missing {
		a.logger.Warn("missing remote artifact",
			"record", rec.ID, "registration", rec.Registration, "category", rec.Category)
	}
	return nil
}
