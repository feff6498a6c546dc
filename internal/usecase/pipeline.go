package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
	"github.com/gabriel-softon/transfer-dtec-file/internal/logging"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// PipelineDeps wires all driven adapters into the publication pipeline.
type PipelineDeps struct {
	Store    ports.RecordStore
	Channel  ports.TransferChannel
	Locator  ports.ArtifactLocator
	Notifier ports.ReportNotifier
	Logger   *slog.Logger

	LocalBase  string
	RemoteBase string
	// RunDate is the partition date in YYYYMMDD form.
	RunDate string
	// PublishToday restricts publication to records transferred during
	// the run day; when false any transferred record is eligible.
	PublishToday bool
}

// Pipeline drives records from approval through transfer to
// publication. Status on the record is the only source of pipeline
// position, so a rerun resumes at the first not-yet-advanced record.
type Pipeline struct {
	store    ports.RecordStore
	channel  ports.TransferChannel
	locator  ports.ArtifactLocator
	notifier ports.ReportNotifier
	logger   *slog.Logger

	localBase    string
	remoteBase   string
	runDate      string
	publishToday bool

	now func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Pipeline{
		store:        deps.Store,
		channel:      deps.Channel,
		locator:      deps.Locator,
		notifier:     deps.Notifier,
		logger:       logger,
		localBase:    deps.LocalBase,
		remoteBase:   deps.RemoteBase,
		runDate:      deps.RunDate,
		publishToday: deps.PublishToday,
		now:          time.Now,
	}
}

// Report lists the identifiers each stage settled during one run.
// Transfer results carry registration codes, publication results carry
// store IDs; both feed the operator-facing final report.
type Report struct {
	TransferredOK   []string
	TransferredFail []string
	PublishedOK     []int64
	PublishedFail   []int64
}

// Summary renders the report in the operator log format.
func (r Report) Summary() string {
	var b strings.Builder
	b.WriteString("Final report:\n")
	fmt.Fprintf(&b, "  transferred ok:     %v (total %d)\n", r.TransferredOK, len(r.TransferredOK))
	fmt.Fprintf(&b, "  transferred failed: %v (total %d)\n", r.TransferredFail, len(r.TransferredFail))
	fmt.Fprintf(&b, "  published ok:       %v (total %d)\n", r.PublishedOK, len(r.PublishedOK))
	fmt.Fprintf(&b, "  published failed:   %v (total %d)", r.PublishedFail, len(r.PublishedFail))
	return b.String()
}

// Run executes one batch: transfer every approved record, then publish
// every transferred record. Per-record failures land in the report;
// only store-level failures propagate as errors.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	var report Report

	records, err := p.store.FetchApproved(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch approved records: %w", err)
	}
	if len(records) == 0 {
		p.logger.Info("no approved records for run", "date", p.runDate)
	}

	groups := lo.GroupBy(records, func(rec domain.Record) string { return rec.Category })
	for _, category := range categoryOrder(groups) {
		batch := groups[category]
		p.logger.Info("transferring category batch",
			"category", category, "records", len(batch))

		for _, rec := range batch {
			if p.transfer(ctx, rec) {
				report.TransferredOK = append(report.TransferredOK, rec.Registration)
			} else {
				report.TransferredFail = append(report.TransferredFail, rec.Registration)
			}
		}
	}

	if err := p.publish(ctx, &report); err != nil {
		return report, err
	}

	if p.notifier != nil {
		if err := p.notifier.PublishReport(ctx, report.Summary()); err != nil {
			p.logger.Warn("report notification failed", "error", err)
		}
	}

	return report, nil
}

// transfer moves one record's artifacts to the remote host and advances
// its status. It returns true once the copy physically happened; a
// failed status update afterwards is logged but does not undo the copy,
// the reconciler is the compensating control for that gap.
func (p *Pipeline) transfer(ctx context.Context, rec domain.Record) bool {
	if abrev, _ := domain.ResolveCategory(rec.Category); abrev == "" {
		p.logger.Warn("unknown category, skipping transfer",
			"record", rec.ID, "category", rec.Category)
		return false
	}

	paths := domain.BuildPaths(rec, p.runDate, p.localBase, p.remoteBase)

	items, err := p.locator.Resolve(paths.Selector)
	if err != nil {
		p.logger.Error("resolve artifact selector",
			"selector", paths.Selector, "error", err)
		return false
	}
	if len(items) == 0 {
		p.logger.Warn("no local artifacts match selector",
			"record", rec.ID, "selector", paths.Selector)
		return false
	}

	p.inspectArtifacts(rec, items)

	if err := p.channel.MkdirAll(ctx, paths.RemoteDir); err != nil {
		p.logger.Error("create remote directory",
			"dir", paths.RemoteDir, "error", err)
		return false
	}

	p.logger.Info("copying artifacts",
		"record", rec.ID, "items", len(items), "dir", paths.RemoteDir)
	if err := p.channel.Copy(ctx, items, paths.RemoteDir); err != nil {
		p.logger.Error("copy artifacts",
			"record", rec.ID, "dir", paths.RemoteDir, "error", err)
		return false
	}

	if err := p.store.MarkTransferred(ctx, rec.ID, p.now()); err != nil {
		// The files already moved; the copy stays the source of truth.
		p.logger.Warn("status update failed after successful copy",
			"record", rec.ID, "error", err)
	}
	return true
}

// inspectArtifacts probes scraped pages for an empty title, the usual
// sign of a truncated or bot-blocked scrape. Advisory only.
func (p *Pipeline) inspectArtifacts(rec domain.Record, items []string) {
	for _, item := range items {
		lower := strings.ToLower(item)
		if !strings.HasSuffix(lower, ".html") && !strings.HasSuffix(lower, ".htm") {
			continue
		}

		title, err := p.locator.InspectHTML(item)
		if err != nil {
			p.logger.Warn("artifact did not parse as HTML",
				"record", rec.ID, "path", item, "error", err)
			continue
		}
		if title == "" {
			p.logger.Warn("artifact has no title, possibly truncated scrape",
				"record", rec.ID, "path", item)
		}
	}
}

// categoryOrder yields the known categories in report order followed by
// any unexpected labels present in the batch.
func categoryOrder(groups map[string][]domain.Record) []string {
	known := lo.Filter(domain.Categories(), func(c string, _ int) bool {
		return len(groups[c]) > 0
	})

	rest := lo.Without(lo.Keys(groups), domain.Categories()...)
	sort.Strings(rest)

	return append(known, rest...)
}
