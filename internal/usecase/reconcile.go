package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
	"github.com/gabriel-softon/transfer-dtec-file/internal/logging"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// Reconciler is the detective pass comparing approved records against
// the remote partition listings. It mutates nothing; its output is the
// list of records whose artifacts never arrived, including copies whose
// status update later failed silently.
type Reconciler struct {
	store   ports.RecordStore
	channel ports.TransferChannel
	logger  *slog.Logger

	remoteBase string
	runDate    string
}

// NewReconciler builds the reconciliation pass for one run partition
// date.
func NewReconciler(store ports.RecordStore, channel ports.TransferChannel, logger *slog.Logger, remoteBase, runDate string) *Reconciler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reconciler{
		store:      store,
		channel:    channel,
		logger:     logger,
		remoteBase: remoteBase,
		runDate:    runDate,
	}
}

// Missing lists every approved-or-later record whose registration code
// appears in no entry of its partition's remote listing.
func (r *Reconciler) Missing(ctx context.Context) ([]domain.Record, error) {
	records, err := r.store.FetchApprovedOrLater(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch approved records: %w", err)
	}

	groups := lo.GroupBy(records, func(rec domain.Record) string { return rec.Category })

	var missing []domain.Record
	for _, category := range domain.Categories() {
		batch := groups[category]
		if len(batch) == 0 {
			continue
		}

		dir := domain.PartitionRemoteDir(category, r.runDate, r.remoteBase)
		entries, err := r.channel.List(ctx, dir)
		if err != nil {
			// An unlistable partition counts as empty: every record in
			// it is reported missing rather than silently skipped.
			r.logger.Error("list remote partition", "dir", dir, "error", err)
			entries = nil
		}

		for _, rec := range batch {
			if listingContains(entries, rec.Registration) {
				continue
			}
			r.logger.Warn("record not found on remote host",
				"record", rec.ID, "registration", rec.Registration, "dir", dir)
			missing = append(missing, rec)
		}
	}

	return missing, nil
}

func listingContains(entries []string, registration string) bool {
	for _, entry := range entries {
		if strings.Contains(entry, registration) {
			return true
		}
	}
	return false
}
