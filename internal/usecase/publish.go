package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// publish copies the mention rows of every transferred record into the
// downstream Auxiliar table and advances records that produced at least
// one row. The whole batch runs in a single store transaction; a
// per-mention insert failure is isolated, a transaction failure aborts
// the run with nothing published.
func (p *Pipeline) publish(ctx context.Context, report *Report) error {
	var since time.Time
	if p.publishToday {
		since = startOfDay(p.now())
	}

	rows, err := p.store.TransferredWithMentions(ctx, since)
	if err != nil {
		return fmt.Errorf("fetch transferred records: %w", err)
	}

	records := Aggregate(rows)
	if len(records) == 0 {
		p.logger.Info("no transferred records to publish")
		return nil
	}

	var ok, failed []int64
	err = p.store.Publish(ctx, func(tx ports.PublishTx) error {
		for _, rec := range records {
			if p.publishRecord(ctx, tx, rec) {
				ok = append(ok, rec.ID)
			} else {
				failed = append(failed, rec.ID)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish batch: %w", err)
	}

	report.PublishedOK = ok
	report.PublishedFail = failed
	return nil
}

// publishRecord inserts one Auxiliar row per mention and marks the
// record published when at least one insert succeeded. A record with
// zero inserted rows keeps its status and is retried on the next run.
func (p *Pipeline) publishRecord(ctx context.Context, tx ports.PublishTx, rec domain.Record) bool {
	cls := domain.Classify(rec.Category)

	inserted := 0
	for _, mention := range rec.Mentions {
		row := domain.BuildAuxiliarRow(rec, mention, cls)
		if err := tx.InsertAuxiliar(ctx, row); err != nil {
			p.logger.Error("insert mention row",
				"record", rec.ID, "name", mention.Name, "error", err)
			continue
		}
		inserted++
	}

	if inserted == 0 {
		p.logger.Warn("record produced no downstream rows",
			"record", rec.ID, "mentions", len(rec.Mentions))
		return false
	}

	if err := tx.MarkPublished(ctx, rec.ID, p.now()); err != nil {
		p.logger.Error("mark record published", "record", rec.ID, "error", err)
		return false
	}

	p.logger.Info("record published", "record", rec.ID, "rows", inserted)
	return true
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
