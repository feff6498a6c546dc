package usecase

import (
	"testing"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
)

func joinedRow(id int64, registration string, mention *domain.Mention) domain.RecordMentionRow {
	return domain.RecordMentionRow{
		Record: domain.Record{
			ID:           id,
			Registration: registration,
			Category:     "Crime",
			Status:       domain.StatusTransferred,
		},
		Mention: mention,
	}
}

func TestAggregateFoldsMentionsPerRecord(t *testing.T) {
	t.Parallel()

	rows := []domain.RecordMentionRow{
		joinedRow(1, "C20250317-001", &domain.Mention{Name: "Primeiro"}),
		joinedRow(1, "C20250317-001", &domain.Mention{Name: "Segundo"}),
		joinedRow(2, "C20250317-002", &domain.Mention{Name: "Terceiro"}),
		joinedRow(1, "C20250317-001", &domain.Mention{Name: "Quarto"}),
	}

	records := Aggregate(rows)
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != 1 || len(first.Mentions) != 3 {
		t.Fatalf("record 1 should hold 3 mentions, got %d", len(first.Mentions))
	}
	// Mention order follows source row order.
	if first.Mentions[0].Name != "Primeiro" || first.Mentions[2].Name != "Quarto" {
		t.Fatalf("mention order not preserved: %+v", first.Mentions)
	}

	if records[1].ID != 2 || len(records[1].Mentions) != 1 {
		t.Fatalf("unexpected second record: %+v", records[1])
	}
}

func TestAggregateZeroMentionRecord(t *testing.T) {
	t.Parallel()

	records := Aggregate([]domain.RecordMentionRow{
		joinedRow(5, "C20250317-005", nil),
	})

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if len(records[0].Mentions) != 0 {
		t.Fatalf("record should carry no mentions, got %+v", records[0].Mentions)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	t.Parallel()

	if records := Aggregate(nil); len(records) != 0 {
		t.Fatalf("expected no records, got %+v", records)
	}
}
