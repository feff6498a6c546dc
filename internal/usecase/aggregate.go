package usecase

import "github.com/gabriel-softon/transfer-dtec-file/internal/domain"

// Aggregate folds the flat record/mention join into one Record per
// unique ID. The first row for an ID establishes the record shell;
// every row with a mention appends it in source order. A record whose
// only row carries a nil mention ends up with an empty mention list.
func Aggregate(rows []domain.RecordMentionRow) []domain.Record {
	var order []int64
	byID := make(map[int64]*domain.Record, len(rows))

	for _, row := range rows {
		rec, ok := byID[row.Record.ID]
		if !ok {
			shell := row.Record
			shell.Mentions = nil
			rec = &shell
			byID[shell.ID] = rec
			order = append(order, shell.ID)
		}
		if row.Mention != nil {
			rec.Mentions = append(rec.Mentions, *row.Mention)
		}
	}

	records := make([]domain.Record, 0, len(order))
	for _, id := range order {
		records = append(records, *byID[id])
	}
	return records
}
