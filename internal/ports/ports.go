package ports

import (
	"context"
	"time"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
)

// RecordStore is the relational store holding scraped records and their
// extracted mentions.
type RecordStore interface {
	// FetchApproved returns every record waiting for transfer.
	FetchApproved(ctx context.Context) ([]domain.Record, error)
	// FetchApprovedOrLater returns records at or past approval, the
	// population the reconciler checks against the remote host.
	FetchApprovedOrLater(ctx context.Context) ([]domain.Record, error)
	// MarkTransferred advances a record after a successful copy.
	MarkTransferred(ctx context.Context, id int64, at time.Time) error
	// TransferredWithMentions returns the record/mention join for
	// records transferred at or after since; a zero since means no
	// date filter.
	TransferredWithMentions(ctx context.Context, since time.Time) ([]domain.RecordMentionRow, error)
	// Publish runs fn within a single transaction so the whole
	// publication batch commits or rolls back together.
	Publish(ctx context.Context, fn func(tx PublishTx) error) error
}

// PublishTx is the unit of work available while a publication batch is
// open.
type PublishTx interface {
	InsertAuxiliar(ctx context.Context, row domain.AuxiliarRow) error
	MarkPublished(ctx context.Context, id int64, at time.Time) error
}

// TransferChannel copies artifacts to the publication host. Copy must
// be batched and content-aware: re-sending unchanged files is a no-op.
type TransferChannel interface {
	MkdirAll(ctx context.Context, remoteDir string) error
	Copy(ctx context.Context, localPaths []string, remoteDir string) error
	List(ctx context.Context, remoteDir string) ([]string, error)
	Close() error
}

// ArtifactLocator resolves a record's local artifact selector and
// offers a cheap sanity probe over scraped pages.
type ArtifactLocator interface {
	Resolve(selector string) ([]string, error)
	InspectHTML(path string) (title string, err error)
}

// ReportNotifier pushes the final run report to an alerting channel.
type ReportNotifier interface {
	PublishReport(ctx context.Context, report string) error
}
