package domain

import "time"

// Status marks a record's position in the publication pipeline. The
// literal tokens belong to the production store; ordering is expressed
// by Rank, never by comparing the strings.
type Status string

const (
	StatusScraped     Status = "100-SCRAPED"
	StatusURLOK       Status = "150-URL-OK"
	StatusApproved    Status = "201-APPROVED"
	StatusPublished   Status = "203-PUBLISHED"
	StatusTransferred Status = "205-TRANSFERED"
)

// Rank returns the pipeline position of a status. Higher means further
// along; unknown tokens rank below everything.
func (s Status) Rank() int {
	switch s {
	case StatusScraped:
		return 1
	case StatusURLOK:
		return 2
	case StatusApproved:
		return 3
	case StatusTransferred:
		return 4
	case StatusPublished:
		return 5
	default:
		return 0
	}
}

// AtLeast reports whether the status has reached the given stage.
func (s Status) AtLeast(other Status) bool {
	return s.Rank() >= other.Rank()
}

// Record is one approved content item moving through the pipeline.
// Optional store columns are pointers; absence means NULL, not an empty
// value.
type Record struct {
	ID            int64
	Registration  string // REG_NOTICIA, unique per category/date
	Category      string // CATEGORIA label; codes always derive from it
	URL           *string
	Source        *string
	Title         *string
	Body          *string
	PublishedAt   *time.Time
	Region        *string
	State         *string // UF
	Operation     *string
	Status        Status
	ApprovedAt    *time.Time
	TransferredAt *time.Time

	Mentions []Mention
}

// Mention is one person referenced inside a record's text. Mentions
// belong to exactly one record and have no lifecycle of their own.
type Mention struct {
	Name         string
	CPF          *string
	NameCPF      *string
	Alias        *string
	Sex          *string
	Person       *string
	Age          *int64
	Activity     *string
	Involvement  *string
	Operation    *string
	PublicFigure *string // FLG_PESSOA_PUBLICA
	Birthday     *time.Time
	PEPIndicator *string // INDICADOR_PPE
}

// RecordMentionRow is one row of the record/mention join. Mention is
// nil for records without any extracted names.
type RecordMentionRow struct {
	Record  Record
	Mention *Mention
}
