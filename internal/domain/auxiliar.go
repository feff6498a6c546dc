package domain

import "time"

// AuxiliarRow is one downstream reporting row, produced once per
// mention of a published record. Field names mirror the Auxiliar table
// columns this pipeline sources; columns owned by other producers
// (process flags, tribunal links, mandate dates, related companies)
// are not represented here and are always written as NULL.
type AuxiliarRow struct {
	RecordID int64 // parent record, carried for logging only

	Name           string
	CPF            *string
	NameCPF        *string
	Alias          *string
	Sex            *string
	Person         *string
	Age            *int64
	Activity       *string
	Involvement    *string
	SuspicionType  *string
	Operation      *string
	Title          *string
	NewsDate       *time.Time
	NewsSource     *string
	Region         *string
	State          *string
	Registration   string
	PublicFigure   *string
	InfoType       *string
	Birthday       *time.Time
	MediaCitations *string
	PEPIndicator   *string
	NewsLink       *string
}

// BuildAuxiliarRow flattens one mention of a record into the downstream
// row, combining the mention's entity fields with the parent record's
// content fields and the derived classification labels.
func BuildAuxiliarRow(rec Record, m Mention, cls Classification) AuxiliarRow {
	return AuxiliarRow{
		RecordID:       rec.ID,
		Name:           m.Name,
		CPF:            m.CPF,
		NameCPF:        m.NameCPF,
		Alias:          m.Alias,
		Sex:            m.Sex,
		Person:         m.Person,
		Age:            m.Age,
		Activity:       m.Activity,
		Involvement:    m.Involvement,
		SuspicionType:  cls.SuspicionType,
		Operation:      m.Operation,
		Title:          rec.Title,
		NewsDate:       rec.PublishedAt,
		NewsSource:     rec.Source,
		Region:         rec.Region,
		State:          rec.State,
		Registration:   rec.Registration,
		PublicFigure:   m.PublicFigure,
		InfoType:       cls.InfoType,
		Birthday:       m.Birthday,
		MediaCitations: rec.Body,
		PEPIndicator:   m.PEPIndicator,
		NewsLink:       rec.URL,
	}
}
