package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// Table names in the dtecflex schema. The column lists below are the
// integration contract with the existing store and must stay stable.
const (
	recordsTable  = "TB_NOTICIA_RASPADA"
	mentionsTable = "TB_NOTICIA_RASPADA_NOME"
	auxiliarTable = "Auxiliar"
)

var recordColumns = []string{
	"ID", "REG_NOTICIA", "CATEGORIA", "URL", "FONTE", "TITULO",
	"TEXTO_NOTICIA", "DATA_PUBLICACAO", "REGIAO", "UF", "OPERACAO",
	"STATUS", "DT_APROVACAO", "DT_TRANSFERENCIA",
}

// MySQLRepository persists pipeline state in the dtecflex MySQL schema.
// Connections are acquired per unit of work and released before any
// remote transfer happens, so transfer latency never pins a pooled
// connection.
type MySQLRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

var _ ports.RecordStore = (*MySQLRepository)(nil)

// NewMySQLRepository wires an open sqlx handle.
func NewMySQLRepository(db *sqlx.DB) *MySQLRepository {
	return &MySQLRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

// FetchApproved returns every record waiting for transfer.
func (r *MySQLRepository) FetchApproved(ctx context.Context) ([]domain.Record, error) {
	return r.fetchByStatus(ctx, sq.Eq{"STATUS": string(domain.StatusApproved)})
}

// FetchApprovedOrLater returns records at or past approval for the
// reconciliation pass.
func (r *MySQLRepository) FetchApprovedOrLater(ctx context.Context) ([]domain.Record, error) {
	return r.fetchByStatus(ctx, sq.Eq{"STATUS": []string{
		string(domain.StatusApproved),
		string(domain.StatusTransferred),
		string(domain.StatusPublished),
	}})
}

func (r *MySQLRepository) fetchByStatus(ctx context.Context, filter sq.Eq) ([]domain.Record, error) {
	query, args, err := r.sb.
		Select(recordColumns...).
		From(recordsTable).
		Where(filter).
		OrderBy("ID").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fetch query: %w", err)
	}

	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var rows []dbRecord
	if err := conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	return lo.Map(rows, func(row dbRecord, _ int) domain.Record {
		return row.toDomain()
	}), nil
}

// MarkTransferred advances a record after a successful copy and stamps
// the transfer time.
func (r *MySQLRepository) MarkTransferred(ctx context.Context, id int64, at time.Time) error {
	return r.updateStatus(ctx, id, domain.StatusTransferred, at)
}

func (r *MySQLRepository) updateStatus(ctx context.Context, id int64, status domain.Status, at time.Time) error {
	query, args, err := r.sb.
		Update(recordsTable).
		Set("STATUS", string(status)).
		Set("DT_TRANSFERENCIA", at).
		Where(sq.Eq{"ID": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build status update: %w", err)
	}

	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update record %d to %s: %w", id, status, err)
	}
	return nil
}

// TransferredWithMentions returns the record/mention join for records
// in transferred status, one row per mention and a single nil-mention
// row for records without names.
func (r *MySQLRepository) TransferredWithMentions(ctx context.Context, since time.Time) ([]domain.RecordMentionRow, error) {
	builder := r.sb.
		Select(
			"r.ID AS news_id", "r.REG_NOTICIA", "r.CATEGORIA", "r.URL",
			"r.FONTE", "r.TITULO", "r.TEXTO_NOTICIA", "r.DATA_PUBLICACAO",
			"r.REGIAO", "r.UF", "r.STATUS", "r.DT_APROVACAO", "r.DT_TRANSFERENCIA",
			"n.ID AS name_id", "n.NOME", "n.CPF", "n.NOME_CPF", "n.APELIDO",
			"n.SEXO", "n.PESSOA", "n.IDADE", "n.ATIVIDADE", "n.ENVOLVIMENTO",
			"n.OPERACAO", "n.FLG_PESSOA_PUBLICA", "n.ANIVERSARIO", "n.INDICADOR_PPE",
		).
		From(recordsTable + " r").
		LeftJoin(mentionsTable + " n ON r.ID = n.NOTICIA_ID").
		Where(sq.Eq{"r.STATUS": string(domain.StatusTransferred)}).
		OrderBy("r.ID", "n.ID")
	if !since.IsZero() {
		builder = builder.Where(sq.GtOrEq{"r.DT_TRANSFERENCIA": since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build join query: %w", err)
	}

	conn, err := r.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	var rows []dbJoinedRow
	if err := conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fetch transferred join: %w", err)
	}

	return lo.Map(rows, func(row dbJoinedRow, _ int) domain.RecordMentionRow {
		return row.toDomain()
	}), nil
}

// Publish runs fn inside one transaction; every Auxiliar insert and
// status change in the batch commits or rolls back together.
func (r *MySQLRepository) Publish(ctx context.Context, fn func(tx ports.PublishTx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin publish transaction: %w", err)
	}

	if err := fn(&publishTx{tx: tx, sb: r.sb}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit publish transaction: %w", err)
	}
	return nil
}

// dbRecord maps TB_NOTICIA_RASPADA columns for sqlx scanning.
type dbRecord struct {
	ID              int64          `db:"ID"`
	RegNoticia      string         `db:"REG_NOTICIA"`
	Categoria       string         `db:"CATEGORIA"`
	URL             sql.NullString `db:"URL"`
	Fonte           sql.NullString `db:"FONTE"`
	Titulo          sql.NullString `db:"TITULO"`
	TextoNoticia    sql.NullString `db:"TEXTO_NOTICIA"`
	DataPublicacao  sql.NullTime   `db:"DATA_PUBLICACAO"`
	Regiao          sql.NullString `db:"REGIAO"`
	UF              sql.NullString `db:"UF"`
	Operacao        sql.NullString `db:"OPERACAO"`
	Status          string         `db:"STATUS"`
	DtAprovacao     sql.NullTime   `db:"DT_APROVACAO"`
	DtTransferencia sql.NullTime   `db:"DT_TRANSFERENCIA"`
}

func (row dbRecord) toDomain() domain.Record {
	return domain.Record{
		ID:            row.ID,
		Registration:  row.RegNoticia,
		Category:      row.Categoria,
		URL:           strPtr(row.URL),
		Source:        strPtr(row.Fonte),
		Title:         strPtr(row.Titulo),
		Body:          strPtr(row.TextoNoticia),
		PublishedAt:   timePtr(row.DataPublicacao),
		Region:        strPtr(row.Regiao),
		State:         strPtr(row.UF),
		Operation:     strPtr(row.Operacao),
		Status:        domain.Status(row.Status),
		ApprovedAt:    timePtr(row.DtAprovacao),
		TransferredAt: timePtr(row.DtTransferencia),
	}
}

// dbJoinedRow maps one row of the record/mention left join. The name
// side is entirely nullable because of the join.
type dbJoinedRow struct {
	NewsID          int64          `db:"news_id"`
	RegNoticia      string         `db:"REG_NOTICIA"`
	Categoria       string         `db:"CATEGORIA"`
	URL             sql.NullString `db:"URL"`
	Fonte           sql.NullString `db:"FONTE"`
	Titulo          sql.NullString `db:"TITULO"`
	TextoNoticia    sql.NullString `db:"TEXTO_NOTICIA"`
	DataPublicacao  sql.NullTime   `db:"DATA_PUBLICACAO"`
	Regiao          sql.NullString `db:"REGIAO"`
	UF              sql.NullString `db:"UF"`
	Status          string         `db:"STATUS"`
	DtAprovacao     sql.NullTime   `db:"DT_APROVACAO"`
	DtTransferencia sql.NullTime   `db:"DT_TRANSFERENCIA"`

	NameID           sql.NullInt64  `db:"name_id"`
	Nome             sql.NullString `db:"NOME"`
	CPF              sql.NullString `db:"CPF"`
	NomeCPF          sql.NullString `db:"NOME_CPF"`
	Apelido          sql.NullString `db:"APELIDO"`
	Sexo             sql.NullString `db:"SEXO"`
	Pessoa           sql.NullString `db:"PESSOA"`
	Idade            sql.NullInt64  `db:"IDADE"`
	Atividade        sql.NullString `db:"ATIVIDADE"`
	Envolvimento     sql.NullString `db:"ENVOLVIMENTO"`
	Operacao         sql.NullString `db:"OPERACAO"`
	FlgPessoaPublica sql.NullString `db:"FLG_PESSOA_PUBLICA"`
	Aniversario      sql.NullTime   `db:"ANIVERSARIO"`
	IndicadorPPE     sql.NullString `db:"INDICADOR_PPE"`
}

func (row dbJoinedRow) toDomain() domain.RecordMentionRow {
	out := domain.RecordMentionRow{
		Record: domain.Record{
			ID:            row.NewsID,
			Registration:  row.RegNoticia,
			Category:      row.Categoria,
			URL:           strPtr(row.URL),
			Source:        strPtr(row.Fonte),
			Title:         strPtr(row.Titulo),
			Body:          strPtr(row.TextoNoticia),
			PublishedAt:   timePtr(row.DataPublicacao),
			Region:        strPtr(row.Regiao),
			State:         strPtr(row.UF),
			Status:        domain.Status(row.Status),
			ApprovedAt:    timePtr(row.DtAprovacao),
			TransferredAt: timePtr(row.DtTransferencia),
		},
	}

	if row.NameID.Valid {
		out.Mention = &domain.Mention{
			Name:         row.Nome.String,
			CPF:          strPtr(row.CPF),
			NameCPF:      strPtr(row.NomeCPF),
			Alias:        strPtr(row.Apelido),
			Sex:          strPtr(row.Sexo),
			Person:       strPtr(row.Pessoa),
			Age:          intPtr(row.Idade),
			Activity:     strPtr(row.Atividade),
			Involvement:  strPtr(row.Envolvimento),
			Operation:    strPtr(row.Operacao),
			PublicFigure: strPtr(row.FlgPessoaPublica),
			Birthday:     timePtr(row.Aniversario),
			PEPIndicator: strPtr(row.IndicadorPPE),
		}
	}
	return out
}

func strPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func intPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
