package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/gabriel-softon/transfer-dtec-file/internal/domain"
	"github.com/gabriel-softon/transfer-dtec-file/internal/ports"
)

// auxiliarColumns is the full downstream column list in table order.
// Columns this pipeline never sources are still named and receive NULL,
// keeping the insert byte-compatible with the other Auxiliar producers.
var auxiliarColumns = []string{
	"NOME", "CPF", "NOME_CPF", "APELIDO", "DTEC",
	"SEXO", "PESSOA", "IDADE", "ATIVIDADE", "ENVOLVIMENTO",
	"TIPO_SUSPEITA", "OPERACAO", "TITULO", "DATA_NOTICIA", "FONTE_NOTICIA",
	"REGIAO", "ESTADO", "REGISTRO_NOTICIA", "FLG_PESSOA_PUBLICA", "DATA_GRAVACAO",
	"EXISTEM_PROCESSOS", "ORIGEM_UF", "TRIBUNAIS", "LINKS_TRIBUNAIS", "DATA_PESQUISA",
	"TIPO_INFORMACAO", "ANIVERSARIO", "CITACOES_NA_MIDIA", "INDICADOR_PPE", "PEP_RELACIONADO",
	"LINK_NOTICIA", "DATA_ATUALIZACAO", "ORGAO", "EMPRESA_RELACIONADA", "CNPJ_EMPRESA_RELACIONADA",
	"RELACIONAMENTO", "DATA_INICIO_MANDATO", "DATA_FIM_MANDATO", "DATA_CARENCIA",
}

// publishTx implements the publication unit of work over one open
// transaction.
type publishTx struct {
	tx *sqlx.Tx
	sb sq.StatementBuilderType
}

var _ ports.PublishTx = (*publishTx)(nil)

// InsertAuxiliar writes one downstream reporting row.
func (t *publishTx) InsertAuxiliar(ctx context.Context, row domain.AuxiliarRow) error {
	query, args, err := t.sb.
		Insert(auxiliarTable).
		Columns(auxiliarColumns...).
		Values(auxiliarValues(row)...).
		ToSql()
	if err != nil {
		return fmt.Errorf("build auxiliar insert: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert auxiliar row for record %d: %w", row.RecordID, err)
	}
	return nil
}

// MarkPublished advances the record and stamps the publication moment.
// The store keeps publish times in DT_TRANSFERENCIA, a convention the
// downstream consumers rely on.
func (t *publishTx) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	query, args, err := t.sb.
		Update(recordsTable).
		Set("STATUS", string(domain.StatusPublished)).
		Set("DT_TRANSFERENCIA", at).
		Where(sq.Eq{"ID": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build publish update: %w", err)
	}

	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark record %d published: %w", id, err)
	}
	return nil
}

// auxiliarValues lays out one row's values in auxiliarColumns order.
// The stamp columns use the database clock so all rows of one batch
// share the exact insertion time.
func auxiliarValues(row domain.AuxiliarRow) []interface{} {
	now := sq.Expr("NOW()")

	return []interface{}{
		row.Name, row.CPF, row.NameCPF, row.Alias, nil,
		row.Sex, row.Person, row.Age, row.Activity, row.Involvement,
		row.SuspicionType, row.Operation, row.Title, row.NewsDate, row.NewsSource,
		row.Region, row.State, row.Registration, row.PublicFigure, now,
		nil, nil, nil, nil, now,
		row.InfoType, row.Birthday, row.MediaCitations, row.PEPIndicator, nil,
		row.NewsLink, now, nil, nil, nil,
		nil, nil, nil, nil,
	}
}
