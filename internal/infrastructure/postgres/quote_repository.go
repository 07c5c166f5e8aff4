package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador.
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, number, client_id, date, valid_until, status, lines, conditions, notes, total_ht, total_ttc, created_at, updated_at`

func scanQuote(row pgx.Row) (*entity.Quote, error) {
	var q entity.Quote
	var status, lines string
	err := row.Scan(&q.ID, &q.Number, &q.ClientID, &q.Date, &q.ValidUntil, &status, &lines,
		&q.Conditions, &q.Notes, &q.TotalHT, &q.TotalTTC, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	q.Status = entity.QuoteStatus(status)
	if q.Lines, err = decodeLines(lines); err != nil {
		return nil, err
	}
	return &q, nil
}

// Create persiste un devis con sus líneas serializadas.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	lines, err := encodeLines(q.Lines)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.q.Exec(ctx, query,
		q.ID, q.Number, q.ClientID, q.Date, q.ValidUntil, string(q.Status), lines,
		q.Conditions, q.Notes, q.TotalHT, q.TotalTTC, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("numéro de devis déjà utilisé")
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

func (r *QuoteRepo) get(ctx context.Context, query, id string) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// GetByID obtiene un devis por ID. (nil, nil) si no existe.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
}

// GetForUpdate obtiene el devis con SELECT ... FOR UPDATE (solo útil dentro de una tx).
func (r *QuoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.get(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1 FOR UPDATE`, id)
}

// List lista devis (más recientes primero) con filtros opcionales.
func (r *QuoteRepo) List(ctx context.Context, f repository.QuoteFilter) ([]*entity.Quote, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE ($1::uuid IS NULL OR client_id = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, nullIfEmpty(f.ClientID), string(f.Status), lim, off)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	list := []*entity.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, rows.Err()
}

// Update actualiza el devis. El número no cambia.
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	lines, err := encodeLines(q.Lines)
	if err != nil {
		return err
	}
	query := `
		UPDATE quotes SET client_id = $2, date = $3, valid_until = $4, status = $5, lines = $6,
			conditions = $7, notes = $8, total_ht = $9, total_ttc = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		q.ID, q.ClientID, q.Date, q.ValidUntil, string(q.Status), lines,
		q.Conditions, q.Notes, q.TotalHT, q.TotalTTC, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("devis", q.ID)
	}
	return nil
}

// Delete elimina un devis por ID.
func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("devis référencé par des factures", map[string]any{"id": id})
		}
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// ExpirePending pasa a expired los devis pendientes cuya validez terminó antes de asOf.
func (r *QuoteRepo) ExpirePending(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE quotes SET status = 'expired', updated_at = now()
		WHERE status = 'pending' AND valid_until < $1`, asOf)
	if err != nil {
		return 0, fmt.Errorf("expire quotes: %w", err)
	}
	return tag.RowsAffected(), nil
}
