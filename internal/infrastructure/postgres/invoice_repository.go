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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, client_id, COALESCE(quote_id::text, ''), is_deposit, date, due_date, status, lines,
	conditions, notes, total_ht, total_ttc, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status, lines string
	err := row.Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.QuoteID, &inv.IsDeposit, &inv.Date, &inv.DueDate,
		&status, &lines, &inv.Conditions, &inv.Notes, &inv.TotalHT, &inv.TotalTTC, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	if inv.Lines, err = decodeLines(lines); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvoiceRepo) queryList(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Create persiste una factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	lines, err := encodeLines(inv.Lines)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO invoices (id, number, client_id, quote_id, is_deposit, date, due_date, status, lines,
			conditions, notes, total_ht, total_ttc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.ClientID, nullIfEmpty(inv.QuoteID), inv.IsDeposit, inv.Date, inv.DueDate,
		string(inv.Status), lines, inv.Conditions, inv.Notes, inv.TotalHT, inv.TotalTTC, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("numéro de facture déjà utilisé")
		}
		if isCheckViolation(err) {
			return checkRejected(err, "facture refusée par la base de données (dates ou acompte invalides)")
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) get(ctx context.Context, query, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByID obtiene una factura por ID. (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetForUpdate obtiene la factura bloqueando la fila hasta el fin de la tx.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.get(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

// List lista facturas (más recientes primero) con filtros opcionales.
func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1::uuid IS NULL OR client_id = $1)
		  AND ($2::uuid IS NULL OR quote_id = $2)
		  AND ($3 = '' OR status = $3)
		  AND (NOT $4 OR is_deposit)
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6`
	return r.queryList(ctx, query, nullIfEmpty(f.ClientID), nullIfEmpty(f.QuoteID), string(f.Status), f.DepositsOnly, lim, off)
}

// ListByQuote facturas derivadas de un devis, en orden de creación.
func (r *InvoiceRepo) ListByQuote(ctx context.Context, quoteID string) ([]*entity.Invoice, error) {
	return r.queryList(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE quote_id = $1 ORDER BY created_at, number`, quoteID)
}

// Update actualiza la factura. El número y el flag de acompte no cambian.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	lines, err := encodeLines(inv.Lines)
	if err != nil {
		return err
	}
	query := `
		UPDATE invoices SET client_id = $2, quote_id = $3, date = $4, due_date = $5, status = $6, lines = $7,
			conditions = $8, notes = $9, total_ht = $10, total_ttc = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		inv.ID, inv.ClientID, nullIfEmpty(inv.QuoteID), inv.Date, inv.DueDate, string(inv.Status), lines,
		inv.Conditions, inv.Notes, inv.TotalHT, inv.TotalTTC, inv.UpdatedAt,
	)
	if err != nil {
		if isCheckViolation(err) {
			return checkRejected(err, "facture refusée par la base de données (dates ou acompte invalides)")
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("facture", inv.ID)
	}
	return nil
}

// UpdateStatus cambia solo el estado (recálculo tras pagos).
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), at)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("facture", id)
	}
	return nil
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("facture référencée par des paiements", map[string]any{"id": id})
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// MarkOverdue pasa a overdue las facturas pendientes o parcialmente pagadas vencidas antes de asOf.
func (r *InvoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET status = 'overdue', updated_at = now()
		WHERE status IN ('pending', 'partially_paid') AND due_date < $1`, asOf)
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return tag.RowsAffected(), nil
}
