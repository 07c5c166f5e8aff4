package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, reference, invoice_id, client_id, date, amount, method, transaction_reference, status, notes, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var method, status string
	err := row.Scan(&p.ID, &p.Reference, &p.InvoiceID, &p.ClientID, &p.Date, &p.Amount, &method,
		&p.TransactionReference, &status, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.Method = entity.PaymentMethod(method)
	p.Status = entity.PaymentStatus(status)
	return &p, nil
}

func (r *PaymentRepo) queryList(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	list := []*entity.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un pago.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Reference, p.InvoiceID, p.ClientID, p.Date, p.Amount, string(p.Method),
		p.TransactionReference, string(p.Status), p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("référence de paiement déjà utilisée")
		}
		if isCheckViolation(err) {
			return checkRejected(err, "paiement refusé par la base de données (montant invalide)")
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID. (nil, nil) si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List lista pagos (más recientes primero) con filtros opcionales.
func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	lim, off := pageArgs(f.Limit, f.Offset)
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE ($1::uuid IS NULL OR invoice_id = $1)
		  AND ($2::uuid IS NULL OR client_id = $2)
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`
	return r.queryList(ctx, query, nullIfEmpty(f.InvoiceID), nullIfEmpty(f.ClientID), lim, off)
}

// ListByInvoice pagos de una factura en orden de registro.
func (r *PaymentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error) {
	return r.queryList(ctx, `SELECT `+paymentColumns+` FROM payments WHERE invoice_id = $1 ORDER BY created_at, reference`, invoiceID)
}

// Update actualiza un pago.
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	query := `
		UPDATE payments SET reference = $2, invoice_id = $3, client_id = $4, date = $5, amount = $6, method = $7,
			transaction_reference = $8, status = $9, notes = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Reference, p.InvoiceID, p.ClientID, p.Date, p.Amount, string(p.Method),
		p.TransactionReference, string(p.Status), p.Notes, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("référence de paiement déjà utilisée")
		}
		if isCheckViolation(err) {
			return checkRejected(err, "paiement refusé par la base de données (montant invalide)")
		}
		return fmt.Errorf("update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("paiement", p.ID)
	}
	return nil
}

// Delete elimina un pago por ID.
func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
