package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
)

var _ billing.TxRunner = (*TxRunner)(nil)

// NewRepositories construye los repositorios del ledger sobre q (pool o tx).
func NewRepositories(q Querier) billing.Repositories {
	return billing.Repositories{
		Clients:   NewClientRepository(q),
		Quotes:    NewQuoteRepository(q),
		Invoices:  NewInvoiceRepository(q),
		Payments:  NewPaymentRepository(q),
		Settings:  NewSettingsRepository(q),
		Sequences: NewSequenceRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunBilling inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(repos billing.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
