package repository

import (
	"context"
	"time"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// InvoiceFilter filtros opcionales para listar facturas.
type InvoiceFilter struct {
	ClientID     string
	QuoteID      string
	Status       entity.InvoiceStatus
	DepositsOnly bool
	Limit        int
	Offset       int
}

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para recalcular el estado sin perder actualizaciones.
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, f InvoiceFilter) ([]*entity.Invoice, error)
	// ListByQuote devuelve las facturas derivadas de un devis ordenadas por fecha de creación.
	ListByQuote(ctx context.Context, quoteID string) ([]*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, id string, status entity.InvoiceStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
	// MarkOverdue pasa a Overdue las facturas Pending/PartiallyPaid con vencimiento anterior a asOf.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
