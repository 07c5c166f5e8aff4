package repository

import (
	"context"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// PaymentFilter filtros opcionales para listar pagos.
type PaymentFilter struct {
	InvoiceID string
	ClientID  string
	Limit     int
	Offset    int
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	List(ctx context.Context, f PaymentFilter) ([]*entity.Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id string) error
}
