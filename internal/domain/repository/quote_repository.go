package repository

import (
	"context"
	"time"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// QuoteFilter filtros opcionales para listar devis.
type QuoteFilter struct {
	ClientID string
	Status   entity.QuoteStatus
	Limit    int
	Offset   int
}

// QuoteRepository define el puerto de persistencia para Quote.
// Las líneas se serializan como JSON dentro de la implementación.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Quote, error)
	List(ctx context.Context, f QuoteFilter) ([]*entity.Quote, error)
	Update(ctx context.Context, quote *entity.Quote) error
	Delete(ctx context.Context, id string) error
	// ExpirePending pasa a Expired los devis Pending cuya validez terminó antes de asOf.
	ExpirePending(ctx context.Context, asOf time.Time) (int64, error)
}
