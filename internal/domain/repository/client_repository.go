package repository

import (
	"context"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
// GetByID devuelve (nil, nil) si no existe.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	Delete(ctx context.Context, id string) error
	// CountRelations cuenta devis, facturas y pagos que referencian al cliente.
	CountRelations(ctx context.Context, id string) (entity.ClientRelations, error)
}
