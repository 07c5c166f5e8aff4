package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

// ClientUseCase casos de uso del registro de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un nuevo cliente. El país por defecto es France.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	now := time.Now()
	c := &entity.Client{ID: uuid.New().String(), CreatedAt: now}
	if err := applyClient(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = now
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// Get obtiene un cliente por ID.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("client", id)
	}
	return toClientResponse(c), nil
}

// List lista clientes ordenados por nombre; search filtra por nombre o email.
func (uc *ClientUseCase) List(ctx context.Context, search string, page dto.PageRequest) ([]*dto.ClientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update reemplaza los datos del cliente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("client", id)
	}
	if err := applyClient(c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toClientResponse(c), nil
}

// Delete elimina el cliente solo si no tiene devis, facturas ni pagos.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("client", id)
	}
	rel, err := uc.repo.CountRelations(ctx, id)
	if err != nil {
		return err
	}
	if rel.Any() {
		return domain.Conflict("impossible de supprimer un client ayant des documents associés", map[string]any{
			"devis":     rel.Quotes,
			"factures":  rel.Invoices,
			"paiements": rel.Payments,
		})
	}
	return uc.repo.Delete(ctx, id)
}

func applyClient(c *entity.Client, in dto.ClientRequest) error {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" {
		return domain.Invalid("le nom du client est requis")
	}
	if email == "" {
		return domain.Invalid("l'email du client est requis")
	}
	country := strings.TrimSpace(in.Address.Country)
	if country == "" {
		country = entity.DefaultCountry
	}
	c.Name = name
	c.Contact = strings.TrimSpace(in.Contact)
	c.Email = email
	c.Phone = strings.TrimSpace(in.Phone)
	c.Street = strings.TrimSpace(in.Address.Street)
	c.PostalCode = strings.TrimSpace(in.Address.PostalCode)
	c.City = strings.TrimSpace(in.Address.City)
	c.Country = country
	c.SIRET = strings.TrimSpace(in.SIRET)
	c.VATNumber = strings.TrimSpace(in.VATNumber)
	c.Notes = in.Notes
	return nil
}
