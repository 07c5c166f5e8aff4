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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, contact, email, phone, street, postal_code, city, country, siret, vat_number, notes, created_at, updated_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	err := row.Scan(&c.ID, &c.Name, &c.Contact, &c.Email, &c.Phone, &c.Street, &c.PostalCode, &c.City,
		&c.Country, &c.SIRET, &c.VATNumber, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Contact, c.Email, c.Phone, c.Street, c.PostalCode, c.City, c.Country,
		c.SIRET, c.VATNumber, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicate("client déjà existant")
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. (nil, nil) si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List lista clientes por nombre; search filtra por nombre o email (ILIKE).
func (r *ClientRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Client, error) {
	lim, off := pageArgs(limit, offset)
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		ORDER BY lower(name), id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, search, lim, off)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	list := []*entity.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza un cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, contact = $3, email = $4, phone = $5, street = $6, postal_code = $7,
			city = $8, country = $9, siret = $10, vat_number = $11, notes = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Contact, c.Email, c.Phone, c.Street, c.PostalCode, c.City, c.Country,
		c.SIRET, c.VATNumber, c.Notes, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("client", c.ID)
	}
	return nil
}

// Delete elimina un cliente por ID.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Conflict("client référencé par d'autres documents", map[string]any{"id": id})
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

// CountRelations cuenta devis, facturas y pagos del cliente en una sola consulta.
func (r *ClientRepo) CountRelations(ctx context.Context, id string) (entity.ClientRelations, error) {
	query := `
		SELECT
			(SELECT count(*) FROM quotes WHERE client_id = $1),
			(SELECT count(*) FROM invoices WHERE client_id = $1),
			(SELECT count(*) FROM payments WHERE client_id = $1)`
	var rel entity.ClientRelations
	if err := r.q.QueryRow(ctx, query, id).Scan(&rel.Quotes, &rel.Invoices, &rel.Payments); err != nil {
		return rel, fmt.Errorf("count client relations: %w", err)
	}
	return rel, nil
}
