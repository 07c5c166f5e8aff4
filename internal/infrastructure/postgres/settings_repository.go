package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

var (
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// SettingsRepo parámetros de la empresa: fila única con id = 1.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve los parámetros o (nil, nil) si no se guardaron nunca.
func (r *SettingsRepo) Get(ctx context.Context) (*entity.Settings, error) {
	query := `
		SELECT company_name, address, zip_code, city, phone, email, siret, quote_prefix, invoice_prefix,
			payment_delay_days, default_conditions, legal_mentions, logo_key, logo_content_type, updated_at
		FROM settings WHERE id = 1`
	var s entity.Settings
	err := r.q.QueryRow(ctx, query).Scan(
		&s.CompanyName, &s.Address, &s.ZipCode, &s.City, &s.Phone, &s.Email, &s.SIRET, &s.QuotePrefix,
		&s.InvoicePrefix, &s.PaymentDelayDays, &s.DefaultConditions, &s.LegalMentions, &s.LogoKey,
		&s.LogoContentType, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &s, nil
}

// Save inserta o reemplaza la fila de parámetros.
func (r *SettingsRepo) Save(ctx context.Context, s *entity.Settings) error {
	query := `
		INSERT INTO settings (id, company_name, address, zip_code, city, phone, email, siret, quote_prefix,
			invoice_prefix, payment_delay_days, default_conditions, legal_mentions, logo_key, logo_content_type, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			company_name = EXCLUDED.company_name, address = EXCLUDED.address, zip_code = EXCLUDED.zip_code,
			city = EXCLUDED.city, phone = EXCLUDED.phone, email = EXCLUDED.email, siret = EXCLUDED.siret,
			quote_prefix = EXCLUDED.quote_prefix, invoice_prefix = EXCLUDED.invoice_prefix,
			payment_delay_days = EXCLUDED.payment_delay_days, default_conditions = EXCLUDED.default_conditions,
			legal_mentions = EXCLUDED.legal_mentions, logo_key = EXCLUDED.logo_key,
			logo_content_type = EXCLUDED.logo_content_type, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.CompanyName, s.Address, s.ZipCode, s.City, s.Phone, s.Email, s.SIRET, s.QuotePrefix,
		s.InvoicePrefix, s.PaymentDelayDays, s.DefaultConditions, s.LegalMentions, s.LogoKey,
		s.LogoContentType, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SequenceRepo contadores de numeración en document_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador. El UPSERT bloquea la fila hasta el fin de la tx,
// así dos transacciones nunca obtienen el mismo número.
func (r *SequenceRepo) Next(ctx context.Context, kind string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (kind, value) VALUES ($1, 1)
		ON CONFLICT (kind) DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`, kind).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", kind, err)
	}
	return n, nil
}
