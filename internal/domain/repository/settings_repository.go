package repository

import (
	"context"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// SettingsRepository persiste los parámetros de la empresa (fila única).
type SettingsRepository interface {
	// Get devuelve (nil, nil) si todavía no se guardaron parámetros.
	Get(ctx context.Context) (*entity.Settings, error)
	Save(ctx context.Context, s *entity.Settings) error
}

// Tipos de secuencia de numeración.
const (
	SequenceQuote   = "quote"
	SequenceInvoice = "invoice"
	SequencePayment = "payment"
)

// SequenceRepository entrega el siguiente número de una secuencia de forma atómica.
type SequenceRepository interface {
	Next(ctx context.Context, kind string) (int64, error)
}
