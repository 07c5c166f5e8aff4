package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/devis-factures-api/internal/domain/ledger"
)

// nextNumber reserva el siguiente número de la secuencia dentro de la transacción de r.
func nextNumber(ctx context.Context, r Repositories, kind, prefix string) (string, error) {
	seq, err := r.Sequences.Next(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("secuencia %s: %w", kind, err)
	}
	return ledger.FormatNumber(prefix, seq), nil
}
