// Package ledger contiene las reglas puras del ciclo devis → factura → pago:
// cálculo de totales, conciliación de pagos y límites de acompte.
// No accede a la base de datos; los casos de uso le pasan los datos ya cargados.
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// Totals total HT y TTC de un documento. No se aplica IVA: TTC == HT.
type Totals struct {
	HT  decimal.Decimal
	TTC decimal.Decimal
}

// ComputeTotals suma los totales de línea, ya redondeados al céntimo.
func ComputeTotals(lines []entity.LineItem) Totals {
	ht := decimal.Zero
	for _, l := range lines {
		ht = ht.Add(l.Total())
	}
	return Totals{HT: ht, TTC: ht}
}

// ValidateLines exige al menos una línea, descripción no vacía, cantidad > 0 y precio >= 0.
func ValidateLines(lines []entity.LineItem) error {
	if len(lines) == 0 {
		return domain.Invalid("au moins une ligne est requise")
	}
	for i, l := range lines {
		if strings.TrimSpace(l.Description) == "" {
			return domain.Invalid("ligne %d : la description est requise", i+1)
		}
		if !l.Quantity.IsPositive() {
			return domain.Invalid("ligne %d : la quantité doit être positive", i+1)
		}
		if l.UnitPrice.IsNegative() {
			return domain.Invalid("ligne %d : le prix unitaire ne peut pas être négatif", i+1)
		}
	}
	return nil
}

// ValidateAmount exige un importe positivo con como máximo dos decimales.
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.Invalid("%s doit être positif", field)
	}
	if !amount.Equal(amount.Round(entity.MoneyPlaces)) {
		return &domain.Error{
			Kind:    domain.ErrInvalidArgument,
			Message: field + " : deux décimales maximum",
			Details: map[string]any{"value": amount, "maxDecimals": entity.MoneyPlaces},
		}
	}
	return nil
}
