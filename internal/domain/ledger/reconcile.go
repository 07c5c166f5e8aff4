package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// Balance estado de cobro de una factura.
type Balance struct {
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal // nunca negativo
}

// ComputeBalance suma los pagos y calcula el reste à payer acotado en cero.
func ComputeBalance(totalTTC decimal.Decimal, payments []entity.Payment) Balance {
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	remaining := totalTTC.Sub(paid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return Balance{Total: totalTTC, Paid: paid, Remaining: remaining}
}

// ReconcileStatus devuelve el estado que corresponde a la factura tras un cambio de pagos.
//
//   - pagado > 0 y resto == 0      → Paid
//   - 0 < pagado < total           → PartiallyPaid
//   - sin pagos                    → Pending si venía de Paid/PartiallyPaid, si no se conserva
//
// Cancelled nunca se modifica. Overdue se conserva mientras no quede saldada.
func ReconcileStatus(current entity.InvoiceStatus, b Balance) entity.InvoiceStatus {
	if current == entity.InvoiceCancelled {
		return current
	}
	switch {
	case b.Paid.IsPositive() && b.Remaining.IsZero():
		return entity.InvoicePaid
	case b.Paid.IsPositive():
		if current == entity.InvoiceOverdue {
			return current
		}
		return entity.InvoicePartiallyPaid
	default:
		if current == entity.InvoicePaid || current == entity.InvoicePartiallyPaid {
			return entity.InvoicePending
		}
		return current
	}
}
