package billing

import (
	"context"
	"time"

	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/ledger"
)

// reconcileInvoice bloquea la factura, suma sus pagos y persiste el estado resultante si cambió.
// Debe llamarse dentro de RunBilling.
func reconcileInvoice(ctx context.Context, r Repositories, invoiceID string) (*entity.Invoice, ledger.Balance, error) {
	inv, err := r.Invoices.GetForUpdate(ctx, invoiceID)
	if err != nil {
		return nil, ledger.Balance{}, err
	}
	if inv == nil {
		return nil, ledger.Balance{}, domain.NotFound("facture", invoiceID)
	}
	payments, err := r.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, ledger.Balance{}, err
	}
	bal := ledger.ComputeBalance(inv.TotalTTC, paymentValues(payments))
	next := ledger.ReconcileStatus(inv.Status, bal)
	if next != inv.Status {
		now := time.Now()
		if err := r.Invoices.UpdateStatus(ctx, inv.ID, next, now); err != nil {
			return nil, ledger.Balance{}, err
		}
		inv.Status = next
		inv.UpdatedAt = now
	}
	return inv, bal, nil
}
