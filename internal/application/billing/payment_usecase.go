package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/ledger"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

// PaymentUseCase registro de pagos. Cada alta, cambio o baja recalcula el estado de la factura.
type PaymentUseCase struct {
	repos Repositories
	tx    TxRunner
	opts  Options
	log   zerolog.Logger
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(repos Repositories, tx TxRunner, opts Options, log zerolog.Logger) *PaymentUseCase {
	return &PaymentUseCase{repos: repos, tx: tx, opts: opts, log: log}
}

type paymentInput struct {
	date   time.Time
	method entity.PaymentMethod
	status entity.PaymentStatus
}

func parsePaymentRequest(in dto.PaymentRequest) (paymentInput, error) {
	var pi paymentInput
	var err error
	if err = ledger.ValidateAmount("le montant du paiement", in.Amount); err != nil {
		return pi, err
	}
	if pi.date, err = parseDate("date", in.Date); err != nil {
		return pi, err
	}
	pi.method = entity.PaymentMethod(in.Method)
	if !pi.method.Valid() {
		return pi, domain.Invalid("moyen de paiement inconnu : %s", in.Method)
	}
	pi.status = entity.PaymentReceived
	if in.Status != "" {
		pi.status = entity.PaymentStatus(in.Status)
		if !pi.status.Valid() {
			return pi, domain.Invalid("statut de paiement inconnu : %s", in.Status)
		}
	}
	return pi, nil
}

// checkPayable valida que el pago pueda aplicarse a la factura.
func checkPayable(inv *entity.Invoice, clientID string) error {
	if clientID != "" && clientID != inv.ClientID {
		return domain.Invalid("le client du paiement ne correspond pas à celui de la facture %s", inv.Number)
	}
	if inv.Status == entity.InvoiceCancelled {
		return domain.State("impossible d'enregistrer un paiement sur une facture annulée", map[string]any{"invoiceId": inv.ID})
	}
	return nil
}

// Create registra el pago y recalcula la factura en la misma transacción, con la fila bloqueada.
func (uc *PaymentUseCase) Create(ctx context.Context, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	pi, err := parsePaymentRequest(in)
	if err != nil {
		return nil, err
	}
	var p *entity.Payment
	var bal ledger.Balance
	err = uc.tx.RunBilling(ctx, func(r Repositories) error {
		inv, err := r.Invoices.GetForUpdate(ctx, in.InvoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFound("facture", in.InvoiceID)
		}
		if err := checkPayable(inv, in.ClientID); err != nil {
			return err
		}
		ref := strings.TrimSpace(in.Reference)
		if ref == "" {
			if ref, err = nextNumber(ctx, r, repository.SequencePayment, uc.opts.PaymentPrefix); err != nil {
				return err
			}
		}
		now := time.Now()
		p = &entity.Payment{
			ID:                   uuid.New().String(),
			Reference:            ref,
			InvoiceID:            inv.ID,
			ClientID:             inv.ClientID,
			Date:                 pi.date,
			Amount:               in.Amount,
			Method:               pi.method,
			TransactionReference: strings.TrimSpace(in.TransactionReference),
			Status:               pi.status,
			Notes:                in.Notes,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		_, bal, err = reconcileInvoice(ctx, r, inv.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("payment_id", p.ID).Str("invoice_id", p.InvoiceID).
		Str("amount", p.Amount.String()).Str("remaining", bal.Remaining.String()).Msg("pago registrado")
	return toPaymentResponse(p), nil
}

// Get obtiene un pago por ID.
func (uc *PaymentUseCase) Get(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	p, err := uc.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("paiement", id)
	}
	return toPaymentResponse(p), nil
}

// List lista pagos (más recientes primero).
func (uc *PaymentUseCase) List(ctx context.Context, query dto.PaymentListQuery) ([]*dto.PaymentResponse, error) {
	query.DefaultPage()
	list, err := uc.repos.Payments.List(ctx, repository.PaymentFilter{
		InvoiceID: query.InvoiceID,
		ClientID:  query.ClientID,
		Limit:     query.Limit,
		Offset:    query.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}

// Update modifica el pago y recalcula la factura anterior y la nueva si cambió.
// Las facturas se bloquean en orden de id para evitar interbloqueos.
func (uc *PaymentUseCase) Update(ctx context.Context, id string, in dto.PaymentRequest) (*dto.PaymentResponse, error) {
	pi, err := parsePaymentRequest(in)
	if err != nil {
		return nil, err
	}
	var p *entity.Payment
	err = uc.tx.RunBilling(ctx, func(r Repositories) error {
		p, err = r.Payments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("paiement", id)
		}
		oldInvoiceID := p.InvoiceID
		ids := []string{oldInvoiceID}
		if in.InvoiceID != oldInvoiceID {
			ids = append(ids, in.InvoiceID)
			if ids[1] < ids[0] {
				ids[0], ids[1] = ids[1], ids[0]
			}
		}
		locked := make(map[string]*entity.Invoice, len(ids))
		for _, invID := range ids {
			inv, err := r.Invoices.GetForUpdate(ctx, invID)
			if err != nil {
				return err
			}
			if inv == nil {
				return domain.NotFound("facture", invID)
			}
			locked[invID] = inv
		}
		target := locked[in.InvoiceID]
		if err := checkPayable(target, in.ClientID); err != nil {
			return err
		}

		if ref := strings.TrimSpace(in.Reference); ref != "" {
			p.Reference = ref
		}
		p.InvoiceID = target.ID
		p.ClientID = target.ClientID
		p.Date = pi.date
		p.Amount = in.Amount
		p.Method = pi.method
		p.TransactionReference = strings.TrimSpace(in.TransactionReference)
		p.Status = pi.status
		p.Notes = in.Notes
		p.UpdatedAt = time.Now()
		if err := r.Payments.Update(ctx, p); err != nil {
			return err
		}
		for _, invID := range ids {
			if _, _, err := reconcileInvoice(ctx, r, invID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// Delete elimina el pago. El recálculo posterior de la factura es best-effort:
// si falla se registra en el log y el borrado se mantiene.
func (uc *PaymentUseCase) Delete(ctx context.Context, id string) error {
	var invoiceID string
	err := uc.tx.RunBilling(ctx, func(r Repositories) error {
		p, err := r.Payments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("paiement", id)
		}
		invoiceID = p.InvoiceID
		return r.Payments.Delete(ctx, p.ID)
	})
	if err != nil {
		return err
	}

	err = uc.tx.RunBilling(ctx, func(r Repositories) error {
		_, _, err := reconcileInvoice(ctx, r, invoiceID)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("op", "payment.delete").Str("payment_id", id).Str("invoice_id", invoiceID).
			Msg("no se pudo recalcular el estado de la factura tras borrar el pago")
	}
	return nil
}
