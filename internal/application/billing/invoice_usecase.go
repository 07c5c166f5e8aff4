package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/ledger"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

// InvoiceUseCase casos de uso de facturas.
type InvoiceUseCase struct {
	repos Repositories
	tx    TxRunner
	opts  Options
	log   zerolog.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(repos Repositories, tx TxRunner, opts Options, log zerolog.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{repos: repos, tx: tx, opts: opts, log: log}
}

type invoiceInput struct {
	date, dueDate time.Time
	status        entity.InvoiceStatus
	lines         []entity.LineItem
}

func parseInvoiceRequest(in dto.InvoiceRequest) (invoiceInput, error) {
	var ii invoiceInput
	var err error
	if ii.date, err = parseDate("date", in.Date); err != nil {
		return ii, err
	}
	if ii.dueDate, err = parseDate("dueDate", in.DueDate); err != nil {
		return ii, err
	}
	if ii.dueDate.Before(ii.date) {
		return ii, domain.Invalid("la date d'échéance doit être postérieure à la date de facture")
	}
	ii.status = entity.InvoicePending
	if in.Status != "" {
		ii.status = entity.InvoiceStatus(in.Status)
		if !ii.status.Valid() {
			return ii, domain.Invalid("statut de facture inconnu : %s", in.Status)
		}
	}
	// Paid y PartiallyPaid solo se alcanzan registrando pagos.
	if ii.status == entity.InvoicePaid || ii.status == entity.InvoicePartiallyPaid {
		return ii, domain.Invalid("le statut %s est calculé à partir des paiements", ii.status)
	}
	ii.lines = linesFromDTO(in.Lines)
	if err := ledger.ValidateLines(ii.lines); err != nil {
		return ii, err
	}
	return ii, nil
}

// loadQuoteForClient verifica que el devis exista y pertenezca al cliente.
func loadQuoteForClient(ctx context.Context, r Repositories, quoteID, clientID string) (*entity.Quote, error) {
	if quoteID == "" {
		return nil, nil
	}
	q, err := r.Quotes.GetByID(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NotFound("devis", quoteID)
	}
	if q.ClientID != clientID {
		return nil, domain.Invalid("le devis %s n'appartient pas à ce client", q.Number)
	}
	return q, nil
}

// Create crea una factura independiente o ligada a un devis.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	ii, err := parseInvoiceRequest(in)
	if err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	var client *entity.Client
	var quote *entity.Quote
	err = uc.tx.RunBilling(ctx, func(r Repositories) error {
		client, err = r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NotFound("client", in.ClientID)
		}
		if quote, err = loadQuoteForClient(ctx, r, in.DevisID, client.ID); err != nil {
			return err
		}
		settings, err := r.Settings.Get(ctx)
		if err != nil {
			return err
		}
		number, err := nextNumber(ctx, r, repository.SequenceInvoice, uc.opts.invoicePrefix(settings))
		if err != nil {
			return err
		}
		conditions := in.Conditions
		if strings.TrimSpace(conditions) == "" {
			conditions = defaultConditions(settings)
		}
		totals := ledger.ComputeTotals(ii.lines)
		now := time.Now()
		inv = &entity.Invoice{
			ID:         uuid.New().String(),
			Number:     number,
			ClientID:   client.ID,
			QuoteID:    in.DevisID,
			Date:       ii.date,
			DueDate:    ii.dueDate,
			Status:     ii.status,
			Lines:      ii.lines,
			Conditions: conditions,
			Notes:      in.Notes,
			TotalHT:    totals.HT,
			TotalTTC:   totals.TTC,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, client, quote, nil), nil
}

// Get devuelve la factura con cliente, pagos, devis de origen y saldo.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("facture", id)
	}
	return uc.expand(ctx, inv, true)
}

func (uc *InvoiceUseCase) expand(ctx context.Context, inv *entity.Invoice, withQuote bool) (*dto.InvoiceResponse, error) {
	client, err := uc.repos.Clients.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	var quote *entity.Quote
	if withQuote && inv.QuoteID != "" {
		if quote, err = uc.repos.Quotes.GetByID(ctx, inv.QuoteID); err != nil {
			return nil, err
		}
	}
	payments, err := uc.repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, client, quote, payments), nil
}

// List lista facturas con cliente y saldo (sin detalle de pagos).
func (uc *InvoiceUseCase) List(ctx context.Context, query dto.InvoiceListQuery) ([]*dto.InvoiceResponse, error) {
	query.DefaultPage()
	status := entity.InvoiceStatus(query.Status)
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("statut de facture inconnu : %s", query.Status)
	}
	list, err := uc.repos.Invoices.List(ctx, repository.InvoiceFilter{
		ClientID: query.ClientID,
		QuoteID:  query.DevisID,
		Status:   status,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		resp, err := uc.expand(ctx, inv, false)
		if err != nil {
			return nil, err
		}
		resp.Payments = nil
		out = append(out, resp)
	}
	return out, nil
}

// Update reemplaza los datos de la factura. Una vez registrado un pago la
// factura es inmutable: solo los pagos pueden cambiar su estado.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	ii, err := parseInvoiceRequest(in)
	if err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	var client *entity.Client
	var quote *entity.Quote
	err = uc.tx.RunBilling(ctx, func(r Repositories) error {
		inv, err = r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFound("facture", id)
		}
		payments, err := r.Payments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		if len(payments) > 0 {
			return domain.State("une facture ayant des paiements ne peut plus être modifiée", map[string]any{
				"paymentCount": len(payments),
				"paymentIds":   paymentIDs(payments),
			})
		}
		if inv.IsDeposit && in.DevisID != inv.QuoteID {
			return domain.Invalid("une facture d'acompte reste liée à son devis")
		}
		client, err = r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NotFound("client", in.ClientID)
		}
		if quote, err = loadQuoteForClient(ctx, r, in.DevisID, client.ID); err != nil {
			return err
		}
		totals := ledger.ComputeTotals(ii.lines)
		if err := uc.checkQuoteCap(ctx, r, inv, in.DevisID, totals.TTC); err != nil {
			return err
		}
		inv.ClientID = client.ID
		inv.QuoteID = in.DevisID
		inv.Date = ii.date
		inv.DueDate = ii.dueDate
		inv.Status = ii.status
		inv.Lines = ii.lines
		inv.Conditions = in.Conditions
		inv.Notes = in.Notes
		inv.TotalHT = totals.HT
		inv.TotalTTC = totals.TTC
		inv.UpdatedAt = time.Now()
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, client, quote, nil), nil
}

// checkQuoteCap impide que la edición de un acompte, o de la factura de saldo
// de un devis con acomptes, supere el total del devis. El devis queda
// bloqueado hasta el fin de la transacción, igual que en CreateDeposit.
func (uc *InvoiceUseCase) checkQuoteCap(ctx context.Context, r Repositories, inv *entity.Invoice, quoteID string, total decimal.Decimal) error {
	if quoteID == "" {
		return nil
	}
	q, err := r.Quotes.GetForUpdate(ctx, quoteID)
	if err != nil {
		return err
	}
	if q == nil {
		return domain.NotFound("devis", quoteID)
	}
	linked, err := r.Invoices.ListByQuote(ctx, q.ID)
	if err != nil {
		return err
	}
	others := make([]*entity.Invoice, 0, len(linked))
	for _, d := range depositsOf(linked) {
		if d.ID != inv.ID {
			others = append(others, d)
		}
	}
	a := ledger.ComputeAllowance(q.TotalTTC, invoiceValues(others), uc.opts.maxDeposits())
	if inv.IsDeposit {
		// el acompte ya existe: solo cuenta el monto
		a.MaxCount = max(a.MaxCount, a.Count+1)
		return a.Check(total)
	}
	if len(others) == 0 || total.LessThanOrEqual(a.Remaining) {
		return nil
	}
	return &domain.Error{
		Kind:    domain.ErrInvalidArgument,
		Message: "le total dépasse le solde du devis après acomptes",
		Details: map[string]any{
			"requested":  total,
			"maxAllowed": a.Remaining,
			"quoteTotal": a.QuoteTotal,
			"allocated":  a.Allocated,
		},
	}
}

// Delete elimina la factura. Con pagos devuelve Conflict con conteo, ids y suma.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.RunBilling(ctx, func(r Repositories) error {
		inv, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.NotFound("facture", id)
		}
		payments, err := r.Payments.ListByInvoice(ctx, inv.ID)
		if err != nil {
			return err
		}
		if len(payments) > 0 {
			total := decimal.Zero
			for _, p := range payments {
				total = total.Add(p.Amount)
			}
			return domain.Conflict("impossible de supprimer une facture ayant des paiements", map[string]any{
				"paymentCount": len(payments),
				"paymentIds":   paymentIDs(payments),
				"totalAmount":  total,
			})
		}
		return r.Invoices.Delete(ctx, inv.ID)
	})
}

// RecheckStatus recalcula el estado de la factura a partir de sus pagos.
func (uc *InvoiceUseCase) RecheckStatus(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var before entity.InvoiceStatus
	var inv *entity.Invoice
	err := uc.tx.RunBilling(ctx, func(r Repositories) error {
		current, err := r.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NotFound("facture", id)
		}
		before = current.Status
		inv, _, err = reconcileInvoice(ctx, r, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if before != inv.Status {
		uc.log.Info().Str("invoice_id", inv.ID).Str("from", string(before)).Str("to", string(inv.Status)).Msg("estado de factura recalculado")
	}
	return uc.expand(ctx, inv, true)
}

// MarkOverdue pasa a Overdue las facturas pendientes o parcialmente pagadas vencidas antes de asOf.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := uc.repos.Invoices.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("count", n).Time("as_of", asOf).Msg("facturas marcadas como vencidas")
	return n, nil
}
