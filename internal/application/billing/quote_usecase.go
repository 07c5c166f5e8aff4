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

// QuoteUseCase casos de uso de devis: CRUD, conversión en factura y expiración.
type QuoteUseCase struct {
	repos Repositories
	tx    TxRunner
	opts  Options
	log   zerolog.Logger
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(repos Repositories, tx TxRunner, opts Options, log zerolog.Logger) *QuoteUseCase {
	return &QuoteUseCase{repos: repos, tx: tx, opts: opts, log: log}
}

// quoteInput datos validados de un QuoteRequest.
type quoteInput struct {
	date, validUntil time.Time
	status           entity.QuoteStatus
	lines            []entity.LineItem
}

func parseQuoteRequest(in dto.QuoteRequest) (quoteInput, error) {
	var qi quoteInput
	var err error
	if qi.date, err = parseDate("date", in.Date); err != nil {
		return qi, err
	}
	if qi.validUntil, err = parseDate("validUntil", in.ValidUntil); err != nil {
		return qi, err
	}
	if qi.validUntil.Before(qi.date) {
		return qi, domain.Invalid("la date de validité doit être postérieure à la date du devis")
	}
	qi.status = entity.QuotePending
	if in.Status != "" {
		qi.status = entity.QuoteStatus(in.Status)
		if !qi.status.Valid() {
			return qi, domain.Invalid("statut de devis inconnu : %s", in.Status)
		}
	}
	qi.lines = linesFromDTO(in.Lines)
	if err := ledger.ValidateLines(qi.lines); err != nil {
		return qi, err
	}
	return qi, nil
}

// Create valida las líneas, calcula los totales y numera el devis dentro de la misma transacción.
func (uc *QuoteUseCase) Create(ctx context.Context, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	qi, err := parseQuoteRequest(in)
	if err != nil {
		return nil, err
	}
	var q *entity.Quote
	var client *entity.Client
	err = uc.tx.RunBilling(ctx, func(r Repositories) error {
		client, err = r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NotFound("client", in.ClientID)
		}
		settings, err := r.Settings.Get(ctx)
		if err != nil {
			return err
		}
		number, err := nextNumber(ctx, r, repository.SequenceQuote, uc.opts.quotePrefix(settings))
		if err != nil {
			return err
		}
		conditions := in.Conditions
		if strings.TrimSpace(conditions) == "" {
			conditions = defaultConditions(settings)
		}
		totals := ledger.ComputeTotals(qi.lines)
		now := time.Now()
		q = &entity.Quote{
			ID:         uuid.New().String(),
			Number:     number,
			ClientID:   client.ID,
			Date:       qi.date,
			ValidUntil: qi.validUntil,
			Status:     qi.status,
			Lines:      qi.lines,
			Conditions: conditions,
			Notes:      in.Notes,
			TotalHT:    totals.HT,
			TotalTTC:   totals.TTC,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return r.Quotes.Create(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, client, nil), nil
}

// Get devuelve el devis con su cliente y el resumen de las facturas derivadas.
func (uc *QuoteUseCase) Get(ctx context.Context, id string) (*dto.QuoteResponse, error) {
	q, err := uc.repos.Quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NotFound("devis", id)
	}
	client, err := uc.repos.Clients.GetByID(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}
	invoices, err := uc.repos.Invoices.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, client, invoices), nil
}

// List lista devis (más recientes primero) con su cliente.
func (uc *QuoteUseCase) List(ctx context.Context, query dto.QuoteListQuery) ([]*dto.QuoteResponse, error) {
	query.DefaultPage()
	status := entity.QuoteStatus(query.Status)
	if status != "" && !status.Valid() {
		return nil, domain.Invalid("statut de devis inconnu : %s", query.Status)
	}
	list, err := uc.repos.Quotes.List(ctx, repository.QuoteFilter{
		ClientID: query.ClientID,
		Status:   status,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, err
	}
	clients := map[string]*entity.Client{}
	out := make([]*dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		c, ok := clients[q.ClientID]
		if !ok {
			if c, err = uc.repos.Clients.GetByID(ctx, q.ClientID); err != nil {
				return nil, err
			}
			clients[q.ClientID] = c
		}
		out = append(out, toQuoteResponse(q, c, nil))
	}
	return out, nil
}

// Update reemplaza los datos del devis. Rechazado con InvalidState si ya existe una factura que lo referencia.
func (uc *QuoteUseCase) Update(ctx context.Context, id string, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	qi, err := parseQuoteRequest(in)
	if err != nil {
		return nil, err
	}
	var q *entity.Quote
	var client *entity.Client
	err = uc.tx.RunBilling(ctx, func(r Repositories) error {
		q, err = r.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.NotFound("devis", id)
		}
		invoices, err := r.Invoices.ListByQuote(ctx, q.ID)
		if err != nil {
			return err
		}
		if len(invoices) > 0 {
			return domain.State("ce devis a déjà été facturé et ne peut plus être modifié", blockingInvoices(invoices))
		}
		client, err = r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.NotFound("client", in.ClientID)
		}
		totals := ledger.ComputeTotals(qi.lines)
		q.ClientID = client.ID
		q.Date = qi.date
		q.ValidUntil = qi.validUntil
		q.Status = qi.status
		q.Lines = qi.lines
		q.Conditions = in.Conditions
		q.Notes = in.Notes
		q.TotalHT = totals.HT
		q.TotalTTC = totals.TTC
		q.UpdatedAt = time.Now()
		return r.Quotes.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, client, nil), nil
}

// Delete elimina el devis. Con facturas derivadas devuelve Conflict con sus ids.
func (uc *QuoteUseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.RunBilling(ctx, func(r Repositories) error {
		q, err := r.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.NotFound("devis", id)
		}
		invoices, err := r.Invoices.ListByQuote(ctx, q.ID)
		if err != nil {
			return err
		}
		if len(invoices) > 0 {
			return domain.Conflict("impossible de supprimer un devis lié à des factures", blockingInvoices(invoices))
		}
		return r.Quotes.Delete(ctx, q.ID)
	})
}

// Convert genera la factura final del devis y lo marca como aceptado.
// Sin acomptes copia las líneas del devis; con acomptes factura solo el saldo restante.
func (uc *QuoteUseCase) Convert(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	var q *entity.Quote
	var client *entity.Client
	err := uc.tx.RunBilling(ctx, func(r Repositories) error {
		var err error
		q, err = r.Quotes.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.NotFound("devis", id)
		}
		if q.Status == entity.QuoteRefused || q.Status == entity.QuoteExpired {
			return domain.State("un devis refusé ou expiré ne peut pas être converti", map[string]any{"status": q.Status})
		}
		existing, err := r.Invoices.ListByQuote(ctx, q.ID)
		if err != nil {
			return err
		}
		var deposits []*entity.Invoice
		for _, e := range existing {
			if !e.IsDeposit {
				return domain.State("ce devis a déjà été converti en facture", map[string]any{"invoiceId": e.ID, "number": e.Number})
			}
			deposits = append(deposits, e)
		}
		lines := append([]entity.LineItem(nil), q.Lines...)
		if len(deposits) > 0 {
			allowance := ledger.ComputeAllowance(q.TotalTTC, invoiceValues(deposits), uc.opts.maxDeposits())
			if !allowance.Remaining.IsPositive() {
				return domain.State("le devis est entièrement couvert par les acomptes", map[string]any{
					"quoteTotal": allowance.QuoteTotal,
					"allocated":  allowance.Allocated,
				})
			}
			lines = []entity.LineItem{balanceLine(q, allowance.Remaining)}
		}

		settings, err := r.Settings.Get(ctx)
		if err != nil {
			return err
		}
		number, err := nextNumber(ctx, r, repository.SequenceInvoice, uc.opts.invoicePrefix(settings))
		if err != nil {
			return err
		}
		totals := ledger.ComputeTotals(lines)
		now := time.Now()
		date := today()
		inv = &entity.Invoice{
			ID:         uuid.New().String(),
			Number:     number,
			ClientID:   q.ClientID,
			QuoteID:    q.ID,
			Date:       date,
			DueDate:    uc.opts.dueDate(settings, date),
			Status:     entity.InvoicePending,
			Lines:      lines,
			Conditions: q.Conditions,
			Notes:      q.Notes,
			TotalHT:    totals.HT,
			TotalTTC:   totals.TTC,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		q.Status = entity.QuoteAccepted
		q.UpdatedAt = now
		if err := r.Quotes.Update(ctx, q); err != nil {
			return err
		}
		client, err = r.Clients.GetByID(ctx, q.ClientID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("quote_id", q.ID).Str("invoice_id", inv.ID).Str("number", inv.Number).Msg("devis convertido en factura")
	return toInvoiceResponse(inv, client, q, nil), nil
}

// ExpireQuotes pasa a Expired los devis pendientes cuya validez terminó antes de asOf.
func (uc *QuoteUseCase) ExpireQuotes(ctx context.Context, asOf time.Time) (int64, error) {
	n, err := uc.repos.Quotes.ExpirePending(ctx, asOf)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Int64("count", n).Time("as_of", asOf).Msg("devis expirados")
	return n, nil
}

// balanceLine línea única de la factura de saldo tras acomptes.
func balanceLine(q *entity.Quote, amount decimal.Decimal) entity.LineItem {
	return entity.LineItem{
		Description: "Solde du devis " + q.Number,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   amount,
	}
}

func blockingInvoices(invoices []*entity.Invoice) map[string]any {
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		ids = append(ids, inv.ID)
	}
	return map[string]any{"invoiceIds": ids, "count": len(ids)}
}
