package billing

import (
	"context"
	"fmt"
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

// DepositUseCase facturas de acompte sobre un devis.
type DepositUseCase struct {
	repos Repositories
	tx    TxRunner
	opts  Options
	log   zerolog.Logger
}

// NewDepositUseCase construye el caso de uso.
func NewDepositUseCase(repos Repositories, tx TxRunner, opts Options, log zerolog.Logger) *DepositUseCase {
	return &DepositUseCase{repos: repos, tx: tx, opts: opts, log: log}
}

func depositsOf(invoices []*entity.Invoice) []*entity.Invoice {
	out := make([]*entity.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.IsDeposit {
			out = append(out, inv)
		}
	}
	return out
}

func (uc *DepositUseCase) allowance(ctx context.Context, r Repositories, q *entity.Quote) (ledger.DepositAllowance, []*entity.Invoice, error) {
	invoices, err := r.Invoices.ListByQuote(ctx, q.ID)
	if err != nil {
		return ledger.DepositAllowance{}, nil, err
	}
	deposits := depositsOf(invoices)
	return ledger.ComputeAllowance(q.TotalTTC, invoiceValues(deposits), uc.opts.maxDeposits()), deposits, nil
}

func (uc *DepositUseCase) loadQuote(ctx context.Context, id string) (*entity.Quote, error) {
	q, err := uc.repos.Quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NotFound("devis", id)
	}
	return q, nil
}

// ListDeposits devuelve los acomptes del devis y el margen restante.
func (uc *DepositUseCase) ListDeposits(ctx context.Context, quoteID string) (*dto.DepositListResponse, error) {
	q, err := uc.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	a, deposits, err := uc.allowance(ctx, uc.repos, q)
	if err != nil {
		return nil, err
	}
	list := make([]dto.InvoiceSummaryDTO, 0, len(deposits))
	for _, d := range deposits {
		list = append(list, toInvoiceSummary(d.Summary()))
	}
	return &dto.DepositListResponse{
		DevisID:    q.ID,
		QuoteTotal: a.QuoteTotal,
		Allocated:  a.Allocated,
		Remaining:  a.Remaining,
		Count:      a.Count,
		MaxCount:   a.MaxCount,
		Deposits:   list,
	}, nil
}

// Suggestions fracciones habituales del total que aún caben en el margen.
func (uc *DepositUseCase) Suggestions(ctx context.Context, quoteID string) ([]dto.DepositSuggestionDTO, error) {
	q, err := uc.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	a, _, err := uc.allowance(ctx, uc.repos, q)
	if err != nil {
		return nil, err
	}
	sugg := a.Suggestions()
	out := make([]dto.DepositSuggestionDTO, 0, len(sugg))
	for _, s := range sugg {
		out = append(out, dto.DepositSuggestionDTO{Label: s.Label, Amount: s.Amount})
	}
	return out, nil
}

// CreateDeposit emite una factura de acompte por amount. El devis queda bloqueado
// durante la transacción para que dos acomptes simultáneos no superen el total.
func (uc *DepositUseCase) CreateDeposit(ctx context.Context, in dto.DepositRequest) (*dto.InvoiceResponse, error) {
	amount := in.Montant
	if err := ledger.ValidateAmount("le montant de l'acompte", amount); err != nil {
		return nil, err
	}
	var inv *entity.Invoice
	var q *entity.Quote
	var client *entity.Client
	err := uc.tx.RunBilling(ctx, func(r Repositories) error {
		var err error
		q, err = r.Quotes.GetForUpdate(ctx, in.DevisID)
		if err != nil {
			return err
		}
		if q == nil {
			return domain.NotFound("devis", in.DevisID)
		}
		if q.Status == entity.QuoteRefused || q.Status == entity.QuoteExpired {
			return domain.State("impossible de facturer un acompte sur un devis refusé ou expiré", map[string]any{"status": q.Status})
		}
		a, _, err := uc.allowance(ctx, r, q)
		if err != nil {
			return err
		}
		if err := a.Check(amount); err != nil {
			return err
		}
		client, err = r.Clients.GetByID(ctx, q.ClientID)
		if err != nil {
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
		lines := []entity.LineItem{{
			Description: fmt.Sprintf("Acompte n°%d sur devis %s", a.Count+1, q.Number),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   amount,
		}}
		totals := ledger.ComputeTotals(lines)
		now := time.Now()
		date := today()
		inv = &entity.Invoice{
			ID:         uuid.New().String(),
			Number:     number,
			ClientID:   q.ClientID,
			QuoteID:    q.ID,
			IsDeposit:  true,
			Date:       date,
			DueDate:    uc.opts.dueDate(settings, date),
			Status:     entity.InvoicePending,
			Lines:      lines,
			Conditions: defaultConditions(settings),
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
	uc.log.Info().Str("quote_id", q.ID).Str("invoice_id", inv.ID).Str("amount", amount.String()).Msg("acompte emitido")
	return toInvoiceResponse(inv, client, q, nil), nil
}
