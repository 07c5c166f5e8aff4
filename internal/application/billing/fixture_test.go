package billing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/memory"
)

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	clients  *billing.ClientUseCase
	quotes   *billing.QuoteUseCase
	invoices *billing.InvoiceUseCase
	payments *billing.PaymentUseCase
	deposits *billing.DepositUseCase
}

func newFixture(t *testing.T, opts ...func(*billing.Options)) *fixture {
	t.Helper()
	o := billing.DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	st := memory.NewStore()
	repos := st.Repositories()
	log := zerolog.Nop()
	return &fixture{
		ctx:      context.Background(),
		store:    st,
		clients:  billing.NewClientUseCase(repos.Clients),
		quotes:   billing.NewQuoteUseCase(repos, st, o, log),
		invoices: billing.NewInvoiceUseCase(repos, st, o, log),
		payments: billing.NewPaymentUseCase(repos, st, o, log),
		deposits: billing.NewDepositUseCase(repos, st, o, log),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(desc, qty, price string) dto.LineItemDTO {
	return dto.LineItemDTO{Description: desc, Quantity: dec(qty), UnitPrice: dec(price)}
}

func (f *fixture) client(t *testing.T, name string) *dto.ClientResponse {
	t.Helper()
	c, err := f.clients.Create(f.ctx, dto.ClientRequest{Name: name, Email: "contact@" + name + ".fr"})
	require.NoError(t, err)
	return c
}

func (f *fixture) quote(t *testing.T, clientID string, lines ...dto.LineItemDTO) *dto.QuoteResponse {
	t.Helper()
	q, err := f.quotes.Create(f.ctx, dto.QuoteRequest{
		ClientID:   clientID,
		Date:       "2024-03-01",
		ValidUntil: "2024-03-31",
		Lines:      lines,
	})
	require.NoError(t, err)
	return q
}

func (f *fixture) invoice(t *testing.T, clientID string, lines ...dto.LineItemDTO) *dto.InvoiceResponse {
	t.Helper()
	inv, err := f.invoices.Create(f.ctx, dto.InvoiceRequest{
		ClientID: clientID,
		Date:     "2024-03-01",
		DueDate:  "2024-03-31",
		Lines:    lines,
	})
	require.NoError(t, err)
	return inv
}

func (f *fixture) pay(t *testing.T, invoiceID, amount string) *dto.PaymentResponse {
	t.Helper()
	p, err := f.payments.Create(f.ctx, dto.PaymentRequest{
		InvoiceID: invoiceID,
		Date:      "2024-03-10",
		Amount:    dec(amount),
		Method:    "bank_transfer",
	})
	require.NoError(t, err)
	return p
}
