package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := dto.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestInvoiceCreate_DevisDeOtroCliente(t *testing.T) {
	f := newFixture(t)
	a := f.client(t, "acme")
	b := f.client(t, "globex")
	q := f.quote(t, a.ID, line("A", "1", "10"))

	_, err := f.invoices.Create(f.ctx, dto.InvoiceRequest{
		ClientID: b.ID, DevisID: q.ID, Date: "2024-03-01", DueDate: "2024-03-31",
		Lines: []dto.LineItemDTO{line("A", "1", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestInvoiceCreate_EstadoPagadoNoPermitido(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	_, err := f.invoices.Create(f.ctx, dto.InvoiceRequest{
		ClientID: c.ID, Date: "2024-03-01", DueDate: "2024-03-31", Status: "paid",
		Lines: []dto.LineItemDTO{line("A", "1", "10")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestInvoiceDelete_ConflictoConPagos(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	inv := f.invoice(t, c.ID, line("Prestation", "1", "200"))
	p1 := f.pay(t, inv.ID, "100")
	p2 := f.pay(t, inv.ID, "50")

	err := f.invoices.Delete(f.ctx, inv.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	details := domain.DetailsOf(err)
	assert.Equal(t, 2, details["paymentCount"])
	assert.ElementsMatch(t, []string{p1.ID, p2.ID}, details["paymentIds"])
	assert.True(t, dec("150").Equal(details["totalAmount"].(decimal.Decimal)))
}

func TestInvoiceDelete_SinPagos(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	inv := f.invoice(t, c.ID, line("Prestation", "1", "200"))

	require.NoError(t, f.invoices.Delete(f.ctx, inv.ID))
	_, err := f.invoices.Get(f.ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUpdate_InmutableConPagos(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	inv := f.invoice(t, c.ID, line("Prestation", "1", "200"))
	f.pay(t, inv.ID, "10")

	_, err := f.invoices.Update(f.ctx, inv.ID, dto.InvoiceRequest{
		ClientID: c.ID, Date: "2024-03-01", DueDate: "2024-03-31",
		Lines: []dto.LineItemDTO{line("Prestation", "1", "5")},
	})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 1, domain.DetailsOf(err)["paymentCount"])
}

func TestInvoiceUpdate_RecalculaTotales(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	inv := f.invoice(t, c.ID, line("Prestation", "1", "200"))

	got, err := f.invoices.Update(f.ctx, inv.ID, dto.InvoiceRequest{
		ClientID: c.ID, Date: "2024-03-01", DueDate: "2024-03-31",
		Lines: []dto.LineItemDTO{line("Prestation", "3", "12.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, inv.Number, got.Number)
	assert.True(t, dec("37.5").Equal(got.TotalTTC))
}

func TestInvoiceGet_SaldoYPagos(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	inv := f.invoice(t, c.ID, line("Prestation", "1", "200"))
	f.pay(t, inv.ID, "80")

	got, err := f.invoices.Get(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.True(t, dec("80").Equal(got.Paid))
	assert.True(t, dec("120").Equal(got.Remaining))
	assert.Len(t, got.Payments, 1)
	require.NotNil(t, got.Client)
	assert.Equal(t, "acme", got.Client.Name)
}

func TestInvoiceMarkOverdue(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	pending := f.invoice(t, c.ID, line("A", "1", "100"))
	partial := f.invoice(t, c.ID, line("B", "1", "100"))
	paid := f.invoice(t, c.ID, line("C", "1", "100"))
	f.pay(t, partial.ID, "10")
	f.pay(t, paid.ID, "100")

	n, err := f.invoices.MarkOverdue(f.ctx, mustDate(t, "2024-04-15"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	for id, want := range map[string]string{pending.ID: "overdue", partial.ID: "overdue", paid.ID: "paid"} {
		got, err := f.invoices.Get(f.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status)
	}
}

func TestInvoiceRecheckStatus(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	inv := f.invoice(t, c.ID, line("A", "1", "100"))
	f.pay(t, inv.ID, "100")

	got, err := f.invoices.RecheckStatus(f.ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)
	assert.True(t, got.Remaining.IsZero())
}
