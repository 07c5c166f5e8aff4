package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
)

func TestQuoteCreate_TotalesYNumero(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")

	q := f.quote(t, c.ID, line("Conception", "2", "50"), line("Hébergement", "1", "30"))

	assert.Equal(t, "D-0001", q.Number)
	assert.Equal(t, "pending", q.Status)
	assert.True(t, dec("130").Equal(q.TotalHT))
	assert.True(t, dec("130").Equal(q.TotalTTC))
	assert.True(t, dec("100").Equal(q.Lines[0].Total))

	q2 := f.quote(t, c.ID, line("Autre", "1", "10"))
	assert.Equal(t, "D-0002", q2.Number)
}

func TestQuoteCreate_LineaInvalida(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")

	_, err := f.quotes.Create(f.ctx, dto.QuoteRequest{
		ClientID: c.ID, Date: "2024-03-01", ValidUntil: "2024-03-31",
		Lines: []dto.LineItemDTO{line("Conception", "0", "50")},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestQuoteCreate_ClienteInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.quotes.Create(f.ctx, dto.QuoteRequest{
		ClientID: "7a0c7d43-2a4b-4d1e-9d6e-1d2f3a4b5c6d", Date: "2024-03-01", ValidUntil: "2024-03-31",
		Lines: []dto.LineItemDTO{line("A", "1", "1")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteUpdate_BloqueadoTrasFacturar(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Conception", "1", "100"))

	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("30")})
	require.NoError(t, err)

	_, err = f.quotes.Update(f.ctx, q.ID, dto.QuoteRequest{
		ClientID: c.ID, Date: "2024-03-01", ValidUntil: "2024-03-31",
		Lines: []dto.LineItemDTO{line("Conception", "1", "200")},
	})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 1, domain.DetailsOf(err)["count"])

	got, err := f.quotes.Get(f.ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(got.TotalTTC), "el devis no cambió")
	assert.Len(t, got.Invoices, 1)
}

func TestQuoteDelete_ConflictoConFacturas(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Conception", "1", "100"))
	inv, err := f.quotes.Convert(f.ctx, q.ID)
	require.NoError(t, err)

	err = f.quotes.Delete(f.ctx, q.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	details := domain.DetailsOf(err)
	assert.Equal(t, []string{inv.ID}, details["invoiceIds"])
	assert.Equal(t, 1, details["count"])
}

func TestQuoteDelete_SinFacturas(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Conception", "1", "100"))

	require.NoError(t, f.quotes.Delete(f.ctx, q.ID))
	_, err := f.quotes.Get(f.ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuoteConvert_CopiaLineasYAcepta(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Conception", "2", "50"), line("Hébergement", "1", "30"))

	inv, err := f.quotes.Convert(f.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "F-0001", inv.Number)
	assert.Equal(t, q.ID, inv.DevisID)
	assert.False(t, inv.IsDeposit)
	assert.Len(t, inv.Lines, 2)
	assert.True(t, dec("130").Equal(inv.TotalTTC))

	got, err := f.quotes.Get(f.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", got.Status)

	_, err = f.quotes.Convert(f.ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se convierte dos veces")
}

func TestQuoteConvert_FacturaSaldoTrasAcompte(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Conception", "1", "1000"))
	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("300")})
	require.NoError(t, err)

	inv, err := f.quotes.Convert(f.ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, inv.Lines, 1)
	assert.Equal(t, "Solde du devis "+q.Number, inv.Lines[0].Description)
	assert.True(t, dec("700").Equal(inv.TotalTTC))
}

func TestQuoteConvert_RechazadoSiRefusado(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q, err := f.quotes.Create(f.ctx, dto.QuoteRequest{
		ClientID: c.ID, Date: "2024-03-01", ValidUntil: "2024-03-31", Status: "refused",
		Lines: []dto.LineItemDTO{line("A", "1", "10")},
	})
	require.NoError(t, err)

	_, err = f.quotes.Convert(f.ctx, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestExpireQuotes(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("A", "1", "10"))

	n, err := f.quotes.ExpireQuotes(f.ctx, mustDate(t, "2024-04-15"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := f.quotes.Get(f.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "expired", got.Status)
}
