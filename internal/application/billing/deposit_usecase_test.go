package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
)

func TestCreateDeposit_SuperaTotal(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))

	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("1200")})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
	maxAllowed, ok := domain.DetailsOf(err)["maxAllowed"].(decimal.Decimal)
	require.True(t, ok)
	assert.True(t, dec("1000").Equal(maxAllowed))
}

func TestCreateDeposit_SecuenciaHastaAgotarMargen(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))

	for i := 0; i < 2; i++ {
		inv, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("400")})
		require.NoError(t, err)
		assert.True(t, inv.IsDeposit)
		assert.Equal(t, q.ID, inv.DevisID)
	}
	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("400")})
	require.ErrorIs(t, err, domain.ErrInvalidArgument, "800 + 400 supera 1000")

	list, err := f.deposits.ListDeposits(f.ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)
	assert.True(t, dec("200").Equal(list.Remaining))
	assert.Equal(t, "Acompte n°2 sur devis "+q.Number, mustInvoiceLine(t, f, list.Deposits[1].ID))
}

func mustInvoiceLine(t *testing.T, f *fixture, id string) string {
	t.Helper()
	inv, err := f.invoices.Get(f.ctx, id)
	require.NoError(t, err)
	require.Len(t, inv.Lines, 1)
	return inv.Lines[0].Description
}

func TestCreateDeposit_MaximoDeAcomptes(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))

	for i := 0; i < 4; i++ {
		_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("100")})
		require.NoError(t, err)
	}
	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("100")})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, 4, domain.DetailsOf(err)["maxCount"])
}

func TestCreateDeposit_MaximoConfigurable(t *testing.T) {
	f := newFixture(t, func(o *billing.Options) { o.MaxDeposits = 1 })
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))

	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("100")})
	require.NoError(t, err)
	_, err = f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("100")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCreateDeposit_DevisInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: "5b0c7d43-2a4b-4d1e-9d6e-1d2f3a4b5c6d", Montant: dec("10")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSuggestions(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1200"))
	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("500")})
	require.NoError(t, err)

	sugg, err := f.deposits.Suggestions(f.ctx, q.ID)
	require.NoError(t, err)
	labels := make([]string, 0, len(sugg))
	for _, s := range sugg {
		labels = append(labels, s.Label)
	}
	assert.Equal(t, []string{"1/4", "1/3", "1/2", "solde"}, labels)
	assert.True(t, dec("700").Equal(sugg[len(sugg)-1].Amount))
}

// Escenario completo: devis de 130 €, acompte de 65 €, el devis ya no se puede borrar.
func TestEscenarioAcme(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "Acme")
	q := f.quote(t, c.ID, line("Conception", "2", "50"), line("Hébergement", "1", "30"))
	require.True(t, dec("130").Equal(q.TotalTTC))

	dep, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("65")})
	require.NoError(t, err)
	assert.True(t, dec("65").Equal(dep.TotalTTC))
	assert.Equal(t, "pending", dep.Status)

	err = f.quotes.Delete(f.ctx, q.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, domain.DetailsOf(err)["count"])
	assert.Equal(t, []string{dep.ID}, domain.DetailsOf(err)["invoiceIds"])

	f.pay(t, dep.ID, "65")
	got, err := f.invoices.Get(f.ctx, dep.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", got.Status)

	err = f.clients.Delete(f.ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, map[string]any{"devis": 1, "factures": 1, "paiements": 1}, domain.DetailsOf(err))
}

func depositEdit(clientID, quoteID string, lines ...dto.LineItemDTO) dto.InvoiceRequest {
	return dto.InvoiceRequest{
		ClientID: clientID,
		DevisID:  quoteID,
		Date:     "2024-03-01",
		DueDate:  "2024-03-31",
		Lines:    lines,
	}
}

func TestUpdateDeposit_NoSuperaTotalDelDevis(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))
	dep, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("400")})
	require.NoError(t, err)

	_, err = f.invoices.Update(f.ctx, dep.ID, depositEdit(c.ID, q.ID, line("Acompte", "1", "5000")))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	list, err := f.deposits.ListDeposits(f.ctx, q.ID)
	require.NoError(t, err)
	assert.True(t, dec("400").Equal(list.Allocated), "el acompte rechazado no cambia")

	// hasta el total del devis sí se permite
	upd, err := f.invoices.Update(f.ctx, dep.ID, depositEdit(c.ID, q.ID, line("Acompte", "1", "1000")))
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(upd.TotalTTC))
}

func TestUpdateDeposit_CuentaLosDemasAcomptes(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))
	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("700")})
	require.NoError(t, err)
	second, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("200")})
	require.NoError(t, err)

	_, err = f.invoices.Update(f.ctx, second.ID, depositEdit(c.ID, q.ID, line("Acompte", "1", "301")))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.invoices.Update(f.ctx, second.ID, depositEdit(c.ID, q.ID, line("Acompte", "1", "300")))
	assert.NoError(t, err)
}

func TestUpdateDeposit_MaximoAlcanzadoPermiteEditar(t *testing.T) {
	f := newFixture(t, func(o *billing.Options) { o.MaxDeposits = 1 })
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))
	dep, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("100")})
	require.NoError(t, err)

	upd, err := f.invoices.Update(f.ctx, dep.ID, depositEdit(c.ID, q.ID, line("Acompte", "1", "150")))
	require.NoError(t, err)
	assert.True(t, dec("150").Equal(upd.TotalTTC))
}

func TestUpdateFacturaDeSaldo_NoSuperaElResto(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))
	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("300")})
	require.NoError(t, err)
	balance, err := f.quotes.Convert(f.ctx, q.ID)
	require.NoError(t, err)
	require.True(t, dec("700").Equal(balance.TotalTTC))

	_, err = f.invoices.Update(f.ctx, balance.ID, depositEdit(c.ID, q.ID, line("Solde", "1", "900")))
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.invoices.Update(f.ctx, balance.ID, depositEdit(c.ID, q.ID, line("Solde", "1", "650")))
	assert.NoError(t, err)
}

// Cada sugerencia, incluido el solde, debe poder facturarse tal cual.
func TestCreateDeposit_DesdeCadaSugerencia(t *testing.T) {
	setup := func(t *testing.T) (*fixture, string) {
		f := newFixture(t)
		c := f.client(t, "acme")
		q := f.quote(t, c.ID, line("Heures", "1.5", "33.33"))
		require.True(t, dec("50").Equal(q.TotalTTC), "el total se redondea al céntimo")
		return f, q.ID
	}

	f, quoteID := setup(t)
	sugg, err := f.deposits.Suggestions(f.ctx, quoteID)
	require.NoError(t, err)
	require.NotEmpty(t, sugg)

	for i, s := range sugg {
		t.Run(s.Label, func(t *testing.T) {
			f, quoteID := setup(t)
			fresh, err := f.deposits.Suggestions(f.ctx, quoteID)
			require.NoError(t, err)
			amount := fresh[i].Amount
			assert.True(t, amount.Equal(amount.Round(2)))

			inv, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: quoteID, Montant: amount})
			require.NoError(t, err)
			assert.True(t, amount.Equal(inv.TotalTTC))
		})
	}
}

func TestCreateDeposit_MasDeDosDecimales(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))

	_, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: decimal.RequireFromString("100.005")})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
