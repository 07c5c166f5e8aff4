package billing_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/mocks"
)

func TestPrintDocument_Factura(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	q := f.quote(t, c.ID, line("Chantier", "1", "1000"))
	dep, err := f.deposits.CreateDeposit(f.ctx, dto.DepositRequest{DevisID: q.ID, Montant: dec("250")})
	require.NoError(t, err)
	f.pay(t, dep.ID, "100")

	uc := billing.NewPrintUseCase(f.store.Repositories(), new(mocks.MockObjectStorage), new(mocks.MockPDFGenerator), billing.DefaultOptions(), zerolog.Nop())
	doc, err := uc.Document(f.ctx, dto.PrintInvoice, dep.ID)
	require.NoError(t, err)

	assert.Equal(t, "FACTURE D'ACOMPTE", doc.Title)
	assert.Equal(t, dep.Number, doc.Reference)
	assert.Equal(t, q.Number, doc.RelatedRef)
	assert.Equal(t, "Partiellement payée", doc.Status)
	assert.True(t, dec("150").Equal(doc.Remaining))
	assert.Equal(t, "EUR", doc.Currency)
	assert.Equal(t, "acme", doc.Client.Name)
}

func TestPrintDocument_TipoDesconocido(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewPrintUseCase(f.store.Repositories(), nil, nil, billing.DefaultOptions(), zerolog.Nop())
	_, err := uc.Document(f.ctx, "bon", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestPrintPDF_Recibo(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	inv := f.invoice(t, c.ID, line("A", "1", "100"))
	p := f.pay(t, inv.ID, "100")

	gen := new(mocks.MockPDFGenerator)
	gen.On("Generate", mock.MatchedBy(func(d *dto.PrintDocument) bool {
		return d.Type == dto.PrintPayment && d.RelatedRef == inv.Number && d.Remaining.IsZero()
	}), []byte(nil)).Return([]byte("%PDF"), nil).Once()

	uc := billing.NewPrintUseCase(f.store.Repositories(), new(mocks.MockObjectStorage), gen, billing.DefaultOptions(), zerolog.Nop())
	out, doc, err := uc.PDF(f.ctx, dto.PrintPayment, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
	assert.Equal(t, p.Reference, doc.Reference)
	gen.AssertExpectations(t)
}
