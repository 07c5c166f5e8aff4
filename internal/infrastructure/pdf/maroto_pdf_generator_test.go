package pdf

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

func sampleDocument(docType string) *dto.PrintDocument {
	return &dto.PrintDocument{
		Type:      docType,
		Title:     "FACTURE",
		Reference: "F-2024-0001",
		Date:      "2024-03-01",
		DueDate:   "2024-03-31",
		DueLabel:  "Échéance",
		Status:    "En attente",
		Company:   dto.PrintParty{Name: "Atelier Durand", Lines: []string{"1 rue de la Paix", "75002 Paris"}, SIRET: "12345678900011"},
		Client:    dto.PrintParty{Name: "ACME", Lines: []string{"Lyon"}, Email: "contact@acme.fr"},
		Lines: []dto.LineItemDTO{
			{Description: "Développement", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("400"), Total: decimal.RequireFromString("1200")},
			{Description: "Frais", Quantity: decimal.RequireFromString("0.5"), UnitPrice: decimal.RequireFromString("100"), Total: decimal.RequireFromString("50")},
		},
		Total:         decimal.RequireFromString("1250"),
		Paid:          decimal.RequireFromString("400"),
		Remaining:     decimal.RequireFromString("850"),
		Conditions:    "Paiement à 30 jours",
		LegalMentions: "TVA non applicable, art. 293 B du CGI",
		Currency:      "EUR",
	}
}

func TestGenerate_ProducePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	for _, docType := range []string{dto.PrintQuote, dto.PrintInvoice, dto.PrintPayment} {
		out, err := g.Generate(sampleDocument(docType), nil)
		require.NoError(t, err, docType)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), docType)
	}
}

func TestGenerate_DocumentoNil(t *testing.T) {
	_, err := NewMarotoPDFGenerator().Generate(nil, nil)
	assert.Error(t, err)
}

func TestLogoExtension(t *testing.T) {
	_, ok := logoExtension(nil)
	assert.False(t, ok)

	_, ok = logoExtension([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	assert.False(t, ok, "SVG no es soportado por el PDF")

	ext, ok := logoExtension([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	assert.True(t, ok)
	assert.Equal(t, "png", string(ext))
}

func TestMoney_FormatoFrances(t *testing.T) {
	g := NewMarotoPDFGenerator()
	s := g.money(decimal.RequireFromString("1234.5"), "€")
	assert.Contains(t, s, "234,50")
	assert.NotContains(t, s, "\u202f")
	assert.True(t, len(s) > 0 && s[len(s)-len("€"):] == "€")
}

func TestFrenchDate(t *testing.T) {
	assert.Equal(t, "31/03/2024", frenchDate("2024-03-31"))
	assert.Equal(t, "", frenchDate(""))
}
