package dto

import "github.com/shopspring/decimal"

// Tipos de documento imprimibles.
const (
	PrintQuote   = "devis"
	PrintInvoice = "facture"
	PrintPayment = "paiement"
)

// PrintParty bloque emisor o destinatario.
type PrintParty struct {
	Name    string   `json:"name"`
	Lines   []string `json:"lines"` // dirección y contacto ya formateados
	SIRET   string   `json:"siret,omitempty"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	LogoURL string   `json:"logoUrl,omitempty"`
}

// PrintDocument proyección normalizada de un devis, factura o recibo de pago.
type PrintDocument struct {
	Type          string          `json:"type"`
	Title         string          `json:"title"`
	Reference     string          `json:"reference"`
	Date          string          `json:"date"`
	DueDate       string          `json:"dueDate,omitempty"`
	DueLabel      string          `json:"dueLabel,omitempty"`
	Status        string          `json:"status"`
	Company       PrintParty      `json:"company"`
	Client        PrintParty      `json:"client"`
	Lines         []LineItemDTO   `json:"lines"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Remaining     decimal.Decimal `json:"remaining"`
	RelatedRef    string          `json:"relatedReference,omitempty"`
	Conditions    string          `json:"conditions,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	LegalMentions string          `json:"legalMentions,omitempty"`
	Currency      string          `json:"currency"`
}

// PrintQuery parámetros de GET /api/print.
type PrintQuery struct {
	Type   string `query:"type" validate:"required,oneof=devis facture paiement"`
	ID     string `query:"id" validate:"required,uuid"`
	Format string `query:"format" validate:"omitempty,oneof=json pdf"`
}
