package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRequest body para POST/PUT /api/factures.
type InvoiceRequest struct {
	ClientID   string        `json:"clientId" validate:"required,uuid"`
	DevisID    string        `json:"devisId" validate:"omitempty,uuid"`
	Date       string        `json:"date" validate:"required"`
	DueDate    string        `json:"dueDate" validate:"required"`
	Status     string        `json:"status" validate:"omitempty,oneof=pending partially_paid paid overdue cancelled"`
	Lines      []LineItemDTO `json:"lines" validate:"required,min=1,dive"`
	Conditions string        `json:"conditions"`
	Notes      string        `json:"notes"`
}

// InvoiceResponse factura con cliente, pagos, devis de origen y saldo.
type InvoiceResponse struct {
	ID         string            `json:"id"`
	Number     string            `json:"number"`
	ClientID   string            `json:"clientId"`
	Client     *ClientSummary    `json:"client,omitempty"`
	DevisID    string            `json:"devisId,omitempty"`
	Devis      *QuoteSummaryDTO  `json:"devis,omitempty"`
	IsDeposit  bool              `json:"acompte"`
	Date       string            `json:"date"`
	DueDate    string            `json:"dueDate"`
	Status     string            `json:"status"`
	Lines      []LineItemDTO     `json:"lines"`
	Conditions string            `json:"conditions,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	TotalHT    decimal.Decimal   `json:"totalHT"`
	TotalTTC   decimal.Decimal   `json:"totalTTC"`
	Paid       decimal.Decimal   `json:"montantPaye"`
	Remaining  decimal.Decimal   `json:"resteAPayer"`
	Payments   []PaymentResponse `json:"paiements,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// InvoiceSummaryDTO resumen de una factura ligada a un devis.
type InvoiceSummaryDTO struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	Date      string          `json:"date"`
	TotalTTC  decimal.Decimal `json:"totalTTC"`
	Status    string          `json:"status"`
	IsDeposit bool            `json:"acompte"`
}

// InvoiceListQuery filtros de GET /api/factures.
type InvoiceListQuery struct {
	PageRequest
	ClientID string `query:"clientId" validate:"omitempty,uuid"`
	DevisID  string `query:"devisId" validate:"omitempty,uuid"`
	Status   string `query:"status" validate:"omitempty,oneof=pending partially_paid paid overdue cancelled"`
}

// DepositRequest body para POST /api/factures/acompte.
type DepositRequest struct {
	DevisID string          `json:"devisId" validate:"required,uuid"`
	Montant decimal.Decimal `json:"montant"`
}

// DepositListResponse acomptes existentes de un devis y margen restante.
type DepositListResponse struct {
	DevisID    string              `json:"devisId"`
	QuoteTotal decimal.Decimal     `json:"totalDevis"`
	Allocated  decimal.Decimal     `json:"totalAcomptes"`
	Remaining  decimal.Decimal     `json:"resteAFacturer"`
	Count      int                 `json:"nombre"`
	MaxCount   int                 `json:"nombreMax"`
	Deposits   []InvoiceSummaryDTO `json:"acomptes"`
}

// DepositSuggestionDTO fracción sugerida.
type DepositSuggestionDTO struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"montant"`
}
