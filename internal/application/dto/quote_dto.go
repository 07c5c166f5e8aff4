package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemDTO línea de devis/factura. Total solo se rellena en respuestas;
// en peticiones se ignora y se recalcula en el servidor.
type LineItemDTO struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

// QuoteRequest body para POST/PUT /api/devis.
type QuoteRequest struct {
	ClientID   string        `json:"clientId" validate:"required,uuid"`
	Date       string        `json:"date" validate:"required"`
	ValidUntil string        `json:"validUntil" validate:"required"`
	Status     string        `json:"status" validate:"omitempty,oneof=pending accepted refused expired"`
	Lines      []LineItemDTO `json:"lines" validate:"required,min=1,dive"`
	Conditions string        `json:"conditions"`
	Notes      string        `json:"notes"`
}

// QuoteResponse devis en respuestas. Invoices resume las facturas derivadas.
type QuoteResponse struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	ClientID   string              `json:"clientId"`
	Client     *ClientSummary      `json:"client,omitempty"`
	Date       string              `json:"date"`
	ValidUntil string              `json:"validUntil"`
	Status     string              `json:"status"`
	Lines      []LineItemDTO       `json:"lines"`
	Conditions string              `json:"conditions,omitempty"`
	Notes      string              `json:"notes,omitempty"`
	TotalHT    decimal.Decimal     `json:"totalHT"`
	TotalTTC   decimal.Decimal     `json:"totalTTC"`
	Invoices   []InvoiceSummaryDTO `json:"factures"`
	CreatedAt  time.Time           `json:"createdAt"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

// QuoteSummaryDTO devis de origen embebido en una factura.
type QuoteSummaryDTO struct {
	ID       string          `json:"id"`
	Number   string          `json:"number"`
	Date     string          `json:"date"`
	TotalTTC decimal.Decimal `json:"totalTTC"`
	Status   string          `json:"status"`
}

// QuoteListQuery filtros de GET /api/devis.
type QuoteListQuery struct {
	PageRequest
	ClientID string `query:"clientId" validate:"omitempty,uuid"`
	Status   string `query:"status" validate:"omitempty,oneof=pending accepted refused expired"`
}
