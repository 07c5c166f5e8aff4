package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest body para POST/PUT /api/paiements.
// ClientID es opcional: si se envía debe coincidir con el cliente de la factura.
type PaymentRequest struct {
	InvoiceID            string          `json:"invoiceId" validate:"required,uuid"`
	ClientID             string          `json:"clientId" validate:"omitempty,uuid"`
	Date                 string          `json:"date" validate:"required"`
	Amount               decimal.Decimal `json:"amount"`
	Method               string          `json:"method" validate:"required,oneof=bank_transfer check cash card direct_debit"`
	Reference            string          `json:"reference" validate:"max=50"`
	TransactionReference string          `json:"transactionReference" validate:"max=100"`
	Status               string          `json:"status" validate:"omitempty,oneof=pending received"`
	Notes                string          `json:"notes"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID                   string          `json:"id"`
	Reference            string          `json:"reference"`
	InvoiceID            string          `json:"invoiceId"`
	ClientID             string          `json:"clientId"`
	Date                 string          `json:"date"`
	Amount               decimal.Decimal `json:"amount"`
	Method               string          `json:"method"`
	TransactionReference string          `json:"transactionReference,omitempty"`
	Status               string          `json:"status"`
	Notes                string          `json:"notes,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// PaymentListQuery filtros de GET /api/paiements.
type PaymentListQuery struct {
	PageRequest
	InvoiceID string `query:"invoiceId" validate:"omitempty,uuid"`
	ClientID  string `query:"clientId" validate:"omitempty,uuid"`
}
