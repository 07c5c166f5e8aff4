package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de una factura.
type InvoiceStatus string

const (
	InvoicePending       InvoiceStatus = "pending"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

// Valid indica si el estado pertenece a la enumeración.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePartiallyPaid, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// Label etiqueta visible en documentos impresos.
func (s InvoiceStatus) Label() string {
	switch s {
	case InvoicePending:
		return "En attente"
	case InvoicePartiallyPaid:
		return "Partiellement payée"
	case InvoicePaid:
		return "Payée"
	case InvoiceOverdue:
		return "En retard"
	case InvoiceCancelled:
		return "Annulée"
	}
	return string(s)
}

// Invoice representa una factura (independiente, convertida de un devis o de acompte).
type Invoice struct {
	ID         string
	Number     string // prefijo + secuencia, p. ej. F-0001
	ClientID   string
	QuoteID    string // vacío si no deriva de un devis
	IsDeposit  bool   // factura de acompte sobre QuoteID
	Date       time.Time
	DueDate    time.Time
	Status     InvoiceStatus
	Lines      []LineItem
	Conditions string
	Notes      string
	TotalHT    decimal.Decimal
	TotalTTC   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvoiceSummary vista reducida de una factura ligada a un devis.
type InvoiceSummary struct {
	ID        string
	Number    string
	Date      time.Time
	TotalTTC  decimal.Decimal
	Status    InvoiceStatus
	IsDeposit bool
}

// Summary proyecta la factura a su resumen.
func (i *Invoice) Summary() InvoiceSummary {
	return InvoiceSummary{
		ID:        i.ID,
		Number:    i.Number,
		Date:      i.Date,
		TotalTTC:  i.TotalTTC,
		Status:    i.Status,
		IsDeposit: i.IsDeposit,
	}
}
