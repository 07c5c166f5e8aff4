package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodDirectDebit  PaymentMethod = "direct_debit"
)

// Valid indica si el medio pertenece a la enumeración.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodBankTransfer, MethodCheck, MethodCash, MethodCard, MethodDirectDebit:
		return true
	}
	return false
}

// Label etiqueta visible en documentos impresos.
func (m PaymentMethod) Label() string {
	switch m {
	case MethodBankTransfer:
		return "Virement bancaire"
	case MethodCheck:
		return "Chèque"
	case MethodCash:
		return "Espèces"
	case MethodCard:
		return "Carte bancaire"
	case MethodDirectDebit:
		return "Prélèvement"
	}
	return string(m)
}

// PaymentStatus estado de un pago.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentReceived PaymentStatus = "received"
)

// Valid indica si el estado pertenece a la enumeración.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentReceived
}

// Payment representa un pago aplicado a una factura.
type Payment struct {
	ID                   string
	Reference            string
	InvoiceID            string
	ClientID             string // copia del cliente de la factura
	Date                 time.Time
	Amount               decimal.Decimal
	Method               PaymentMethod
	TransactionReference string
	Status               PaymentStatus
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
