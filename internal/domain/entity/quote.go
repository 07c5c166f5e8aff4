package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteStatus estado de un devis.
type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRefused  QuoteStatus = "refused"
	QuoteExpired  QuoteStatus = "expired"
)

// Valid indica si el estado pertenece a la enumeración.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuotePending, QuoteAccepted, QuoteRefused, QuoteExpired:
		return true
	}
	return false
}

// Label etiqueta visible en documentos impresos.
func (s QuoteStatus) Label() string {
	switch s {
	case QuotePending:
		return "En attente"
	case QuoteAccepted:
		return "Accepté"
	case QuoteRefused:
		return "Refusé"
	case QuoteExpired:
		return "Expiré"
	}
	return string(s)
}

// Quote representa un devis.
type Quote struct {
	ID         string
	Number     string // prefijo + secuencia, p. ej. D-0001
	ClientID   string
	Date       time.Time
	ValidUntil time.Time
	Status     QuoteStatus
	Lines      []LineItem
	Conditions string
	Notes      string
	TotalHT    decimal.Decimal
	TotalTTC   decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
