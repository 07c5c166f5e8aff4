package entity

import "github.com/shopspring/decimal"

// MoneyPlaces decimales de todo importe persistido (NUMERIC(14,2)).
const MoneyPlaces int32 = 2

// LineItem línea de un devis o factura. No tiene identidad propia más allá de su posición.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Total cantidad × precio unitario, redondeado al céntimo.
func (l LineItem) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Round(MoneyPlaces)
}
