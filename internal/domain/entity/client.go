package entity

import "time"

// DefaultCountry país por defecto de la dirección de un cliente.
const DefaultCountry = "France"

// Client representa un cliente (referenciado por devis, facturas y pagos).
type Client struct {
	ID         string
	Name       string
	Contact    string
	Email      string
	Phone      string
	Street     string
	PostalCode string
	City       string
	Country    string
	SIRET      string
	VATNumber  string // numéro de TVA intracommunautaire
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClientRelations conteo de registros que referencian a un cliente.
type ClientRelations struct {
	Quotes   int
	Invoices int
	Payments int
}

// Any indica si existe al menos un registro dependiente.
func (r ClientRelations) Any() bool {
	return r.Quotes > 0 || r.Invoices > 0 || r.Payments > 0
}
