package entity

import "time"

// Settings parámetros de la empresa (una sola fila).
type Settings struct {
	CompanyName       string
	Address           string
	ZipCode           string
	City              string
	Phone             string
	Email             string
	SIRET             string
	QuotePrefix       string
	InvoicePrefix     string
	PaymentDelayDays  int
	DefaultConditions string
	LegalMentions     string
	LogoKey           string // clave en el almacenamiento de objetos, vacío si no hay logo
	LogoContentType   string
	UpdatedAt         time.Time
}
