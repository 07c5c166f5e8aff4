package dto

import "time"

// SettingsRequest campos del formulario multipart de POST /api/parametres.
type SettingsRequest struct {
	CompanyName       string `form:"companyName" validate:"required,max=200"`
	Address           string `form:"address"`
	ZipCode           string `form:"zipCode" validate:"max=10"`
	City              string `form:"city"`
	Phone             string `form:"phone"`
	Email             string `form:"email" validate:"omitempty,email"`
	SIRET             string `form:"siret" validate:"omitempty,len=14,numeric"`
	PaymentDelay      int    `form:"paymentDelay" validate:"min=0,max=365"`
	QuotePrefix       string `form:"prefixeDevis" validate:"max=10"`
	InvoicePrefix     string `form:"prefixeFacture" validate:"max=10"`
	DefaultConditions string `form:"conditions"`
	LegalMentions     string `form:"mentionsLegales"`
	RemoveLogo        bool   `form:"removeLogo"`
}

// LogoUpload archivo de logo recibido en el formulario.
type LogoUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// SettingsResponse parámetros de la empresa.
type SettingsResponse struct {
	CompanyName       string    `json:"companyName"`
	Address           string    `json:"address"`
	ZipCode           string    `json:"zipCode"`
	City              string    `json:"city"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	SIRET             string    `json:"siret"`
	PaymentDelay      int       `json:"paymentDelay"`
	QuotePrefix       string    `json:"prefixeDevis"`
	InvoicePrefix     string    `json:"prefixeFacture"`
	DefaultConditions string    `json:"conditions"`
	LegalMentions     string    `json:"mentionsLegales"`
	HasLogo           bool      `json:"hasLogo"`
	LogoURL           string    `json:"logoUrl,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt,omitempty"`
}
