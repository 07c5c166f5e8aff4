package dto

import "time"

// AddressDTO dirección postal de un cliente.
type AddressDTO struct {
	Street     string `json:"street" form:"street"`
	PostalCode string `json:"postalCode" form:"postalCode"`
	City       string `json:"city" form:"city"`
	Country    string `json:"country" form:"country"`
}

// ClientRequest body para POST/PUT /api/clients.
type ClientRequest struct {
	Name      string     `json:"name" validate:"required,max=200"`
	Contact   string     `json:"contact" validate:"max=200"`
	Email     string     `json:"email" validate:"required,email"`
	Phone     string     `json:"phone" validate:"max=30"`
	Address   AddressDTO `json:"address"`
	SIRET     string     `json:"siret" validate:"omitempty,len=14,numeric"`
	VATNumber string     `json:"vatNumber" validate:"max=20"`
	Notes     string     `json:"notes"`
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Contact   string     `json:"contact,omitempty"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Address   AddressDTO `json:"address"`
	SIRET     string     `json:"siret,omitempty"`
	VATNumber string     `json:"vatNumber,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// ClientSummary bloque cliente embebido en devis, facturas y pagos.
type ClientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
