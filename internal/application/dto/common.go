package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Los montos viajan como números JSON (130.5), no como strings ("130.5").
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout formato de fecha en las respuestas.
const DateLayout = "2006-01-02"

// ParseDate acepta "2006-01-02" o RFC 3339 (ISO-8601).
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date invalide %q (format attendu AAAA-MM-JJ)", s)
	}
	return t, nil
}

// FormatDate formatea una fecha para respuestas; vacío si es cero.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
