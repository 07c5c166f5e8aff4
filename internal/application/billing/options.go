package billing

import (
	"strings"
	"time"

	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/ledger"
	"github.com/jhoicas/devis-factures-api/pkg/config"
)

// Options reglas configurables del ledger. Los prefijos y el plazo de pago
// de los parámetros de la empresa tienen prioridad sobre estos valores.
type Options struct {
	MaxDeposits   int
	QuotePrefix   string
	InvoicePrefix string
	PaymentPrefix string
	PaymentDelay  int // días
	Currency      string
}

// OptionsFromConfig construye Options desde la sección BILLING_*.
func OptionsFromConfig(c config.BillingConfig) Options {
	return Options{
		MaxDeposits:   c.MaxDeposits,
		QuotePrefix:   c.QuotePrefix,
		InvoicePrefix: c.InvoicePrefix,
		PaymentPrefix: c.PaymentPrefix,
		PaymentDelay:  c.PaymentDelay,
		Currency:      c.Currency,
	}
}

// DefaultOptions valores usados cuando no hay configuración (tests, CLI).
func DefaultOptions() Options {
	return Options{
		MaxDeposits:   ledger.DefaultMaxDeposits,
		QuotePrefix:   "D",
		InvoicePrefix: "F",
		PaymentPrefix: "P",
		PaymentDelay:  30,
		Currency:      "EUR",
	}
}

func (o Options) maxDeposits() int {
	if o.MaxDeposits <= 0 {
		return ledger.DefaultMaxDeposits
	}
	return o.MaxDeposits
}

func (o Options) quotePrefix(s *entity.Settings) string {
	if s != nil && strings.TrimSpace(s.QuotePrefix) != "" {
		return s.QuotePrefix
	}
	return o.QuotePrefix
}

func (o Options) invoicePrefix(s *entity.Settings) string {
	if s != nil && strings.TrimSpace(s.InvoicePrefix) != "" {
		return s.InvoicePrefix
	}
	return o.InvoicePrefix
}

// dueDate fecha + plazo de pago (parámetros, o configuración si no hay).
func (o Options) dueDate(s *entity.Settings, from time.Time) time.Time {
	days := o.PaymentDelay
	if s != nil && s.PaymentDelayDays > 0 {
		days = s.PaymentDelayDays
	}
	return from.AddDate(0, 0, days)
}

func defaultConditions(s *entity.Settings) string {
	if s == nil {
		return ""
	}
	return s.DefaultConditions
}
