package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// DefaultMaxDeposits máximo de facturas de acompte por devis si no se configura otro.
const DefaultMaxDeposits = 4

// DepositAllowance cuánto queda por facturar en acompte sobre un devis.
type DepositAllowance struct {
	QuoteTotal decimal.Decimal
	Allocated  decimal.Decimal
	Remaining  decimal.Decimal
	Count      int
	MaxCount   int
}

// ComputeAllowance calcula el margen disponible a partir de los acomptes existentes.
func ComputeAllowance(quoteTotal decimal.Decimal, deposits []entity.Invoice, maxCount int) DepositAllowance {
	if maxCount <= 0 {
		maxCount = DefaultMaxDeposits
	}
	allocated := decimal.Zero
	for _, d := range deposits {
		allocated = allocated.Add(d.TotalTTC)
	}
	remaining := quoteTotal.Sub(allocated)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return DepositAllowance{
		QuoteTotal: quoteTotal,
		Allocated:  allocated,
		Remaining:  remaining,
		Count:      len(deposits),
		MaxCount:   maxCount,
	}
}

// Check valida un nuevo acompte de `amount`.
// El límite de cantidad se evalúa antes que el de monto.
func (a DepositAllowance) Check(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.Invalid("le montant de l'acompte doit être positif")
	}
	if a.Count >= a.MaxCount {
		return domain.State("nombre maximal d'acomptes atteint pour ce devis", map[string]any{
			"count":    a.Count,
			"maxCount": a.MaxCount,
		})
	}
	if amount.GreaterThan(a.Remaining) {
		return &domain.Error{
			Kind:    domain.ErrInvalidArgument,
			Message: "le montant dépasse le reste à facturer du devis",
			Details: map[string]any{
				"requested":  amount,
				"maxAllowed": a.Remaining,
				"quoteTotal": a.QuoteTotal,
				"allocated":  a.Allocated,
			},
		}
	}
	return nil
}

// Suggestion fracción sugerida del total del devis.
type Suggestion struct {
	Label  string
	Amount decimal.Decimal
}

var suggestedFractions = []struct {
	label    string
	num, den int64
}{
	{"1/4", 1, 4},
	{"1/3", 1, 3},
	{"1/2", 1, 2},
	{"2/3", 2, 3},
}

// Suggestions devuelve las fracciones habituales que todavía caben en el margen.
// Es solo una ayuda de interfaz: CreateDeposit acepta cualquier monto permitido.
func (a DepositAllowance) Suggestions() []Suggestion {
	out := make([]Suggestion, 0, len(suggestedFractions)+1)
	if a.Count >= a.MaxCount || !a.Remaining.IsPositive() {
		return out
	}
	for _, f := range suggestedFractions {
		amount := a.QuoteTotal.Mul(decimal.NewFromInt(f.num)).Div(decimal.NewFromInt(f.den)).Round(2)
		if amount.IsPositive() && amount.LessThanOrEqual(a.Remaining) {
			out = append(out, Suggestion{Label: f.label, Amount: amount})
		}
	}
	out = append(out, Suggestion{Label: "solde", Amount: a.Remaining})
	return out
}
