package billing

import (
	"strings"
	"time"


	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/ledger"
)

func parseDate(field, s string) (time.Time, error) {
	t, err := dto.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.Invalid("%s : %v", field, err)
	}
	return t, nil
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func linesFromDTO(in []dto.LineItemDTO) []entity.LineItem {
	out := make([]entity.LineItem, 0, len(in))
	for _, l := range in {
		out = append(out, entity.LineItem{
			Description: strings.TrimSpace(l.Description),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		})
	}
	return out
}

func linesToDTO(in []entity.LineItem) []dto.LineItemDTO {
	out := make([]dto.LineItemDTO, 0, len(in))
	for _, l := range in {
		out = append(out, dto.LineItemDTO{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total(),
		})
	}
	return out
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ID,
		Name:    c.Name,
		Contact: c.Contact,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: dto.AddressDTO{
			Street:     c.Street,
			PostalCode: c.PostalCode,
			City:       c.City,
			Country:    c.Country,
		},
		SIRET:     c.SIRET,
		VATNumber: c.VATNumber,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toClientSummary(c *entity.Client) *dto.ClientSummary {
	if c == nil {
		return nil
	}
	return &dto.ClientSummary{ID: c.ID, Name: c.Name, Email: c.Email}
}

func toInvoiceSummary(s entity.InvoiceSummary) dto.InvoiceSummaryDTO {
	return dto.InvoiceSummaryDTO{
		ID:        s.ID,
		Number:    s.Number,
		Date:      dto.FormatDate(s.Date),
		TotalTTC:  s.TotalTTC,
		Status:    string(s.Status),
		IsDeposit: s.IsDeposit,
	}
}

func toQuoteResponse(q *entity.Quote, client *entity.Client, invoices []*entity.Invoice) *dto.QuoteResponse {
	summaries := make([]dto.InvoiceSummaryDTO, 0, len(invoices))
	for _, inv := range invoices {
		summaries = append(summaries, toInvoiceSummary(inv.Summary()))
	}
	return &dto.QuoteResponse{
		ID:         q.ID,
		Number:     q.Number,
		ClientID:   q.ClientID,
		Client:     toClientSummary(client),
		Date:       dto.FormatDate(q.Date),
		ValidUntil: dto.FormatDate(q.ValidUntil),
		Status:     string(q.Status),
		Lines:      linesToDTO(q.Lines),
		Conditions: q.Conditions,
		Notes:      q.Notes,
		TotalHT:    q.TotalHT,
		TotalTTC:   q.TotalTTC,
		Invoices:   summaries,
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
}

func toQuoteSummary(q *entity.Quote) *dto.QuoteSummaryDTO {
	if q == nil {
		return nil
	}
	return &dto.QuoteSummaryDTO{
		ID:       q.ID,
		Number:   q.Number,
		Date:     dto.FormatDate(q.Date),
		TotalTTC: q.TotalTTC,
		Status:   string(q.Status),
	}
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:                   p.ID,
		Reference:            p.Reference,
		InvoiceID:            p.InvoiceID,
		ClientID:             p.ClientID,
		Date:                 dto.FormatDate(p.Date),
		Amount:               p.Amount,
		Method:               string(p.Method),
		TransactionReference: p.TransactionReference,
		Status:               string(p.Status),
		Notes:                p.Notes,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// toInvoiceResponse arma la respuesta completa; client, quote y payments pueden ser nil.
func toInvoiceResponse(inv *entity.Invoice, client *entity.Client, quote *entity.Quote, payments []*entity.Payment) *dto.InvoiceResponse {
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, *toPaymentResponse(p))
	}
	bal := ledger.ComputeBalance(inv.TotalTTC, paymentValues(payments))
	return &dto.InvoiceResponse{
		ID:         inv.ID,
		Number:     inv.Number,
		ClientID:   inv.ClientID,
		Client:     toClientSummary(client),
		DevisID:    inv.QuoteID,
		Devis:      toQuoteSummary(quote),
		IsDeposit:  inv.IsDeposit,
		Date:       dto.FormatDate(inv.Date),
		DueDate:    dto.FormatDate(inv.DueDate),
		Status:     string(inv.Status),
		Lines:      linesToDTO(inv.Lines),
		Conditions: inv.Conditions,
		Notes:      inv.Notes,
		TotalHT:    inv.TotalHT,
		TotalTTC:   inv.TotalTTC,
		Paid:       bal.Paid,
		Remaining:  bal.Remaining,
		Payments:   out,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
}

func paymentValues(ps []*entity.Payment) []entity.Payment {
	out := make([]entity.Payment, 0, len(ps))
	for _, p := range ps {
		out = append(out, *p)
	}
	return out
}

func invoiceValues(is []*entity.Invoice) []entity.Invoice {
	out := make([]entity.Invoice, 0, len(is))
	for _, i := range is {
		out = append(out, *i)
	}
	return out
}

func paymentIDs(ps []*entity.Payment) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}
