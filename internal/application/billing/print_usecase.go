package billing

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/ledger"
)

// PrintUseCase proyección imprimible de devis, facturas y recibos de pago.
type PrintUseCase struct {
	repos    Repositories
	storage  ObjectStorage
	pdf      DocumentPDFGenerator
	currency string
	log      zerolog.Logger
}

// NewPrintUseCase construye el caso de uso.
func NewPrintUseCase(repos Repositories, storage ObjectStorage, pdf DocumentPDFGenerator, opts Options, log zerolog.Logger) *PrintUseCase {
	return &PrintUseCase{repos: repos, storage: storage, pdf: pdf, currency: opts.Currency, log: log}
}

// Document arma la proyección del documento docType ("devis", "facture" o "paiement").
func (uc *PrintUseCase) Document(ctx context.Context, docType, id string) (*dto.PrintDocument, error) {
	settings, err := uc.repos.Settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.Settings{}
	}
	var doc *dto.PrintDocument
	switch docType {
	case dto.PrintQuote:
		doc, err = uc.quoteDocument(ctx, id)
	case dto.PrintInvoice:
		doc, err = uc.invoiceDocument(ctx, id)
	case dto.PrintPayment:
		doc, err = uc.paymentDocument(ctx, id)
	default:
		return nil, domain.Invalid("type de document inconnu : %s", docType)
	}
	if err != nil {
		return nil, err
	}
	doc.Type = docType
	doc.Currency = uc.currency
	doc.Company = companyParty(settings)
	doc.LegalMentions = settings.LegalMentions
	return doc, nil
}

// PDF genera el PDF del documento incluyendo el logo si existe.
func (uc *PrintUseCase) PDF(ctx context.Context, docType, id string) ([]byte, *dto.PrintDocument, error) {
	doc, err := uc.Document(ctx, docType, id)
	if err != nil {
		return nil, nil, err
	}
	var logo []byte
	if s, err := uc.repos.Settings.Get(ctx); err == nil && s != nil && s.LogoKey != "" && s.LogoContentType != "image/svg+xml" {
		if logo, err = uc.storage.Download(ctx, s.LogoKey); err != nil {
			uc.log.Warn().Err(err).Str("key", s.LogoKey).Msg("logo no disponible para el PDF")
			logo = nil
		}
	}
	out, err := uc.pdf.Generate(doc, logo)
	if err != nil {
		return nil, nil, err
	}
	return out, doc, nil
}

func (uc *PrintUseCase) client(ctx context.Context, id string) (dto.PrintParty, error) {
	c, err := uc.repos.Clients.GetByID(ctx, id)
	if err != nil {
		return dto.PrintParty{}, err
	}
	if c == nil {
		return dto.PrintParty{}, domain.NotFound("client", id)
	}
	lines := []string{}
	if c.Contact != "" {
		lines = append(lines, c.Contact)
	}
	if c.Street != "" {
		lines = append(lines, c.Street)
	}
	if city := strings.TrimSpace(c.PostalCode + " " + c.City); city != "" {
		lines = append(lines, city)
	}
	if c.Country != "" {
		lines = append(lines, c.Country)
	}
	return dto.PrintParty{Name: c.Name, Lines: lines, SIRET: c.SIRET, Email: c.Email, Phone: c.Phone}, nil
}

func companyParty(s *entity.Settings) dto.PrintParty {
	lines := []string{}
	if s.Address != "" {
		lines = append(lines, s.Address)
	}
	if city := strings.TrimSpace(s.ZipCode + " " + s.City); city != "" {
		lines = append(lines, city)
	}
	p := dto.PrintParty{Name: s.CompanyName, Lines: lines, SIRET: s.SIRET, Email: s.Email, Phone: s.Phone}
	if s.LogoKey != "" {
		p.LogoURL = LogoURL
	}
	return p
}

func (uc *PrintUseCase) quoteDocument(ctx context.Context, id string) (*dto.PrintDocument, error) {
	q, err := uc.repos.Quotes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.NotFound("devis", id)
	}
	client, err := uc.client(ctx, q.ClientID)
	if err != nil {
		return nil, err
	}
	return &dto.PrintDocument{
		Title:      "DEVIS",
		Reference:  q.Number,
		Date:       dto.FormatDate(q.Date),
		DueDate:    dto.FormatDate(q.ValidUntil),
		DueLabel:   "Valable jusqu'au",
		Status:     q.Status.Label(),
		Client:     client,
		Lines:      linesToDTO(q.Lines),
		Total:      q.TotalTTC,
		Paid:       decimal.Zero,
		Remaining:  q.TotalTTC,
		Conditions: q.Conditions,
		Notes:      q.Notes,
	}, nil
}

func (uc *PrintUseCase) invoiceDocument(ctx context.Context, id string) (*dto.PrintDocument, error) {
	inv, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("facture", id)
	}
	client, err := uc.client(ctx, inv.ClientID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	bal := ledger.ComputeBalance(inv.TotalTTC, paymentValues(payments))
	title := "FACTURE"
	if inv.IsDeposit {
		title = "FACTURE D'ACOMPTE"
	}
	doc := &dto.PrintDocument{
		Title:      title,
		Reference:  inv.Number,
		Date:       dto.FormatDate(inv.Date),
		DueDate:    dto.FormatDate(inv.DueDate),
		DueLabel:   "Échéance",
		Status:     inv.Status.Label(),
		Client:     client,
		Lines:      linesToDTO(inv.Lines),
		Total:      inv.TotalTTC,
		Paid:       bal.Paid,
		Remaining:  bal.Remaining,
		Conditions: inv.Conditions,
		Notes:      inv.Notes,
	}
	if inv.QuoteID != "" {
		if q, err := uc.repos.Quotes.GetByID(ctx, inv.QuoteID); err == nil && q != nil {
			doc.RelatedRef = q.Number
		}
	}
	return doc, nil
}

func (uc *PrintUseCase) paymentDocument(ctx context.Context, id string) (*dto.PrintDocument, error) {
	p, err := uc.repos.Payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("paiement", id)
	}
	inv, err := uc.repos.Invoices.GetByID(ctx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("facture", p.InvoiceID)
	}
	client, err := uc.client(ctx, p.ClientID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.repos.Payments.ListByInvoice(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	bal := ledger.ComputeBalance(inv.TotalTTC, paymentValues(payments))
	desc := "Règlement facture " + inv.Number + " (" + p.Method.Label() + ")"
	if p.TransactionReference != "" {
		desc += " réf. " + p.TransactionReference
	}
	return &dto.PrintDocument{
		Title:     "REÇU DE PAIEMENT",
		Reference: p.Reference,
		Date:      dto.FormatDate(p.Date),
		Status:    paymentStatusLabel(p.Status),
		Client:    client,
		Lines: []dto.LineItemDTO{{
			Description: desc,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   p.Amount,
			Total:       p.Amount,
		}},
		Total:      p.Amount,
		Paid:       bal.Paid,
		Remaining:  bal.Remaining,
		RelatedRef: inv.Number,
		Notes:      p.Notes,
	}, nil
}

func paymentStatusLabel(s entity.PaymentStatus) string {
	if s == entity.PaymentReceived {
		return "Reçu"
	}
	return "En attente"
}
