// Package pdf genera la versión imprimible (A4) de devis, facturas y recibos de pago.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Logo + Empresa       │  Título + N° + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR (izq)                 │  DESTINATARIO (der)          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Désignation | Qté | P.U. | Total                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Déjà réglé / Reste à payer                 │
//	│  CONDICIONES + NOTAS                                         │
//	│  FOOTER: menciones legales                                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

var _ billing.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 31, Green: 58, Blue: 104}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 235, Green: 239, Blue: 245}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador con formato numérico francés.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.French)}
}

// Generate genera el PDF y devuelve sus bytes. logo es opcional (PNG o JPEG; otros formatos se omiten).
func (g *MarotoPDFGenerator) Generate(doc *dto.PrintDocument, logo []byte) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("pdf: documento nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(doc.Title+" "+doc.Reference, true).
		WithAuthor(doc.Company.Name, true).
		Build()

	m := maroto.New(cfg)
	sym := g.symbol(doc.Currency)

	if doc.LegalMentions != "" {
		if err := m.RegisterFooter(footerRow(doc.LegalMentions)); err != nil {
			return nil, fmt.Errorf("pdf: registrar footer: %w", err)
		}
	}

	m.AddRows(headerRow(doc, logo))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(doc))
	m.AddRows(line.NewRow(4))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableRows(doc.Lines, sym) {
		m.AddRows(r)
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc, sym))

	for _, r := range textBlocks(doc) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: logo + empresa (izq) y título + referencia + fechas (der).
func headerRow(doc *dto.PrintDocument, logo []byte) core.Row {
	companyText := []core.Component{
		text.New(nonEmpty(doc.Company.Name, "—"), props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
	}
	if doc.Company.SIRET != "" {
		companyText = append(companyText, text.New("SIRET : "+doc.Company.SIRET, props.Text{
			Size: 8, Top: 9, Color: colorGray,
		}))
	}

	right := col.New(5).Add(
		text.New(doc.Title, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Color: colorPrimary, Top: 1,
		}),
		text.New("N° "+doc.Reference, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 8,
		}),
		text.New("Date : "+frenchDate(doc.Date), props.Text{
			Size: 8, Align: align.Right, Top: 14, Color: colorGray,
		}),
	)
	if doc.DueDate != "" {
		right.Add(text.New(doc.DueLabel+" : "+frenchDate(doc.DueDate), props.Text{
			Size: 8, Align: align.Right, Top: 18, Color: colorGray,
		}))
	}
	if doc.RelatedRef != "" {
		right.Add(text.New("Réf. : "+doc.RelatedRef, props.Text{
			Size: 8, Align: align.Right, Top: 22, Color: colorGray,
		}))
	}

	if ext, ok := logoExtension(logo); ok {
		return row.New(28).Add(
			col.New(2).Add(image.NewFromBytes(logo, ext, props.Rect{Percent: 90})),
			col.New(5).Add(companyText...),
			right,
		)
	}
	return row.New(28).Add(col.New(7).Add(companyText...), right)
}

// partiesRow: emisor (izq) y destinatario (der).
func partiesRow(doc *dto.PrintDocument) core.Row {
	return row.New(32).Add(
		col.New(6).Add(partyBlock("ÉMETTEUR", doc.Company)...),
		col.New(6).Add(partyBlock("DESTINATAIRE", doc.Client)...),
	)
}

func partyBlock(label string, p dto.PrintParty) []core.Component {
	out := []core.Component{
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(nonEmpty(p.Name, "—"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
	}
	details := append([]string{}, p.Lines...)
	if p.Email != "" {
		details = append(details, p.Email)
	}
	if p.Phone != "" {
		details = append(details, "Tél. : "+p.Phone)
	}
	if p.SIRET != "" && label == "DESTINATAIRE" {
		details = append(details, "SIRET : "+p.SIRET)
	}
	top := 11.0
	for _, d := range details {
		out = append(out, text.New(d, props.Text{Size: 8, Top: top, Color: colorGray}))
		top += 4
	}
	return out
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Désignation", 6, align.Left),
		h("Qté", 1, align.Center),
		h("Prix unitaire", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorLight})
}

// tableRows: una fila por línea del documento.
func (g *MarotoPDFGenerator) tableRows(lines []dto.LineItemDTO, sym string) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(l.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(g.quantity(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(l.UnitPrice, sym), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.money(l.Total, sym), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha. Los devis solo muestran el total.
func (g *MarotoPDFGenerator) totalsRow(doc *dto.PrintDocument, sym string) core.Row {
	label := func(s string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 2, Top: top}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return text.New(s, p)
	}
	value := func(s string, top float64, bold bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if bold {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
		}
		return text.New(s, p)
	}

	totalLabel := "Total"
	if doc.Type == dto.PrintPayment {
		totalLabel = "Montant reçu"
	}
	labels := col.New(3).Add(label(totalLabel+" :", 2, doc.Type == dto.PrintQuote))
	values := col.New(3).Add(value(g.money(doc.Total, sym), 2, doc.Type == dto.PrintQuote))
	if doc.Type != dto.PrintQuote {
		labels.Add(label("Déjà réglé :", 7, false), label("Reste à payer :", 12, true))
		values.Add(value(g.money(doc.Paid, sym), 7, false), value(g.money(doc.Remaining, sym), 12, true))
	}
	return row.New(20).Add(col.New(6), labels, values)
}

// textBlocks: condiciones y notas (solo si tienen contenido).
func textBlocks(doc *dto.PrintDocument) []core.Row {
	var rows []core.Row
	block := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)))
		rows = append(rows, text.NewRow(5, body, props.Text{Size: 8, Color: colorGray, Top: 1}))
	}
	block("Conditions", doc.Conditions)
	block("Notes", doc.Notes)
	if doc.Status != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Statut : "+doc.Status, props.Text{Size: 8, Color: colorGray, Top: 3}),
		)))
	}
	return rows
}

// footerRow: menciones legales en el pie de cada página.
func footerRow(mentions string) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New(mentions, props.Text{Size: 6.5, Align: align.Center, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// logoExtension detecta el formato del logo; Maroto solo admite PNG y JPEG.
func logoExtension(logo []byte) (extension.Type, bool) {
	if len(logo) == 0 {
		return "", false
	}
	mt := mimetype.Detect(logo)
	switch {
	case mt.Is("image/png"):
		return extension.Png, true
	case mt.Is("image/jpeg"):
		return extension.Jpg, true
	default:
		return "", false
	}
}

// symbol devuelve el símbolo de la moneda ISO 4217 (EUR por defecto).
func (g *MarotoPDFGenerator) symbol(code string) string {
	unit, err := currency.ParseISO(nonEmpty(code, "EUR"))
	if err != nil {
		unit = currency.EUR
	}
	return g.printer.Sprint(currency.Symbol(unit))
}

// money formatea un importe al estilo francés: "1 234,50 €".
func (g *MarotoPDFGenerator) money(d decimal.Decimal, sym string) string {
	s := g.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
	return normalizeSpaces(s) + " " + sym
}

func (g *MarotoPDFGenerator) quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return normalizeSpaces(g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3))))
}

// normalizeSpaces sustituye los espacios finos de CLDR, que la fuente helvetica no incluye.
func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
}

// frenchDate convierte "2006-01-02" en "02/01/2006"; otros formatos se devuelven tal cual.
func frenchDate(s string) string {
	if len(s) == 10 && s[4] == '-' && s[7] == '-' {
		return s[8:10] + "/" + s[5:7] + "/" + s[0:4]
	}
	return s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
