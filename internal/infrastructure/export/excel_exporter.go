// Package export genera el listado de facturas en formato XLSX.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

var _ billing.InvoiceExporter = (*ExcelExporter)(nil)

const invoiceSheet = "Factures"

var invoiceHeaders = []any{
	"Numéro", "Date", "Échéance", "Client", "Devis", "Acompte", "Statut",
	"Total HT", "Total TTC", "Payé", "Reste à payer",
}

// ExcelExporter implementa billing.InvoiceExporter con excelize.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// ExportInvoices escribe una fila por factura; los importes quedan como celdas numéricas.
func (e *ExcelExporter) ExportInvoices(rows []dto.InvoiceResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), invoiceSheet); err != nil {
		return nil, fmt.Errorf("export: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(invoiceSheet, "A1", &invoiceHeaders); err != nil {
		return nil, fmt.Errorf("export: cabecera: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F3A68"}},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo cabecera: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("export: estilo importes: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(invoiceHeaders))
	if err := f.SetCellStyle(invoiceSheet, "A1", lastCol+"1", header); err != nil {
		return nil, fmt.Errorf("export: aplicar estilo: %w", err)
	}

	for i, inv := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{
			inv.Number,
			inv.Date,
			inv.DueDate,
			clientName(inv),
			quoteNumber(inv),
			yesNo(inv.IsDeposit),
			inv.Status,
			inv.TotalHT.InexactFloat64(),
			inv.TotalTTC.InexactFloat64(),
			inv.Paid.InexactFloat64(),
			inv.Remaining.InexactFloat64(),
		}
		if err := f.SetSheetRow(invoiceSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+2, err)
		}
	}
	if len(rows) > 0 {
		if err := f.SetCellStyle(invoiceSheet, "H2", fmt.Sprintf("%s%d", lastCol, len(rows)+1), money); err != nil {
			return nil, fmt.Errorf("export: formato importes: %w", err)
		}
	}

	_ = f.SetColWidth(invoiceSheet, "A", "C", 14)
	_ = f.SetColWidth(invoiceSheet, "D", "D", 30)
	_ = f.SetColWidth(invoiceSheet, "E", lastCol, 14)
	_ = f.SetPanes(invoiceSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func clientName(inv dto.InvoiceResponse) string {
	if inv.Client != nil {
		return inv.Client.Name
	}
	return inv.ClientID
}

func quoteNumber(inv dto.InvoiceResponse) string {
	if inv.Devis != nil {
		return inv.Devis.Number
	}
	return ""
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}
