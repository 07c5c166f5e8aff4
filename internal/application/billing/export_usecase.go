package billing

import (
	"context"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

const exportMaxRows = 5000

// ExportUseCase exporta el listado de facturas a hoja de cálculo.
type ExportUseCase struct {
	invoices *InvoiceUseCase
	exporter InvoiceExporter
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(invoices *InvoiceUseCase, exporter InvoiceExporter) *ExportUseCase {
	return &ExportUseCase{invoices: invoices, exporter: exporter}
}

// ExportInvoices aplica los mismos filtros que el listado, sin paginar.
func (uc *ExportUseCase) ExportInvoices(ctx context.Context, query dto.InvoiceListQuery) ([]byte, error) {
	query.Limit, query.Offset = exportMaxRows, 0
	list, err := uc.invoices.List(ctx, query)
	if err != nil {
		return nil, err
	}
	rows := make([]dto.InvoiceResponse, 0, len(list))
	for _, r := range list {
		rows = append(rows, *r)
	}
	return uc.exporter.ExportInvoices(rows)
}
