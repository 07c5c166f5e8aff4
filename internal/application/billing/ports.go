package billing

import (
	"context"
	"io"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

// Repositories agrupa los repositorios del ledger. Dentro de RunBilling todos comparten la transacción.
type Repositories struct {
	Clients   repository.ClientRepository
	Quotes    repository.QuoteRepository
	Invoices  repository.InvoiceRepository
	Payments  repository.PaymentRepository
	Settings  repository.SettingsRepository
	Sequences repository.SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción. Si fn retorna error se hace rollback.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(r Repositories) error) error
}

// UploadInput parámetros para subir un objeto.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// ObjectStorage almacenamiento de archivos (logo de la empresa). El bucket lo fija la implementación.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// DocumentPDFGenerator genera el PDF de un documento imprimible. logo puede ser nil.
type DocumentPDFGenerator interface {
	Generate(doc *dto.PrintDocument, logo []byte) ([]byte, error)
}

// InvoiceExporter genera la hoja de cálculo del listado de facturas.
type InvoiceExporter interface {
	ExportInvoices(rows []dto.InvoiceResponse) ([]byte, error)
}
