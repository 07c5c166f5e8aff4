package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

// MockPDFGenerator mock de billing.DocumentPDFGenerator.
type MockPDFGenerator struct {
	mock.Mock
}

func (m *MockPDFGenerator) Generate(doc *dto.PrintDocument, logo []byte) ([]byte, error) {
	args := m.Called(doc, logo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
