package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
)

// MockObjectStorage mock de billing.ObjectStorage.
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, input billing.UploadInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockObjectStorage) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
