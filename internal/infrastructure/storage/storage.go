// Package storage implementa billing.ObjectStorage sobre disco local o S3.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/pkg/config"
)

// New devuelve el backend indicado por STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (billing.ObjectStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.LocalDir)
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Driver)
	}
}
