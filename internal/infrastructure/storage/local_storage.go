package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
)

var _ billing.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage guarda objetos como archivos bajo un directorio raíz.
type LocalStorage struct {
	root string
}

// NewLocalStorage crea el directorio raíz si no existe.
func NewLocalStorage(root string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: crear directorio %s: %w", root, err)
	}
	return &LocalStorage{root: root}, nil
}

// path resuelve la key dentro de root; rechaza keys que escapen del directorio.
func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	if clean == string(filepath.Separator) || strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: key inválida %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// Upload escribe a un archivo temporal y lo renombra para no dejar objetos a medias.
func (s *LocalStorage) Upload(_ context.Context, in billing.UploadInput) error {
	p, err := s.path(in.Key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: crear directorio: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return fmt.Errorf("storage: crear temporal: %w", err)
	}
	if _, err := io.Copy(tmp, in.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: escribir %s: %w", in.Key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: cerrar %s: %w", in.Key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: renombrar %s: %w", in.Key, err)
	}
	return nil
}

func (s *LocalStorage) Download(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("storage: leer %s: %w", key, err)
	}
	return data, nil
}

// Delete es idempotente: borrar una key inexistente no es error.
func (s *LocalStorage) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: borrar %s: %w", key, err)
	}
	return nil
}
