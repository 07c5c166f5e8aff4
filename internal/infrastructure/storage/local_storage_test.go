package storage_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/storage"
	"github.com/jhoicas/devis-factures-api/pkg/config"
)

func TestLocalStorage_CicloCompleto(t *testing.T) {
	ctx := context.Background()
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	data := []byte("logo-bytes")
	require.NoError(t, st.Upload(ctx, billing.UploadInput{
		Key: "logo/abc.png", Body: bytes.NewReader(data), ContentType: "image/png", Size: int64(len(data)),
	}))

	got, err := st.Download(ctx, "logo/abc.png")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, st.Delete(ctx, "logo/abc.png"))
	_, err = st.Download(ctx, "logo/abc.png")
	assert.Error(t, err)

	assert.NoError(t, st.Delete(ctx, "logo/abc.png"), "borrar dos veces no es error")
}

func TestLocalStorage_RechazaKeysFueraDelDirectorio(t *testing.T) {
	ctx := context.Background()
	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = st.Upload(ctx, billing.UploadInput{Key: "../fuera.txt", Body: bytes.NewReader([]byte("x"))})
	assert.Error(t, err)
	_, err = st.Download(ctx, "")
	assert.Error(t, err)
}

func TestNew_DriverDesconocido(t *testing.T) {
	_, err := storage.New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)

	st, err := storage.New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, st)
}
