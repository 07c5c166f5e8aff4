package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/memory"
)

func TestRunBilling_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()
	boom := errors.New("boom")

	err := st.RunBilling(ctx, func(r billing.Repositories) error {
		require.NoError(t, r.Clients.Create(ctx, &entity.Client{ID: "c1", Name: "Acme"}))
		_, err := r.Sequences.Next(ctx, repository.SequenceQuote)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	c, err := st.Repositories().Clients.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, c, "el cliente no debe persistir tras rollback")

	n, err := st.Repositories().Sequences.Next(ctx, repository.SequenceQuote)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "la secuencia también vuelve atrás")
}

func TestRunBilling_CommitVisibleFuera(t *testing.T) {
	ctx := context.Background()
	st := memory.NewStore()

	require.NoError(t, st.RunBilling(ctx, func(r billing.Repositories) error {
		return r.Clients.Create(ctx, &entity.Client{ID: "c1", Name: "Acme"})
	}))

	c, err := st.Repositories().Clients.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "Acme", c.Name)
}

func TestQuoteRepository_NumeroDuplicado(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repositories().Quotes

	require.NoError(t, repo.Create(ctx, &entity.Quote{ID: "q1", Number: "D-0001"}))
	err := repo.Create(ctx, &entity.Quote{ID: "q2", Number: "D-0001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestQuoteRepository_LineasNoCompartidas(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewStore().Repositories().Quotes
	q := &entity.Quote{ID: "q1", Number: "D-0001", Lines: []entity.LineItem{{Description: "A"}}}
	require.NoError(t, repo.Create(ctx, q))

	q.Lines[0].Description = "modificada"
	got, err := repo.GetByID(ctx, "q1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Lines[0].Description)
}
