package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
)

func TestClientCreate_PaisPorDefecto(t *testing.T) {
	f := newFixture(t)
	c, err := f.clients.Create(f.ctx, dto.ClientRequest{Name: "  Acme  ", Email: "a@acme.fr", Address: dto.AddressDTO{City: "Lyon"}})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Equal(t, "France", c.Address.Country)
	assert.Equal(t, "Lyon", c.Address.City)
}

func TestClientDelete_SinRelaciones(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")

	require.NoError(t, f.clients.Delete(f.ctx, c.ID))
	_, err := f.clients.Get(f.ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientDelete_ConflictoConDevis(t *testing.T) {
	f := newFixture(t)
	c := f.client(t, "acme")
	f.quote(t, c.ID, line("A", "1", "1"))
	f.quote(t, c.ID, line("B", "1", "1"))

	err := f.clients.Delete(f.ctx, c.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 2, domain.DetailsOf(err)["devis"])
	assert.Equal(t, 0, domain.DetailsOf(err)["factures"])
}

func TestClientList_Busqueda(t *testing.T) {
	f := newFixture(t)
	f.client(t, "acme")
	f.client(t, "globex")

	list, err := f.clients.List(f.ctx, "glo", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "globex", list[0].Name)
}
