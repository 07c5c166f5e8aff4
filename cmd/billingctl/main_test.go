package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAsOf(t *testing.T) {
	d, err := parseAsOf("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = parseAsOf("15/03/2024")
	assert.Error(t, err)

	now, err := parseAsOf("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestUsersCreate_DriverMemoria(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("STORAGE_LOCAL_DIR", t.TempDir())

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"users", "create", "--email", "Compta@Atelier.fr", "--password", "motdepasse", "--role", "admin"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "compta@atelier.fr (admin")
}

func TestInvoicesMarkOverdue_FechaInvalida(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("STORAGE_LOCAL_DIR", t.TempDir())

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"invoices", "mark-overdue", "--as-of", "demain"})

	assert.Error(t, root.Execute())
}

func TestQuotesExpire_SinDatos(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("STORAGE_LOCAL_DIR", t.TempDir())

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"quotes", "expire"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "devis expirés: 0")
}
