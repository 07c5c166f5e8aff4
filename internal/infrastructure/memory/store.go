// Package memory implementa los repositorios del ledger en memoria (DB_DRIVER=memory y tests).
// Una transacción toma el mutex del Store durante toda su duración y, si falla,
// restaura la copia tomada al inicio.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

var _ billing.TxRunner = (*Store)(nil)

type row[T any] struct {
	v T
	n int64 // orden de inserción
}

type data struct {
	clients  map[string]row[entity.Client]
	quotes   map[string]row[entity.Quote]
	invoices map[string]row[entity.Invoice]
	payments map[string]row[entity.Payment]
	users    map[string]row[entity.User]
	settings *entity.Settings
	seqs     map[string]int64
	counter  int64
}

func newData() *data {
	return &data{
		clients:  map[string]row[entity.Client]{},
		quotes:   map[string]row[entity.Quote]{},
		invoices: map[string]row[entity.Invoice]{},
		payments: map[string]row[entity.Payment]{},
		users:    map[string]row[entity.User]{},
		seqs:     map[string]int64{},
	}
}

func cloneMap[T any](m map[string]row[T]) map[string]row[T] {
	out := make(map[string]row[T], len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// clone copia superficial: las entidades se guardan por valor y las líneas
// nunca se modifican in situ (se reemplaza el slice completo).
func (d *data) clone() *data {
	c := &data{
		clients:  cloneMap(d.clients),
		quotes:   cloneMap(d.quotes),
		invoices: cloneMap(d.invoices),
		payments: cloneMap(d.payments),
		users:    cloneMap(d.users),
		seqs:     make(map[string]int64, len(d.seqs)),
		counter:  d.counter,
	}
	for k, v := range d.seqs {
		c.seqs[k] = v
	}
	if d.settings != nil {
		s := *d.settings
		c.settings = &s
	}
	return c
}

func (d *data) next() int64 {
	d.counter++
	return d.counter
}

// Store base de datos en memoria.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// view acceso al Store; dentro de una transacción el mutex ya está tomado.
type view struct {
	st   *Store
	inTx bool
}

func (v view) read(fn func(d *data)) {
	if !v.inTx {
		v.st.mu.Lock()
		defer v.st.mu.Unlock()
	}
	fn(v.st.d)
}

func (v view) write(fn func(d *data) error) error {
	if !v.inTx {
		v.st.mu.Lock()
		defer v.st.mu.Unlock()
	}
	return fn(v.st.d)
}

func (v view) repositories() billing.Repositories {
	return billing.Repositories{
		Clients:   &ClientRepository{v},
		Quotes:    &QuoteRepository{v},
		Invoices:  &InvoiceRepository{v},
		Payments:  &PaymentRepository{v},
		Settings:  &SettingsRepository{v},
		Sequences: &SequenceRepository{v},
	}
}

// Repositories repositorios fuera de transacción.
func (s *Store) Repositories() billing.Repositories {
	return view{st: s}.repositories()
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepository {
	return &UserRepository{view{st: s}}
}

// RunBilling ejecuta fn de forma exclusiva; si retorna error se descartan sus cambios.
func (s *Store) RunBilling(ctx context.Context, fn func(r billing.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.d.clone()
	if err := fn(view{st: s, inTx: true}.repositories()); err != nil {
		s.d = snapshot
		return err
	}
	return nil
}

func cloneLines(in []entity.LineItem) []entity.LineItem {
	if in == nil {
		return nil
	}
	return append([]entity.LineItem(nil), in...)
}
