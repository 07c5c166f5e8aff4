package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
)

var (
	_ repository.ClientRepository   = (*ClientRepository)(nil)
	_ repository.QuoteRepository    = (*QuoteRepository)(nil)
	_ repository.InvoiceRepository  = (*InvoiceRepository)(nil)
	_ repository.PaymentRepository  = (*PaymentRepository)(nil)
	_ repository.SettingsRepository = (*SettingsRepository)(nil)
	_ repository.SequenceRepository = (*SequenceRepository)(nil)
	_ repository.UserRepository     = (*UserRepository)(nil)
)

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func duplicate(msg string) error {
	return &domain.Error{Kind: domain.ErrDuplicate, Message: msg}
}

// ── Clients ───────────────────────────────────────────────────────────────────

// ClientRepository implementación en memoria de repository.ClientRepository.
type ClientRepository struct{ v view }

func (r *ClientRepository) Create(_ context.Context, c *entity.Client) error {
	return r.v.write(func(d *data) error {
		d.clients[c.ID] = row[entity.Client]{v: *c, n: d.next()}
		return nil
	})
}

func (r *ClientRepository) GetByID(_ context.Context, id string) (*entity.Client, error) {
	var out *entity.Client
	r.v.read(func(d *data) {
		if rw, ok := d.clients[id]; ok {
			c := rw.v
			out = &c
		}
	})
	return out, nil
}

func (r *ClientRepository) List(_ context.Context, search string, limit, offset int) ([]*entity.Client, error) {
	search = strings.ToLower(search)
	var list []*entity.Client
	r.v.read(func(d *data) {
		for _, rw := range d.clients {
			c := rw.v
			if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(strings.ToLower(c.Email), search) {
				continue
			}
			list = append(list, &c)
		}
	})
	sort.Slice(list, func(i, j int) bool { return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name) })
	return page(list, limit, offset), nil
}

func (r *ClientRepository) Update(_ context.Context, c *entity.Client) error {
	return r.v.write(func(d *data) error {
		rw, ok := d.clients[c.ID]
		if !ok {
			return domain.NotFound("client", c.ID)
		}
		rw.v = *c
		d.clients[c.ID] = rw
		return nil
	})
}

func (r *ClientRepository) Delete(_ context.Context, id string) error {
	return r.v.write(func(d *data) error {
		delete(d.clients, id)
		return nil
	})
}

func (r *ClientRepository) CountRelations(_ context.Context, id string) (entity.ClientRelations, error) {
	var rel entity.ClientRelations
	r.v.read(func(d *data) {
		for _, q := range d.quotes {
			if q.v.ClientID == id {
				rel.Quotes++
			}
		}
		for _, i := range d.invoices {
			if i.v.ClientID == id {
				rel.Invoices++
			}
		}
		for _, p := range d.payments {
			if p.v.ClientID == id {
				rel.Payments++
			}
		}
	})
	return rel, nil
}

// ── Quotes ────────────────────────────────────────────────────────────────────

// QuoteRepository implementación en memoria de repository.QuoteRepository.
type QuoteRepository struct{ v view }

func copyQuote(q entity.Quote) *entity.Quote {
	q.Lines = cloneLines(q.Lines)
	return &q
}

func (r *QuoteRepository) Create(_ context.Context, q *entity.Quote) error {
	return r.v.write(func(d *data) error {
		for _, rw := range d.quotes {
			if rw.v.Number == q.Number {
				return duplicate("numéro de devis déjà utilisé")
			}
		}
		d.quotes[q.ID] = row[entity.Quote]{v: *copyQuote(*q), n: d.next()}
		return nil
	})
}

func (r *QuoteRepository) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	var out *entity.Quote
	r.v.read(func(d *data) {
		if rw, ok := d.quotes[id]; ok {
			out = copyQuote(rw.v)
		}
	})
	return out, nil
}

// GetForUpdate igual que GetByID: la transacción ya es exclusiva.
func (r *QuoteRepository) GetForUpdate(ctx context.Context, id string) (*entity.Quote, error) {
	return r.GetByID(ctx, id)
}

func (r *QuoteRepository) List(_ context.Context, f repository.QuoteFilter) ([]*entity.Quote, error) {
	var rows []row[entity.Quote]
	r.v.read(func(d *data) {
		for _, rw := range d.quotes {
			if f.ClientID != "" && rw.v.ClientID != f.ClientID {
				continue
			}
			if f.Status != "" && rw.v.Status != f.Status {
				continue
			}
			rows = append(rows, rw)
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].v.Date.Equal(rows[j].v.Date) {
			return rows[i].v.Date.After(rows[j].v.Date)
		}
		return rows[i].n > rows[j].n
	})
	out := make([]*entity.Quote, 0, len(rows))
	for _, rw := range rows {
		out = append(out, copyQuote(rw.v))
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r *QuoteRepository) Update(_ context.Context, q *entity.Quote) error {
	return r.v.write(func(d *data) error {
		rw, ok := d.quotes[q.ID]
		if !ok {
			return domain.NotFound("devis", q.ID)
		}
		rw.v = *copyQuote(*q)
		d.quotes[q.ID] = rw
		return nil
	})
}

func (r *QuoteRepository) Delete(_ context.Context, id string) error {
	return r.v.write(func(d *data) error {
		delete(d.quotes, id)
		return nil
	})
}

func (r *QuoteRepository) ExpirePending(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	err := r.v.write(func(d *data) error {
		now := time.Now()
		for id, rw := range d.quotes {
			if rw.v.Status == entity.QuotePending && rw.v.ValidUntil.Before(asOf) {
				rw.v.Status = entity.QuoteExpired
				rw.v.UpdatedAt = now
				d.quotes[id] = rw
				n++
			}
		}
		return nil
	})
	return n, err
}

// ── Invoices ──────────────────────────────────────────────────────────────────

// InvoiceRepository implementación en memoria de repository.InvoiceRepository.
type InvoiceRepository struct{ v view }

func copyInvoice(i entity.Invoice) *entity.Invoice {
	i.Lines = cloneLines(i.Lines)
	return &i
}

func (r *InvoiceRepository) Create(_ context.Context, inv *entity.Invoice) error {
	return r.v.write(func(d *data) error {
		for _, rw := range d.invoices {
			if rw.v.Number == inv.Number {
				return duplicate("numéro de facture déjà utilisé")
			}
		}
		d.invoices[inv.ID] = row[entity.Invoice]{v: *copyInvoice(*inv), n: d.next()}
		return nil
	})
}

func (r *InvoiceRepository) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	r.v.read(func(d *data) {
		if rw, ok := d.invoices[id]; ok {
			out = copyInvoice(rw.v)
		}
	})
	return out, nil
}

// GetForUpdate igual que GetByID: la transacción ya es exclusiva.
func (r *InvoiceRepository) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepository) filter(match func(entity.Invoice) bool, newestFirst bool) []*entity.Invoice {
	var rows []row[entity.Invoice]
	r.v.read(func(d *data) {
		for _, rw := range d.invoices {
			if match(rw.v) {
				rows = append(rows, rw)
			}
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if newestFirst {
			return rows[i].n > rows[j].n
		}
		return rows[i].n < rows[j].n
	})
	out := make([]*entity.Invoice, 0, len(rows))
	for _, rw := range rows {
		out = append(out, copyInvoice(rw.v))
	}
	return out
}

func (r *InvoiceRepository) List(_ context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, error) {
	list := r.filter(func(i entity.Invoice) bool {
		switch {
		case f.ClientID != "" && i.ClientID != f.ClientID:
			return false
		case f.QuoteID != "" && i.QuoteID != f.QuoteID:
			return false
		case f.Status != "" && i.Status != f.Status:
			return false
		case f.DepositsOnly && !i.IsDeposit:
			return false
		}
		return true
	}, true)
	return page(list, f.Limit, f.Offset), nil
}

func (r *InvoiceRepository) ListByQuote(_ context.Context, quoteID string) ([]*entity.Invoice, error) {
	return r.filter(func(i entity.Invoice) bool { return i.QuoteID == quoteID }, false), nil
}

func (r *InvoiceRepository) Update(_ context.Context, inv *entity.Invoice) error {
	return r.v.write(func(d *data) error {
		rw, ok := d.invoices[inv.ID]
		if !ok {
			return domain.NotFound("facture", inv.ID)
		}
		rw.v = *copyInvoice(*inv)
		d.invoices[inv.ID] = rw
		return nil
	})
}

func (r *InvoiceRepository) UpdateStatus(_ context.Context, id string, status entity.InvoiceStatus, at time.Time) error {
	return r.v.write(func(d *data) error {
		rw, ok := d.invoices[id]
		if !ok {
			return domain.NotFound("facture", id)
		}
		rw.v.Status = status
		rw.v.UpdatedAt = at
		d.invoices[id] = rw
		return nil
	})
}

func (r *InvoiceRepository) Delete(_ context.Context, id string) error {
	return r.v.write(func(d *data) error {
		delete(d.invoices, id)
		return nil
	})
}

func (r *InvoiceRepository) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	var n int64
	err := r.v.write(func(d *data) error {
		now := time.Now()
		for id, rw := range d.invoices {
			st := rw.v.Status
			if (st == entity.InvoicePending || st == entity.InvoicePartiallyPaid) && rw.v.DueDate.Before(asOf) {
				rw.v.Status = entity.InvoiceOverdue
				rw.v.UpdatedAt = now
				d.invoices[id] = rw
				n++
			}
		}
		return nil
	})
	return n, err
}

// ── Payments ──────────────────────────────────────────────────────────────────

// PaymentRepository implementación en memoria de repository.PaymentRepository.
type PaymentRepository struct{ v view }

func (r *PaymentRepository) Create(_ context.Context, p *entity.Payment) error {
	return r.v.write(func(d *data) error {
		for _, rw := range d.payments {
			if rw.v.Reference == p.Reference {
				return duplicate("référence de paiement déjà utilisée")
			}
		}
		d.payments[p.ID] = row[entity.Payment]{v: *p, n: d.next()}
		return nil
	})
}

func (r *PaymentRepository) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	r.v.read(func(d *data) {
		if rw, ok := d.payments[id]; ok {
			p := rw.v
			out = &p
		}
	})
	return out, nil
}

func (r *PaymentRepository) List(_ context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	var rows []row[entity.Payment]
	r.v.read(func(d *data) {
		for _, rw := range d.payments {
			if f.InvoiceID != "" && rw.v.InvoiceID != f.InvoiceID {
				continue
			}
			if f.ClientID != "" && rw.v.ClientID != f.ClientID {
				continue
			}
			rows = append(rows, rw)
		}
	})
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].v.Date.Equal(rows[j].v.Date) {
			return rows[i].v.Date.After(rows[j].v.Date)
		}
		return rows[i].n > rows[j].n
	})
	out := make([]*entity.Payment, 0, len(rows))
	for _, rw := range rows {
		p := rw.v
		out = append(out, &p)
	}
	return page(out, f.Limit, f.Offset), nil
}

func (r *PaymentRepository) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	var rows []row[entity.Payment]
	r.v.read(func(d *data) {
		for _, rw := range d.payments {
			if rw.v.InvoiceID == invoiceID {
				rows = append(rows, rw)
			}
		}
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].n < rows[j].n })
	out := make([]*entity.Payment, 0, len(rows))
	for _, rw := range rows {
		p := rw.v
		out = append(out, &p)
	}
	return out, nil
}

func (r *PaymentRepository) Update(_ context.Context, p *entity.Payment) error {
	return r.v.write(func(d *data) error {
		rw, ok := d.payments[p.ID]
		if !ok {
			return domain.NotFound("paiement", p.ID)
		}
		for id, other := range d.payments {
			if id != p.ID && other.v.Reference == p.Reference {
				return duplicate("référence de paiement déjà utilisée")
			}
		}
		rw.v = *p
		d.payments[p.ID] = rw
		return nil
	})
}

func (r *PaymentRepository) Delete(_ context.Context, id string) error {
	return r.v.write(func(d *data) error {
		delete(d.payments, id)
		return nil
	})
}

// ── Settings y secuencias ─────────────────────────────────────────────────────

// SettingsRepository implementación en memoria de repository.SettingsRepository.
type SettingsRepository struct{ v view }

func (r *SettingsRepository) Get(_ context.Context) (*entity.Settings, error) {
	var out *entity.Settings
	r.v.read(func(d *data) {
		if d.settings != nil {
			s := *d.settings
			out = &s
		}
	})
	return out, nil
}

func (r *SettingsRepository) Save(_ context.Context, s *entity.Settings) error {
	return r.v.write(func(d *data) error {
		c := *s
		d.settings = &c
		return nil
	})
}

// SequenceRepository implementación en memoria de repository.SequenceRepository.
type SequenceRepository struct{ v view }

func (r *SequenceRepository) Next(_ context.Context, kind string) (int64, error) {
	var n int64
	err := r.v.write(func(d *data) error {
		d.seqs[kind]++
		n = d.seqs[kind]
		return nil
	})
	return n, err
}

// ── Users ─────────────────────────────────────────────────────────────────────

// UserRepository implementación en memoria de repository.UserRepository.
type UserRepository struct{ v view }

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	return r.v.write(func(d *data) error {
		for _, rw := range d.users {
			if strings.EqualFold(rw.v.Email, u.Email) {
				return duplicate("un utilisateur existe déjà avec cet email")
			}
		}
		d.users[u.ID] = row[entity.User]{v: *u, n: d.next()}
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	r.v.read(func(d *data) {
		if rw, ok := d.users[id]; ok {
			u := rw.v
			out = &u
		}
	})
	return out, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	r.v.read(func(d *data) {
		for _, rw := range d.users {
			if strings.EqualFold(rw.v.Email, email) {
				u := rw.v
				out = &u
				return
			}
		}
	})
	return out, nil
}
