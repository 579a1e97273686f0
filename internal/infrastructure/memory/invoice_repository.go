package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación en memoria de InvoiceRepository.
// La unicidad (cliente, mes, año) se verifica bajo el mismo lock que la inserción.
type InvoiceRepo struct {
	s  *Store
	tx bool // dentro de RunBilling: txMu ya tomado
}

func cloneInvoice(i *entity.Invoice) *entity.Invoice {
	out := *i
	if i.PaidAt != nil {
		at := *i.PaidAt
		out.PaidAt = &at
	}
	return &out
}

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	defer r.s.writeLock(r.tx)()
	if err := requireID("factura", invoice.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[invoice.CustomerID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.invoices {
		if existing.ID == invoice.ID ||
			(existing.CustomerID == invoice.CustomerID && existing.Month == invoice.Month && existing.Year == invoice.Year) {
			return domain.ErrConflict
		}
	}
	r.s.invoices[invoice.ID] = cloneInvoice(invoice)
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return cloneInvoice(inv), nil
}

func (r *InvoiceRepo) FindByPeriod(_ context.Context, customerID string, month, year int) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.invoices {
		if inv.CustomerID == customerID && inv.Month == month && inv.Year == year {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) List(_ context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && inv.CustomerID != filter.CustomerID {
			continue
		}
		list = append(list, cloneInvoice(inv))
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Month != b.Month {
			return a.Month > b.Month
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return list, nil
}

func (r *InvoiceRepo) MarkPaid(_ context.Context, id, notes string, paidAt time.Time) (*entity.Invoice, error) {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InvoiceStatusPending {
		return nil, domain.ErrInvalidState
	}
	paid := cloneInvoice(inv)
	paid.Status = entity.InvoiceStatusPaid
	paid.PaidAt = &paidAt
	paid.PaymentNotes = notes
	r.s.invoices[id] = paid
	return cloneInvoice(paid), nil
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	return nil
}

func (r *InvoiceRepo) DeleteByCustomer(_ context.Context, customerID string) (int, error) {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, inv := range r.s.invoices {
		if inv.CustomerID == customerID {
			delete(r.s.invoices, id)
			n++
		}
	}
	return n, nil
}
