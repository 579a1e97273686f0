package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	s  *Store
	tx bool // dentro de RunBilling: txMu ya tomado
}

func cloneCustomer(c *entity.Customer) *entity.Customer {
	out := *c
	out.MealTimes = append([]string(nil), c.MealTimes...)
	if c.ArchivedAt != nil {
		at := *c.ArchivedAt
		out.ArchivedAt = &at
	}
	return &out
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	defer r.s.writeLock(r.tx)()
	if err := requireID("cliente", customer.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customer.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.customers[customer.ID] = cloneCustomer(customer)
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return cloneCustomer(c), nil
}

func (r *CustomerRepo) List(_ context.Context, filter repository.CustomerFilter) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Customer, 0, len(r.s.customers))
	for _, c := range r.s.customers {
		if c.IsArchived() && !filter.IncludeArchived {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if !containsFold(filter.Query, c.Name, c.Mobile, c.Address) {
			continue
		}
		list = append(list, cloneCustomer(c))
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *CustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[customer.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.customers[customer.ID] = cloneCustomer(customer)
	return nil
}

func (r *CustomerRepo) Archive(_ context.Context, id string, at time.Time) error {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	archived := cloneCustomer(c)
	archived.ArchivedAt = &at
	archived.UpdatedAt = at
	r.s.customers[id] = archived
	return nil
}

func (r *CustomerRepo) Dependents(_ context.Context, id string) (repository.CustomerDependents, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var d repository.CustomerDependents
	for _, inv := range r.s.invoices {
		if inv.CustomerID == id {
			d.Invoices++
		}
	}
	for _, e := range r.s.extras {
		if e.CustomerID == id {
			d.Extras++
		}
	}
	for _, a := range r.s.advances {
		if a.CustomerID == id {
			d.Advances++
		}
	}
	return d, nil
}

// Delete reproduce la restricción de clave foránea de la base de datos.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	defer r.s.writeLock(r.tx)()
	deps, err := r.Dependents(ctx, id)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	if deps.Any() {
		return fmt.Errorf("%w: el cliente tiene registros asociados", domain.ErrConflict)
	}
	delete(r.s.customers, id)
	return nil
}
