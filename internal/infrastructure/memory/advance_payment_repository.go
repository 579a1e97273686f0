package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

var _ repository.AdvancePaymentRepository = (*AdvancePaymentRepo)(nil)

// AdvancePaymentRepo implementación en memoria de AdvancePaymentRepository.
type AdvancePaymentRepo struct {
	s  *Store
	tx bool // dentro de RunBilling: txMu ya tomado
}

func cloneAdvance(a *entity.AdvancePayment) *entity.AdvancePayment {
	out := *a
	return &out
}

func (r *AdvancePaymentRepo) Create(_ context.Context, advance *entity.AdvancePayment) error {
	defer r.s.writeLock(r.tx)()
	if err := requireID("anticipo", advance.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.advances[advance.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.customers[advance.CustomerID]; !ok {
		return domain.ErrNotFound
	}
	r.s.advances[advance.ID] = cloneAdvance(advance)
	return nil
}

func (r *AdvancePaymentRepo) GetByID(_ context.Context, id string) (*entity.AdvancePayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.advances[id]
	if !ok {
		return nil, nil
	}
	return cloneAdvance(a), nil
}

func (r *AdvancePaymentRepo) List(_ context.Context, filter repository.AdvanceFilter) ([]*entity.AdvancePayment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.AdvancePayment, 0)
	for _, a := range r.s.advances {
		if filter.CustomerID != "" && a.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Year != 0 && a.Year != filter.Year {
			continue
		}
		list = append(list, cloneAdvance(a))
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *AdvancePaymentRepo) Delete(_ context.Context, id string) error {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.advances[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.advances, id)
	return nil
}

func (r *AdvancePaymentRepo) DeleteByCustomer(_ context.Context, customerID string) (int, error) {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, a := range r.s.advances {
		if a.CustomerID == customerID {
			delete(r.s.advances, id)
			n++
		}
	}
	return n, nil
}
