package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

var _ repository.DailyExtraRepository = (*DailyExtraRepo)(nil)

// DailyExtraRepo implementación en memoria de DailyExtraRepository.
type DailyExtraRepo struct {
	s  *Store
	tx bool // dentro de RunBilling: txMu ya tomado
}

func cloneExtra(e *entity.DailyExtra) *entity.DailyExtra {
	out := *e
	return &out
}

func (r *DailyExtraRepo) Create(_ context.Context, extra *entity.DailyExtra) error {
	defer r.s.writeLock(r.tx)()
	if err := requireID("extra", extra.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.extras[extra.ID]; ok {
		return domain.ErrDuplicate
	}
	if _, ok := r.s.customers[extra.CustomerID]; !ok {
		return domain.ErrNotFound
	}
	r.s.extras[extra.ID] = cloneExtra(extra)
	r.s.extraSeq[extra.ID] = r.s.nextSeq()
	return nil
}

func (r *DailyExtraRepo) GetByID(_ context.Context, id string) (*entity.DailyExtra, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.extras[id]
	if !ok {
		return nil, nil
	}
	return cloneExtra(e), nil
}

func (r *DailyExtraRepo) ListByDate(_ context.Context, date time.Time) ([]*entity.DailyExtra, error) {
	return r.collect(func(e *entity.DailyExtra) bool { return billing.SameDate(e.Date, date) }), nil
}

func (r *DailyExtraRepo) ListByCustomer(_ context.Context, customerID string, from, to time.Time) ([]*entity.DailyExtra, error) {
	lo, hi := billing.DateOnly(from), billing.DateOnly(to)
	return r.collect(func(e *entity.DailyExtra) bool {
		d := billing.DateOnly(e.Date)
		return e.CustomerID == customerID && !d.Before(lo) && !d.After(hi)
	}), nil
}

func (r *DailyExtraRepo) Search(_ context.Context, query string, limit int) ([]*entity.DailyExtra, error) {
	list := r.collect(func(e *entity.DailyExtra) bool {
		var customerName, itemName string
		if c, ok := r.s.customers[e.CustomerID]; ok {
			customerName = c.Name
		}
		if m, ok := r.s.menu[e.MenuItemID]; ok {
			itemName = m.Name
		}
		return containsFold(query, e.Date.Format(billing.DateLayout), e.MealType, e.Notes, customerName, itemName)
	})
	slices.Reverse(list)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// collect llama a match con el lock de lectura tomado.
func (r *DailyExtraRepo) collect(match func(*entity.DailyExtra) bool) []*entity.DailyExtra {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.DailyExtra, 0)
	for _, e := range r.s.extras {
		if match(e) {
			list = append(list, cloneExtra(e))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return r.s.extraSeq[list[i].ID] < r.s.extraSeq[list[j].ID]
	})
	return list
}

func (r *DailyExtraRepo) Delete(_ context.Context, id string) error {
	defer r.s.writeLock(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.extras[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.extras, id)
	delete(r.s.extraSeq, id)
	return nil
}

func (r *DailyExtraRepo) DeleteByDetails(_ context.Context, customerID string, date time.Time, mealType string) (int, error) {
	defer r.s.writeLock(r.tx)()
	return r.deleteWhere(func(e *entity.DailyExtra) bool {
		return e.CustomerID == customerID && billing.SameDate(e.Date, date) &&
			(mealType == "" || e.MealType == mealType)
	}), nil
}

func (r *DailyExtraRepo) DeleteByCustomer(_ context.Context, customerID string) (int, error) {
	defer r.s.writeLock(r.tx)()
	return r.deleteWhere(func(e *entity.DailyExtra) bool { return e.CustomerID == customerID }), nil
}

func (r *DailyExtraRepo) deleteWhere(match func(*entity.DailyExtra) bool) int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for id, e := range r.s.extras {
		if match(e) {
			delete(r.s.extras, id)
			delete(r.s.extraSeq, id)
			n++
		}
	}
	return n
}
