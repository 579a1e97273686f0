package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

var _ repository.MenuItemRepository = (*MenuItemRepo)(nil)

// MenuItemRepo implementación en memoria de MenuItemRepository.
type MenuItemRepo struct {
	s *Store
}

func cloneMenuItem(m *entity.MenuItem) *entity.MenuItem {
	out := *m
	return &out
}

func (r *MenuItemRepo) Create(_ context.Context, item *entity.MenuItem) error {
	if err := requireID("plato", item.ID); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menu[item.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.menu[item.ID] = cloneMenuItem(item)
	return nil
}

func (r *MenuItemRepo) GetByID(_ context.Context, id string) (*entity.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.menu[id]
	if !ok {
		return nil, nil
	}
	return cloneMenuItem(m), nil
}

func (r *MenuItemRepo) List(_ context.Context, filter repository.MenuFilter) ([]*entity.MenuItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.MenuItem, 0, len(r.s.menu))
	for _, m := range r.s.menu {
		if filter.Category != "" && filter.Category != entity.CategoryAll && !m.ServesMeal(filter.Category) {
			continue
		}
		if filter.AvailableOnly && !m.Available {
			continue
		}
		if !containsFold(filter.Query, m.Name, m.Category, m.Description) {
			continue
		}
		list = append(list, cloneMenuItem(m))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

func (r *MenuItemRepo) Update(_ context.Context, item *entity.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menu[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.menu[item.ID] = cloneMenuItem(item)
	return nil
}

// Delete no toca los extras: guardan copia del precio y el id queda huérfano.
func (r *MenuItemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.menu[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.menu, id)
	return nil
}
