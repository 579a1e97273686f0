package repository

import (
	"context"

	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// MenuFilter filtra por comida; los platos de categoría "all" coinciden con cualquiera.
type MenuFilter struct {
	Category      string
	AvailableOnly bool
	Query         string // subcadena en nombre, categoría o descripción
}

// MenuItemRepository define el puerto de persistencia para MenuItem.
type MenuItemRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	// GetByID devuelve (nil, nil) si el plato no existe.
	GetByID(ctx context.Context, id string) (*entity.MenuItem, error)
	List(ctx context.Context, filter MenuFilter) ([]*entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id string) error
}
