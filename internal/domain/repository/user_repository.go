package repository

import (
	"context"

	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create devuelve domain.ErrDuplicate si el username ya existe.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByUsername devuelve (nil, nil) si no existe.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// Update guarda username, password_hash y updated_at. domain.ErrDuplicate si el username ya es de otro.
	Update(ctx context.Context, user *entity.User) error
}
