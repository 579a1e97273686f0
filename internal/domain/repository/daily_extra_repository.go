package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// DailyExtraRepository define el puerto de persistencia para DailyExtra.
// Los listados se ordenan por fecha y luego por orden de alta.
type DailyExtraRepository interface {
	Create(ctx context.Context, extra *entity.DailyExtra) error
	GetByID(ctx context.Context, id string) (*entity.DailyExtra, error)
	ListByDate(ctx context.Context, date time.Time) ([]*entity.DailyExtra, error)
	// ListByCustomer devuelve los extras del cliente con fecha en [from, to].
	ListByCustomer(ctx context.Context, customerID string, from, to time.Time) ([]*entity.DailyExtra, error)
	// Search busca query en fecha, comida, notas, nombre del cliente o del plato; más recientes primero.
	Search(ctx context.Context, query string, limit int) ([]*entity.DailyExtra, error)
	Delete(ctx context.Context, id string) error
	// DeleteByDetails borra los extras del cliente en la fecha; mealType vacío = todas las comidas.
	DeleteByDetails(ctx context.Context, customerID string, date time.Time, mealType string) (int, error)
	DeleteByCustomer(ctx context.Context, customerID string) (int, error)
}
