package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyExtra es una compra puntual fuera de la suscripción base.
// Price es una copia del precio del menú al momento del registro; no se recalcula.
type DailyExtra struct {
	ID         string
	CustomerID string
	Date       time.Time // fecha de calendario
	MealType   string    // breakfast | lunch | dinner
	MenuItemID string    // vacío si no hay plato asociado
	Price      decimal.Decimal
	Notes      string
	CreatedAt  time.Time
}
