package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Comidas del día. También son las categorías del menú, junto con CategoryAll.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	CategoryAll   = "all"
)

// MealTypes en el orden en que se presentan en factura.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner}

// MenuItem es un plato del menú. Su precio se copia a DailyExtra al registrar el extra.
type MenuItem struct {
	ID          string
	Name        string
	Category    string // breakfast | lunch | dinner | all
	Price       decimal.Decimal
	Description string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidMealType verifica que s sea breakfast, lunch o dinner.
func ValidMealType(s string) bool {
	return s == MealBreakfast || s == MealLunch || s == MealDinner
}

// ValidMenuCategory acepta una comida o "all".
func ValidMenuCategory(s string) bool {
	return ValidMealType(s) || s == CategoryAll
}

// ServesMeal indica si el plato aplica a la comida dada.
func (m *MenuItem) ServesMeal(meal string) bool {
	return m.Category == CategoryAll || m.Category == meal
}
