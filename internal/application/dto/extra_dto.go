package dto

import "github.com/shopspring/decimal"

// AddExtraRequest body para POST /api/extras. Sin price se copia el precio actual del plato.
type AddExtraRequest struct {
	CustomerID string           `json:"customer_id" validate:"required"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	MealType   string           `json:"meal_type" validate:"required,oneof=breakfast lunch dinner"`
	MenuItemID string           `json:"menu_item_id"`
	Price      *decimal.Decimal `json:"price"`
	Notes      string           `json:"notes" validate:"max=500"`
}

// DeleteExtrasByDetailsRequest body para POST /api/extras/delete-by-details.
type DeleteExtrasByDetailsRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	MealType   string `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner"`
}

// ExtraListQuery filtros de GET /api/extras: por fecha o por cliente y rango.
type ExtraListQuery struct {
	Date       string `query:"date" validate:"omitempty,datetime=2006-01-02"`
	CustomerID string `query:"customer_id"`
	From       string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// ExtraResponse extra en respuestas, con nombres resueltos.
type ExtraResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	Date         string          `json:"date"`
	MealType     string          `json:"meal_type"`
	MenuItemID   string          `json:"menu_item_id,omitempty"`
	MenuItemName string          `json:"menu_item_name,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Notes        string          `json:"notes,omitempty"`
}
