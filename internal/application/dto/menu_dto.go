package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItemRequest body para alta y edición de platos.
type MenuItemRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Category    string          `json:"category" validate:"required,oneof=breakfast lunch dinner all"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"max=500"`
	Available   *bool           `json:"available"` // nil = true
}

// MenuListQuery filtros de GET /api/menu.
type MenuListQuery struct {
	Category      string `query:"category" validate:"omitempty,oneof=breakfast lunch dinner all"`
	AvailableOnly bool   `query:"available_only"`
	Q             string `query:"q" validate:"omitempty,max=100"`
}

// MenuItemResponse plato en respuestas.
type MenuItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
