package dto

import "github.com/shopspring/decimal"

// AddAdvanceRequest body para POST /api/advances.
// month/year indican el mes que compensa; si faltan se toma el mes de date.
type AddAdvanceRequest struct {
	CustomerID string          `json:"customer_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	Month      int             `json:"month" validate:"omitempty,min=1,max=12"`
	Year       int             `json:"year" validate:"omitempty,min=2000,max=9999"`
	Notes      string          `json:"notes" validate:"max=500"`
}

// AdvanceListQuery filtros de GET /api/advances.
type AdvanceListQuery struct {
	CustomerID string `query:"customer_id"`
	Year       int    `query:"year" validate:"omitempty,min=2000,max=9999"`
}

// AdvanceResponse anticipo en respuestas.
type AdvanceResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Notes        string          `json:"notes,omitempty"`
}
