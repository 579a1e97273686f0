package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerRequest body para POST /api/customers y PUT /api/customers/:id.
// daily_amount es tarifa por día (daily) o tarifa plana del mes (monthly).
type CustomerRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Mobile           string          `json:"mobile" validate:"required,min=5,max=20"`
	Address          string          `json:"address" validate:"max=500"`
	SubscriptionType string          `json:"subscription_type" validate:"required,oneof=daily monthly"`
	DailyAmount      decimal.Decimal `json:"daily_amount"`
	MealTimes        []string        `json:"meal_times" validate:"required,min=1,dive,oneof=breakfast lunch dinner"`
	Referral         string          `json:"referral" validate:"max=200"`
	StartDate        string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	Status           string          `json:"status" validate:"omitempty,oneof=active paused"`
}

// CustomerListQuery filtros de GET /api/customers.
type CustomerListQuery struct {
	Status          string `query:"status" validate:"omitempty,oneof=active paused"`
	IncludeArchived bool   `query:"include_archived"`
	Q               string `query:"q" validate:"omitempty,max=100"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Mobile           string          `json:"mobile"`
	Address          string          `json:"address,omitempty"`
	SubscriptionType string          `json:"subscription_type"`
	DailyAmount      decimal.Decimal `json:"daily_amount"`
	MealTimes        []string        `json:"meal_times"`
	Referral         string          `json:"referral,omitempty"`
	StartDate        string          `json:"start_date"`
	Status           string          `json:"status"`
	ArchivedAt       *time.Time      `json:"archived_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CascadeDeleteResponse resultado de DELETE /api/customers/:id/cascade.
type CascadeDeleteResponse struct {
	CustomerID      string `json:"customer_id"`
	DeletedInvoices int    `json:"deleted_invoices"`
	DeletedExtras   int    `json:"deleted_extras"`
	DeletedAdvances int    `json:"deleted_advances"`
}
