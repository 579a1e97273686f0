package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyInvoiceQuery parámetros de GET /api/billing/monthly.
type MonthlyInvoiceQuery struct {
	CustomerID string `query:"customer_id" validate:"required"`
	Year       int    `query:"year" validate:"required,min=2000,max=9999"`
	Month      int    `query:"month" validate:"required,min=1,max=12"`
}

// DailyInvoiceQuery parámetros de GET /api/billing/daily.
type DailyInvoiceQuery struct {
	CustomerID string `query:"customer_id" validate:"required"`
	Date       string `query:"date" validate:"required,datetime=2006-01-02"`
}

// DayBreakdownResponse una fila del desglose diario.
type DayBreakdownResponse struct {
	Date      string `json:"date"`
	Day       int    `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

// InvoiceSummaryResponse importes de la factura detallada.
type InvoiceSummaryResponse struct {
	DaysInMonth       int             `json:"days_in_month"`
	DailyAmount       decimal.Decimal `json:"daily_amount"`
	SubscriptionTotal decimal.Decimal `json:"subscription_total"`
	BreakfastTotal    decimal.Decimal `json:"breakfast_total"`
	LunchTotal        decimal.Decimal `json:"lunch_total"`
	DinnerTotal       decimal.Decimal `json:"dinner_total"`
	ExtrasTotal       decimal.Decimal `json:"extras_total"`
	TotalAdvance      decimal.Decimal `json:"total_advance"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
}

// ItemizedInvoiceResponse factura calculada (mensual o diaria), sin persistir.
type ItemizedInvoiceResponse struct {
	Customer    CustomerResponse       `json:"customer"`
	PeriodType  string                 `json:"period_type"`
	Year        int                    `json:"year"`
	Month       int                    `json:"month"`
	Date        string                 `json:"date,omitempty"`
	PeriodLabel string                 `json:"period_label"`
	MonthName   string                 `json:"month_name"`
	Days        []DayBreakdownResponse `json:"days"`
	Summary     InvoiceSummaryResponse `json:"summary"`
}

// SaveAsPendingRequest body para POST /api/invoices (guardar la factura calculada como pendiente).
// Sin amount se recalcula el gran total del mes.
type SaveAsPendingRequest struct {
	CustomerID string           `json:"customer_id" validate:"required"`
	Year       int              `json:"year" validate:"required,min=2000,max=9999"`
	Month      int              `json:"month" validate:"required,min=1,max=12"`
	Amount     *decimal.Decimal `json:"amount"`
}

// PayInvoiceRequest body para PUT /api/invoices/:id/pay.
type PayInvoiceRequest struct {
	Notes string `json:"notes" validate:"required,max=500"`
}

// InvoiceListQuery filtro de GET /api/invoices.
type InvoiceListQuery struct {
	Status string `query:"status" validate:"omitempty,oneof=pending paid all"`
}

// ScanRequest body opcional de POST /api/invoices/scan.
type ScanRequest struct {
	Period string `json:"period" validate:"omitempty,datetime=2006-01"`
}

// InvoiceResponse factura persistida con datos del cliente.
type InvoiceResponse struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name,omitempty"`
	CustomerMobile string          `json:"customer_mobile,omitempty"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	PeriodLabel    string          `json:"period_label"`
	Amount         decimal.Decimal `json:"amount"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	PaymentNotes   string          `json:"payment_notes,omitempty"`
}

// PendingCustomerGroup facturas pendientes de un cliente y su total adeudado.
type PendingCustomerGroup struct {
	CustomerID     string            `json:"customer_id"`
	CustomerName   string            `json:"customer_name"`
	CustomerMobile string            `json:"customer_mobile,omitempty"`
	TotalDue       decimal.Decimal   `json:"total_due"`
	Invoices       []InvoiceResponse `json:"invoices"`
}

// SkippedCustomer cliente omitido por el escaneo, con el motivo.
type SkippedCustomer struct {
	CustomerID   string `json:"customer_id"`
	CustomerName string `json:"customer_name,omitempty"`
	Reason       string `json:"reason"`
}

// ScanResultResponse resultado de POST /api/invoices/scan.
type ScanResultResponse struct {
	Period       string            `json:"period"`
	CreatedCount int               `json:"created_count"`
	Created      []InvoiceResponse `json:"created"`
	Skipped      []SkippedCustomer `json:"skipped"`
}
