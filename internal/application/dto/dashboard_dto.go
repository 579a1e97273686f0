package dto

import "github.com/shopspring/decimal"

// DashboardStats respuesta de GET /api/dashboard/stats.
type DashboardStats struct {
	TotalCustomers     int             `json:"total_customers"`
	ActiveCustomers    int             `json:"active_customers"`
	MenuItems          int             `json:"menu_items"`
	AvailableMenuItems int             `json:"available_menu_items"`
	TodayExtras        int             `json:"today_extras"`
	TodayExtrasAmount  decimal.Decimal `json:"today_extras_amount"`
	PendingInvoices    int             `json:"pending_invoices"`
	PendingAmount      decimal.Decimal `json:"pending_amount"`
}
