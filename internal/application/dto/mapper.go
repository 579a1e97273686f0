package dto

import (
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// FromCustomer convierte la entidad a respuesta.
func FromCustomer(c *entity.Customer) CustomerResponse {
	return CustomerResponse{
		ID:               c.ID,
		Name:             c.Name,
		Mobile:           c.Mobile,
		Address:          c.Address,
		SubscriptionType: c.SubscriptionType,
		DailyAmount:      c.DailyAmount,
		MealTimes:        append([]string(nil), c.MealTimes...),
		Referral:         c.Referral,
		StartDate:        c.StartDate.Format(billing.DateLayout),
		Status:           c.Status,
		ArchivedAt:       c.ArchivedAt,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// FromMenuItem convierte la entidad a respuesta.
func FromMenuItem(m *entity.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Price:       m.Price,
		Description: m.Description,
		Available:   m.Available,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromInvoice convierte la factura; customer puede ser nil si fue borrado.
func FromInvoice(inv *entity.Invoice, customer *entity.Customer) InvoiceResponse {
	out := InvoiceResponse{
		ID:           inv.ID,
		CustomerID:   inv.CustomerID,
		Month:        inv.Month,
		Year:         inv.Year,
		Amount:       inv.Amount,
		Status:       inv.Status,
		CreatedAt:    inv.CreatedAt,
		PaidAt:       inv.PaidAt,
		PaymentNotes: inv.PaymentNotes,
	}
	if p, err := billing.NewPeriod(inv.Year, inv.Month); err == nil {
		out.PeriodLabel = p.Label()
	}
	if customer != nil {
		out.CustomerName = customer.Name
		out.CustomerMobile = customer.Mobile
	}
	return out
}

// FromItemized convierte la factura calculada.
func FromItemized(inv *billing.ItemizedInvoice) ItemizedInvoiceResponse {
	days := make([]DayBreakdownResponse, 0, len(inv.Days))
	for _, d := range inv.Days {
		days = append(days, DayBreakdownResponse{
			Date:      d.Date.Format(billing.DateLayout),
			Day:       d.Day,
			Breakfast: d.Breakfast,
			Lunch:     d.Lunch,
			Dinner:    d.Dinner,
		})
	}
	out := ItemizedInvoiceResponse{
		Customer:    FromCustomer(inv.Customer),
		PeriodType:  string(inv.PeriodType),
		Year:        inv.Period.Year,
		Month:       inv.Period.MonthNumber(),
		PeriodLabel: inv.PeriodLabel,
		MonthName:   inv.MonthName,
		Days:        days,
		Summary: InvoiceSummaryResponse{
			DaysInMonth:       inv.Summary.DaysInMonth,
			DailyAmount:       inv.Summary.DailyAmount,
			SubscriptionTotal: inv.Summary.SubscriptionTotal,
			BreakfastTotal:    inv.Summary.BreakfastTotal,
			LunchTotal:        inv.Summary.LunchTotal,
			DinnerTotal:       inv.Summary.DinnerTotal,
			ExtrasTotal:       inv.Summary.ExtrasTotal,
			TotalAdvance:      inv.Summary.TotalAdvance,
			GrandTotal:        inv.Summary.GrandTotal,
		},
	}
	if inv.PeriodType == billing.PeriodDaily {
		out.Date = inv.Date.Format(billing.DateLayout)
	}
	return out
}
