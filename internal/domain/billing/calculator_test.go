package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func customer(id, subscription, amount string) *entity.Customer {
	return &entity.Customer{
		ID:               id,
		Name:             "Cliente " + id,
		SubscriptionType: subscription,
		DailyAmount:      dec(amount),
		MealTimes:        []string{entity.MealLunch},
		StartDate:        day(2025, time.January, 1),
		Status:           entity.CustomerStatusActive,
	}
}

func extra(id, customerID string, date time.Time, meal, menuID, price, notes string) *entity.DailyExtra {
	return &entity.DailyExtra{
		ID:         id,
		CustomerID: customerID,
		Date:       date,
		MealType:   meal,
		MenuItemID: menuID,
		Price:      dec(price),
		Notes:      notes,
	}
}

func mustPeriod(t *testing.T, year, month int) billing.Period {
	t.Helper()
	p, err := billing.NewPeriod(year, month)
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Factura mensual
// ──────────────────────────────────────────────────────────────────────────────

// Cliente C: tarifa plana 3000, marzo sin extras ni anticipos.
func TestCalculateMonthly_TarifaPlanaMarzo(t *testing.T) {
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: customer("C", entity.SubscriptionMonthly, "3000"),
		Period:   mustPeriod(t, 2026, 3),
	})
	require.NoError(t, err)

	s := inv.Summary
	assert.Equal(t, 31, s.DaysInMonth)
	assert.True(t, s.SubscriptionTotal.Equal(dec("3000")))
	assert.True(t, s.ExtrasTotal.IsZero())
	assert.True(t, s.TotalAdvance.IsZero())
	assert.True(t, s.GrandTotal.Equal(dec("3000")), "grandTotal=%s", s.GrandTotal)

	assert.Equal(t, billing.PeriodMonthly, inv.PeriodType)
	assert.Equal(t, "March 2026", inv.PeriodLabel)
	assert.Equal(t, "March", inv.MonthName)
	require.Len(t, inv.Days, 31)
	for _, row := range inv.Days {
		assert.Equal(t, billing.EmptyMealMarker, row.Breakfast)
		assert.Equal(t, billing.EmptyMealMarker, row.Lunch)
		assert.Equal(t, billing.EmptyMealMarker, row.Dinner)
	}
}

// Cliente D: 150 por día en abril, dos desayunos de 50 y un anticipo de 500.
func TestCalculateMonthly_TarifaDiariaConExtrasYAnticipo(t *testing.T) {
	c := customer("D", entity.SubscriptionDaily, "150")
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: c,
		Period:   mustPeriod(t, 2026, 4),
		Extras: []*entity.DailyExtra{
			extra("e1", "D", day(2026, time.April, 3), entity.MealBreakfast, "", "50", ""),
			extra("e2", "D", day(2026, time.April, 17), entity.MealBreakfast, "", "50", ""),
		},
		Advances: []*entity.AdvancePayment{
			{ID: "a1", CustomerID: "D", Amount: dec("500"), Date: day(2026, time.March, 28), Month: 4, Year: 2026},
		},
	})
	require.NoError(t, err)

	s := inv.Summary
	assert.Equal(t, 30, s.DaysInMonth)
	assert.True(t, s.SubscriptionTotal.Equal(dec("4500")))
	assert.True(t, s.BreakfastTotal.Equal(dec("100")))
	assert.True(t, s.ExtrasTotal.Equal(dec("100")))
	assert.True(t, s.TotalAdvance.Equal(dec("500")))
	assert.True(t, s.GrandTotal.Equal(dec("4100")), "grandTotal=%s", s.GrandTotal)

	assert.Equal(t, "Item – ₹50", inv.Days[2].Breakfast)
	assert.Equal(t, billing.EmptyMealMarker, inv.Days[3].Breakfast)
}

func TestCalculateMonthly_IdentidadDelTotal(t *testing.T) {
	menu := map[string]*entity.MenuItem{
		"m1": {ID: "m1", Name: "Paneer Paratha", Category: entity.MealBreakfast, Price: dec("60")},
		"m2": {ID: "m2", Name: "Dal Rice", Category: entity.CategoryAll, Price: dec("80.50")},
	}
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: customer("X", entity.SubscriptionDaily, "99.99"),
		Period:   mustPeriod(t, 2024, 2),
		Extras: []*entity.DailyExtra{
			extra("e1", "X", day(2024, time.February, 1), entity.MealBreakfast, "m1", "60", "extra ghee"),
			extra("e2", "X", day(2024, time.February, 1), entity.MealBreakfast, "m2", "80.50", ""),
			extra("e3", "X", day(2024, time.February, 29), entity.MealDinner, "m2", "0.10", ""),
			extra("e4", "X", day(2024, time.February, 14), entity.MealLunch, "", "0.20", "sin cebolla"),
		},
		Advances: []*entity.AdvancePayment{
			{ID: "a1", CustomerID: "X", Amount: dec("0.30"), Month: 2, Year: 2024},
		},
		MenuItems: menu,
	})
	require.NoError(t, err)

	s := inv.Summary
	assert.Equal(t, 29, s.DaysInMonth, "febrero bisiesto")
	expected := s.SubscriptionTotal.Add(s.BreakfastTotal).Add(s.LunchTotal).Add(s.DinnerTotal).Sub(s.TotalAdvance)
	assert.True(t, s.GrandTotal.Equal(expected))
	assert.True(t, s.SubscriptionTotal.Equal(dec("2899.71")))
	assert.True(t, s.ExtrasTotal.Equal(dec("140.80")))
	assert.True(t, s.GrandTotal.Equal(dec("3040.21")))

	assert.Equal(t, "Paneer Paratha – ₹60 (extra ghee); Dal Rice – ₹80.5", inv.Days[0].Breakfast)
	assert.Equal(t, "Item – ₹0.2 (sin cebolla)", inv.Days[13].Lunch)
	assert.Equal(t, "Dal Rice – ₹0.1", inv.Days[28].Dinner)
}

func TestCalculateMonthly_IgnoraDatosAjenos(t *testing.T) {
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: customer("A", entity.SubscriptionMonthly, "1000"),
		Period:   mustPeriod(t, 2026, 1),
		Extras: []*entity.DailyExtra{
			extra("otro-cliente", "B", day(2026, time.January, 5), entity.MealLunch, "", "70", ""),
			extra("otro-mes", "A", day(2026, time.February, 1), entity.MealLunch, "", "70", ""),
			nil,
		},
		Advances: []*entity.AdvancePayment{
			{ID: "otro-cliente", CustomerID: "B", Amount: dec("100"), Month: 1, Year: 2026},
			{ID: "otro-anio", CustomerID: "A", Amount: dec("100"), Month: 1, Year: 2025},
			// pagado en enero pero imputado a febrero: no compensa enero
			{ID: "otro-mes", CustomerID: "A", Amount: dec("100"), Date: day(2026, time.January, 10), Month: 2, Year: 2026},
		},
	})
	require.NoError(t, err)
	assert.True(t, inv.Summary.ExtrasTotal.IsZero())
	assert.True(t, inv.Summary.TotalAdvance.IsZero())
	assert.True(t, inv.Summary.GrandTotal.Equal(dec("1000")))
}

// Un anticipo pagado en diciembre para enero compensa enero.
func TestCalculateMonthly_AnticipoImputadoPorMesYAnio(t *testing.T) {
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: customer("A", entity.SubscriptionMonthly, "1000"),
		Period:   mustPeriod(t, 2026, 1),
		Advances: []*entity.AdvancePayment{
			{ID: "a1", CustomerID: "A", Amount: dec("400"), Date: day(2025, time.December, 20), Month: 1, Year: 2026},
		},
	})
	require.NoError(t, err)
	assert.True(t, inv.Summary.GrandTotal.Equal(dec("600")))
}

func TestCalculateMonthly_TotalNegativoSeConserva(t *testing.T) {
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: customer("A", entity.SubscriptionMonthly, "1000"),
		Period:   mustPeriod(t, 2026, 1),
		Advances: []*entity.AdvancePayment{
			{ID: "a1", CustomerID: "A", Amount: dec("1250.50"), Month: 1, Year: 2026},
		},
	})
	require.NoError(t, err)
	assert.True(t, inv.Summary.GrandTotal.Equal(dec("-250.50")), "grandTotal=%s", inv.Summary.GrandTotal)
}

func TestCalculateMonthly_SinDeriva(t *testing.T) {
	extras := make([]*entity.DailyExtra, 0, 30)
	for d := 1; d <= 30; d++ {
		extras = append(extras, extra("e", "A", day(2026, time.June, d), entity.MealDinner, "", "0.10", ""))
	}
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: customer("A", entity.SubscriptionMonthly, "0"),
		Period:   mustPeriod(t, 2026, 6),
		Extras:   extras,
	})
	require.NoError(t, err)
	assert.Equal(t, "3", inv.Summary.DinnerTotal.String())
}

func TestCalculateMonthly_Validaciones(t *testing.T) {
	p := mustPeriod(t, 2026, 1)

	cases := []struct {
		name string
		in   billing.MonthlyInput
	}{
		{"cliente nil", billing.MonthlyInput{Period: p}},
		{"tarifa negativa", billing.MonthlyInput{Customer: customer("A", entity.SubscriptionDaily, "-1"), Period: p}},
		{"suscripcion desconocida", billing.MonthlyInput{Customer: customer("A", "weekly", "10"), Period: p}},
		{"periodo vacio", billing.MonthlyInput{Customer: customer("A", entity.SubscriptionDaily, "10")}},
		{"precio negativo", billing.MonthlyInput{
			Customer: customer("A", entity.SubscriptionDaily, "10"),
			Period:   p,
			Extras:   []*entity.DailyExtra{extra("e1", "A", day(2026, time.January, 2), entity.MealLunch, "", "-5", "")},
		}},
		{"comida desconocida", billing.MonthlyInput{
			Customer: customer("A", entity.SubscriptionDaily, "10"),
			Period:   p,
			Extras:   []*entity.DailyExtra{extra("e1", "A", day(2026, time.January, 2), "snack", "", "5", "")},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := billing.CalculateMonthly(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Factura diaria
// ──────────────────────────────────────────────────────────────────────────────

func TestCalculateDaily_ClienteDiario(t *testing.T) {
	date := day(2026, time.April, 3)
	menu := map[string]*entity.MenuItem{"m1": {ID: "m1", Name: "Thali", Price: dec("120")}}
	inv, err := billing.CalculateDaily(billing.DailyInput{
		Customer: customer("D", entity.SubscriptionDaily, "150"),
		Date:     date.Add(15 * time.Hour),
		Extras: []*entity.DailyExtra{
			extra("e1", "D", date, entity.MealLunch, "m1", "120", ""),
			extra("e2", "D", date.AddDate(0, 0, 1), entity.MealLunch, "m1", "120", ""),
		},
		MenuItems: menu,
	})
	require.NoError(t, err)

	s := inv.Summary
	assert.Equal(t, billing.PeriodDaily, inv.PeriodType)
	assert.Equal(t, "2026-04-03", inv.PeriodLabel)
	assert.Equal(t, 1, s.DaysInMonth)
	assert.True(t, s.SubscriptionTotal.Equal(dec("150")))
	assert.True(t, s.LunchTotal.Equal(dec("120")))
	assert.True(t, s.TotalAdvance.IsZero())
	assert.True(t, s.GrandTotal.Equal(dec("270")))
	require.Len(t, inv.Days, 1)
	assert.Equal(t, "Thali – ₹120", inv.Days[0].Lunch)
}

func TestCalculateDaily_ClienteMensualNoPagaSuscripcion(t *testing.T) {
	inv, err := billing.CalculateDaily(billing.DailyInput{
		Customer: customer("C", entity.SubscriptionMonthly, "3000"),
		Date:     day(2026, time.March, 10),
		Extras: []*entity.DailyExtra{
			extra("e1", "C", day(2026, time.March, 10), entity.MealDinner, "", "40", ""),
		},
	})
	require.NoError(t, err)
	assert.True(t, inv.Summary.SubscriptionTotal.IsZero())
	assert.True(t, inv.Summary.GrandTotal.Equal(dec("40")))
}

func TestCalculateDaily_FechaRequerida(t *testing.T) {
	_, err := billing.CalculateDaily(billing.DailyInput{Customer: customer("C", entity.SubscriptionMonthly, "3000")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
