package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// PeriodType distingue factura mensual de factura diaria.
type PeriodType string

const (
	PeriodMonthly PeriodType = "monthly"
	PeriodDaily   PeriodType = "daily"
)

const (
	// EmptyMealMarker se muestra en la celda de una comida sin extras.
	EmptyMealMarker = "-"
	// GenericItemLabel reemplaza el nombre cuando el extra no tiene plato del menú.
	GenericItemLabel = "Item"
	// CurrencySymbol de los importes mostrados en el desglose.
	CurrencySymbol = "₹"

	entrySeparator = "; "
)

// DayBreakdown es una fila del desglose día por día.
type DayBreakdown struct {
	Date      time.Time
	Day       int
	Breakfast string
	Lunch     string
	Dinner    string
}

// Summary agrupa los importes de la factura. Todos en decimal exacto.
type Summary struct {
	DaysInMonth       int
	DailyAmount       decimal.Decimal
	SubscriptionTotal decimal.Decimal
	BreakfastTotal    decimal.Decimal
	LunchTotal        decimal.Decimal
	DinnerTotal       decimal.Decimal
	ExtrasTotal       decimal.Decimal
	TotalAdvance      decimal.Decimal
	GrandTotal        decimal.Decimal // puede ser negativo: saldo a favor del cliente
}

// TotalBeforeAdvance es suscripción + extras.
func (s Summary) TotalBeforeAdvance() decimal.Decimal {
	return s.SubscriptionTotal.Add(s.ExtrasTotal)
}

// ItemizedInvoice es el resultado del cálculo: cliente, período, desglose y resumen.
type ItemizedInvoice struct {
	Customer    *entity.Customer
	PeriodType  PeriodType
	Period      Period    // mes facturado (en diaria, el mes de Date)
	Date        time.Time // solo en diaria
	PeriodLabel string
	MonthName   string
	Days        []DayBreakdown
	Summary     Summary
}

// MonthlyInput datos necesarios para la factura mensual.
// Extras y anticipos de otros clientes o períodos se ignoran.
type MonthlyInput struct {
	Customer  *entity.Customer
	Period    Period
	Extras    []*entity.DailyExtra
	Advances  []*entity.AdvancePayment
	MenuItems map[string]*entity.MenuItem
}

// DailyInput datos necesarios para la factura de un día.
type DailyInput struct {
	Customer  *entity.Customer
	Date      time.Time
	Extras    []*entity.DailyExtra
	MenuItems map[string]*entity.MenuItem
}

// CalculateMonthly calcula la factura de un mes:
//
//	subscriptionTotal = tarifa plana (monthly) o tarifa diaria × días del mes (daily)
//	grandTotal        = subscriptionTotal + desayunos + almuerzos + cenas − anticipos del mes
func CalculateMonthly(in MonthlyInput) (*ItemizedInvoice, error) {
	if err := validateCustomer(in.Customer); err != nil {
		return nil, err
	}
	if in.Period.Month < time.January || in.Period.Month > time.December {
		return nil, fmt.Errorf("%w: período inválido", domain.ErrInvalidInput)
	}

	days := in.Period.Days()
	buckets := make([]mealBuckets, days+1)
	for _, e := range in.Extras {
		if e == nil || e.CustomerID != in.Customer.ID || !in.Period.Contains(e.Date) {
			continue
		}
		if err := validateExtra(e); err != nil {
			return nil, err
		}
		buckets[e.Date.Day()].add(e)
	}

	var totals mealTotals
	rows := make([]DayBreakdown, 0, days)
	for d := 1; d <= days; d++ {
		totals.add(&buckets[d])
		rows = append(rows, buckets[d].row(in.Period.Day(d), in.MenuItems))
	}

	subscription := in.Customer.DailyAmount
	if in.Customer.SubscriptionType == entity.SubscriptionDaily {
		subscription = in.Customer.DailyAmount.Mul(decimal.NewFromInt(int64(days)))
	}

	advance := decimal.Zero
	for _, a := range in.Advances {
		if a == nil || a.CustomerID != in.Customer.ID || a.Month != in.Period.MonthNumber() || a.Year != in.Period.Year {
			continue
		}
		if a.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: anticipo %s con importe negativo", domain.ErrInvalidInput, a.ID)
		}
		advance = advance.Add(a.Amount)
	}

	extras := totals.sum()
	return &ItemizedInvoice{
		Customer:    in.Customer,
		PeriodType:  PeriodMonthly,
		Period:      in.Period,
		PeriodLabel: in.Period.Label(),
		MonthName:   in.Period.Month.String(),
		Days:        rows,
		Summary: Summary{
			DaysInMonth:       days,
			DailyAmount:       in.Customer.DailyAmount,
			SubscriptionTotal: subscription,
			BreakfastTotal:    totals.breakfast,
			LunchTotal:        totals.lunch,
			DinnerTotal:       totals.dinner,
			ExtrasTotal:       extras,
			TotalAdvance:      advance,
			GrandTotal:        subscription.Add(extras).Sub(advance),
		},
	}, nil
}

// CalculateDaily calcula la factura de un solo día. No aplica anticipos (se definen por mes)
// y el cliente mensual no paga suscripción por día: ya la cubre la tarifa del mes.
func CalculateDaily(in DailyInput) (*ItemizedInvoice, error) {
	if err := validateCustomer(in.Customer); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: fecha requerida", domain.ErrInvalidInput)
	}
	date := DateOnly(in.Date)

	var bucket mealBuckets
	for _, e := range in.Extras {
		if e == nil || e.CustomerID != in.Customer.ID || !SameDate(e.Date, date) {
			continue
		}
		if err := validateExtra(e); err != nil {
			return nil, err
		}
		bucket.add(e)
	}
	var totals mealTotals
	totals.add(&bucket)

	subscription := decimal.Zero
	if in.Customer.SubscriptionType == entity.SubscriptionDaily {
		subscription = in.Customer.DailyAmount
	}
	extras := totals.sum()
	period := PeriodOf(date)

	return &ItemizedInvoice{
		Customer:    in.Customer,
		PeriodType:  PeriodDaily,
		Period:      period,
		Date:        date,
		PeriodLabel: date.Format(DateLayout),
		MonthName:   period.Month.String(),
		Days:        []DayBreakdown{bucket.row(date, in.MenuItems)},
		Summary: Summary{
			DaysInMonth:       1,
			DailyAmount:       in.Customer.DailyAmount,
			SubscriptionTotal: subscription,
			BreakfastTotal:    totals.breakfast,
			LunchTotal:        totals.lunch,
			DinnerTotal:       totals.dinner,
			ExtrasTotal:       extras,
			TotalAdvance:      decimal.Zero,
			GrandTotal:        subscription.Add(extras),
		},
	}, nil
}

// FormatExtra arma la línea "<plato> – ₹<precio> (<notas>)" de un extra.
func FormatExtra(e *entity.DailyExtra, item *entity.MenuItem) string {
	name := GenericItemLabel
	if item != nil && item.Name != "" {
		name = item.Name
	}
	s := fmt.Sprintf("%s – %s%s", name, CurrencySymbol, e.Price.String())
	if notes := strings.TrimSpace(e.Notes); notes != "" {
		s += " (" + notes + ")"
	}
	return s
}

type mealBuckets struct {
	breakfast []*entity.DailyExtra
	lunch     []*entity.DailyExtra
	dinner    []*entity.DailyExtra
}

func (b *mealBuckets) add(e *entity.DailyExtra) {
	switch e.MealType {
	case entity.MealBreakfast:
		b.breakfast = append(b.breakfast, e)
	case entity.MealLunch:
		b.lunch = append(b.lunch, e)
	case entity.MealDinner:
		b.dinner = append(b.dinner, e)
	}
}

func (b *mealBuckets) row(date time.Time, menu map[string]*entity.MenuItem) DayBreakdown {
	return DayBreakdown{
		Date:      date,
		Day:       date.Day(),
		Breakfast: describe(b.breakfast, menu),
		Lunch:     describe(b.lunch, menu),
		Dinner:    describe(b.dinner, menu),
	}
}

func describe(extras []*entity.DailyExtra, menu map[string]*entity.MenuItem) string {
	if len(extras) == 0 {
		return EmptyMealMarker
	}
	parts := make([]string, 0, len(extras))
	for _, e := range extras {
		parts = append(parts, FormatExtra(e, menu[e.MenuItemID]))
	}
	return strings.Join(parts, entrySeparator)
}

type mealTotals struct {
	breakfast decimal.Decimal
	lunch     decimal.Decimal
	dinner    decimal.Decimal
}

func (t *mealTotals) add(b *mealBuckets) {
	t.breakfast = t.breakfast.Add(sumPrices(b.breakfast))
	t.lunch = t.lunch.Add(sumPrices(b.lunch))
	t.dinner = t.dinner.Add(sumPrices(b.dinner))
}

func (t *mealTotals) sum() decimal.Decimal {
	return t.breakfast.Add(t.lunch).Add(t.dinner)
}

func sumPrices(extras []*entity.DailyExtra) decimal.Decimal {
	total := decimal.Zero
	for _, e := range extras {
		total = total.Add(e.Price)
	}
	return total
}

func validateCustomer(c *entity.Customer) error {
	if c == nil {
		return fmt.Errorf("%w: cliente requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidSubscriptionType(c.SubscriptionType) {
		return fmt.Errorf("%w: tipo de suscripción %q del cliente %s", domain.ErrInvalidInput, c.SubscriptionType, c.ID)
	}
	if c.DailyAmount.IsNegative() {
		return fmt.Errorf("%w: tarifa negativa del cliente %s", domain.ErrInvalidInput, c.ID)
	}
	return nil
}

func validateExtra(e *entity.DailyExtra) error {
	if !entity.ValidMealType(e.MealType) {
		return fmt.Errorf("%w: comida %q en extra %s", domain.ErrInvalidInput, e.MealType, e.ID)
	}
	if e.Price.IsNegative() {
		return fmt.Errorf("%w: extra %s con precio negativo", domain.ErrInvalidInput, e.ID)
	}
	return nil
}
