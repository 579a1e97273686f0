package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

func sampleCustomer() *entity.Customer {
	return &entity.Customer{
		ID:               "c1",
		Name:             "Asha Verma",
		Mobile:           "9876543210",
		Address:          "12 MG Road",
		SubscriptionType: entity.SubscriptionDaily,
		DailyAmount:      decimal.NewFromInt(100),
		MealTimes:        []string{entity.MealLunch, entity.MealDinner},
		StartDate:        time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:           entity.CustomerStatusActive,
	}
}

func TestGenerateInvoicePDF_Mensual(t *testing.T) {
	period, err := billing.NewPeriod(2026, 2)
	require.NoError(t, err)
	inv, err := billing.CalculateMonthly(billing.MonthlyInput{
		Customer: sampleCustomer(),
		Period:   period,
		Extras: []*entity.DailyExtra{
			{ID: "e1", CustomerID: "c1", Date: period.Day(3), MealType: entity.MealLunch, MenuItemID: "m1", Price: decimal.NewFromInt(40)},
		},
		Advances: []*entity.AdvancePayment{
			{ID: "a1", CustomerID: "c1", Amount: decimal.NewFromInt(500), Date: period.Day(1), Month: 2, Year: 2026},
		},
		MenuItems: map[string]*entity.MenuItem{"m1": {ID: "m1", Name: "Paneer Thali", Price: decimal.NewFromInt(40)}},
	})
	require.NoError(t, err)

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, appbilling.BusinessInfo{
		Name: "Annapurna Tiffins", Address: "Sector 5", Phone: "080-1234",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_DiariaConSaldoAFavor(t *testing.T) {
	inv, err := billing.CalculateDaily(billing.DailyInput{
		Customer: sampleCustomer(),
		Date:     time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	inv.Summary.GrandTotal = decimal.NewFromInt(-20)

	out, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), inv, appbilling.BusinessInfo{})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateInvoicePDF_SinCliente(t *testing.T) {
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), &billing.ItemizedInvoice{}, appbilling.BusinessInfo{})
	assert.Error(t, err)
}

func TestPDFText_ReemplazaSimbolos(t *testing.T) {
	assert.Equal(t, "Dal - Rs. 40.00", pdfText("Dal – ₹40.00"))
	assert.Equal(t, "Rs. 1,500.00", pdfMoney(decimal.NewFromInt(1500)))
}
