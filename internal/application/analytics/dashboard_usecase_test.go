package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiffin-api/internal/application/analytics"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/memory"
)

var testNow = time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)

func TestDashboardUseCase_GetStats(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	today := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	for i, status := range []string{entity.CustomerStatusActive, entity.CustomerStatusActive, entity.CustomerStatusPaused} {
		id := string(rune('a' + i))
		require.NoError(t, s.Customers().Create(ctx, &entity.Customer{
			ID: id, Name: "Cliente " + id, Mobile: "1", SubscriptionType: entity.SubscriptionDaily,
			DailyAmount: decimal.NewFromInt(100), MealTimes: []string{entity.MealLunch},
			StartDate: today, Status: status,
		}))
	}
	require.NoError(t, s.Customers().Archive(ctx, "a", testNow))

	require.NoError(t, s.MenuItems().Create(ctx, &entity.MenuItem{ID: "m1", Name: "Poha", Category: entity.MealBreakfast, Price: decimal.NewFromInt(30), Available: true}))
	require.NoError(t, s.MenuItems().Create(ctx, &entity.MenuItem{ID: "m2", Name: "Kheer", Category: entity.CategoryAll, Price: decimal.NewFromInt(50)}))

	require.NoError(t, s.Extras().Create(ctx, &entity.DailyExtra{ID: "e1", CustomerID: "b", Date: today, MealType: entity.MealLunch, Price: decimal.RequireFromString("40.50")}))
	require.NoError(t, s.Extras().Create(ctx, &entity.DailyExtra{ID: "e2", CustomerID: "c", Date: today, MealType: entity.MealDinner, Price: decimal.NewFromInt(20)}))
	require.NoError(t, s.Extras().Create(ctx, &entity.DailyExtra{ID: "e3", CustomerID: "c", Date: today.AddDate(0, 0, -1), MealType: entity.MealDinner, Price: decimal.NewFromInt(99)}))

	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{ID: "i1", CustomerID: "b", Month: 2, Year: 2026, Amount: decimal.NewFromInt(3000), Status: entity.InvoiceStatusPending}))
	require.NoError(t, s.Invoices().Create(ctx, &entity.Invoice{ID: "i2", CustomerID: "c", Month: 2, Year: 2026, Amount: decimal.RequireFromString("1250.75"), Status: entity.InvoiceStatusPending}))
	_, err := s.Invoices().MarkPaid(ctx, "i2", "UPI", testNow)
	require.NoError(t, err)

	uc := analytics.NewDashboardUseCase(s.Customers(), s.MenuItems(), s.Extras(), s.Invoices(), func() time.Time { return testNow })
	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalCustomers, "el archivado no cuenta")
	assert.Equal(t, 1, stats.ActiveCustomers)
	assert.Equal(t, 2, stats.MenuItems)
	assert.Equal(t, 1, stats.AvailableMenuItems)
	assert.Equal(t, 2, stats.TodayExtras)
	assert.Equal(t, "60.5", stats.TodayExtrasAmount.String())
	assert.Equal(t, 1, stats.PendingInvoices)
	assert.Equal(t, "3000", stats.PendingAmount.String())
}
