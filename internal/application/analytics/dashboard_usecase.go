// Package analytics contiene los indicadores del panel del administrador.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen del día: clientes, menú, extras de hoy y cobros pendientes.
//
// Solo lectura; todas las consultas se lanzan en paralelo.
type DashboardUseCase struct {
	customerRepo repository.CustomerRepository
	menuRepo     repository.MenuItemRepository
	extraRepo    repository.DailyExtraRepository
	invoiceRepo  repository.InvoiceRepository
	now          func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	customerRepo repository.CustomerRepository,
	menuRepo repository.MenuItemRepository,
	extraRepo repository.DailyExtraRepository,
	invoiceRepo repository.InvoiceRepository,
	now func() time.Time,
) *DashboardUseCase {
	return &DashboardUseCase{
		customerRepo: customerRepo,
		menuRepo:     menuRepo,
		extraRepo:    extraRepo,
		invoiceRepo:  invoiceRepo,
		now:          now,
	}
}

// GetStats construye los indicadores. "Hoy" es el día de calendario del reloj configurado.
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStats, error) {
	today := billing.DateOnly(uc.now())

	// ── Goroutines para paralelizar las 4 lecturas ────────────────────────────
	type customersResult struct {
		list []*entity.Customer
		err  error
	}
	type menuResult struct {
		list []*entity.MenuItem
		err  error
	}
	type extrasResult struct {
		list []*entity.DailyExtra
		err  error
	}
	type invoicesResult struct {
		list []*entity.Invoice
		err  error
	}

	customersCh := make(chan customersResult, 1)
	menuCh := make(chan menuResult, 1)
	extrasCh := make(chan extrasResult, 1)
	invoicesCh := make(chan invoicesResult, 1)

	go func() {
		list, err := uc.customerRepo.List(ctx, repository.CustomerFilter{})
		customersCh <- customersResult{list, err}
	}()
	go func() {
		list, err := uc.menuRepo.List(ctx, repository.MenuFilter{})
		menuCh <- menuResult{list, err}
	}()
	go func() {
		list, err := uc.extraRepo.ListByDate(ctx, today)
		extrasCh <- extrasResult{list, err}
	}()
	go func() {
		list, err := uc.invoiceRepo.List(ctx, repository.InvoiceFilter{Status: entity.InvoiceStatusPending})
		invoicesCh <- invoicesResult{list, err}
	}()

	customers := <-customersCh
	menu := <-menuCh
	extras := <-extrasCh
	invoices := <-invoicesCh

	if customers.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", customers.err)
	}
	if menu.err != nil {
		return nil, fmt.Errorf("dashboard: menú: %w", menu.err)
	}
	if extras.err != nil {
		return nil, fmt.Errorf("dashboard: extras de hoy: %w", extras.err)
	}
	if invoices.err != nil {
		return nil, fmt.Errorf("dashboard: facturas pendientes: %w", invoices.err)
	}

	// ── Agregar ────────────────────────────────────────────────────────────────
	stats := &dto.DashboardStats{
		TotalCustomers:    len(customers.list),
		MenuItems:         len(menu.list),
		TodayExtras:       len(extras.list),
		TodayExtrasAmount: decimal.Zero,
		PendingInvoices:   len(invoices.list),
		PendingAmount:     decimal.Zero,
	}
	for _, c := range customers.list {
		if c.Status == entity.CustomerStatusActive {
			stats.ActiveCustomers++
		}
	}
	for _, m := range menu.list {
		if m.Available {
			stats.AvailableMenuItems++
		}
	}
	for _, e := range extras.list {
		stats.TodayExtrasAmount = stats.TodayExtrasAmount.Add(e.Price)
	}
	for _, inv := range invoices.list {
		stats.PendingAmount = stats.PendingAmount.Add(inv.Amount)
	}
	return stats, nil
}
