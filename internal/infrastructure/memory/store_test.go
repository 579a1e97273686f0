package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/memory"
)

func seedCustomer(t *testing.T, s *memory.Store, id string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		ID:               id,
		Name:             "Cliente " + id,
		SubscriptionType: entity.SubscriptionMonthly,
		DailyAmount:      decimal.NewFromInt(3000),
		MealTimes:        []string{entity.MealLunch},
		StartDate:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:           entity.CustomerStatusActive,
	}
	require.NoError(t, s.Customers().Create(context.Background(), c))
	return c
}

func pendingInvoice(id, customerID string, month, year int) *entity.Invoice {
	return &entity.Invoice{
		ID: id, CustomerID: customerID, Month: month, Year: year,
		Amount: decimal.NewFromInt(100), Status: entity.InvoiceStatusPending, CreatedAt: time.Now(),
	}
}

func TestInvoiceRepo_UnicidadPorPeriodo(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	repo := s.Invoices()

	require.NoError(t, repo.Create(ctx, pendingInvoice("i1", "c1", 1, 2026)))
	err := repo.Create(ctx, pendingInvoice("i2", "c1", 1, 2026))
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, repo.Create(ctx, pendingInvoice("i3", "c1", 2, 2026)))
	list, err := repo.List(ctx, repository.InvoiceFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "i3", list[0].ID, "la más reciente primero")
}

func TestInvoiceRepo_CreacionConcurrente(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	repo := s.Invoices()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, pendingInvoice(string(rune('a'+i)), "c1", 3, 2026))
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestInvoiceRepo_MarkPaidUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	repo := s.Invoices()
	require.NoError(t, repo.Create(ctx, pendingInvoice("i1", "c1", 1, 2026)))

	first := time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)
	paid, err := repo.MarkPaid(ctx, "i1", "UPI ref 123", first)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)

	_, err = repo.MarkPaid(ctx, "i1", "efectivo", first.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := repo.GetByID(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.PaidAt.Equal(first))
	assert.Equal(t, "UPI ref 123", got.PaymentNotes)

	_, err = repo.MarkPaid(ctx, "nope", "x", first)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerRepo_DeleteProtegido(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	require.NoError(t, s.Invoices().Create(ctx, pendingInvoice("i1", "c1", 1, 2026)))

	err := s.Customers().Delete(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	deps, err := s.Customers().Dependents(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, deps.Invoices)
}

func TestCustomerRepo_ArchivadosOcultos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	seedCustomer(t, s, "c2")
	require.NoError(t, s.Customers().Archive(ctx, "c2", time.Now()))

	visible, err := s.Customers().List(ctx, repository.CustomerFilter{})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := s.Customers().List(ctx, repository.CustomerFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_RunBillingRevierteAnteError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	require.NoError(t, s.Invoices().Create(ctx, pendingInvoice("i1", "c1", 1, 2026)))

	boom := errors.New("boom")
	err := s.RunBilling(ctx, func(
		customers repository.CustomerRepository,
		extras repository.DailyExtraRepository,
		advances repository.AdvancePaymentRepository,
		invoices repository.InvoiceRepository,
	) error {
		if _, err := invoices.DeleteByCustomer(ctx, "c1"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	inv, err := s.Invoices().GetByID(ctx, "i1")
	require.NoError(t, err)
	assert.NotNil(t, inv, "la factura debe seguir existiendo tras el rollback")
}

// Una escritura suelta que llega durante una transacción fallida no se pierde con el rollback.
func TestStore_RunBillingNoPisaEscriturasAjenas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	seedCustomer(t, s, "c2")

	started := make(chan struct{})
	release := make(chan struct{})
	txErr := make(chan error, 1)
	go func() {
		txErr <- s.RunBilling(ctx, func(
			customers repository.CustomerRepository,
			extras repository.DailyExtraRepository,
			advances repository.AdvancePaymentRepository,
			invoices repository.InvoiceRepository,
		) error {
			if _, err := extras.DeleteByCustomer(ctx, "c1"); err != nil {
				return err
			}
			close(started)
			<-release
			return errors.New("falla la cascada")
		})
	}()

	<-started
	writeErr := make(chan error, 1)
	go func() {
		writeErr <- s.Extras().Create(ctx, &entity.DailyExtra{
			ID: "e-ajeno", CustomerID: "c2", Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC),
			MealType: entity.MealLunch, Price: decimal.NewFromInt(80),
		})
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.Error(t, <-txErr)
	require.NoError(t, <-writeErr)

	got, err := s.Extras().GetByID(ctx, "e-ajeno")
	require.NoError(t, err)
	assert.NotNil(t, got, "el extra creado fuera de la transacción debe sobrevivir al rollback")
}

func TestDailyExtraRepo_OrdenYBorradoPorDetalle(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seedCustomer(t, s, "c1")
	repo := s.Extras()
	d := time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)

	for i, meal := range []string{entity.MealDinner, entity.MealBreakfast, entity.MealDinner} {
		require.NoError(t, repo.Create(ctx, &entity.DailyExtra{
			ID: string(rune('x' + i)), CustomerID: "c1", Date: d, MealType: meal, Price: decimal.NewFromInt(10),
		}))
	}
	list, err := repo.ListByDate(ctx, d)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"x", "y", "z"}, []string{list[0].ID, list[1].ID, list[2].ID})

	n, err := repo.DeleteByDetails(ctx, "c1", d, entity.MealDinner)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	left, err := repo.ListByCustomer(ctx, "c1", d, d)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, entity.MealBreakfast, left[0].MealType)
}

func TestRepos_BusquedaSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	c1 := seedCustomer(t, s, "c1")
	c1.Address = "MG Road 12"
	require.NoError(t, s.Customers().Update(ctx, c1))
	seedCustomer(t, s, "c2")
	require.NoError(t, s.MenuItems().Create(ctx, &entity.MenuItem{
		ID: "m1", Name: "Masala Dosa", Category: entity.MealBreakfast, Price: decimal.NewFromInt(50), Available: true,
	}))

	list, err := s.Customers().List(ctx, repository.CustomerFilter{Query: "mg road"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "c1", list[0].ID)

	items, err := s.MenuItems().List(ctx, repository.MenuFilter{Query: "BREAKFAST"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	for i, d := range []int{3, 1, 2} {
		require.NoError(t, s.Extras().Create(ctx, &entity.DailyExtra{
			ID: string(rune('a' + i)), CustomerID: "c1", Date: time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC),
			MealType: entity.MealBreakfast, MenuItemID: "m1", Price: decimal.NewFromInt(50),
		}))
	}
	require.NoError(t, s.Extras().Create(ctx, &entity.DailyExtra{
		ID: "z", CustomerID: "c2", Date: time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		MealType: entity.MealLunch, Price: decimal.NewFromInt(10), Notes: "sin cebolla",
	}))

	extras, err := s.Extras().Search(ctx, "dosa", 2)
	require.NoError(t, err)
	require.Len(t, extras, 2)
	assert.Equal(t, "a", extras[0].ID, "la fecha más reciente primero")
	assert.Equal(t, "c", extras[1].ID)

	extras, err = s.Extras().Search(ctx, "Cliente c2", 10)
	require.NoError(t, err)
	require.Len(t, extras, 1)
	assert.Equal(t, "z", extras[0].ID)

	extras, err = s.Extras().Search(ctx, "2026-03-01", 10)
	require.NoError(t, err)
	require.Len(t, extras, 1)
	assert.Equal(t, "b", extras[0].ID)
}

func TestUserRepo_UpdateRespetaUnicidad(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u1", Username: "admin", PasswordHash: "h1"}))
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "u2", Username: "caja", PasswordHash: "h2"}))

	assert.ErrorIs(t, s.Users().Update(ctx, &entity.User{ID: "u2", Username: "ADMIN"}), domain.ErrDuplicate)
	assert.ErrorIs(t, s.Users().Update(ctx, &entity.User{ID: "u9", Username: "nuevo"}), domain.ErrNotFound)

	require.NoError(t, s.Users().Update(ctx, &entity.User{ID: "u1", Username: "rifaz", PasswordHash: "h3"}))
	got, err := s.Users().GetByUsername(ctx, "rifaz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "h3", got.PasswordHash)
}

func TestScanLocker_Exclusion(t *testing.T) {
	ctx := context.Background()
	l := memory.NewScanLocker()

	release, err := l.Acquire(ctx, "dues-scan:2026-01")
	require.NoError(t, err)

	_, err = l.Acquire(ctx, "dues-scan:2026-01")
	assert.ErrorIs(t, err, domain.ErrScanInProgress)

	other, err := l.Acquire(ctx, "dues-scan:2026-02")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	again, err := l.Acquire(ctx, "dues-scan:2026-01")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
