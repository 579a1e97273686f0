package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/pkg/config"
	"github.com/jhoicas/tiffin-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Unitarios (sin base de datos)
// ──────────────────────────────────────────────────────────────────────────────

func TestAdvisoryKey_Determinista(t *testing.T) {
	assert.Equal(t, advisoryKey("dues-scan:2026-01"), advisoryKey("dues-scan:2026-01"))
	assert.NotEqual(t, advisoryKey("dues-scan:2026-01"), advisoryKey("dues-scan:2026-02"))
}

func TestHasCode(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("otro error")))
}

type fakeRow struct{ err error }

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*bool) = true
	return nil
}

type fakeSession struct {
	unlockErr error
	released  bool
	discarded bool
}

func (f *fakeSession) QueryRow(context.Context, string, ...any) pgx.Row { return fakeRow{err: f.unlockErr} }
func (f *fakeSession) Release() { f.released = true }
func (f *fakeSession) Discard(context.Context) error { f.discarded = true; return nil }

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, "%asha%", likePattern("asha"))
	assert.Equal(t, `%50\%%`, likePattern("50%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\x%`, likePattern(`c:\x`))
}

func TestUnlockSession_DevuelveConexionAlPool(t *testing.T) {
	sess := &fakeSession{}
	require.NoError(t, unlockSession(context.Background(), sess, 1, "dues-scan:2026-01"))
	assert.True(t, sess.released)
	assert.False(t, sess.discarded)
}

func TestUnlockSession_FalloDescartaConexion(t *testing.T) {
	sess := &fakeSession{unlockErr: errors.New("conexión rota")}
	err := unlockSession(context.Background(), sess, 1, "dues-scan:2026-01")
	require.Error(t, err)
	assert.True(t, sess.discarded, "la sesión con el candado no debe volver al pool")
	assert.False(t, sess.released)
}

// ──────────────────────────────────────────────────────────────────────────────
// Integración: requiere TEST_DATABASE_URL (postgres://...) con una base descartable
// ──────────────────────────────────────────────────────────────────────────────

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	m, err := NewMigrator(url, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Down())
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := NewPool(context.Background(), config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedCustomer(t *testing.T, pool *pgxpool.Pool) *entity.Customer {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	c := &entity.Customer{
		ID: uuid.New().String(), Name: "Asha", Mobile: "9876543210",
		SubscriptionType: entity.SubscriptionMonthly, DailyAmount: decimal.RequireFromString("3000.50"),
		MealTimes: []string{entity.MealLunch, entity.MealDinner},
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Status: entity.CustomerStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewCustomerRepository(pool).Create(context.Background(), c))
	return c
}

func TestIntegration_CustomerRoundTrip(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	c := seedCustomer(t, pool)

	got, err := NewCustomerRepository(pool).GetByID(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, c.DailyAmount.Equal(got.DailyAmount))
	assert.Equal(t, c.MealTimes, got.MealTimes)
	assert.Equal(t, "2026-01-01", got.StartDate.Format("2006-01-02"))
}

func TestIntegration_InvoiceUnicaPorPeriodoYCobroUnico(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	c := seedCustomer(t, pool)
	repo := NewInvoiceRepository(pool)

	inv := &entity.Invoice{
		ID: uuid.New().String(), CustomerID: c.ID, Month: 1, Year: 2026,
		Amount: decimal.RequireFromString("3040.21"), Status: entity.InvoiceStatusPending, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, inv))

	dup := *inv
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrConflict)

	var wg sync.WaitGroup
	results := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.MarkPaid(ctx, inv.ID, "UPI", time.Now().UTC())
			results <- err
		}()
	}
	wg.Wait()
	close(results)
	ok, invalid := 0, 0
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidState):
			invalid++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 4, invalid)

	_, err := repo.MarkPaid(ctx, uuid.New().String(), "UPI", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegration_CascadaEnTransaccion(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	c := seedCustomer(t, pool)
	require.NoError(t, NewDailyExtraRepository(pool).Create(ctx, &entity.DailyExtra{
		ID: uuid.New().String(), CustomerID: c.ID, Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		MealType: entity.MealLunch, Price: decimal.NewFromInt(40), CreatedAt: time.Now().UTC(),
	}))

	assert.ErrorIs(t, NewCustomerRepository(pool).Delete(ctx, c.ID), domain.ErrConflict)

	err := NewTxRunner(pool).RunBilling(ctx, func(
		customerRepo repository.CustomerRepository,
		extraRepo repository.DailyExtraRepository,
		advanceRepo repository.AdvancePaymentRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		n, err := extraRepo.DeleteByCustomer(ctx, c.ID)
		require.Equal(t, 1, n)
		if err != nil {
			return err
		}
		return customerRepo.Delete(ctx, c.ID)
	})
	require.NoError(t, err)
	got, err := NewCustomerRepository(pool).GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIntegration_BusquedaClientesYExtras(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	c := seedCustomer(t, pool)
	require.NoError(t, NewDailyExtraRepository(pool).Create(ctx, &entity.DailyExtra{
		ID: uuid.New().String(), CustomerID: c.ID, Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		MealType: entity.MealLunch, Price: decimal.NewFromInt(40), Notes: "sin picante", CreatedAt: time.Now().UTC(),
	}))

	list, err := NewCustomerRepository(pool).List(ctx, repository.CustomerFilter{Query: "ASH"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = NewCustomerRepository(pool).List(ctx, repository.CustomerFilter{Query: "%"})
	require.NoError(t, err)
	assert.Empty(t, list)

	extras, err := NewDailyExtraRepository(pool).Search(ctx, "asha", 10)
	require.NoError(t, err)
	assert.Len(t, extras, 1)
	extras, err = NewDailyExtraRepository(pool).Search(ctx, "2026-01-05", 10)
	require.NoError(t, err)
	assert.Len(t, extras, 1)
}

func TestIntegration_UserUpdate(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repo := NewUserRepository(pool)
	now := time.Now().UTC()
	a := &entity.User{ID: uuid.New().String(), Username: "admin", PasswordHash: "h1", Name: "Admin", Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	b := &entity.User{ID: uuid.New().String(), Username: "caja", PasswordHash: "h2", Name: "Caja", Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	a.Username, a.PasswordHash = "rifaz", "h3"
	require.NoError(t, repo.Update(ctx, a))
	got, err := repo.GetByUsername(ctx, "rifaz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "h3", got.PasswordHash)

	b.Username = "rifaz"
	assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrDuplicate)
}

func TestIntegration_AdvisoryLockExclusivo(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	locker := NewAdvisoryScanLocker(pool)

	release, err := locker.Acquire(ctx, "dues-scan:2026-01")
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "dues-scan:2026-01")
	assert.ErrorIs(t, err, domain.ErrScanInProgress)

	other, err := locker.Acquire(ctx, "dues-scan:2026-02")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	again, err := locker.Acquire(ctx, "dues-scan:2026-01")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
