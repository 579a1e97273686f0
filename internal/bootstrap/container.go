// Package bootstrap arma repositorios, candados y casos de uso a partir de la configuración.
// Lo comparten el servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/tiffin-api/internal/application/analytics"
	"github.com/jhoicas/tiffin-api/internal/application/auth"
	appbilling "github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/application/usecase"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/excel"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/tiffin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/tiffin-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/tiffin-api/internal/infrastructure/redis"
	"github.com/jhoicas/tiffin-api/pkg/config"
	"github.com/jhoicas/tiffin-api/pkg/logger"
)

// Container casos de uso listos para usar y la función que libera conexiones.
type Container struct {
	Auth      *auth.AuthUseCase
	Customers *usecase.CustomerUseCase
	Menu      *usecase.MenuUseCase
	Extras    *usecase.ExtraUseCase
	Advances  *usecase.AdvanceUseCase
	Search    *usecase.SearchUseCase
	Invoices  *appbilling.InvoiceUseCase
	Lifecycle *appbilling.LifecycleUseCase
	Scanner   *appbilling.DuesScanner
	Dashboard *appanalytics.DashboardUseCase
	Clock     appbilling.Clock

	closers []func()
}

// Close libera conexiones en orden inverso al de apertura.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

type repos struct {
	customers repository.CustomerRepository
	menu      repository.MenuItemRepository
	extras    repository.DailyExtraRepository
	advances  repository.AdvancePaymentRepository
	invoices  repository.InvoiceRepository
	users     repository.UserRepository
	tx        usecase.TxRunner
	locker    appbilling.ScanLocker
}

// Build abre el almacenamiento elegido en cfg.Storage.Driver y arma los casos de uso.
//
// Candado de escaneo: Redis si REDIS_ADDR está definido; si no, advisory lock de
// PostgreSQL; con almacenamiento en memoria, un mutex del proceso.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	loc, err := cfg.Billing.Location()
	if err != nil {
		return nil, err
	}
	c := &Container{Clock: appbilling.SystemClock(loc)}

	var r repos
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		store := memory.NewStore()
		r = repos{
			customers: store.Customers(),
			menu:      store.MenuItems(),
			extras:    store.Extras(),
			advances:  store.Advances(),
			invoices:  store.Invoices(),
			users:     store.Users(),
			tx:        store,
			locker:    memory.NewScanLocker(),
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		r = repos{
			customers: postgres.NewCustomerRepository(pool),
			menu:      postgres.NewMenuItemRepository(pool),
			extras:    postgres.NewDailyExtraRepository(pool),
			advances:  postgres.NewAdvancePaymentRepository(pool),
			invoices:  postgres.NewInvoiceRepository(pool),
			users:     postgres.NewUserRepository(pool),
			tx:        postgres.NewTxRunner(pool),
			locker:    postgres.NewAdvisoryScanLocker(pool),
		}
	}

	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.closers = append(c.closers, func() { closeRedis(rdb, log) })
		r.locker = infraredis.NewScanLocker(rdb, cfg.Billing.ScanLockTTL())
		log.Info().Str("addr", cfg.Redis.Addr).Msg("candado de escaneo en Redis")
	}

	business := appbilling.BusinessInfo{
		Name:    cfg.Business.Name,
		Address: cfg.Business.Address,
		Phone:   cfg.Business.Phone,
	}
	now := c.Clock

	c.Auth = auth.NewAuthUseCase(r.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, now)
	c.Customers = usecase.NewCustomerUseCase(r.customers, r.invoices, r.tx, now, log)
	c.Menu = usecase.NewMenuUseCase(r.menu, now)
	c.Extras = usecase.NewExtraUseCase(r.extras, r.customers, r.menu, now)
	c.Advances = usecase.NewAdvanceUseCase(r.advances, r.customers, now)
	c.Search = usecase.NewSearchUseCase(r.customers, r.menu, c.Extras)
	c.Invoices = appbilling.NewInvoiceUseCase(
		r.customers, r.menu, r.extras, r.advances, r.invoices,
		infrapdf.NewMarotoPDFGenerator(), business, c.Clock,
	)
	c.Lifecycle = appbilling.NewLifecycleUseCase(r.invoices, r.customers, excel.NewLedgerExporter(), c.Clock)
	c.Scanner = appbilling.NewDuesScanner(
		r.customers, r.menu, r.extras, r.advances, r.invoices,
		r.locker, c.Clock, log,
	)
	c.Dashboard = appanalytics.NewDashboardUseCase(r.customers, r.menu, r.extras, r.invoices, now)
	return c, nil
}

func closeRedis(rdb *goredis.Client, log *logger.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("cerrar Redis")
	}
}
