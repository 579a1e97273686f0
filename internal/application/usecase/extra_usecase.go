package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/billing"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

// ExtraUseCase registra y consulta extras diarios.
type ExtraUseCase struct {
	repo         repository.DailyExtraRepository
	customerRepo repository.CustomerRepository
	menuRepo     repository.MenuItemRepository
	now          func() time.Time
}

// NewExtraUseCase construye el caso de uso.
func NewExtraUseCase(
	repo repository.DailyExtraRepository,
	customerRepo repository.CustomerRepository,
	menuRepo repository.MenuItemRepository,
	now func() time.Time,
) *ExtraUseCase {
	return &ExtraUseCase{repo: repo, customerRepo: customerRepo, menuRepo: menuRepo, now: now}
}

// Add registra un extra. Sin precio explícito se copia el precio actual del plato;
// después, cambios en el menú no afectan al extra.
func (uc *ExtraUseCase) Add(ctx context.Context, in dto.AddExtraRequest) (*dto.ExtraResponse, error) {
	date, err := billing.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if !entity.ValidMealType(in.MealType) {
		return nil, fmt.Errorf("%w: comida %q", domain.ErrInvalidInput, in.MealType)
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}

	// ── Precio: explícito o copiado del menú ─────────────────────────────────
	var item *entity.MenuItem
	if in.MenuItemID != "" {
		item, err = uc.menuRepo.GetByID(ctx, in.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("obtener plato: %w", err)
		}
		if item == nil {
			return nil, fmt.Errorf("%w: plato %s", domain.ErrNotFound, in.MenuItemID)
		}
	}
	extra := &entity.DailyExtra{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Date:       date,
		MealType:   in.MealType,
		MenuItemID: in.MenuItemID,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  uc.now(),
	}
	switch {
	case in.Price != nil:
		extra.Price = *in.Price
	case item != nil:
		extra.Price = item.Price
	default:
		return nil, fmt.Errorf("%w: indique el precio o un plato del menú", domain.ErrInvalidInput)
	}
	if extra.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if !money.Cents(extra.Price) {
		return nil, fmt.Errorf("%w: el precio admite como máximo dos decimales", domain.ErrInvalidInput)
	}

	if err := uc.repo.Create(ctx, extra); err != nil {
		return nil, fmt.Errorf("registrar extra: %w", err)
	}
	out := toExtraResponse(extra, customer, item)
	return &out, nil
}

// List lista extras de una fecha, o de un cliente en un rango de fechas.
func (uc *ExtraUseCase) List(ctx context.Context, q dto.ExtraListQuery) ([]dto.ExtraResponse, error) {
	var (
		extras []*entity.DailyExtra
		err    error
	)
	switch {
	case q.CustomerID != "":
		from, to, rerr := extraRange(q, uc.now())
		if rerr != nil {
			return nil, rerr
		}
		extras, err = uc.repo.ListByCustomer(ctx, q.CustomerID, from, to)
	default:
		date := billing.DateOnly(uc.now())
		if q.Date != "" {
			if date, err = billing.ParseDate(q.Date); err != nil {
				return nil, err
			}
		}
		extras, err = uc.repo.ListByDate(ctx, date)
	}
	if err != nil {
		return nil, fmt.Errorf("listar extras: %w", err)
	}
	return uc.resolve(ctx, extras)
}

// extraRange sin límites toma el mes en curso.
func extraRange(q dto.ExtraListQuery, now time.Time) (time.Time, time.Time, error) {
	current := billing.PeriodOf(now)
	from, to := current.FirstDay(), current.LastDay()
	var err error
	if q.From != "" {
		if from, err = billing.ParseDate(q.From); err != nil {
			return from, to, err
		}
	}
	if q.To != "" {
		if to, err = billing.ParseDate(q.To); err != nil {
			return from, to, err
		}
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("%w: el rango termina antes de empezar", domain.ErrInvalidInput)
	}
	return from, to, nil
}

// Delete borra un extra por ID.
func (uc *ExtraUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("borrar extra %s: %w", id, err)
	}
	return nil
}

// DeleteByDetails borra los extras del cliente en la fecha y comida dadas; sin comida, todos los del día.
func (uc *ExtraUseCase) DeleteByDetails(ctx context.Context, in dto.DeleteExtrasByDetailsRequest) (*dto.DeletedResponse, error) {
	date, err := billing.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.MealType != "" && !entity.ValidMealType(in.MealType) {
		return nil, fmt.Errorf("%w: comida %q", domain.ErrInvalidInput, in.MealType)
	}
	n, err := uc.repo.DeleteByDetails(ctx, in.CustomerID, date, in.MealType)
	if err != nil {
		return nil, fmt.Errorf("borrar extras: %w", err)
	}
	return &dto.DeletedResponse{Deleted: n}, nil
}

// resolve completa nombres de cliente y plato con una lectura de cada tabla.
func (uc *ExtraUseCase) resolve(ctx context.Context, extras []*entity.DailyExtra) ([]dto.ExtraResponse, error) {
	customers, err := customerIndex(ctx, uc.customerRepo)
	if err != nil {
		return nil, err
	}
	items, err := uc.menuRepo.List(ctx, repository.MenuFilter{})
	if err != nil {
		return nil, fmt.Errorf("listar menú: %w", err)
	}
	menu := make(map[string]*entity.MenuItem, len(items))
	for _, m := range items {
		menu[m.ID] = m
	}
	out := make([]dto.ExtraResponse, 0, len(extras))
	for _, e := range extras {
		out = append(out, toExtraResponse(e, customers[e.CustomerID], menu[e.MenuItemID]))
	}
	return out, nil
}

func customerIndex(ctx context.Context, repo repository.CustomerRepository) (map[string]*entity.Customer, error) {
	list, err := repo.List(ctx, repository.CustomerFilter{IncludeArchived: true})
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	idx := make(map[string]*entity.Customer, len(list))
	for _, c := range list {
		idx[c.ID] = c
	}
	return idx, nil
}

func toExtraResponse(e *entity.DailyExtra, c *entity.Customer, item *entity.MenuItem) dto.ExtraResponse {
	out := dto.ExtraResponse{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Date:       e.Date.Format(billing.DateLayout),
		MealType:   e.MealType,
		MenuItemID: e.MenuItemID,
		Price:      e.Price,
		Notes:      e.Notes,
	}
	if c != nil {
		out.CustomerName = c.Name
	}
	if item != nil {
		out.MenuItemName = item.Name
	}
	return out
}
