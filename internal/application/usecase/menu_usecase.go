package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
	"github.com/jhoicas/tiffin-api/pkg/money"
)

// MenuUseCase aplica reglas de negocio para el menú.
type MenuUseCase struct {
	repo repository.MenuItemRepository
	now  func() time.Time
}

// NewMenuUseCase construye el caso de uso con el puerto de persistencia.
func NewMenuUseCase(repo repository.MenuItemRepository, now func() time.Time) *MenuUseCase {
	return &MenuUseCase{repo: repo, now: now}
}

// Create da de alta un plato.
func (uc *MenuUseCase) Create(ctx context.Context, in dto.MenuItemRequest) (*dto.MenuItemResponse, error) {
	now := uc.now()
	item := &entity.MenuItem{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if err := applyMenuRequest(item, in); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("crear plato: %w", err)
	}
	out := dto.FromMenuItem(item)
	return &out, nil
}

// GetByID obtiene un plato.
func (uc *MenuUseCase) GetByID(ctx context.Context, id string) (*dto.MenuItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromMenuItem(item)
	return &out, nil
}

// List lista platos por categoría y nombre.
func (uc *MenuUseCase) List(ctx context.Context, q dto.MenuListQuery) ([]dto.MenuItemResponse, error) {
	if q.Category != "" && !entity.ValidMenuCategory(q.Category) {
		return nil, fmt.Errorf("%w: categoría %q", domain.ErrInvalidInput, q.Category)
	}
	list, err := uc.repo.List(ctx, repository.MenuFilter{Category: q.Category, AvailableOnly: q.AvailableOnly, Query: q.Q})
	if err != nil {
		return nil, fmt.Errorf("listar menú: %w", err)
	}
	out := make([]dto.MenuItemResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromMenuItem(m))
	}
	return out, nil
}

// Update modifica un plato. Los extras ya registrados conservan el precio copiado.
func (uc *MenuUseCase) Update(ctx context.Context, id string, in dto.MenuItemRequest) (*dto.MenuItemResponse, error) {
	item, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyMenuRequest(item, in); err != nil {
		return nil, err
	}
	item.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("actualizar plato: %w", err)
	}
	out := dto.FromMenuItem(item)
	return &out, nil
}

// Delete borra un plato. Los extras que lo referencian se facturan con la etiqueta genérica.
func (uc *MenuUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("borrar plato: %w", err)
	}
	return nil
}

func (uc *MenuUseCase) get(ctx context.Context, id string) (*entity.MenuItem, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener plato: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: plato %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func applyMenuRequest(m *entity.MenuItem, in dto.MenuItemRequest) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: nombre obligatorio", domain.ErrInvalidInput)
	}
	if !entity.ValidMenuCategory(in.Category) {
		return fmt.Errorf("%w: categoría %q (breakfast | lunch | dinner | all)", domain.ErrInvalidInput, in.Category)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if !money.Cents(in.Price) {
		return fmt.Errorf("%w: el precio admite como máximo dos decimales", domain.ErrInvalidInput)
	}
	m.Name = name
	m.Category = in.Category
	m.Price = in.Price
	m.Description = strings.TrimSpace(in.Description)
	m.Available = in.Available == nil || *in.Available
	return nil
}
