package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/tiffin-api/internal/application/dto"
	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

// Límites de la búsqueda global.
const (
	SearchMinLength  = 2
	SearchMaxPerKind = 10
)

// SearchUseCase búsqueda global sobre clientes, menú y extras.
type SearchUseCase struct {
	customerRepo repository.CustomerRepository
	menuRepo     repository.MenuItemRepository
	extras       *ExtraUseCase
}

// NewSearchUseCase construye el caso de uso. Los extras se resuelven con ExtraUseCase.
func NewSearchUseCase(customerRepo repository.CustomerRepository, menuRepo repository.MenuItemRepository, extras *ExtraUseCase) *SearchUseCase {
	return &SearchUseCase{customerRepo: customerRepo, menuRepo: menuRepo, extras: extras}
}

// Search busca q sin distinguir mayúsculas. Clientes por nombre, celular o dirección;
// platos por nombre, categoría o descripción; extras por fecha, comida, notas o nombres.
// Cada grupo trae como máximo SearchMaxPerKind resultados. Los clientes archivados no aparecen.
func (uc *SearchUseCase) Search(ctx context.Context, q string) (*dto.SearchResponse, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < SearchMinLength {
		return nil, fmt.Errorf("%w: la búsqueda necesita al menos %d caracteres", domain.ErrInvalidInput, SearchMinLength)
	}
	customers, err := uc.customerRepo.List(ctx, repository.CustomerFilter{Query: q})
	if err != nil {
		return nil, fmt.Errorf("buscar clientes: %w", err)
	}
	items, err := uc.menuRepo.List(ctx, repository.MenuFilter{Query: q})
	if err != nil {
		return nil, fmt.Errorf("buscar platos: %w", err)
	}
	extras, err := uc.extras.repo.Search(ctx, q, SearchMaxPerKind)
	if err != nil {
		return nil, fmt.Errorf("buscar extras: %w", err)
	}
	resolved, err := uc.extras.resolve(ctx, extras)
	if err != nil {
		return nil, err
	}

	out := &dto.SearchResponse{
		Query:     q,
		Customers: make([]dto.CustomerResponse, 0, min(len(customers), SearchMaxPerKind)),
		MenuItems: make([]dto.MenuItemResponse, 0, min(len(items), SearchMaxPerKind)),
		Extras:    resolved,
	}
	for _, c := range customers[:min(len(customers), SearchMaxPerKind)] {
		out.Customers = append(out.Customers, dto.FromCustomer(c))
	}
	for _, m := range items[:min(len(items), SearchMaxPerKind)] {
		out.MenuItems = append(out.MenuItems, dto.FromMenuItem(m))
	}
	return out, nil
}
