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

// AdvanceUseCase registra y consulta anticipos.
type AdvanceUseCase struct {
	repo         repository.AdvancePaymentRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewAdvanceUseCase construye el caso de uso.
func NewAdvanceUseCase(repo repository.AdvancePaymentRepository, customerRepo repository.CustomerRepository, now func() time.Time) *AdvanceUseCase {
	return &AdvanceUseCase{repo: repo, customerRepo: customerRepo, now: now}
}

// Add registra un anticipo. Sin mes/año explícitos compensa el mes de la fecha de pago.
func (uc *AdvanceUseCase) Add(ctx context.Context, in dto.AddAdvanceRequest) (*dto.AdvanceResponse, error) {
	date, err := billing.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: el anticipo no puede ser negativo", domain.ErrInvalidInput)
	}
	if !money.Cents(in.Amount) {
		return nil, fmt.Errorf("%w: el anticipo admite como máximo dos decimales", domain.ErrInvalidInput)
	}
	month, year := in.Month, in.Year
	if month == 0 {
		month = int(date.Month())
	}
	if year == 0 {
		year = date.Year()
	}
	if _, err := billing.NewPeriod(year, month); err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("obtener cliente: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}

	advance := &entity.AdvancePayment{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		Amount:     in.Amount,
		Date:       date,
		Month:      month,
		Year:       year,
		Notes:      strings.TrimSpace(in.Notes),
		CreatedAt:  uc.now(),
	}
	if err := uc.repo.Create(ctx, advance); err != nil {
		return nil, fmt.Errorf("registrar anticipo: %w", err)
	}
	out := toAdvanceResponse(advance, customer)
	return &out, nil
}

// List lista anticipos, el pago más reciente primero.
func (uc *AdvanceUseCase) List(ctx context.Context, q dto.AdvanceListQuery) ([]dto.AdvanceResponse, error) {
	list, err := uc.repo.List(ctx, repository.AdvanceFilter{CustomerID: q.CustomerID, Year: q.Year})
	if err != nil {
		return nil, fmt.Errorf("listar anticipos: %w", err)
	}
	customers, err := customerIndex(ctx, uc.customerRepo)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdvanceResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAdvanceResponse(a, customers[a.CustomerID]))
	}
	return out, nil
}

// Delete borra un anticipo.
func (uc *AdvanceUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("borrar anticipo %s: %w", id, err)
	}
	return nil
}

func toAdvanceResponse(a *entity.AdvancePayment, c *entity.Customer) dto.AdvanceResponse {
	out := dto.AdvanceResponse{
		ID:         a.ID,
		CustomerID: a.CustomerID,
		Amount:     a.Amount,
		Date:       a.Date.Format(billing.DateLayout),
		Month:      a.Month,
		Year:       a.Year,
		Notes:      a.Notes,
	}
	if c != nil {
		out.CustomerName = c.Name
	}
	return out
}
