package repository

import (
	"context"

	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// AdvanceFilter filtra anticipos. Year se compara contra el año imputado, no contra la fecha de pago.
type AdvanceFilter struct {
	CustomerID string
	Year       int // 0 = todos
}

// AdvancePaymentRepository define el puerto de persistencia para AdvancePayment.
type AdvancePaymentRepository interface {
	Create(ctx context.Context, advance *entity.AdvancePayment) error
	GetByID(ctx context.Context, id string) (*entity.AdvancePayment, error)
	// List ordena por fecha de pago descendente.
	List(ctx context.Context, filter AdvanceFilter) ([]*entity.AdvancePayment, error)
	Delete(ctx context.Context, id string) error
	DeleteByCustomer(ctx context.Context, customerID string) (int, error)
}
