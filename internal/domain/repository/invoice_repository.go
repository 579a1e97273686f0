package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tiffin-api/internal/domain/entity"
)

// InvoiceFilter filtra facturas. Status vacío = todas.
type InvoiceFilter struct {
	Status     string
	CustomerID string
}

// InvoiceRepository define el puerto de persistencia para Invoice.
type InvoiceRepository interface {
	// Create devuelve domain.ErrConflict si ya existe factura para (cliente, mes, año).
	Create(ctx context.Context, invoice *entity.Invoice) error
	// GetByID devuelve (nil, nil) si la factura no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// FindByPeriod devuelve (nil, nil) si no hay factura para el período.
	FindByPeriod(ctx context.Context, customerID string, month, year int) (*entity.Invoice, error)
	// List ordena de la más reciente a la más antigua.
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	// MarkPaid aplica pending -> paid una sola vez: domain.ErrNotFound si no existe,
	// domain.ErrInvalidState si ya estaba pagada (sin modificar paidAt ni notas).
	MarkPaid(ctx context.Context, id, notes string, paidAt time.Time) (*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
	DeleteByCustomer(ctx context.Context, customerID string) (int, error)
}
