package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository. La unicidad por período la garantiza
// ux_invoices_customer_period; el cobro es un UPDATE condicional sobre status.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, customer_id, month, year, amount, status, created_at, paid_at, payment_notes`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var (
		inv         entity.Invoice
		month, year int16
	)
	if err := row.Scan(&inv.ID, &inv.CustomerID, &month, &year, &inv.Amount, &inv.Status,
		&inv.CreatedAt, &inv.PaidAt, &inv.PaymentNotes); err != nil {
		return nil, err
	}
	inv.Month, inv.Year = int(month), int(year)
	return &inv, nil
}

// Create inserta la factura. Un duplicado de (cliente, mes, año) devuelve domain.ErrConflict.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `INSERT INTO invoices (`+invoiceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		inv.ID, inv.CustomerID, inv.Month, inv.Year, inv.Amount, inv.Status, inv.CreatedAt, inv.PaidAt, inv.PaymentNotes)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return fmt.Errorf("%w: factura duplicada para %d-%02d", domain.ErrConflict, inv.Year, inv.Month)
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, inv.CustomerID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (r *InvoiceRepo) FindByPeriod(ctx context.Context, customerID string, month, year int) (*entity.Invoice, error) {
	return r.one(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE customer_id = $1 AND month = $2 AND year = $3`,
		customerID, month, year)
}

func (r *InvoiceRepo) one(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY year DESC, month DESC, created_at DESC, id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// MarkPaid pasa pending -> paid en una sola sentencia; dos cobros concurrentes no pueden ganar ambos.
func (r *InvoiceRepo) MarkPaid(ctx context.Context, id, notes string, paidAt time.Time) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `
		UPDATE invoices SET status = 'paid', paid_at = $2, payment_notes = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING `+invoiceColumns, id, paidAt, notes))
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("mark invoice paid: %w", err)
	}
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInvalidState
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) DeleteByCustomer(ctx context.Context, customerID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete invoices by customer: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
