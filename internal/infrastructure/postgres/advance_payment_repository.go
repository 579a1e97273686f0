package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tiffin-api/internal/domain"
	"github.com/jhoicas/tiffin-api/internal/domain/entity"
	"github.com/jhoicas/tiffin-api/internal/domain/repository"
)

var _ repository.AdvancePaymentRepository = (*AdvancePaymentRepo)(nil)

// AdvancePaymentRepo implementación de AdvancePaymentRepository.
type AdvancePaymentRepo struct {
	q Querier
}

// NewAdvancePaymentRepository construye el adaptador.
func NewAdvancePaymentRepository(q Querier) *AdvancePaymentRepo {
	return &AdvancePaymentRepo{q: q}
}

const advanceColumns = `id, customer_id, amount, payment_date, month, year, notes, created_at`

func scanAdvance(row pgx.Row) (*entity.AdvancePayment, error) {
	var (
		a           entity.AdvancePayment
		month, year int16
	)
	if err := row.Scan(&a.ID, &a.CustomerID, &a.Amount, &a.Date, &month, &year, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Month, a.Year = int(month), int(year)
	return &a, nil
}

func (r *AdvancePaymentRepo) Create(ctx context.Context, a *entity.AdvancePayment) error {
	_, err := r.q.Exec(ctx, `INSERT INTO advance_payments (`+advanceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.CustomerID, a.Amount, a.Date, a.Month, a.Year, a.Notes, a.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, a.CustomerID)
		}
		return fmt.Errorf("insert advance payment: %w", err)
	}
	return nil
}

func (r *AdvancePaymentRepo) GetByID(ctx context.Context, id string) (*entity.AdvancePayment, error) {
	a, err := scanAdvance(r.q.QueryRow(ctx, `SELECT `+advanceColumns+` FROM advance_payments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get advance payment: %w", err)
	}
	return a, nil
}

func (r *AdvancePaymentRepo) List(ctx context.Context, filter repository.AdvanceFilter) ([]*entity.AdvancePayment, error) {
	var (
		where []string
		args  []any
	)
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where = append(where, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.Year != 0 {
		args = append(args, filter.Year)
		where = append(where, fmt.Sprintf("year = $%d", len(args)))
	}
	query := `SELECT ` + advanceColumns + ` FROM advance_payments`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY payment_date DESC, created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list advance payments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.AdvancePayment, 0)
	for rows.Next() {
		a, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan advance payment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *AdvancePaymentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM advance_payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete advance payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AdvancePaymentRepo) DeleteByCustomer(ctx context.Context, customerID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM advance_payments WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete advance payments by customer: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
