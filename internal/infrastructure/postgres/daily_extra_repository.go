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

var _ repository.DailyExtraRepository = (*DailyExtraRepo)(nil)

// DailyExtraRepo implementación de DailyExtraRepository. El orden de alta lo da la columna seq.
type DailyExtraRepo struct {
	q Querier
}

// NewDailyExtraRepository construye el adaptador.
func NewDailyExtraRepository(q Querier) *DailyExtraRepo {
	return &DailyExtraRepo{q: q}
}

const extraColumns = `id, customer_id, extra_date, meal_type, COALESCE(menu_item_id::text, ''), price, notes, created_at`

func scanExtra(row pgx.Row) (*entity.DailyExtra, error) {
	var e entity.DailyExtra
	if err := row.Scan(&e.ID, &e.CustomerID, &e.Date, &e.MealType, &e.MenuItemID, &e.Price, &e.Notes, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *DailyExtraRepo) Create(ctx context.Context, e *entity.DailyExtra) error {
	var menuItemID any
	if e.MenuItemID != "" {
		menuItemID = e.MenuItemID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO daily_extras (id, customer_id, extra_date, meal_type, menu_item_id, price, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.CustomerID, e.Date, e.MealType, menuItemID, e.Price, e.Notes, e.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, e.CustomerID)
		}
		return fmt.Errorf("insert daily extra: %w", err)
	}
	return nil
}

func (r *DailyExtraRepo) GetByID(ctx context.Context, id string) (*entity.DailyExtra, error) {
	e, err := scanExtra(r.q.QueryRow(ctx, `SELECT `+extraColumns+` FROM daily_extras WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get daily extra: %w", err)
	}
	return e, nil
}

func (r *DailyExtraRepo) ListByDate(ctx context.Context, date time.Time) ([]*entity.DailyExtra, error) {
	return r.list(ctx, `WHERE extra_date = $1`, date)
}

func (r *DailyExtraRepo) ListByCustomer(ctx context.Context, customerID string, from, to time.Time) ([]*entity.DailyExtra, error) {
	return r.list(ctx, `WHERE customer_id = $1 AND extra_date BETWEEN $2 AND $3`, customerID, from, to)
}

func (r *DailyExtraRepo) Search(ctx context.Context, query string, limit int) ([]*entity.DailyExtra, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+extraColumns+` FROM daily_extras
		WHERE to_char(extra_date, 'YYYY-MM-DD') ILIKE $1 OR meal_type ILIKE $1 OR notes ILIKE $1
			OR customer_id IN (SELECT id FROM customers WHERE name ILIKE $1)
			OR menu_item_id IN (SELECT id FROM menu_items WHERE name ILIKE $1)
		ORDER BY extra_date DESC, seq DESC
		LIMIT $2`, likePattern(strings.TrimSpace(query)), limit)
	if err != nil {
		return nil, fmt.Errorf("search daily extras: %w", err)
	}
	return collectExtras(rows)
}

func (r *DailyExtraRepo) list(ctx context.Context, where string, args ...any) ([]*entity.DailyExtra, error) {
	rows, err := r.q.Query(ctx, `SELECT `+extraColumns+` FROM daily_extras `+where+` ORDER BY extra_date, seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("list daily extras: %w", err)
	}
	return collectExtras(rows)
}

func collectExtras(rows pgx.Rows) ([]*entity.DailyExtra, error) {
	defer rows.Close()
	list := make([]*entity.DailyExtra, 0)
	for rows.Next() {
		e, err := scanExtra(rows)
		if err != nil {
			return nil, fmt.Errorf("scan daily extra: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *DailyExtraRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM daily_extras WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete daily extra: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DailyExtraRepo) DeleteByDetails(ctx context.Context, customerID string, date time.Time, mealType string) (int, error) {
	tag, err := r.q.Exec(ctx, `
		DELETE FROM daily_extras
		WHERE customer_id = $1 AND extra_date = $2 AND ($3::text = '' OR meal_type = $3::text)`,
		customerID, date, mealType)
	if err != nil {
		return 0, fmt.Errorf("delete daily extras by details: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *DailyExtraRepo) DeleteByCustomer(ctx context.Context, customerID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM daily_extras WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, fmt.Errorf("delete daily extras by customer: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
