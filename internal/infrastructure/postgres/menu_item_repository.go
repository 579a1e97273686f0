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

var _ repository.MenuItemRepository = (*MenuItemRepo)(nil)

// MenuItemRepo implementación de MenuItemRepository.
type MenuItemRepo struct {
	q Querier
}

// NewMenuItemRepository construye el adaptador.
func NewMenuItemRepository(q Querier) *MenuItemRepo {
	return &MenuItemRepo{q: q}
}

const menuColumns = `id, name, category, price, description, available, created_at, updated_at`

func scanMenuItem(row pgx.Row) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := row.Scan(&m.ID, &m.Name, &m.Category, &m.Price, &m.Description, &m.Available, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuItemRepo) Create(ctx context.Context, m *entity.MenuItem) error {
	_, err := r.q.Exec(ctx, `INSERT INTO menu_items (`+menuColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.Name, m.Category, m.Price, m.Description, m.Available, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (r *MenuItemRepo) GetByID(ctx context.Context, id string) (*entity.MenuItem, error) {
	m, err := scanMenuItem(r.q.QueryRow(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return m, nil
}

// List ordena por categoría y nombre. Un filtro de comida incluye los platos "all"; el filtro "all" no filtra.
func (r *MenuItemRepo) List(ctx context.Context, filter repository.MenuFilter) ([]*entity.MenuItem, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" && filter.Category != entity.CategoryAll {
		args = append(args, filter.Category)
		where = append(where, fmt.Sprintf("(category = $%d OR category = 'all')", len(args)))
	}
	if filter.AvailableOnly {
		where = append(where, "available")
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, likePattern(q))
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR category ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	query := `SELECT ` + menuColumns + ` FROM menu_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY category, LOWER(name), id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *MenuItemRepo) Update(ctx context.Context, m *entity.MenuItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE menu_items SET name = $2, category = $3, price = $4, description = $5, available = $6, updated_at = $7
		WHERE id = $1`,
		m.ID, m.Name, m.Category, m.Price, m.Description, m.Available, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MenuItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
