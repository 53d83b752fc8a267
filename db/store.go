package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant-site/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads and writes menu and reservation rows in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const categoryColumns = `id, name, description, display_order, is_active, created_at`

const itemColumns = `id, category_id, name, description, ingredients, preparation_info,
	price, image_url, is_chefs_special, is_available, dietary_info, display_order,
	created_at, updated_at`

const reservationColumns = `id, customer_name, customer_email, customer_phone, party_size,
	reservation_date, reservation_time, special_requests, status::text, created_at, updated_at`

// prefixed qualifies each column of a list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func scanCategory(row pgx.Row) (models.MenuCategory, error) {
	var c models.MenuCategory
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.DisplayOrder, &c.IsActive, &c.CreatedAt)
	return c, err
}

func scanItem(row pgx.Row) (models.MenuItem, error) {
	var it models.MenuItem
	err := row.Scan(
		&it.ID, &it.CategoryID, &it.Name, &it.Description, &it.Ingredients, &it.PreparationInfo,
		&it.Price, &it.ImageURL, &it.IsChefsSpecial, &it.IsAvailable, &it.DietaryInfo, &it.DisplayOrder,
		&it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

func scanReservation(row pgx.Row) (models.Reservation, error) {
	var r models.Reservation
	var date time.Time
	err := row.Scan(
		&r.ID, &r.CustomerName, &r.CustomerEmail, &r.CustomerPhone, &r.PartySize,
		&date, &r.ReservationTime, &r.SpecialRequests, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
	r.ReservationDate = models.NewDate(date)
	return r, err
}

func (s *Store) InsertCategory(ctx context.Context, in models.CreateMenuCategoryInput) (*models.MenuCategory, error) {
	c, err := scanCategory(s.pool.QueryRow(ctx, `
		INSERT INTO menu_categories (name, description, display_order)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		in.Name, in.Description, in.DisplayOrder,
	))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListActiveCategories(ctx context.Context) ([]models.MenuCategory, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+categoryColumns+` FROM menu_categories
		WHERE is_active
		ORDER BY display_order, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.MenuCategory{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menu_categories WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// SetCategoryActive toggles a category from the command line.
func (s *Store) SetCategoryActive(ctx context.Context, id int64, active bool) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE menu_categories SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) InsertItem(ctx context.Context, in models.CreateMenuItemInput) (*models.MenuItem, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, `
		INSERT INTO menu_items (
			category_id, name, description, ingredients, preparation_info,
			price, image_url, is_chefs_special, dietary_info, display_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+itemColumns,
		in.CategoryID, in.Name, in.Description, in.Ingredients, in.PreparationInfo,
		in.Price, in.ImageURL, in.IsChefsSpecial, in.DietaryInfo, in.DisplayOrder,
	))
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) queryItems(ctx context.Context, sql string, args ...any) ([]models.MenuItem, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) ListAvailableItemsByCategory(ctx context.Context, categoryID int64) ([]models.MenuItem, error) {
	return s.queryItems(ctx, `
		SELECT `+itemColumns+` FROM menu_items
		WHERE category_id = $1 AND is_available
		ORDER BY display_order, id`,
		categoryID,
	)
}

func (s *Store) GetItem(ctx context.Context, id int64) (*models.MenuItem, bool, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &it, true, nil
}

// UpdateItem locks the row, merges the patch and writes every column back.
func (s *Store) UpdateItem(ctx context.Context, id int64, patch models.UpdateMenuItemInput) (*models.MenuItem, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanItem(tx.QueryRow(ctx, `SELECT `+itemColumns+` FROM menu_items WHERE id = $1 FOR UPDATE`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	patch.Apply(&current)

	updated, err := scanItem(tx.QueryRow(ctx, `
		UPDATE menu_items SET
			category_id = $1,
			name = $2,
			description = $3,
			ingredients = $4,
			preparation_info = $5,
			price = $6,
			image_url = $7,
			is_chefs_special = $8,
			is_available = $9,
			dietary_info = $10,
			display_order = $11,
			updated_at = now()
		WHERE id = $12
		RETURNING `+itemColumns,
		current.CategoryID, current.Name, current.Description, current.Ingredients, current.PreparationInfo,
		current.Price, current.ImageURL, current.IsChefsSpecial, current.IsAvailable, current.DietaryInfo,
		current.DisplayOrder, id,
	))
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}
	return &updated, true, nil
}

func (s *Store) ListChefsSpecials(ctx context.Context) ([]models.MenuItem, error) {
	return s.queryItems(ctx, `
		SELECT `+prefixed("i", itemColumns)+`
		FROM menu_items i
		JOIN menu_categories c ON c.id = i.category_id
		WHERE i.is_chefs_special AND c.is_active
		ORDER BY i.display_order DESC, i.created_at DESC, i.id DESC`,
	)
}

func (s *Store) InsertReservation(ctx context.Context, r models.NewReservation) (*models.Reservation, error) {
	res, err := scanReservation(s.pool.QueryRow(ctx, `
		INSERT INTO reservations (
			customer_name, customer_email, customer_phone, party_size,
			reservation_date, reservation_time, special_requests, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::reservation_status)
		RETURNING `+reservationColumns,
		r.CustomerName, r.CustomerEmail, r.CustomerPhone, r.PartySize,
		r.ReservationDate.Time, r.ReservationTime, r.SpecialRequests, r.Status,
	))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Store) UpdateReservationStatus(ctx context.Context, id int64, status string, at time.Time) (*models.Reservation, bool, error) {
	res, err := scanReservation(s.pool.QueryRow(ctx, `
		UPDATE reservations SET status = $1::reservation_status, updated_at = $2
		WHERE id = $3
		RETURNING `+reservationColumns,
		status, at, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &res, true, nil
}

func (s *Store) ListReservationsByDate(ctx context.Context, date models.Date) ([]models.Reservation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE reservation_date = $1
		ORDER BY reservation_time, id`,
		date.Time,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
