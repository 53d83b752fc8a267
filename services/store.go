package services

import (
	"context"
	"time"

	"restaurant-site/models"
)

// Lookups by id return ok=false with a nil error when no row matches.

type CategoryStore interface {
	InsertCategory(ctx context.Context, in models.CreateMenuCategoryInput) (*models.MenuCategory, error)
	// ListActiveCategories orders by display_order, then id.
	ListActiveCategories(ctx context.Context) ([]models.MenuCategory, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

type ItemStore interface {
	InsertItem(ctx context.Context, in models.CreateMenuItemInput) (*models.MenuItem, error)
	// ListAvailableItemsByCategory orders by display_order, then id.
	ListAvailableItemsByCategory(ctx context.Context, categoryID int64) ([]models.MenuItem, error)
	GetItem(ctx context.Context, id int64) (*models.MenuItem, bool, error)
	UpdateItem(ctx context.Context, id int64, patch models.UpdateMenuItemInput) (*models.MenuItem, bool, error)
	// ListChefsSpecials returns specials of active categories ordered by
	// display_order desc, then created_at desc.
	ListChefsSpecials(ctx context.Context) ([]models.MenuItem, error)
}

type ReservationStore interface {
	InsertReservation(ctx context.Context, r models.NewReservation) (*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status string, at time.Time) (*models.Reservation, bool, error)
	// ListReservationsByDate returns every status, ordered by reservation_time, then id.
	ListReservationsByDate(ctx context.Context, date models.Date) ([]models.Reservation, error)
}

// Store is everything the site reads and writes.
type Store interface {
	CategoryStore
	ItemStore
	ReservationStore
}
