// Package memstore keeps menu and reservation rows in process memory. It
// orders and filters exactly like the PostgreSQL store and backs tests and
// `serve --memory`.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"restaurant-site/models"
)

type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	nextID       int64
	categories   []models.MenuCategory
	items        []models.MenuItem
	reservations []models.Reservation
}

func New() *Store {
	return &Store{now: time.Now}
}

// NewWithClock stamps rows with now instead of time.Now.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) InsertCategory(_ context.Context, in models.CreateMenuCategoryInput) (*models.MenuCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := models.MenuCategory{
		ID:           s.id(),
		Name:         in.Name,
		Description:  in.Description,
		DisplayOrder: in.DisplayOrder,
		IsActive:     true,
		CreatedAt:    s.now(),
	}
	s.categories = append(s.categories, c)
	return &c, nil
}

// SetCategoryActive toggles a category; the site itself has no such operation.
func (s *Store) SetCategoryActive(id int64, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories[i].IsActive = active
			return true
		}
	}
	return false
}

func (s *Store) ListActiveCategories(_ context.Context) ([]models.MenuCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.MenuCategory{}
	for _, c := range s.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) CategoryExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.category(id)
	return ok, nil
}

func (s *Store) category(id int64) (models.MenuCategory, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.MenuCategory{}, false
}

func (s *Store) InsertItem(_ context.Context, in models.CreateMenuItemInput) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	item := models.MenuItem{
		ID:              s.id(),
		CategoryID:      in.CategoryID,
		Name:            in.Name,
		Description:     in.Description,
		Ingredients:     in.Ingredients,
		PreparationInfo: in.PreparationInfo,
		Price:           in.Price,
		ImageURL:        in.ImageURL,
		IsChefsSpecial:  in.IsChefsSpecial,
		IsAvailable:     true,
		DietaryInfo:     in.DietaryInfo,
		DisplayOrder:    in.DisplayOrder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.items = append(s.items, item)
	return &item, nil
}

func (s *Store) ListAvailableItemsByCategory(_ context.Context, categoryID int64) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.MenuItem{}
	for _, it := range s.items {
		if it.CategoryID == categoryID && it.IsAvailable {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetItem(_ context.Context, id int64) (*models.MenuItem, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return &it, true, nil
		}
	}
	return nil, false, nil
}

func (s *Store) UpdateItem(_ context.Context, id int64, patch models.UpdateMenuItemInput) (*models.MenuItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		item := s.items[i]
		patch.Apply(&item)
		item.UpdatedAt = s.now()
		s.items[i] = item
		return &item, true, nil
	}
	return nil, false, nil
}

func (s *Store) ListChefsSpecials(_ context.Context) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.MenuItem{}
	for _, it := range s.items {
		if !it.IsChefsSpecial {
			continue
		}
		if c, ok := s.category(it.CategoryID); ok && c.IsActive {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder > b.DisplayOrder
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return out, nil
}

func (s *Store) InsertReservation(_ context.Context, r models.NewReservation) (*models.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	res := models.Reservation{
		ID:              s.id(),
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		PartySize:       r.PartySize,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		SpecialRequests: r.SpecialRequests,
		Status:          r.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	s.reservations = append(s.reservations, res)
	return &res, nil
}

func (s *Store) UpdateReservationStatus(_ context.Context, id int64, status string, at time.Time) (*models.Reservation, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reservations {
		if s.reservations[i].ID == id {
			s.reservations[i].Status = status
			s.reservations[i].UpdatedAt = at
			res := s.reservations[i]
			return &res, true, nil
		}
	}
	return nil, false, nil
}

func (s *Store) ListReservationsByDate(_ context.Context, date models.Date) ([]models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Reservation{}
	for _, r := range s.reservations {
		if r.ReservationDate.Equal(date.Time) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ReservationTime != out[j].ReservationTime {
			return out[i].ReservationTime < out[j].ReservationTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Counts reports how many rows of each kind are stored.
func (s *Store) Counts() (categories, items, reservations int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories), len(s.items), len(s.reservations)
}
