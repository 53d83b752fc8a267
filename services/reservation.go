package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restaurant-site/config"
	"restaurant-site/models"
)

// ReservationConfig is the restaurant's seating capacity and the canonical
// bookable times, in display order.
type ReservationConfig struct {
	Capacity int
	Slots    []string
	// Location decides what "today" is when checking booking dates.
	Location *time.Location
}

// DefaultReservationConfig uses config.DefaultCapacity and config.DefaultSlots in UTC.
func DefaultReservationConfig() ReservationConfig {
	return ReservationConfig{
		Capacity: config.DefaultCapacity,
		Slots:    append([]string(nil), config.DefaultSlots...),
		Location: time.UTC,
	}
}

// Reservations books tables and reports per-slot availability. Capacity is
// advisory: bookings are never refused for lack of seats.
type Reservations struct {
	store ReservationStore
	cfg   ReservationConfig
	now   func() time.Time
}

type ReservationsOption func(*Reservations)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ReservationsOption {
	return func(r *Reservations) { r.now = now }
}

func NewReservations(store ReservationStore, cfg ReservationConfig, opts ...ReservationsOption) *Reservations {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	r := &Reservations{store: store, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today is the current calendar date in the restaurant's location.
func (r *Reservations) Today() models.Date {
	return models.NewDate(r.now().In(r.cfg.Location))
}

func (r *Reservations) CreateReservation(ctx context.Context, in models.CreateReservationInput) (*models.Reservation, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	date, err := ParseDate("reservation_date", in.ReservationDate)
	if err != nil {
		return nil, err
	}
	if date.Before(r.Today()) {
		return nil, &ValidationError{Field: "reservation_date", Message: "reservation date must be today or in the future"}
	}

	res, err := r.store.InsertReservation(ctx, models.NewReservation{
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(in.CustomerPhone),
		PartySize:       in.PartySize,
		ReservationDate: date,
		ReservationTime: in.ReservationTime,
		SpecialRequests: in.SpecialRequests,
		Status:          models.ReservationStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("insert reservation: %w", err)
	}
	return res, nil
}

// UpdateReservationStatus sets any of the four statuses regardless of the
// current one. ok is false when the reservation does not exist.
func (r *Reservations) UpdateReservationStatus(ctx context.Context, id int64, status string) (*models.Reservation, bool, error) {
	if err := validateStruct(models.UpdateReservationStatusInput{Status: status}); err != nil {
		return nil, false, err
	}
	res, ok, err := r.store.UpdateReservationStatus(ctx, id, status, r.now())
	if err != nil {
		return nil, false, fmt.Errorf("update reservation %d: %w", id, err)
	}
	return res, ok, nil
}

// ListReservationsForDate returns the day's reservations of every status,
// earliest first.
func (r *Reservations) ListReservationsForDate(ctx context.Context, date models.Date) ([]models.Reservation, error) {
	list, err := r.store.ListReservationsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations for %s: %w", date, err)
	}
	return list, nil
}

// GetAvailableTimeSlots returns one entry per configured slot, in order.
func (r *Reservations) GetAvailableTimeSlots(ctx context.Context, date models.Date) ([]models.TimeSlot, error) {
	list, err := r.store.ListReservationsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list reservations for %s: %w", date, err)
	}
	return ComputeTimeSlots(r.cfg.Capacity, r.cfg.Slots, list), nil
}

// ComputeTimeSlots sums the party sizes of non-cancelled reservations per
// slot. Only an exact match on the slot string counts. Remaining is not
// clamped, so an overbooked slot reports a negative value.
func ComputeTimeSlots(capacity int, slots []string, reservations []models.Reservation) []models.TimeSlot {
	occupied := make(map[string]int, len(slots))
	for _, res := range reservations {
		if res.Status == models.ReservationStatusCancelled {
			continue
		}
		occupied[res.ReservationTime] += res.PartySize
	}

	out := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		remaining := capacity - occupied[slot]
		out = append(out, models.TimeSlot{
			Time:      slot,
			Available: remaining > 0,
			Remaining: remaining,
		})
	}
	return out
}

// NextStatuses lists the statuses staff would normally move a reservation
// to next. UpdateReservationStatus does not enforce it.
func NextStatuses(status string) []string {
	switch status {
	case models.ReservationStatusPending:
		return []string{models.ReservationStatusConfirmed, models.ReservationStatusCancelled}
	case models.ReservationStatusConfirmed:
		return []string{models.ReservationStatusCompleted, models.ReservationStatusCancelled}
	default:
		return nil
	}
}
