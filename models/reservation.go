package models

import "time"

const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"
)

// ReservationStatuses lists every status a reservation can hold.
var ReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCancelled,
	ReservationStatusCompleted,
}

// Reservation is a row from reservations.
type Reservation struct {
	ID              int64     `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	PartySize       int       `json:"party_size"`
	ReservationDate Date      `json:"reservation_date"`
	ReservationTime string    `json:"reservation_time"` // "HH:MM", 24h
	SpecialRequests *string   `json:"special_requests"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateReservationInput is the booking form as submitted by a guest.
type CreateReservationInput struct {
	CustomerName    string  `json:"customer_name" validate:"required,notblank"`
	CustomerEmail   string  `json:"customer_email" validate:"required,email"`
	CustomerPhone   string  `json:"customer_phone" validate:"required,phone"`
	PartySize       int     `json:"party_size" validate:"min=1,max=20"`
	ReservationDate string  `json:"reservation_date" validate:"required,isodate"`
	ReservationTime string  `json:"reservation_time" validate:"required,hhmm"`
	SpecialRequests *string `json:"special_requests"`
}

// NewReservation is what the store persists for a validated booking.
type NewReservation struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	PartySize       int
	ReservationDate Date
	ReservationTime string
	SpecialRequests *string
	Status          string
}

type UpdateReservationStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// TimeSlot is the availability of one bookable time on a date.
// Remaining goes negative when a slot is overbooked.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	Remaining int    `json:"remaining"`
}
