package api

import (
	"net/http"

	"restaurant-site/models"
	"restaurant-site/services"

	"github.com/rs/zerolog"
)

type reservationHandler struct {
	reservations *services.Reservations
	metrics      *Metrics
}

func (h *reservationHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.CreateReservationInput
		if !decodeJSON(w, r, &in) {
			return
		}
		res, err := h.reservations.CreateReservation(r.Context(), in)
		if err != nil {
			writeServiceError(w, r, "create_reservation", err)
			return
		}
		h.metrics.ReservationsCreated.Inc()
		zerolog.Ctx(r.Context()).Info().
			Str("action", "reservation_created").
			Int64("reservation_id", res.ID).
			Str("date", res.ReservationDate.String()).
			Str("time", res.ReservationTime).
			Int("party_size", res.PartySize).
			Msg("Reservation created")
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (h *reservationHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeServiceError(w, r, "update_reservation_status", err)
			return
		}
		var in models.UpdateReservationStatusInput
		if !decodeJSON(w, r, &in) {
			return
		}
		res, ok, err := h.reservations.UpdateReservationStatus(r.Context(), id, in.Status)
		if err != nil {
			writeServiceError(w, r, "update_reservation_status", err)
			return
		}
		if !ok {
			jsonError(w, http.StatusNotFound, errNotFound)
			return
		}
		h.metrics.StatusUpdates.WithLabelValues(res.Status).Inc()
		jsonResponse(w, http.StatusOK, res)
	}
}

func (h *reservationHandler) ListForDate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := services.ParseDate("date", r.URL.Query().Get("date"))
		if err != nil {
			writeServiceError(w, r, "list_reservations", err)
			return
		}
		list, err := h.reservations.ListReservationsForDate(r.Context(), date)
		if err != nil {
			writeServiceError(w, r, "list_reservations", err)
			return
		}
		jsonResponse(w, http.StatusOK, list)
	}
}

func (h *reservationHandler) Slots() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := services.ParseDate("date", r.URL.Query().Get("date"))
		if err != nil {
			writeServiceError(w, r, "available_slots", err)
			return
		}
		slots, err := h.reservations.GetAvailableTimeSlots(r.Context(), date)
		if err != nil {
			writeServiceError(w, r, "available_slots", err)
			return
		}
		jsonResponse(w, http.StatusOK, slots)
	}
}
