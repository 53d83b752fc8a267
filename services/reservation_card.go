package services

import (
	"fmt"
	"strconv"
	"strings"

	"restaurant-site/models"
)

// StatusCallbackPrefix starts the callback data of reservation status buttons.
const StatusCallbackPrefix = "res_status"

// CardButton is one inline button (text + callback data).
type CardButton struct {
	Text         string
	CallbackData string
}

// CardContent is the text and inline keyboard of a reservation card.
type CardContent struct {
	Text    string
	Buttons [][]CardButton
}

func statusLabel(status string) string {
	switch status {
	case models.ReservationStatusPending:
		return "🕒 Pending"
	case models.ReservationStatusConfirmed:
		return "✅ Confirmed"
	case models.ReservationStatusCancelled:
		return "❌ Cancelled"
	case models.ReservationStatusCompleted:
		return "🍽 Completed"
	default:
		return status
	}
}

func actionLabel(status string) string {
	switch status {
	case models.ReservationStatusConfirmed:
		return "Confirm"
	case models.ReservationStatusCancelled:
		return "Cancel"
	case models.ReservationStatusCompleted:
		return "Mark completed"
	case models.ReservationStatusPending:
		return "Back to pending"
	default:
		return status
	}
}

// BuildReservationCard renders a reservation for staff, with one button per
// status in NextStatuses.
func BuildReservationCard(r *models.Reservation) CardContent {
	var b strings.Builder
	fmt.Fprintf(&b, "Reservation #%d\n", r.ID)
	fmt.Fprintf(&b, "%s %s, party of %d\n", r.ReservationDate, r.ReservationTime, r.PartySize)
	fmt.Fprintf(&b, "%s\n%s · %s\n", r.CustomerName, r.CustomerPhone, r.CustomerEmail)
	if r.SpecialRequests != nil && strings.TrimSpace(*r.SpecialRequests) != "" {
		fmt.Fprintf(&b, "Requests: %s\n", strings.TrimSpace(*r.SpecialRequests))
	}
	fmt.Fprintf(&b, "Status: %s", statusLabel(r.Status))

	var row []CardButton
	for _, next := range NextStatuses(r.Status) {
		row = append(row, CardButton{
			Text:         actionLabel(next),
			CallbackData: StatusCallbackData(r.ID, next),
		})
	}
	var buttons [][]CardButton
	if len(row) > 0 {
		buttons = [][]CardButton{row}
	}
	return CardContent{Text: b.String(), Buttons: buttons}
}

// StatusCallbackData encodes a status change as "res_status:<id>:<status>".
func StatusCallbackData(id int64, status string) string {
	return StatusCallbackPrefix + ":" + strconv.FormatInt(id, 10) + ":" + status
}

// ParseStatusCallback decodes data built by StatusCallbackData.
func ParseStatusCallback(data string) (id int64, status string, ok bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != StatusCallbackPrefix {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	for _, s := range models.ReservationStatuses {
		if parts[2] == s {
			return id, s, true
		}
	}
	return 0, "", false
}

// BuildSlotsText renders a day's availability, one slot per line.
func BuildSlotsText(date models.Date, slots []models.TimeSlot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Availability for %s\n", date)
	for _, s := range slots {
		mark := "🟢"
		if !s.Available {
			mark = "🔴"
		}
		fmt.Fprintf(&b, "\n%s %s  %d seats left", mark, s.Time, s.Remaining)
	}
	return b.String()
}
