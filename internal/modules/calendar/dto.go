package calendar

import (
	"strings"

	"hotelops/internal/domain"
)

const (
	TagBooking    = "Booking"
	TagWhatsApp   = "WhatsApp"
	TagDirectSale = "DirectSale"
)

type EventProps struct {
	Calendar string `json:"calendar"`
}

// Event is one reservation drawn on the front desk calendar.
type Event struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Start         string     `json:"start"`
	End           string     `json:"end"`
	ExtendedProps EventProps `json:"extendedProps"`
}

type NoteResponse struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

type UpsertNoteRequest struct {
	Text string `json:"text"`
}

// tagFor maps a sales channel to the calendar it is drawn on.
func tagFor(channel string) string {
	switch {
	case strings.Contains(channel, "Booking"):
		return TagBooking
	case strings.Contains(channel, "WhatsApp"):
		return TagWhatsApp
	default:
		return TagDirectSale
	}
}

func toEvent(r domain.Reservation) Event {
	return Event{
		ID:    r.Code,
		Title: r.GuestName + " - " + r.RoomLabel,
		Start: domain.FormatDate(r.CheckIn),
		End:   domain.FormatDate(r.CheckOut),
		ExtendedProps: EventProps{
			Calendar: tagFor(r.Channel),
		},
	}
}

func toNoteResponse(n domain.DayNote) NoteResponse {
	return NoteResponse{
		Date: domain.FormatDate(n.Date),
		Text: n.Text,
	}
}
