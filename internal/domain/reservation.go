package domain

import (
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

// ParseReservationStatus accepts the wire values plus the display and legacy
// spellings ("Check-in", "CheckedOut", "Confirmada", ...).
func ParseReservationStatus(s string) (ReservationStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)

	switch key {
	case "confirmed", "confirmada":
		return ReservationConfirmed, nil
	case "checkedin", "checkin":
		return ReservationCheckedIn, nil
	case "checkedout", "checkout":
		return ReservationCheckedOut, nil
	case "cancelled", "canceled", "cancelada":
		return ReservationCancelled, nil
	}
	return "", ErrInvalidStatus
}

// IsTerminal reports whether the status is sticky and must never be re-derived.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationCancelled
}

type Companion struct {
	Name           string `json:"name"`
	DocumentType   string `json:"document_type,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

type Reservation struct {
	ID   int64  `json:"id"`
	Code string `json:"reservation_id"`

	Channel   string `json:"channel"`
	GuestName string `json:"guest" validate:"required"`
	// RoomLabel is the legacy free-text room field. It may hold one code or a
	// comma-separated list; AssignedRooms supersedes it when present.
	RoomLabel     string   `json:"room"`
	AssignedRooms []string `json:"rooms"`

	CheckIn       time.Time `json:"-"`
	CheckOut      time.Time `json:"-"`
	ArrivalTime   Clock     `json:"arrival_time,omitempty"`
	DepartureTime Clock     `json:"departure_time,omitempty"`

	Status      ReservationStatus `json:"status"`
	Paid        bool              `json:"paid"`
	TotalAmount float64           `json:"total" validate:"gte=0"`

	DocumentType   string      `json:"document_type,omitempty"`
	DocumentNumber string      `json:"document_number,omitempty"`
	NumAdults      int         `json:"num_adults" validate:"gte=0"`
	NumChildren    int         `json:"num_children" validate:"gte=0"`
	RoomType       string      `json:"room_type,omitempty"`
	Companions     []Companion `json:"companions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomCodes returns the rooms this reservation occupies. Assigned rooms are
// authoritative; the legacy label is parsed only when none are assigned.
func (r Reservation) RoomCodes() RoomCodes {
	if codes := NewRoomCodes(r.AssignedRooms...); len(codes) > 0 {
		return codes
	}
	return ParseRoomLabel(r.RoomLabel)
}

// HasDates reports whether both stay dates are known.
func (r Reservation) HasDates() bool {
	return !r.CheckIn.IsZero() && !r.CheckOut.IsZero()
}

// Overlaps applies the half-open test [check_in, check_out) against [start, end).
func (r Reservation) Overlaps(start, end time.Time) bool {
	if !r.HasDates() {
		return false
	}
	return r.CheckIn.Before(end) && r.CheckOut.After(start)
}
