package domain

import "time"

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
	RoomBlocked   RoomStatus = "blocked"
)

// Room is an entry of the fixed floor plan. Status is a cache that the
// occupancy reconciler rebuilds from reservations and blocks.
type Room struct {
	ID     int64      `json:"id"`
	Code   string     `json:"code"`
	Floor  int        `json:"floor"`
	Type   string     `json:"type"`
	Status RoomStatus `json:"status"`
}

// RoomBlock is a maintenance hold. BlockedUntil is inclusive.
type RoomBlock struct {
	ID           int64     `json:"id"`
	RoomCode     string    `json:"room" validate:"required"`
	Reason       string    `json:"reason" validate:"required"`
	BlockedUntil time.Time `json:"-"`
	BlockedBy    string    `json:"blocked_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsActive reports whether the block still holds the room on the given day.
func (b RoomBlock) IsActive(today time.Time) bool {
	return !b.BlockedUntil.Before(DateOf(today))
}

type DayNote struct {
	Date      time.Time `json:"-"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}
