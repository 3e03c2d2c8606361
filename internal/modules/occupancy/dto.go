package occupancy

const (
	DiagnosticNoRoomsSeeded = "no_rooms_seeded"
	DiagnosticFullyBooked   = "fully_booked"
)

const (
	boardLimit           = 5
	defaultArrivalLabel  = "--:--"
	defaultDepartureTime = "11:00"
)

type RefreshResult struct {
	ReservationsUpdated int `json:"reservations_updated"`
	RoomsUpdated        int `json:"rooms_updated"`
	TotalReservations   int `json:"total_reservations"`
	TotalRooms          int `json:"total_rooms"`
}

type AvailableRoom struct {
	Code  string `json:"code"`
	Floor int    `json:"floor"`
	Type  string `json:"type"`
}

// AvailabilityResult carries a diagnostic when Rooms is empty so callers can
// tell an unseeded catalog from a fully booked one.
type AvailabilityResult struct {
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	Rooms      []AvailableRoom `json:"rooms"`
	Diagnostic string          `json:"diagnostic,omitempty"`
}

type BoardEntry struct {
	ID            int64  `json:"id"`
	ReservationID string `json:"reservation_id"`
	Name          string `json:"name"`
	Room          string `json:"room"`
	Time          string `json:"time"`
}

type TodayBoard struct {
	Date      string       `json:"date"`
	CheckIns  []BoardEntry `json:"checkins"`
	CheckOuts []BoardEntry `json:"checkouts"`
}

type availabilityQuery struct {
	CheckIn  string `form:"check_in" binding:"required"`
	CheckOut string `form:"check_out" binding:"required"`
}
