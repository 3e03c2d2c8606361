package occupancy

import (
	"time"

	"hotelops/internal/domain"
)

// DeriveStatus returns the lifecycle status r should have at now. now must be
// expressed in the hotel's time zone: its calendar date is "today" and its
// time of day is compared against the arrival and departure cutoffs.
//
// Cancelled is returned unchanged, and so is the stored status of a
// reservation without both stay dates.
func DeriveStatus(r domain.Reservation, now time.Time) domain.ReservationStatus {
	if r.Status.IsTerminal() {
		return r.Status
	}
	if !r.HasDates() {
		return r.Status
	}

	today := domain.DateOf(now)
	clock := domain.ClockOf(now)
	checkIn := domain.DateOf(r.CheckIn)
	checkOut := domain.DateOf(r.CheckOut)

	if today.Before(checkIn) {
		return domain.ReservationConfirmed
	}

	// Before the arrival cutoff on check-in day the guest is still expected.
	awaitingArrival := today.Equal(checkIn) &&
		r.ArrivalTime.IsSet() &&
		clock.Before(r.ArrivalTime)

	if r.DepartureTime.IsSet() {
		switch {
		case today.Before(checkOut):
			if awaitingArrival {
				return domain.ReservationConfirmed
			}
			return domain.ReservationCheckedIn
		case today.Equal(checkOut):
			if clock.Before(r.DepartureTime) {
				return domain.ReservationCheckedIn
			}
			return domain.ReservationCheckedOut
		default:
			return domain.ReservationCheckedOut
		}
	}

	if checkIn.Equal(checkOut) {
		if today.Equal(checkIn) {
			if awaitingArrival {
				return domain.ReservationConfirmed
			}
			return domain.ReservationCheckedIn
		}
		return domain.ReservationCheckedOut
	}

	switch {
	case today.Equal(checkIn):
		if awaitingArrival {
			return domain.ReservationConfirmed
		}
		return domain.ReservationCheckedIn
	case today.Before(checkOut):
		return domain.ReservationCheckedIn
	default:
		return domain.ReservationCheckedOut
	}
}

// resolveRoomStatus applies the room precedence: a block outranks an in-house
// guest.
func resolveRoomStatus(blocked, occupied bool) domain.RoomStatus {
	switch {
	case blocked:
		return domain.RoomBlocked
	case occupied:
		return domain.RoomOccupied
	default:
		return domain.RoomAvailable
	}
}
