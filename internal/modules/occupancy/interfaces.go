package occupancy

import (
	"context"
	"time"

	"hotelops/internal/domain"
)

// ReservationRepository is the reservation store as seen by the reconcilers.
type ReservationRepository interface {
	ListNotCancelled(ctx context.Context) ([]domain.Reservation, error)
	ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Reservation, error)
	ListArrivals(ctx context.Context, day time.Time) ([]domain.Reservation, error)
	ListDepartures(ctx context.Context, day time.Time) ([]domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) (bool, error)
}

type RoomRepository interface {
	List(ctx context.Context) ([]domain.Room, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.RoomStatus) (bool, error)
}

// BlockReader is the read side of the maintenance block feed.
type BlockReader interface {
	ListActiveFrom(ctx context.Context, day time.Time) ([]domain.RoomBlock, error)
}

type Notifier interface {
	Broadcast(ctx context.Context, n domain.Notification) error
}
