package reservation

import (
	"context"

	"hotelops/internal/domain"
	"hotelops/internal/modules/occupancy"
)

// ReservationRepository defines the storage operations used by the service.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByCode(ctx context.Context, code string) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	DeleteByCode(ctx context.Context, code string) error
}

// Refresher brings derived statuses up to date before a read.
type Refresher interface {
	Refresh(ctx context.Context) (occupancy.RefreshResult, error)
}
