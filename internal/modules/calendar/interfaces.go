package calendar

import (
	"context"
	"time"

	"hotelops/internal/domain"
)

type ReservationLister interface {
	List(ctx context.Context) ([]domain.Reservation, error)
}

type NoteRepository interface {
	List(ctx context.Context) ([]domain.DayNote, error)
	Upsert(ctx context.Context, day time.Time, text string) (*domain.DayNote, error)
	Delete(ctx context.Context, day time.Time) error
}
