package calendar

import (
	"context"
	"fmt"
	"time"

	"hotelops/internal/domain"
)

type Service struct {
	reservations ReservationLister
	notes        NoteRepository
}

func NewService(reservations ReservationLister, notes NoteRepository) *Service {
	return &Service{
		reservations: reservations,
		notes:        notes,
	}
}

// Events returns one event per reservation that has both stay dates.
func (s *Service) Events(ctx context.Context) ([]Event, error) {
	list, err := s.reservations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	events := make([]Event, 0, len(list))
	for _, r := range list {
		if !r.HasDates() {
			continue
		}
		events = append(events, toEvent(r))
	}
	return events, nil
}

func (s *Service) Notes(ctx context.Context) ([]NoteResponse, error) {
	notes, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResponse(n))
	}
	return out, nil
}

func (s *Service) SaveNote(ctx context.Context, date, text string) (*NoteResponse, error) {
	day, err := parseDay(date)
	if err != nil {
		return nil, err
	}

	note, err := s.notes.Upsert(ctx, day, text)
	if err != nil {
		return nil, fmt.Errorf("save note %s: %w", date, err)
	}
	resp := toNoteResponse(*note)
	return &resp, nil
}

func (s *Service) DeleteNote(ctx context.Context, date string) error {
	day, err := parseDay(date)
	if err != nil {
		return err
	}
	if err := s.notes.Delete(ctx, day); err != nil {
		return fmt.Errorf("delete note %s: %w", date, err)
	}
	return nil
}

func parseDay(s string) (time.Time, error) {
	day, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return day, nil
}
