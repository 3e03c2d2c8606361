package reservation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelops/internal/domain"
	"hotelops/internal/pkg/validator"
	"hotelops/internal/repository"

	"github.com/rs/zerolog"
)

type Service struct {
	reservations ReservationRepository
	refresher    Refresher
	log          zerolog.Logger
}

func NewService(reservations ReservationRepository, refresher Refresher, log zerolog.Logger) *Service {
	return &Service{
		reservations: reservations,
		refresher:    refresher,
		log:          log,
	}
}

// List reconciles statuses and returns every reservation, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Reservation, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	return s.reservations.List(ctx)
}

// Get reconciles statuses and returns one reservation by its code.
func (s *Service) Get(ctx context.Context, code string) (*domain.Reservation, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}
	r, err := s.reservations.GetByCode(ctx, code)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return r, nil
}

func (s *Service) Create(ctx context.Context, req CreateReservationRequest) (*domain.Reservation, error) {
	r := &domain.Reservation{
		Channel:        strings.TrimSpace(req.Channel),
		GuestName:      strings.TrimSpace(req.Guest),
		RoomLabel:      strings.TrimSpace(req.Room),
		Paid:           req.Paid,
		DocumentType:   strings.TrimSpace(req.DocumentType),
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		NumAdults:      1,
		NumChildren:    req.NumChildren,
		RoomType:       strings.TrimSpace(req.RoomType),
		Companions:     companionsFrom(req.Companions),
		Status:         domain.ReservationConfirmed,
	}
	if r.Channel == "" {
		r.Channel = defaultChannel
	}
	if req.NumAdults != nil {
		r.NumAdults = *req.NumAdults
	}
	if req.Total != nil {
		r.TotalAmount = float64(*req.Total)
	}

	var err error
	if r.CheckIn, err = parseDate("checkIn", req.CheckIn); err != nil {
		return nil, err
	}
	if r.CheckOut, err = parseDate("checkOut", req.CheckOut); err != nil {
		return nil, err
	}
	if r.ArrivalTime, err = parseClock("arrivalTime", req.ArrivalTime); err != nil {
		return nil, err
	}
	if r.DepartureTime, err = parseClock("departureTime", req.DepartureTime); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Status) != "" {
		if r.Status, err = parseStatus(req.Status); err != nil {
			return nil, err
		}
	}
	if r.AssignedRooms, err = roomCodes(req.Rooms); err != nil {
		return nil, err
	}
	// The first requested room fills an empty legacy label.
	if r.RoomLabel == "" && len(r.AssignedRooms) > 0 {
		r.RoomLabel = strings.TrimSpace(req.Rooms[0])
	}

	if err := validate(r); err != nil {
		return nil, err
	}
	if err := s.reservations.Create(ctx, r); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reservation", r.Code).
		Str("check_in", domain.FormatDate(r.CheckIn)).
		Str("check_out", domain.FormatDate(r.CheckOut)).
		Msg("reservation created")
	return r, nil
}

// Update applies a partial edit. An explicit status, including a manual
// cancellation, is stored as given.
func (s *Service) Update(ctx context.Context, code string, req UpdateReservationRequest) (*domain.Reservation, error) {
	r, err := s.reservations.GetByCode(ctx, code)
	if err != nil {
		return nil, mapRepoError(err)
	}

	if req.Channel != nil {
		r.Channel = strings.TrimSpace(*req.Channel)
	}
	if req.Guest != nil {
		r.GuestName = strings.TrimSpace(*req.Guest)
	}
	if req.Room != nil {
		r.RoomLabel = strings.TrimSpace(*req.Room)
	}
	if req.Rooms != nil {
		if r.AssignedRooms, err = roomCodes(*req.Rooms); err != nil {
			return nil, err
		}
	}
	if req.CheckIn != nil {
		if r.CheckIn, err = parseDate("checkIn", *req.CheckIn); err != nil {
			return nil, err
		}
	}
	if req.CheckOut != nil {
		if r.CheckOut, err = parseDate("checkOut", *req.CheckOut); err != nil {
			return nil, err
		}
	}
	if req.ArrivalTime != nil {
		if r.ArrivalTime, err = parseClock("arrivalTime", *req.ArrivalTime); err != nil {
			return nil, err
		}
	}
	if req.DepartureTime != nil {
		if r.DepartureTime, err = parseClock("departureTime", *req.DepartureTime); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if r.Status, err = parseStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if req.Paid != nil {
		r.Paid = *req.Paid
	}
	if req.Total != nil {
		r.TotalAmount = float64(*req.Total)
	}
	if req.DocumentType != nil {
		r.DocumentType = strings.TrimSpace(*req.DocumentType)
	}
	if req.DocumentNumber != nil {
		r.DocumentNumber = strings.TrimSpace(*req.DocumentNumber)
	}
	if req.NumAdults != nil {
		r.NumAdults = *req.NumAdults
	}
	if req.NumChildren != nil {
		r.NumChildren = *req.NumChildren
	}
	if req.RoomType != nil {
		r.RoomType = strings.TrimSpace(*req.RoomType)
	}
	if req.Companions != nil {
		r.Companions = companionsFrom(*req.Companions)
	}

	if err := validate(r); err != nil {
		return nil, err
	}
	if err := s.reservations.Update(ctx, r); err != nil {
		return nil, mapRepoError(err)
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, code string) error {
	if err := s.reservations.DeleteByCode(ctx, code); err != nil {
		return mapRepoError(err)
	}
	s.log.Info().Str("reservation", code).Msg("reservation deleted")
	return nil
}

func (s *Service) refresh(ctx context.Context) error {
	if s.refresher == nil {
		return nil
	}
	if _, err := s.refresher.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh statuses: %w", err)
	}
	return nil
}

// validate checks the invariants shared by create and update.
func validate(r *domain.Reservation) error {
	if fields := validator.Validate(r); fields != nil {
		return &FieldError{Fields: fields}
	}
	if r.HasDates() && r.CheckOut.Before(r.CheckIn) {
		return fmt.Errorf("%w: checkOut is before checkIn", ErrValidation)
	}
	return nil
}

// FieldError reports struct validation failures keyed by field name.
type FieldError struct {
	Fields map[string]string
}

func (e *FieldError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, tag := range e.Fields {
		parts = append(parts, f+" "+tag)
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func parseDate(field, v string) (time.Time, error) {
	d, err := domain.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}
	return d, nil
}

func parseClock(field, v string) (domain.Clock, error) {
	c, err := domain.ParseClock(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrValidation, field, err)
	}
	return c, nil
}

func parseStatus(v string) (domain.ReservationStatus, error) {
	st, err := domain.ParseReservationStatus(v)
	if err != nil {
		return "", fmt.Errorf("%w: status %q", ErrValidation, v)
	}
	return st, nil
}

// roomCodes rejects malformed codes instead of silently dropping them.
func roomCodes(raw []string) ([]string, error) {
	for _, code := range raw {
		if !domain.ValidRoomCode(strings.TrimSpace(code)) {
			return nil, fmt.Errorf("%w: room code %q", ErrValidation, code)
		}
	}
	return domain.NewRoomCodes(raw...), nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
