package occupancy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"hotelops/internal/domain"

	"github.com/rs/zerolog"
)

type Service struct {
	reservations ReservationRepository
	rooms        RoomRepository
	blocks       BlockReader
	notifier     Notifier
	metrics      *Metrics
	log          zerolog.Logger
	now          func() time.Time
}

type Option func(*Service)

// WithClock replaces the wall clock. The returned time should already be in
// the hotel's time zone.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService builds the occupancy engine. loc is the hotel's time zone; "now"
// and "today" are always computed there.
func NewService(
	reservations ReservationRepository,
	rooms RoomRepository,
	blocks BlockReader,
	loc *time.Location,
	opts ...Option,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		reservations: reservations,
		rooms:        rooms,
		blocks:       blocks,
		log:          zerolog.Nop(),
		now:          func() time.Time { return time.Now().In(loc) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time in the hotel's time zone.
func (s *Service) Now() time.Time {
	return s.now()
}

// ReconcileReservations re-derives the status of every non-cancelled
// reservation and persists the ones that drifted. It returns how many rows
// were written. Reservations without dates are skipped. A failed row does
// not stop the pass; row errors are joined into the returned error.
func (s *Service) ReconcileReservations(ctx context.Context, now time.Time) (int, error) {
	changed, _, err := s.reconcileReservations(ctx, now)
	return changed, err
}

func (s *Service) reconcileReservations(ctx context.Context, now time.Time) (int, int, error) {
	started := time.Now()

	list, err := s.reservations.ListNotCancelled(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list reservations: %w", err)
	}

	changed := 0
	var errs []error
	for _, r := range list {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !r.HasDates() {
			continue
		}
		next := DeriveStatus(r, now)
		if next == r.Status {
			continue
		}

		ok, err := s.reservations.UpdateStatus(ctx, r.ID, r.Status, next)
		if err != nil {
			errs = append(errs, fmt.Errorf("reservation %d: %w", r.ID, err))
			continue
		}
		if !ok {
			// Another writer changed the row first; the next pass sees it.
			continue
		}
		changed++
		s.log.Debug().
			Str("reservation", r.Code).
			Str("from", string(r.Status)).
			Str("to", string(next)).
			Msg("reservation status reconciled")
	}

	s.metrics.observePass(kindReservations, started, changed)
	return changed, len(list), errors.Join(errs...)
}

// ReconcileRoomStatuses rebuilds every room's cached status from the active
// blocks and the in-house reservations as of today. Blocked outranks
// Occupied. It returns how many rooms were written.
func (s *Service) ReconcileRoomStatuses(ctx context.Context, today time.Time) (int, error) {
	changed, _, err := s.reconcileRooms(ctx, today)
	return changed, err
}

func (s *Service) reconcileRooms(ctx context.Context, today time.Time) (int, int, error) {
	started := time.Now()
	day := domain.DateOf(today)

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list rooms: %w", err)
	}
	catalog := catalogOf(rooms)

	blocks, err := s.blocks.ListActiveFrom(ctx, day)
	if err != nil {
		return 0, 0, fmt.Errorf("list blocks: %w", err)
	}
	blocked := s.blockedSet(blocks, day, catalog)

	inHouse, err := s.reservations.ListByStatus(ctx, domain.ReservationCheckedIn)
	if err != nil {
		return 0, 0, fmt.Errorf("list in-house reservations: %w", err)
	}
	occupied := s.reservationSet(inHouse, catalog)

	changed := 0
	counts := make(map[domain.RoomStatus]int, 3)
	var errs []error
	for _, room := range rooms {
		_, isBlocked := blocked[room.Code]
		_, isOccupied := occupied[room.Code]
		want := resolveRoomStatus(isBlocked, isOccupied)
		counts[want]++

		if room.Status == want {
			continue
		}
		ok, err := s.rooms.UpdateStatus(ctx, room.ID, room.Status, want)
		if err != nil {
			errs = append(errs, fmt.Errorf("room %s: %w", room.Code, err))
			continue
		}
		if !ok {
			continue
		}
		changed++
		s.notifyRoomChange(ctx, room, want)
	}

	s.metrics.observePass(kindRooms, started, changed)
	s.metrics.setRoomCounts(counts)
	return changed, len(rooms), errors.Join(errs...)
}

// Refresh runs both reconcilers with the service clock. Rooms are reconciled
// even when the reservation pass reported errors.
func (s *Service) Refresh(ctx context.Context) (RefreshResult, error) {
	now := s.now()

	var res RefreshResult
	var errRes, errRooms error
	res.ReservationsUpdated, res.TotalReservations, errRes = s.reconcileReservations(ctx, now)
	res.RoomsUpdated, res.TotalRooms, errRooms = s.reconcileRooms(ctx, now)

	if err := errors.Join(errRes, errRooms); err != nil {
		return res, err
	}
	if res.ReservationsUpdated > 0 || res.RoomsUpdated > 0 {
		s.log.Info().
			Int("reservations_updated", res.ReservationsUpdated).
			Int("rooms_updated", res.RoomsUpdated).
			Msg("statuses reconciled")
	}
	return res, nil
}

// ListRooms refreshes derived state and returns the catalog ordered by floor
// then code.
func (s *Service) ListRooms(ctx context.Context) ([]domain.Room, error) {
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	sortRooms(rooms)
	return rooms, nil
}

// FindAvailableRooms lists the rooms free for the half-open range
// [start, end). Dates are ISO calendar dates; a malformed date fails with
// ErrInvalidInput before anything is reconciled. An end on or before start is
// accepted.
func (s *Service) FindAvailableRooms(ctx context.Context, start, end string) (*AvailabilityResult, error) {
	from, err := domain.ParseDate(start)
	if err != nil {
		s.metrics.incAvailability("invalid")
		return nil, fmt.Errorf("%w: check_in: %v", ErrInvalidInput, err)
	}
	to, err := domain.ParseDate(end)
	if err != nil {
		s.metrics.incAvailability("invalid")
		return nil, fmt.Errorf("%w: check_out: %v", ErrInvalidInput, err)
	}

	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		CheckIn:  domain.FormatDate(from),
		CheckOut: domain.FormatDate(to),
		Rooms:    []AvailableRoom{},
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		result.Diagnostic = DiagnosticNoRoomsSeeded
		s.metrics.incAvailability(DiagnosticNoRoomsSeeded)
		return result, nil
	}
	catalog := catalogOf(rooms)

	overlapping, err := s.reservations.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, err
	}
	taken := s.reservationSet(overlapping, catalog)

	// Only blocks still active today count, and only those reaching the range.
	today := domain.DateOf(s.now())
	blocks, err := s.blocks.ListActiveFrom(ctx, latest(from, today))
	if err != nil {
		return nil, err
	}
	blocked := s.blockedSet(blocks, today, catalog)

	sortRooms(rooms)
	for _, room := range rooms {
		if _, ok := taken[room.Code]; ok {
			continue
		}
		if _, ok := blocked[room.Code]; ok {
			continue
		}
		result.Rooms = append(result.Rooms, AvailableRoom{
			Code:  room.Code,
			Floor: room.Floor,
			Type:  room.Type,
		})
	}

	if len(result.Rooms) == 0 {
		result.Diagnostic = DiagnosticFullyBooked
		s.metrics.incAvailability(DiagnosticFullyBooked)
	} else {
		s.metrics.incAvailability("ok")
	}
	return result, nil
}

// Today refreshes derived state and returns the front-desk board: guests
// still expected today and in-house guests leaving today.
func (s *Service) Today(ctx context.Context) (*TodayBoard, error) {
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	today := domain.DateOf(s.now())

	arrivals, err := s.reservations.ListArrivals(ctx, today)
	if err != nil {
		return nil, err
	}
	departures, err := s.reservations.ListDepartures(ctx, today)
	if err != nil {
		return nil, err
	}

	return &TodayBoard{
		Date:      domain.FormatDate(today),
		CheckIns:  boardEntries(arrivals, defaultArrivalLabel, func(r domain.Reservation) domain.Clock { return r.ArrivalTime }),
		CheckOuts: boardEntries(departures, defaultDepartureTime, func(r domain.Reservation) domain.Clock { return r.DepartureTime }),
	}, nil
}

func boardEntries(list []domain.Reservation, fallback string, clock func(domain.Reservation) domain.Clock) []BoardEntry {
	if len(list) > boardLimit {
		list = list[:boardLimit]
	}
	out := make([]BoardEntry, 0, len(list))
	for _, r := range list {
		at := fallback
		if c := clock(r); c.IsSet() {
			at = c.String()
		}
		room := r.RoomLabel
		if room == "" {
			room = r.RoomCodes().Label()
		}
		out = append(out, BoardEntry{
			ID:            r.ID,
			ReservationID: r.Code,
			Name:          r.GuestName,
			Room:          room,
			Time:          at,
		})
	}
	return out
}

func (s *Service) notifyRoomChange(ctx context.Context, room domain.Room, to domain.RoomStatus) {
	if s.notifier == nil {
		return
	}
	n := domain.Notification{
		Type:    domain.NotifRoomStatusChanged,
		Title:   "Room status changed",
		Message: fmt.Sprintf("Room %s is now %s", room.Code, to),
		Data: map[string]any{
			"room": room.Code,
			"from": string(room.Status),
			"to":   string(to),
		},
		CreatedBy: domain.SystemSender,
		CreatedAt: s.now(),
	}
	if err := s.notifier.Broadcast(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("room", room.Code).Msg("room status notification failed")
	}
}

// blockedSet collects the catalog codes held by blocks active on day.
func (s *Service) blockedSet(blocks []domain.RoomBlock, day time.Time, catalog map[string]struct{}) map[string]struct{} {
	set := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		if !b.IsActive(day) {
			continue
		}
		for _, code := range domain.ParseRoomLabel(b.RoomCode) {
			if _, ok := catalog[code]; !ok {
				s.log.Warn().Int64("block", b.ID).Str("room", code).Msg("block references unknown room")
				continue
			}
			set[code] = struct{}{}
		}
	}
	return set
}

// reservationSet collects the catalog codes referenced by reservations.
func (s *Service) reservationSet(list []domain.Reservation, catalog map[string]struct{}) map[string]struct{} {
	set := make(map[string]struct{}, len(list))
	for _, r := range list {
		for _, code := range r.RoomCodes() {
			if _, ok := catalog[code]; !ok {
				s.log.Warn().Str("reservation", r.Code).Str("room", code).Msg("reservation references unknown room")
				continue
			}
			set[code] = struct{}{}
		}
	}
	return set
}

func catalogOf(rooms []domain.Room) map[string]struct{} {
	catalog := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		catalog[r.Code] = struct{}{}
	}
	return catalog
}

func sortRooms(rooms []domain.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Floor != rooms[j].Floor {
			return rooms[i].Floor < rooms[j].Floor
		}
		return rooms[i].Code < rooms[j].Code
	})
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
