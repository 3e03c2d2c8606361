package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelops/internal/domain"
	"hotelops/internal/repository"

	"github.com/rs/zerolog"
)

// Service owns the room block feed. It never writes room statuses itself;
// after every change it asks the occupancy reconciler to rebuild them.
type Service struct {
	blocks   BlockRepository
	rooms    RoomReconciler
	notifier Notifier
	log      zerolog.Logger
}

func NewService(blocks BlockRepository, rooms RoomReconciler, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		blocks:   blocks,
		rooms:    rooms,
		notifier: notifier,
		log:      log,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.RoomBlock, error) {
	return s.blocks.List(ctx)
}

// Create blocks a room until the given inclusive date. BlockedBy falls back
// to the caller.
func (s *Service) Create(ctx context.Context, caller string, req CreateBlockRequest) (*domain.RoomBlock, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrValidation)
	}
	codes := domain.ParseRoomLabel(req.Room)
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: invalid room %q", ErrValidation, req.Room)
	}
	until, err := domain.ParseDate(req.BlockedUntil)
	if err != nil {
		return nil, fmt.Errorf("%w: blockedUntil: %v", ErrValidation, err)
	}

	blockedBy := strings.TrimSpace(req.BlockedBy)
	if blockedBy == "" {
		blockedBy = caller
	}

	b := &domain.RoomBlock{
		RoomCode:     codes.Label(),
		Reason:       reason,
		BlockedUntil: until,
		BlockedBy:    blockedBy,
	}
	if err := s.blocks.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}

	s.log.Info().
		Int64("block_id", b.ID).
		Str("room", b.RoomCode).
		Str("until", domain.FormatDate(b.BlockedUntil)).
		Str("by", caller).
		Msg("room blocked")

	s.reconcile(ctx)
	s.notify(ctx, domain.Notification{
		Type:      domain.NotifRoomBlocked,
		Title:     "Room blocked",
		Message:   fmt.Sprintf("Room %s blocked until %s: %s", b.RoomCode, domain.FormatDate(b.BlockedUntil), b.Reason),
		Data:      blockData(*b),
		CreatedBy: caller,
	})
	return b, nil
}

// Delete lifts a block. The room goes back to whatever reservations say.
func (s *Service) Delete(ctx context.Context, caller string, id int64) error {
	b, err := s.blocks.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete block %d: %w", id, err)
	}

	s.log.Info().Int64("block_id", b.ID).Str("room", b.RoomCode).Str("by", caller).Msg("room unblocked")

	s.reconcile(ctx)
	s.notify(ctx, domain.Notification{
		Type:      domain.NotifRoomUnblocked,
		Title:     "Room unblocked",
		Message:   fmt.Sprintf("Room %s is back in service", b.RoomCode),
		Data:      blockData(*b),
		CreatedBy: caller,
	})
	return nil
}

// reconcile failures are logged only: the block change is already stored and
// the next read refreshes room statuses again.
func (s *Service) reconcile(ctx context.Context) {
	if _, err := s.rooms.ReconcileRoomStatuses(ctx, s.rooms.Now()); err != nil {
		s.log.Warn().Err(err).Msg("room reconciliation after block change failed")
	}
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if s.notifier == nil {
		return
	}
	n.CreatedAt = time.Now().UTC()
	if err := s.notifier.Broadcast(ctx, n); err != nil {
		s.log.Warn().Err(err).Str("type", string(n.Type)).Msg("notification failed")
	}
}

func blockData(b domain.RoomBlock) map[string]any {
	return map[string]any{
		"id":            b.ID,
		"room":          b.RoomCode,
		"reason":        b.Reason,
		"blocked_until": domain.FormatDate(b.BlockedUntil),
	}
}
