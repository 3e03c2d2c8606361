package maintenance

import (
	"context"
	"time"

	"hotelops/internal/domain"
)

type BlockRepository interface {
	List(ctx context.Context) ([]domain.RoomBlock, error)
	Create(ctx context.Context, b *domain.RoomBlock) error
	Delete(ctx context.Context, id int64) (*domain.RoomBlock, error)
}

// RoomReconciler rebuilds cached room statuses after the block set changes.
type RoomReconciler interface {
	Now() time.Time
	ReconcileRoomStatuses(ctx context.Context, today time.Time) (int, error)
}

type Notifier interface {
	Broadcast(ctx context.Context, n domain.Notification) error
}
