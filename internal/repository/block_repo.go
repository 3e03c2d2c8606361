package repository

import (
	"context"
	"time"

	"hotelops/internal/domain"

	"gorm.io/gorm"
)

type BlockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) *BlockRepository {
	return &BlockRepository{db: db}
}

func (r *BlockRepository) List(ctx context.Context) ([]domain.RoomBlock, error) {
	return r.find(ctx, r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC"))
}

// ListActiveFrom returns blocks whose inclusive end date is on or after day.
func (r *BlockRepository) ListActiveFrom(ctx context.Context, day time.Time) ([]domain.RoomBlock, error) {
	return r.find(ctx, r.db.WithContext(ctx).
		Where("blocked_until >= ?", domain.FormatDate(day)).
		Order("id"))
}

func (r *BlockRepository) Create(ctx context.Context, b *domain.RoomBlock) error {
	m := roomBlockModel{
		RoomCode:     b.RoomCode,
		Reason:       b.Reason,
		BlockedUntil: domain.FormatDate(b.BlockedUntil),
		BlockedBy:    ptr(b.BlockedBy),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translateError(err)
	}
	*b = toDomainBlock(m)
	return nil
}

// Delete removes the block and returns what was deleted.
func (r *BlockRepository) Delete(ctx context.Context, id int64) (*domain.RoomBlock, error) {
	var deleted domain.RoomBlock
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m roomBlockModel
		if err := tx.First(&m, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&roomBlockModel{}, m.ID).Error; err != nil {
			return err
		}
		deleted = toDomainBlock(m)
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &deleted, nil
}

func (r *BlockRepository) find(_ context.Context, q *gorm.DB) ([]domain.RoomBlock, error) {
	var rows []roomBlockModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.RoomBlock, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainBlock(m))
	}
	return out, nil
}
