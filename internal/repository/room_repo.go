package repository

import (
	"context"

	"hotelops/internal/domain"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// List returns the whole catalog ordered by floor then code.
func (r *RoomRepository) List(ctx context.Context) ([]domain.Room, error) {
	var rows []roomModel
	if err := r.db.WithContext(ctx).Order("floor").Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Room, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainRoom(m))
	}
	return out, nil
}

func (r *RoomRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&roomModel{}).Count(&n).Error
	return n, err
}

// UpdateStatus is a compare-and-set on the room's status column.
func (r *RoomRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.RoomStatus) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		UpdateColumn("status", string(to))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Upsert creates the room or refreshes floor, type and status of an existing
// code. It reports whether a row was created.
func (r *RoomRepository) Upsert(ctx context.Context, room domain.Room) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m roomModel
		err := tx.Where("code = ?", room.Code).First(&m).Error
		switch {
		case err == nil:
			return tx.Model(&roomModel{}).
				Where("id = ?", m.ID).
				Updates(map[string]any{
					"floor":  room.Floor,
					"type":   ptr(room.Type),
					"status": string(room.Status),
				}).Error
		case translateError(err) == ErrNotFound:
			created = true
			return tx.Create(&roomModel{
				Code:   room.Code,
				Floor:  room.Floor,
				Type:   ptr(room.Type),
				Status: string(room.Status),
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return false, translateError(err)
	}
	return created, nil
}
