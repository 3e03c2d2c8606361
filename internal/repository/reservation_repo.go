package repository

import (
	"context"
	"fmt"
	"time"

	"hotelops/internal/domain"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

var reservationUpdatableColumns = []string{
	"channel", "guest_name", "room_label", "check_in", "check_out",
	"arrival_time", "departure_time", "status", "paid", "total_amount",
	"document_type", "document_number", "num_adults", "num_children",
	"room_type", "companions", "updated_at",
}

// Create inserts the reservation with its assigned rooms and then assigns the
// human-readable code derived from the row id.
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	m.ID = 0
	m.Code = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		code := fmt.Sprintf("RES-%03d", m.ID)
		if err := tx.Model(&reservationModel{}).
			Where("id = ?", m.ID).
			UpdateColumn("reservation_code", code).Error; err != nil {
			return err
		}
		m.Code = &code
		return nil
	})
	if err != nil {
		return translateError(err)
	}

	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	var m reservationModel
	err := r.db.WithContext(ctx).
		Preload("Rooms").
		Where("reservation_code = ?", code).
		First(&m).Error
	if err != nil {
		return nil, translateError(err)
	}
	return toDomainReservation(m), nil
}

// List returns every reservation, newest first.
func (r *ReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at DESC").Order("id DESC")
	})
}

// ListNotCancelled returns the reservations whose status may still be re-derived.
func (r *ReservationRepository) ListNotCancelled(ctx context.Context) ([]domain.Reservation, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status <> ?", string(domain.ReservationCancelled)).Order("id")
	})
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status domain.ReservationStatus) ([]domain.Reservation, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", string(status)).Order("id")
	})
}

// ListOverlapping returns non-cancelled reservations whose [check_in, check_out)
// intersects [start, end).
func (r *ReservationRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Reservation, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.
			Where("status <> ?", string(domain.ReservationCancelled)).
			Where("check_in <> '' AND check_out <> ''").
			Where("check_in < ? AND check_out > ?", domain.FormatDate(end), domain.FormatDate(start)).
			Order("id")
	})
}

// ListArrivals returns reservations still waiting to check in on day, by
// arrival time with unset times last.
func (r *ReservationRepository) ListArrivals(ctx context.Context, day time.Time) ([]domain.Reservation, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.
			Where("check_in = ? AND status = ?", domain.FormatDate(day), string(domain.ReservationConfirmed)).
			Order("arrival_time IS NULL").Order("arrival_time").Order("created_at").Order("id")
	})
}

// ListDepartures returns in-house reservations due to check out on day.
func (r *ReservationRepository) ListDepartures(ctx context.Context, day time.Time) ([]domain.Reservation, error) {
	return r.find(ctx, func(q *gorm.DB) *gorm.DB {
		return q.
			Where("check_out = ? AND status = ?", domain.FormatDate(day), string(domain.ReservationCheckedIn)).
			Order("created_at").Order("id")
	})
}

// Update overwrites every editable column and replaces the assigned rooms.
// The reservation code and creation time are never touched.
func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	rooms := m.Rooms
	m.Rooms = nil
	m.UpdatedAt = time.Now().UTC()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&reservationModel{}).
			Where("id = ?", m.ID).
			Select(reservationUpdatableColumns).
			Updates(&m)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Where("reservation_id = ?", m.ID).Delete(&reservationRoomModel{}).Error; err != nil {
			return err
		}
		if len(rooms) > 0 {
			if err := tx.Create(&rooms).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}

	fresh, err := r.getByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*res = *fresh
	return nil
}

// UpdateStatus is a compare-and-set on a single row: it writes only the status
// column and only while the stored value is still from and not cancelled. It
// reports whether the row changed.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) (bool, error) {
	tx := r.db.WithContext(ctx).
		Model(&reservationModel{}).
		Where("id = ? AND status = ? AND status <> ?", id, string(from), string(domain.ReservationCancelled)).
		UpdateColumn("status", string(to))
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *ReservationRepository) DeleteByCode(ctx context.Context, code string) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m reservationModel
		if err := tx.Select("id").Where("reservation_code = ?", code).First(&m).Error; err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", m.ID).Delete(&reservationRoomModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&reservationModel{}, m.ID).Error
	}))
}

func (r *ReservationRepository) getByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := r.db.WithContext(ctx).Preload("Rooms").First(&m, id).Error; err != nil {
		return nil, translateError(err)
	}
	return toDomainReservation(m), nil
}

func (r *ReservationRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]domain.Reservation, error) {
	var rows []reservationModel
	q := scope(r.db.WithContext(ctx).Preload("Rooms", func(db *gorm.DB) *gorm.DB {
		return db.Order("room_code")
	}))
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}
