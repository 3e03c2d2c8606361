package repository

import (
	"context"
	"time"

	"hotelops/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DayNoteRepository struct {
	db *gorm.DB
}

func NewDayNoteRepository(db *gorm.DB) *DayNoteRepository {
	return &DayNoteRepository{db: db}
}

func (r *DayNoteRepository) List(ctx context.Context) ([]domain.DayNote, error) {
	var rows []dayNoteModel
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.DayNote, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.DayNote{
			Date:      parseStoredDate(m.Date),
			Text:      m.Text,
			UpdatedAt: m.UpdatedAt,
		})
	}
	return out, nil
}

// Upsert stores the note text for day, replacing any previous text.
func (r *DayNoteRepository) Upsert(ctx context.Context, day time.Time, text string) (*domain.DayNote, error) {
	now := time.Now().UTC()
	m := dayNoteModel{
		Date:      domain.FormatDate(day),
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &domain.DayNote{Date: domain.DateOf(day), Text: text, UpdatedAt: now}, nil
}

// Delete is idempotent: removing a missing note is not an error.
func (r *DayNoteRepository) Delete(ctx context.Context, day time.Time) error {
	return r.db.WithContext(ctx).
		Where("date = ?", domain.FormatDate(day)).
		Delete(&dayNoteModel{}).Error
}
