package repository

import (
	"time"

	"hotelops/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dates are stored as YYYY-MM-DD text so range predicates compare the same
// way on PostgreSQL and SQLite.

type reservationModel struct {
	ID            int64                                 `gorm:"column:id;primaryKey"`
	Code          *string                               `gorm:"column:reservation_code;type:varchar(20);uniqueIndex"`
	Channel       string                                `gorm:"column:channel;type:varchar(50)"`
	GuestName     string                                `gorm:"column:guest_name;type:varchar(200)"`
	RoomLabel     string                                `gorm:"column:room_label;type:varchar(100)"`
	CheckIn       string                                `gorm:"column:check_in;type:varchar(10);index"`
	CheckOut      string                                `gorm:"column:check_out;type:varchar(10);index"`
	ArrivalTime   *string                               `gorm:"column:arrival_time;type:varchar(5)"`
	DepartureTime *string                               `gorm:"column:departure_time;type:varchar(5)"`
	Status        string                                `gorm:"column:status;type:varchar(20);index;not null"`
	Paid          bool                                  `gorm:"column:paid"`
	TotalAmount   float64                               `gorm:"column:total_amount"`
	DocumentType  *string                               `gorm:"column:document_type;type:varchar(10)"`
	DocumentNo    *string                               `gorm:"column:document_number;type:varchar(20)"`
	NumAdults     int                                   `gorm:"column:num_adults"`
	NumChildren   int                                   `gorm:"column:num_children"`
	RoomType      *string                               `gorm:"column:room_type;type:varchar(20)"`
	Companions    datatypes.JSONSlice[domain.Companion] `gorm:"column:companions"`
	CreatedAt     time.Time                             `gorm:"column:created_at"`
	UpdatedAt     time.Time                             `gorm:"column:updated_at"`

	Rooms []reservationRoomModel `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
}

func (reservationModel) TableName() string { return "reservations" }

type reservationRoomModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	ReservationID int64  `gorm:"column:reservation_id;uniqueIndex:idx_reservation_room"`
	RoomCode      string `gorm:"column:room_code;type:varchar(10);uniqueIndex:idx_reservation_room"`
}

func (reservationRoomModel) TableName() string { return "reservation_rooms" }

type roomModel struct {
	ID     int64   `gorm:"column:id;primaryKey"`
	Code   string  `gorm:"column:code;type:varchar(10);uniqueIndex;not null"`
	Floor  int     `gorm:"column:floor"`
	Type   *string `gorm:"column:type;type:varchar(10)"`
	Status string  `gorm:"column:status;type:varchar(20);not null"`
}

func (roomModel) TableName() string { return "rooms" }

type roomBlockModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	RoomCode     string    `gorm:"column:room_code;type:varchar(100);index"`
	Reason       string    `gorm:"column:reason;type:text"`
	BlockedUntil string    `gorm:"column:blocked_until;type:varchar(10);index"`
	BlockedBy    *string   `gorm:"column:blocked_by;type:varchar(100)"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (roomBlockModel) TableName() string { return "room_blocks" }

type dayNoteModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Date      string    `gorm:"column:date;type:varchar(10);uniqueIndex"`
	Text      string    `gorm:"column:text;type:text"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (dayNoteModel) TableName() string { return "calendar_day_notes" }

// Migrate creates or updates every table owned by the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&reservationModel{},
		&reservationRoomModel{},
		&roomModel{},
		&roomBlockModel{},
		&dayNoteModel{},
	)
}

func toDomainReservation(m reservationModel) *domain.Reservation {
	r := &domain.Reservation{
		ID:             m.ID,
		Code:           deref(m.Code),
		Channel:        m.Channel,
		GuestName:      m.GuestName,
		RoomLabel:      m.RoomLabel,
		CheckIn:        parseStoredDate(m.CheckIn),
		CheckOut:       parseStoredDate(m.CheckOut),
		ArrivalTime:    domain.Clock(deref(m.ArrivalTime)),
		DepartureTime:  domain.Clock(deref(m.DepartureTime)),
		Status:         domain.ReservationStatus(m.Status),
		Paid:           m.Paid,
		TotalAmount:    m.TotalAmount,
		DocumentType:   deref(m.DocumentType),
		DocumentNumber: deref(m.DocumentNo),
		NumAdults:      m.NumAdults,
		NumChildren:    m.NumChildren,
		RoomType:       deref(m.RoomType),
		Companions:     []domain.Companion(m.Companions),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		AssignedRooms:  make([]string, 0, len(m.Rooms)),
	}
	if r.Companions == nil {
		r.Companions = []domain.Companion{}
	}
	for _, rm := range m.Rooms {
		r.AssignedRooms = append(r.AssignedRooms, rm.RoomCode)
	}
	return r
}

func toReservationModel(r *domain.Reservation) reservationModel {
	m := reservationModel{
		ID:            r.ID,
		Code:          ptr(r.Code),
		Channel:       r.Channel,
		GuestName:     r.GuestName,
		RoomLabel:     r.RoomLabel,
		CheckIn:       domain.FormatDate(r.CheckIn),
		CheckOut:      domain.FormatDate(r.CheckOut),
		ArrivalTime:   ptr(r.ArrivalTime.String()),
		DepartureTime: ptr(r.DepartureTime.String()),
		Status:        string(r.Status),
		Paid:          r.Paid,
		TotalAmount:   r.TotalAmount,
		DocumentType:  ptr(r.DocumentType),
		DocumentNo:    ptr(r.DocumentNumber),
		NumAdults:     r.NumAdults,
		NumChildren:   r.NumChildren,
		RoomType:      ptr(r.RoomType),
		Companions:    datatypes.JSONSlice[domain.Companion](r.Companions),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	m.Rooms = toRoomRows(r.ID, r.AssignedRooms)
	return m
}

func toRoomRows(reservationID int64, codes []string) []reservationRoomModel {
	normalized := domain.NewRoomCodes(codes...)
	rows := make([]reservationRoomModel, 0, len(normalized))
	for _, code := range normalized {
		rows = append(rows, reservationRoomModel{ReservationID: reservationID, RoomCode: code})
	}
	return rows
}

func toDomainRoom(m roomModel) domain.Room {
	return domain.Room{
		ID:     m.ID,
		Code:   m.Code,
		Floor:  m.Floor,
		Type:   deref(m.Type),
		Status: domain.RoomStatus(m.Status),
	}
}

func toDomainBlock(m roomBlockModel) domain.RoomBlock {
	return domain.RoomBlock{
		ID:           m.ID,
		RoomCode:     m.RoomCode,
		Reason:       m.Reason,
		BlockedUntil: parseStoredDate(m.BlockedUntil),
		BlockedBy:    deref(m.BlockedBy),
		CreatedAt:    m.CreatedAt,
	}
}

// parseStoredDate maps unparsable stored values to the zero time; callers
// treat a zero date as missing.
func parseStoredDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}
	}
	return d
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
