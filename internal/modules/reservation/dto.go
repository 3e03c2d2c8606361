package reservation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"hotelops/internal/domain"
)

const defaultChannel = "Venta Directa"

// Amount accepts a JSON number or a display string such as "S/ 120.00".
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}

// ParseAmount strips the currency prefix and thousands separators.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "S/"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrValidation
	}
	return v, nil
}

type CompanionInput struct {
	Name           string `json:"name"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
}

type CreateReservationRequest struct {
	Channel        string           `json:"channel"`
	Guest          string           `json:"guest" binding:"required"`
	Room           string           `json:"room"`
	Rooms          []string         `json:"rooms"`
	CheckIn        string           `json:"checkIn" binding:"required"`
	CheckOut       string           `json:"checkOut" binding:"required"`
	ArrivalTime    string           `json:"arrivalTime"`
	DepartureTime  string           `json:"departureTime"`
	Status         string           `json:"status"`
	Paid           bool             `json:"paid"`
	Total          *Amount          `json:"total"`
	DocumentType   string           `json:"documentType"`
	DocumentNumber string           `json:"documentNumber"`
	NumAdults      *int             `json:"numAdults"`
	NumChildren    int              `json:"numChildren"`
	RoomType       string           `json:"roomType"`
	Companions     []CompanionInput `json:"companions"`
}

// UpdateReservationRequest is a partial update: nil fields are left alone.
// The reservation code is never editable.
type UpdateReservationRequest struct {
	Channel        *string           `json:"channel"`
	Guest          *string           `json:"guest"`
	Room           *string           `json:"room"`
	Rooms          *[]string         `json:"rooms"`
	CheckIn        *string           `json:"checkIn"`
	CheckOut       *string           `json:"checkOut"`
	ArrivalTime    *string           `json:"arrivalTime"`
	DepartureTime  *string           `json:"departureTime"`
	Status         *string           `json:"status"`
	Paid           *bool             `json:"paid"`
	Total          *Amount           `json:"total"`
	DocumentType   *string           `json:"documentType"`
	DocumentNumber *string           `json:"documentNumber"`
	NumAdults      *int              `json:"numAdults"`
	NumChildren    *int              `json:"numChildren"`
	RoomType       *string           `json:"roomType"`
	Companions     *[]CompanionInput `json:"companions"`
}

type ReservationResponse struct {
	ID             int64              `json:"id"`
	ReservationID  string             `json:"reservation_id"`
	Channel        string             `json:"channel"`
	Guest          string             `json:"guest"`
	Room           string             `json:"room"`
	Rooms          []string           `json:"rooms"`
	CheckIn        string             `json:"check_in"`
	CheckOut       string             `json:"check_out"`
	ArrivalTime    string             `json:"arrival_time,omitempty"`
	DepartureTime  string             `json:"departure_time,omitempty"`
	Status         string             `json:"status"`
	Paid           bool               `json:"paid"`
	Total          float64            `json:"total"`
	DocumentType   string             `json:"document_type,omitempty"`
	DocumentNumber string             `json:"document_number,omitempty"`
	NumAdults      int                `json:"num_adults"`
	NumChildren    int                `json:"num_children"`
	RoomType       string             `json:"room_type,omitempty"`
	Companions     []domain.Companion `json:"companions"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

func toResponse(r domain.Reservation) ReservationResponse {
	rooms := r.AssignedRooms
	if rooms == nil {
		rooms = []string{}
	}
	companions := r.Companions
	if companions == nil {
		companions = []domain.Companion{}
	}
	return ReservationResponse{
		ID:             r.ID,
		ReservationID:  r.Code,
		Channel:        r.Channel,
		Guest:          r.GuestName,
		Room:           r.RoomLabel,
		Rooms:          rooms,
		CheckIn:        domain.FormatDate(r.CheckIn),
		CheckOut:       domain.FormatDate(r.CheckOut),
		ArrivalTime:    r.ArrivalTime.String(),
		DepartureTime:  r.DepartureTime.String(),
		Status:         string(r.Status),
		Paid:           r.Paid,
		Total:          r.TotalAmount,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		NumAdults:      r.NumAdults,
		NumChildren:    r.NumChildren,
		RoomType:       r.RoomType,
		Companions:     companions,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toResponses(list []domain.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResponse(r))
	}
	return out
}

// companionsFrom drops entries with neither a name nor a document number.
func companionsFrom(in []CompanionInput) []domain.Companion {
	out := make([]domain.Companion, 0, len(in))
	for _, c := range in {
		name := strings.TrimSpace(c.Name)
		number := strings.TrimSpace(c.DocumentNumber)
		if name == "" && number == "" {
			continue
		}
		out = append(out, domain.Companion{
			Name:           name,
			DocumentType:   strings.TrimSpace(c.DocumentType),
			DocumentNumber: number,
		})
	}
	return out
}
