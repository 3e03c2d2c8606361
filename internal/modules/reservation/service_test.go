package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"hotelops/internal/domain"
	"hotelops/internal/modules/occupancy"
	"hotelops/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repositories
type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	if args.Error(0) == nil {
		r.ID = 1
		r.Code = "RES-001"
	}
	return args.Error(0)
}

func (m *MockReservationRepository) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReservationRepository) DeleteByCode(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) Refresh(ctx context.Context) (occupancy.RefreshResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(occupancy.RefreshResult), args.Error(1)
}

func newTestService() (*Service, *MockReservationRepository, *MockRefresher) {
	repo := new(MockReservationRepository)
	refresher := new(MockRefresher)
	return NewService(repo, refresher, zerolog.Nop()), repo, refresher
}

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func amountPtr(v Amount) *Amount { return &v }

func TestCreate_Defaults(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Reservation")).Return(nil)

	r, err := service.Create(ctx, CreateReservationRequest{
		Guest:    "  Maria Quispe ",
		Rooms:    []string{"211", "210", "210"},
		CheckIn:  "2024-05-01",
		CheckOut: "2024-05-03",
		Total:    amountPtr(240),
		Companions: []CompanionInput{
			{Name: "Ana", DocumentType: "DNI", DocumentNumber: "12345678"},
			{},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "RES-001", r.Code)
	assert.Equal(t, "Maria Quispe", r.GuestName)
	assert.Equal(t, defaultChannel, r.Channel)
	assert.Equal(t, domain.ReservationConfirmed, r.Status)
	assert.Equal(t, 1, r.NumAdults)
	assert.Equal(t, []string{"210", "211"}, r.AssignedRooms)
	assert.Equal(t, "211", r.RoomLabel)
	assert.Equal(t, 240.0, r.TotalAmount)
	assert.Len(t, r.Companions, 1)
	repo.AssertExpectations(t)
}

func TestCreate_NormalizesClocksAndStatus(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(nil)

	r, err := service.Create(ctx, CreateReservationRequest{
		Guest:         "Jose",
		Room:          "315",
		CheckIn:       "2024-05-01",
		CheckOut:      "2024-05-02",
		ArrivalTime:   "9:30",
		DepartureTime: "10:00:00",
		Status:        "Check-in",
		NumAdults:     intPtr(2),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.Clock("09:30"), r.ArrivalTime)
	assert.Equal(t, domain.Clock("10:00"), r.DepartureTime)
	assert.Equal(t, domain.ReservationCheckedIn, r.Status)
	assert.Equal(t, 2, r.NumAdults)
}

func TestCreate_Validation(t *testing.T) {
	base := func() CreateReservationRequest {
		return CreateReservationRequest{Guest: "Maria", Room: "210", CheckIn: "2024-05-01", CheckOut: "2024-05-03"}
	}

	cases := map[string]func(*CreateReservationRequest){
		"bad check in":        func(r *CreateReservationRequest) { r.CheckIn = "01/05/2024" },
		"check out before in": func(r *CreateReservationRequest) { r.CheckOut = "2024-04-30" },
		"bad arrival":         func(r *CreateReservationRequest) { r.ArrivalTime = "25:99" },
		"unknown status":      func(r *CreateReservationRequest) { r.Status = "no-show" },
		"bad room code":       func(r *CreateReservationRequest) { r.Rooms = []string{"2 10"} },
		"blank guest":         func(r *CreateReservationRequest) { r.Guest = "   " },
		"negative adults":     func(r *CreateReservationRequest) { r.NumAdults = intPtr(-1) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			service, repo, _ := newTestService()
			req := base()
			mutate(&req)

			_, err := service.Create(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreate_SameDayStayIsAllowed(t *testing.T) {
	service, repo, _ := newTestService()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := service.Create(context.Background(), CreateReservationRequest{
		Guest: "Rosa", Room: "111", CheckIn: "2024-05-01", CheckOut: "2024-05-01",
	})
	assert.NoError(t, err)
}

func TestList_RefreshesFirst(t *testing.T) {
	service, repo, refresher := newTestService()
	ctx := context.Background()

	var order []string
	refresher.On("Refresh", ctx).Return(occupancy.RefreshResult{}, nil).
		Run(func(mock.Arguments) { order = append(order, "refresh") })
	repo.On("List", ctx).Return([]domain.Reservation{{Code: "RES-001"}}, nil).
		Run(func(mock.Arguments) { order = append(order, "list") })

	list, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, []string{"refresh", "list"}, order)
}

func TestList_RefreshErrorFailsTheRead(t *testing.T) {
	service, repo, refresher := newTestService()
	ctx := context.Background()

	refresher.On("Refresh", ctx).Return(occupancy.RefreshResult{}, errors.New("db down"))

	_, err := service.List(ctx)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestGet_NotFound(t *testing.T) {
	service, repo, refresher := newTestService()
	ctx := context.Background()

	refresher.On("Refresh", ctx).Return(occupancy.RefreshResult{}, nil)
	repo.On("GetByCode", ctx, "RES-404").Return(nil, repository.ErrNotFound)

	_, err := service.Get(ctx, "RES-404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_Partial(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	checkIn, _ := domain.ParseDate("2024-05-01")
	checkOut, _ := domain.ParseDate("2024-05-03")
	existing := &domain.Reservation{
		ID: 1, Code: "RES-001", Channel: "Booking.com", GuestName: "Maria",
		RoomLabel: "210", AssignedRooms: []string{"210"},
		CheckIn: checkIn, CheckOut: checkOut,
		Status: domain.ReservationConfirmed, NumAdults: 2,
	}
	repo.On("GetByCode", ctx, "RES-001").Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.Code == "RES-001" &&
			r.Channel == "Booking.com" &&
			r.Status == domain.ReservationCancelled &&
			domain.FormatDate(r.CheckOut) == "2024-05-04" &&
			r.NumAdults == 2
	})).Return(nil)

	r, err := service.Update(ctx, "RES-001", UpdateReservationRequest{
		CheckOut: strPtr("2024-05-04"),
		Status:   strPtr("Cancelled"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, r.Status)
	repo.AssertExpectations(t)
}

func TestUpdate_RejectsInvertedRange(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	checkIn, _ := domain.ParseDate("2024-05-01")
	checkOut, _ := domain.ParseDate("2024-05-03")
	repo.On("GetByCode", ctx, "RES-001").Return(&domain.Reservation{
		Code: "RES-001", GuestName: "Maria", CheckIn: checkIn, CheckOut: checkOut,
	}, nil)

	_, err := service.Update(ctx, "RES-001", UpdateReservationRequest{CheckIn: strPtr("2024-05-10")})
	assert.ErrorIs(t, err, ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDelete_NotFound(t *testing.T) {
	service, repo, _ := newTestService()
	ctx := context.Background()

	repo.On("DeleteByCode", ctx, "RES-404").Return(repository.ErrNotFound)
	assert.ErrorIs(t, service.Delete(ctx, "RES-404"), ErrNotFound)
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	cases := map[string]float64{
		`120.5`:         120.5,
		`"S/ 1,250.00"`: 1250,
		`"80"`:          80,
		`""`:            0,
	}
	for raw, want := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(raw), &a), raw)
		assert.Equal(t, want, float64(a), raw)
	}

	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"ochenta"`), &a))
}
