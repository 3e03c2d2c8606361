package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hotelops/internal/config"
	"hotelops/internal/database"
	"hotelops/internal/domain"
	"hotelops/internal/modules/occupancy"
	"hotelops/internal/modules/presence"
	jwtsvc "hotelops/internal/pkg/jwt"
	"hotelops/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type E2ETestSuite struct {
	router *gin.Engine
	tokens *jwtsvc.Service
}

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var testNow = time.Date(2024, 7, 20, 10, 0, 0, 0, time.UTC)

func setupTestSuite(t *testing.T) *E2ETestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("file::memory:", zerolog.Nop())
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	seedRooms(t, repository.NewRoomRepository(db))

	cfg := &config.Config{
		AppEnv:         "test",
		HotelLocation:  time.UTC,
		MetricsEnabled: true,
		InternalToken:  "cron-token",
	}
	hub := presence.NewHub(zerolog.Nop())
	t.Cleanup(hub.Close)
	tokens := jwtsvc.New("test_secret_key_32_characters_min", time.Hour)

	router := newRouter(serverDeps{
		cfg:      cfg,
		log:      zerolog.Nop(),
		db:       db,
		registry: prometheus.NewRegistry(),
		hub:      hub,
		notifier: hub,
		tokens:   tokens,
		clock:    func() time.Time { return testNow },
	})
	return &E2ETestSuite{router: router, tokens: tokens}
}

func seedRooms(t *testing.T, rooms *repository.RoomRepository) {
	t.Helper()
	for _, r := range []domain.Room{
		{Code: "111", Floor: 1, Type: "DE"},
		{Code: "112", Floor: 1, Type: "DF"},
		{Code: "210", Floor: 2, Type: "M"},
		{Code: "315", Floor: 3, Type: "TF"},
	} {
		r.Status = domain.RoomAvailable
		_, err := rooms.Upsert(context.Background(), r)
		require.NoError(t, err)
	}
}

func (s *E2ETestSuite) token(t *testing.T, user, role string) string {
	t.Helper()
	token, err := s.tokens.GenerateToken(user, role)
	require.NoError(t, err)
	return token
}

func (s *E2ETestSuite) makeRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, data any) *TestResponse {
	t.Helper()
	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return &resp
}

func TestFlow1_HealthAndAuth(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.makeRequest(http.MethodGet, "/readyz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", w.Body.String())

	w = s.makeRequest(http.MethodGet, "/api/v1/rooms", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/rooms", nil, s.token(t, "recepcion", "reception"))
	require.Equal(t, http.StatusOK, w.Code)
	var rooms struct {
		Rooms []domain.Room `json:"rooms"`
	}
	parseResponse(t, w, &rooms)
	assert.Len(t, rooms.Rooms, 4)

	w = s.makeRequest(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hotelops_reconcile_changes_total")
}

func TestFlow2_FrontDeskDay(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t, "recepcion", "reception")

	w := s.makeRequest(http.MethodPost, "/api/v1/reservations", map[string]any{
		"guest":       "Maria Quispe",
		"rooms":       []string{"210"},
		"checkIn":     "2024-07-20",
		"checkOut":    "2024-07-22",
		"arrivalTime": "14:00",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodPost, "/api/v1/reservations", map[string]any{
		"guest":         "Jose Huaman",
		"room":          "111",
		"checkIn":       "2024-07-18",
		"checkOut":      "2024-07-20",
		"departureTime": "12:00",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodGet, "/api/v1/dashboard/today", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var board occupancy.TodayBoard
	parseResponse(t, w, &board)
	assert.Equal(t, "2024-07-20", board.Date)
	require.Len(t, board.CheckIns, 1)
	assert.Equal(t, "Maria Quispe", board.CheckIns[0].Name)
	assert.Equal(t, "14:00", board.CheckIns[0].Time)
	require.Len(t, board.CheckOuts, 1)
	assert.Equal(t, "111", board.CheckOuts[0].Room)
	assert.Equal(t, "12:00", board.CheckOuts[0].Time)

	w = s.makeRequest(http.MethodGet, "/api/v1/rooms", nil, token)
	var rooms struct {
		Rooms []domain.Room `json:"rooms"`
	}
	parseResponse(t, w, &rooms)
	statuses := make(map[string]domain.RoomStatus)
	for _, r := range rooms.Rooms {
		statuses[r.Code] = r.Status
	}
	assert.Equal(t, domain.RoomOccupied, statuses["111"])
	assert.Equal(t, domain.RoomAvailable, statuses["210"])

	// 111 leaves on the 20th, so it is free from the 20th on; 210 is not.
	w = s.makeRequest(http.MethodGet, "/api/v1/rooms/available?check_in=2024-07-20&check_out=2024-07-21", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var avail occupancy.AvailabilityResult
	parseResponse(t, w, &avail)
	codes := make([]string, 0, len(avail.Rooms))
	for _, r := range avail.Rooms {
		codes = append(codes, r.Code)
	}
	assert.Equal(t, []string{"111", "112", "315"}, codes)

	w = s.makeRequest(http.MethodGet, "/api/v1/rooms/available?check_in=20-07-2024&check_out=2024-07-21", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.makeRequest(http.MethodGet, "/api/v1/calendar/events", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var events struct {
		Events []map[string]any `json:"events"`
	}
	parseResponse(t, w, &events)
	assert.Len(t, events.Events, 2)
}

func TestFlow3_MaintenanceBlock(t *testing.T) {
	s := setupTestSuite(t)
	token := s.token(t, "mantenimiento", "manager")

	w := s.makeRequest(http.MethodPost, "/api/v1/maintenance/blocks", map[string]any{
		"room":         "315",
		"reason":       "Cambio de alfombra",
		"blockedUntil": "2024-07-25",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.makeRequest(http.MethodGet, "/api/v1/rooms/available?check_in=2024-07-21&check_out=2024-07-23", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var avail occupancy.AvailabilityResult
	parseResponse(t, w, &avail)
	for _, r := range avail.Rooms {
		assert.NotEqual(t, "315", r.Code)
	}

	// After the block ends the room is offered again.
	w = s.makeRequest(http.MethodGet, "/api/v1/rooms/available?check_in=2024-07-26&check_out=2024-07-27", nil, token)
	parseResponse(t, w, &avail)
	assert.Len(t, avail.Rooms, 4)
}

func TestFlow4_InternalSync(t *testing.T) {
	s := setupTestSuite(t)

	w := s.makeRequest(http.MethodPost, "/internal/occupancy/sync", nil, "wrong")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.makeRequest(http.MethodPost, "/internal/occupancy/sync", nil, "cron-token")
	require.Equal(t, http.StatusOK, w.Code)
	var res occupancy.RefreshResult
	parseResponse(t, w, &res)
	assert.Equal(t, 4, res.TotalRooms)
}
