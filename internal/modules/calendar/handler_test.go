package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotelops/internal/database"
	"hotelops/internal/domain"
	"hotelops/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventsResponse struct {
	Data struct {
		Events []Event `json:"events"`
	} `json:"data"`
}

type notesResponse struct {
	Data struct {
		Notes []NoteResponse `json:"notes"`
	} `json:"data"`
}

type noteResponse struct {
	Data struct {
		Note NoteResponse `json:"note"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *repository.ReservationRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect("file::memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	reservations := repository.NewReservationRepository(db)
	service := NewService(reservations, repository.NewDayNoteRepository(db))

	router := gin.New()
	NewHandler(service).RegisterRoutes(router.Group("/api/v1"))
	return router, reservations
}

func performRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func seedReservation(t *testing.T, repo *repository.ReservationRepository, guest, channel, label, checkIn, checkOut string) {
	t.Helper()
	r := &domain.Reservation{
		Channel:   channel,
		GuestName: guest,
		RoomLabel: label,
		Status:    domain.ReservationConfirmed,
	}
	if checkIn != "" {
		r.CheckIn, _ = domain.ParseDate(checkIn)
	}
	if checkOut != "" {
		r.CheckOut, _ = domain.ParseDate(checkOut)
	}
	require.NoError(t, repo.Create(context.Background(), r))
}

func TestEvents(t *testing.T) {
	router, reservations := setupRouter(t)
	seedReservation(t, reservations, "Maria", "Booking.com", "210", "2024-05-01", "2024-05-03")
	seedReservation(t, reservations, "Jose", "WhatsApp Business", "111, 112", "2024-05-02", "2024-05-04")
	seedReservation(t, reservations, "Rosa", "Venta Directa", "315", "2024-05-05", "2024-05-06")
	seedReservation(t, reservations, "Sin fecha", "Booking.com", "313", "", "")

	resp := performRequest(router, http.MethodGet, "/api/v1/calendar/events", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var payload eventsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Len(t, payload.Data.Events, 3)

	byID := make(map[string]Event)
	for _, e := range payload.Data.Events {
		byID[e.ID] = e
	}

	maria := byID["RES-001"]
	assert.Equal(t, "Maria - 210", maria.Title)
	assert.Equal(t, "2024-05-01", maria.Start)
	assert.Equal(t, "2024-05-03", maria.End)
	assert.Equal(t, TagBooking, maria.ExtendedProps.Calendar)

	assert.Equal(t, "Jose - 111, 112", byID["RES-002"].Title)
	assert.Equal(t, TagWhatsApp, byID["RES-002"].ExtendedProps.Calendar)
	assert.Equal(t, TagDirectSale, byID["RES-003"].ExtendedProps.Calendar)
	assert.NotContains(t, byID, "RES-004")
}

func TestNotesLifecycle(t *testing.T) {
	router, _ := setupRouter(t)

	resp := performRequest(router, http.MethodPut, "/api/v1/calendar/notes/2024-05-01", UpsertNoteRequest{Text: "Grupo de 12"})
	require.Equal(t, http.StatusOK, resp.Code)
	var saved noteResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&saved))
	assert.Equal(t, NoteResponse{Date: "2024-05-01", Text: "Grupo de 12"}, saved.Data.Note)

	resp = performRequest(router, http.MethodPut, "/api/v1/calendar/notes/2024-05-01", UpsertNoteRequest{Text: "Grupo de 14"})
	require.Equal(t, http.StatusOK, resp.Code)
	resp = performRequest(router, http.MethodPut, "/api/v1/calendar/notes/2024-05-03", UpsertNoteRequest{Text: "Fumigacion"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = performRequest(router, http.MethodGet, "/api/v1/calendar/notes", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	var list notesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, []NoteResponse{
		{Date: "2024-05-03", Text: "Fumigacion"},
		{Date: "2024-05-01", Text: "Grupo de 14"},
	}, list.Data.Notes)

	resp = performRequest(router, http.MethodDelete, "/api/v1/calendar/notes/2024-05-01", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	// Deleting again is harmless.
	resp = performRequest(router, http.MethodDelete, "/api/v1/calendar/notes/2024-05-01", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = performRequest(router, http.MethodGet, "/api/v1/calendar/notes", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list.Data.Notes, 1)
}

func TestNotesRejectBadDate(t *testing.T) {
	router, _ := setupRouter(t)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		resp := performRequest(router, method, "/api/v1/calendar/notes/05-01-2024", UpsertNoteRequest{Text: "x"})
		require.Equal(t, http.StatusBadRequest, resp.Code, method)

		var payload errorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, "INVALID_DATE", payload.Error.Code)
	}
}

func TestTagFor(t *testing.T) {
	cases := map[string]string{
		"Booking.com":       TagBooking,
		"WhatsApp":          TagWhatsApp,
		"Venta Directa":     TagDirectSale,
		"":                  TagDirectSale,
		"Expedia":           TagDirectSale,
		"booking lowercase": TagDirectSale,
	}
	for channel, want := range cases {
		assert.Equal(t, want, tagFor(channel), channel)
	}
}
