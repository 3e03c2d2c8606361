package calendar

import (
	"errors"
	"net/http"

	"hotelops/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	cal := rg.Group("/calendar")
	{
		cal.GET("/events", h.Events)
		cal.GET("/notes", h.Notes)
		cal.PUT("/notes/:date", h.SaveNote)
		cal.DELETE("/notes/:date", h.DeleteNote)
	}
}

func (h *Handler) Events(c *gin.Context) {
	events, err := h.service.Events(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load calendar")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

func (h *Handler) Notes(c *gin.Context) {
	notes, err := h.service.Notes(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load notes")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notes": notes})
}

func (h *Handler) SaveNote(c *gin.Context) {
	var req UpsertNoteRequest
	// An empty body clears the text.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	note, err := h.service.SaveNote(c.Request.Context(), c.Param("date"), req.Text)
	if err != nil {
		h.fail(c, err, "Failed to save note")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"note": note})
}

func (h *Handler) DeleteNote(c *gin.Context) {
	if err := h.service.DeleteNote(c.Request.Context(), c.Param("date")); err != nil {
		h.fail(c, err, "Failed to delete note")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrInvalidDate) {
		response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Date must be YYYY-MM-DD")
		return
	}
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}
