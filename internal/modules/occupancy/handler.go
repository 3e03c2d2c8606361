package occupancy

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
	rg.GET("/rooms", h.ListRooms)
	rg.GET("/rooms/available", h.AvailableRooms)
	rg.POST("/occupancy/sync", h.Sync)
	rg.GET("/dashboard/today", h.Today)
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to load rooms")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) AvailableRooms(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "check_in and check_out are required")
		return
	}

	result, err := h.service.FindAvailableRooms(c.Request.Context(), q.CheckIn, q.CheckOut)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		internalError(c, err, "Failed to search availability")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Sync(c *gin.Context) {
	result, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to synchronize statuses")
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) Today(c *gin.Context) {
	board, err := h.service.Today(c.Request.Context())
	if err != nil {
		internalError(c, err, "Failed to load today's arrivals and departures")
		return
	}
	response.Success(c, http.StatusOK, board)
}

func internalError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// RegisterInternal mounts the scheduler-facing sync under a machine-auth group.
func (h *Handler) RegisterInternal(rg *gin.RouterGroup) {
	rg.POST("/occupancy/sync", h.Sync)
}
