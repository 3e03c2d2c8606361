package maintenance

import (
	"errors"
	"net/http"
	"strconv"

	"hotelops/internal/middleware"
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
	blocks := rg.Group("/maintenance/blocks")
	{
		blocks.GET("", h.List)
		blocks.POST("", h.Create)
		blocks.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load blocked rooms")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rooms": toResponses(list)})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "room, reason and blockedUntil are required")
		return
	}

	b, err := h.service.Create(c.Request.Context(), middleware.CallerID(c), req)
	if err != nil {
		h.fail(c, err, "Failed to block room")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"room": toResponse(*b)})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid block ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), middleware.CallerID(c), id); err != nil {
		h.fail(c, err, "Failed to unblock room")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Block not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
	}
}
