package reservation

import (
	"errors"
	"net/http"

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
	reservations := rg.Group("/reservations")
	{
		reservations.GET("", h.List)
		reservations.POST("", h.Create)
		reservations.GET("/:code", h.Get)
		reservations.PATCH("/:code", h.Update)
		reservations.DELETE("/:code", middleware.RequireRole("admin", "manager"), h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to load reservations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": toResponses(list)})
}

func (h *Handler) Get(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err, "Failed to load reservation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": toResponse(*r)})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create reservation")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"reservation": toResponse(*r)})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Update(c.Request.Context(), c.Param("code"), req)
	if err != nil {
		h.fail(c, err, "Failed to update reservation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservation": toResponse(*r)})
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("code")); err != nil {
		h.fail(c, err, "Failed to delete reservation")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	var fieldErr *FieldError
	switch {
	case errors.As(err, &fieldErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation", fieldErr.Fields)
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", message)
	}
}
