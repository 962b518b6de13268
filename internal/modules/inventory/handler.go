package inventory

import (
	"errors"
	"net/http"
	"strconv"

	"kosthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PATCH("/kosts/:id/rooms", h.AdjustRooms)
}

type adjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *Handler) AdjustRooms(c *gin.Context) {
	kostID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid kost ID")
		return
	}

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "delta is required and must be non-zero")
		return
	}

	k, err := h.service.Adjust(c.Request.Context(), kostID, c.GetInt64("user_id"), req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this kost")
		case errors.Is(err, ErrBoundsViolation):
			response.Error(c, http.StatusConflict, "BOUNDS_VIOLATION", "Adjustment would leave room count outside 0..total_rooms")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Kost not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to adjust rooms")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"kost": k})
}
