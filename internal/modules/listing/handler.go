package listing

import (
	"errors"
	"net/http"
	"strconv"

	"kosthub/internal/domain"
	"kosthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the unauthenticated browse surface.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/kosts", h.Search)
	rg.GET("/kosts/:id", h.GetDetail)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/kosts", h.Create)
	rg.GET("/owner/kosts", h.ListMine)
	rg.DELETE("/kosts/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateKostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	k, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid kost data")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create kost")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"kost": k})
}

func (h *Handler) Search(c *gin.Context) {
	q := SearchQuery{City: c.Query("city"), OnlyFree: c.Query("only_free") == "true"}
	if v := c.Query("price_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.PriceMin = &f
		}
	}
	if v := c.Query("price_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			q.PriceMax = &f
		}
	}
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	q.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	kosts, total, err := h.service.Search(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search kosts")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kosts": kosts, "total": total})
}

func (h *Handler) GetDetail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid kost ID")
		return
	}

	role := domain.UserRole(c.GetString("role"))
	k, err := h.service.GetDetail(c.Request.Context(), id, c.GetInt64("user_id"), role)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Kost not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load kost")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kost": k})
}

func (h *Handler) ListMine(c *gin.Context) {
	kosts, err := h.service.ListMine(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load kosts")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kosts": kosts})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid kost ID")
		return
	}

	role := domain.UserRole(c.GetString("role"))
	if err := h.service.Delete(c.Request.Context(), id, c.GetInt64("user_id"), role); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Kost not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You don't own this kost")
		case errors.Is(err, ErrHasActiveBookings):
			response.Error(c, http.StatusConflict, "INVALID_STATE", "Kost still has active bookings")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete kost")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
