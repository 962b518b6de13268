package admin

import (
	"errors"
	"net/http"
	"strconv"

	"kosthub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the moderation surface; the caller wraps the
// group with the admin-only middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/kosts/pending", h.ListPending)
	rg.POST("/admin/kosts/:id/approve", h.Approve)
	rg.POST("/admin/kosts/:id/reject", h.Reject)
}

func (h *Handler) ListPending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	kosts, total, err := h.service.ListPending(c.Request.Context(), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load pending kosts")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kosts": kosts, "total": total})
}

func (h *Handler) Approve(c *gin.Context) {
	id, ok := h.kostID(c)
	if !ok {
		return
	}
	k, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		h.writeModerationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kost": k})
}

func (h *Handler) Reject(c *gin.Context) {
	id, ok := h.kostID(c)
	if !ok {
		return
	}
	var req RejectKostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "reason is required")
		return
	}
	k, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		h.writeModerationError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"kost": k})
}

func (h *Handler) kostID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid kost ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeModerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Kost not found")
	case errors.Is(err, ErrInvalidState):
		response.Error(c, http.StatusConflict, "INVALID_STATE", "Kost is not awaiting moderation")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Moderation failed")
	}
}
