package payment

import (
	"encoding/json"
	"errors"
	"io"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments", h.CreateIntent)
	rg.GET("/payments/:order_id", h.PollStatus)
	rg.GET("/bookings/:id/payment", h.GetBookingPayment)
}

// RegisterWebhookRoutes mounts the gateway callback. It sits outside the
// authenticated group; the signature check is the authentication.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/payments/notification", h.Notification)
}

func (h *Handler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "booking_id is required")
		return
	}

	p, err := h.service.CreateIntent(c.Request.Context(), req.BookingID, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This booking is not yours")
		case errors.Is(err, ErrBookingNotPayable):
			response.Error(c, http.StatusConflict, "INVALID_STATE", "Booking is not awaiting payment")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create payment")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"payment": p})
}

func (h *Handler) PollStatus(c *gin.Context) {
	orderID := c.Param("order_id")
	p, err := h.service.PollStatus(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
			return
		}
		response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Failed to query payment status")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) GetBookingPayment(c *gin.Context) {
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	p, err := h.service.GetByBookingID(c.Request.Context(), bookingID, c.GetInt64("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This booking is not yours")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payment")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

// Notification acks with 200 on every outcome except a bad signature or
// an unknown order, so the gateway stops retrying once reconciliation has
// happened (or was already done).
func (h *Handler) Notification(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unreadable body")
		return
	}

	var payload NotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification body")
		return
	}

	if err := h.service.HandleNotification(c.Request.Context(), payload, raw); err != nil {
		switch {
		case errors.Is(err, ErrInvalidSignature):
			response.Error(c, http.StatusForbidden, "INVALID_SIGNATURE", "Signature verification failed")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Unknown order")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process notification")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "ok"})
}
