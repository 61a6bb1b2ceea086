package payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"libraryservice/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts authenticated payment reads.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments", h.List)
	rg.GET("/payments/:id", h.Get)
}

// RegisterWebhookRoutes mounts the gateway callback endpoints. They are keyed
// by session_id and carry no user auth.
func (h *Handler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.GET("/payments/success", h.Success)
	rg.GET("/payments/cancel", h.Cancel)
}

func (h *Handler) List(c *gin.Context) {
	payments, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), c.GetBool("is_staff"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list payments")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), id, c.GetInt64("user_id"), c.GetBool("is_staff"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payment")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) Success(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "session_id is required")
		return
	}

	p, err := h.service.ConfirmSuccess(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownSession):
			response.Error(c, http.StatusNotFound, "UNKNOWN_SESSION", "No payment for this session")
		case errors.Is(err, ErrSessionNotPaid):
			response.Error(c, http.StatusBadRequest, "NOT_PAID", "Payment not successful")
		case errors.Is(err, ErrGateway):
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment gateway failure")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to confirm payment")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":     "Payment successful",
		"payment_id": p.ID,
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "session_id is required")
		return
	}

	h.service.MarkCanceled(c.Request.Context(), sessionID)
	response.Success(c, http.StatusOK, gin.H{
		"status": "Payment can be completed within 24 hours",
	})
}
