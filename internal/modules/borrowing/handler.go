package borrowing

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/borrowings", h.List)
	rg.POST("/borrowings", h.Create)
	rg.GET("/borrowings/:id", h.Get)
	rg.POST("/borrowings/:id/return", h.Return)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	expected, err := time.Parse("2006-01-02", req.ExpectedReturnDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "expected_return_date must be YYYY-MM-DD")
		return
	}

	res, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req.BookID, expected)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Expected return date cannot be in the past")
		case errors.Is(err, ErrBookUnavailable):
			response.Error(c, http.StatusConflict, "UNAVAILABLE", "Book is out of stock")
		case errors.Is(err, ErrPendingPayment):
			response.Error(c, http.StatusPaymentRequired, "PENDING_PAYMENT", "Settle your pending payment before borrowing")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Book not found")
		default:
			response.Error(c, http.StatusBadGateway, "PAYMENT_SESSION_FAILED", "Could not create payment session")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"borrowing":   res.Borrowing,
		"session_url": res.Payment.SessionURL,
	})
}

func (h *Handler) List(c *gin.Context) {
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b := v == "true"
		isActive = &b
	}
	var userID *int64
	if v := c.Query("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user_id filter")
			return
		}
		userID = &id
	}

	list, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), c.GetBool("is_staff"), isActive, userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list borrowings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowings": list})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid borrowing ID")
		return
	}

	b, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"), c.GetBool("is_staff"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Borrowing not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load borrowing")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"borrowing": b})
}

func (h *Handler) Return(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid borrowing ID")
		return
	}

	// only the owner or staff may return
	if _, err := h.service.Get(c.Request.Context(), id, c.GetInt64("user_id"), c.GetBool("is_staff")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Borrowing not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load borrowing")
		return
	}

	var req ReturnBorrowingRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	returnDate := time.Now()
	if req.ActualReturnDate != "" {
		returnDate, err = time.Parse("2006-01-02", req.ActualReturnDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "actual_return_date must be YYYY-MM-DD")
			return
		}
	}

	res, err := h.service.Return(c.Request.Context(), id, returnDate)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyReturned):
			response.Error(c, http.StatusConflict, "ALREADY_RETURNED", "This borrowing has already been returned")
		case errors.Is(err, ErrInvalidDate):
			response.Error(c, http.StatusBadRequest, "INVALID_DATE", "Return date cannot precede the borrow date")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Borrowing not found")
		default:
			response.Error(c, http.StatusBadGateway, "PAYMENT_SESSION_FAILED", "Could not create fine payment session")
		}
		return
	}

	if res.FineApplied {
		response.Success(c, http.StatusOK, gin.H{
			"message":     "You have a fine of " + res.FineAmount.StringFixed(2) + " for returning the book late.",
			"fine_amount": res.FineAmount,
			"session_url": res.Payment.SessionURL,
		})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Book returned successfully."})
}
