package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"seminar-registration-backend/internal/assignment"
	"seminar-registration-backend/internal/payment"
	"seminar-registration-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	assignments *assignment.Service
	payments    *payment.Service
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, assignments *assignment.Service, payments *payment.Service) *Handler {
	return &Handler{
		store:       s,
		assignments: assignments,
		payments:    payments,
	}
}

// fail renders an error as a {success:false, message} payload. Business
// rejections map to 4xx; anything unrecognized is an operational
// incident and is logged before returning 500.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, assignment.ErrNotFound), errors.Is(err, payment.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, assignment.ErrCapacityExhausted),
		errors.Is(err, assignment.ErrNoActiveAssignment),
		errors.Is(err, assignment.ErrInvalidGender),
		errors.Is(err, assignment.ErrCapacityBelowOccupancy),
		errors.Is(err, assignment.ErrDormitoryOccupied),
		errors.Is(err, payment.ErrAlreadyPaid),
		errors.Is(err, payment.ErrTerminal):
		status = http.StatusBadRequest
	case errors.Is(err, assignment.ErrCapacityUpdate):
		status = http.StatusConflict
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": err.Error()})
}
