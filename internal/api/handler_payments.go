package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seminar-registration-backend/internal/model"
)

type initiatePaymentRequest struct {
	InscriptionID string              `json:"inscription_id" binding:"required"`
	Method        model.PaymentMethod `json:"method" binding:"required"`
}

// InitiatePayment handles POST /api/payments.
func (h *Handler) InitiatePayment(c *gin.Context) {
	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Method != model.PaymentOnline && req.Method != model.PaymentCash {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "method must be online or cash"})
		return
	}

	p, err := h.payments.Initiate(c.Request.Context(), req.InscriptionID, req.Method)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
}

type paymentCallbackRequest struct {
	TransactionID     string `json:"cpm_trans_id" binding:"required"`
	TransactionStatus string `json:"cpm_trans_status" binding:"required"`
}

// PaymentCallback handles POST /api/payments/callback, the gateway's
// notification endpoint. Redelivered notifications for a settled
// payment are acknowledged without side effects.
func (h *Handler) PaymentCallback(c *gin.Context) {
	var req paymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	confirmation, err := h.payments.HandleCallback(c.Request.Context(), req.TransactionID, req.TransactionStatus)
	if err != nil {
		if confirmation != nil {
			// Terminal already; acknowledge the duplicate delivery.
			c.JSON(http.StatusOK, gin.H{"success": true, "data": confirmation})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": confirmation})
}

type validateCashRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
}

// ValidateCashPayment handles POST /api/payments/validate-cash.
func (h *Handler) ValidateCashPayment(c *gin.Context) {
	var req validateCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	confirmation, err := h.payments.ValidateCash(c.Request.Context(), req.PaymentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": confirmation})
}

type simulatePaymentRequest struct {
	InscriptionID string `json:"inscription_id" binding:"required"`
}

// SimulatePayment handles POST /api/payments/simulate, the operator
// tool that settles a fee without a gateway round trip.
func (h *Handler) SimulatePayment(c *gin.Context) {
	var req simulatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	confirmation, err := h.payments.Simulate(c.Request.Context(), req.InscriptionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": confirmation})
}
