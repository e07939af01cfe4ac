package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"seminar-registration-backend/internal/model"
)

type createInscriptionRequest struct {
	FirstName string       `json:"first_name" binding:"required"`
	LastName  string       `json:"last_name" binding:"required"`
	Gender    model.Gender `json:"gender" binding:"required"`
}

// CreateInscription handles POST /api/inscriptions.
func (h *Handler) CreateInscription(c *gin.Context) {
	var req createInscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !req.Gender.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "gender must be male or female"})
		return
	}

	inscription := model.Inscription{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		Status:    model.InscriptionPending,
	}
	if err := h.store.CreateInscription(c.Request.Context(), &inscription); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": inscription})
}

// GetInscription handles GET /api/inscriptions/:id.
func (h *Handler) GetInscription(c *gin.Context) {
	inscription, err := h.store.GetInscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Inscription not found"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": inscription})
}

// DeleteInscription handles DELETE /api/inscriptions/:id. Any held
// dormitory slot is released before the row is removed, so the
// assignment's dormitory is still resolvable and a failed delete can
// never strand an occupied slot.
func (h *Handler) DeleteInscription(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if _, err := h.store.GetInscription(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Inscription not found"})
			return
		}
		h.fail(c, err)
		return
	}

	released, err := h.assignments.ReleaseForInscription(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.DeleteInscription(ctx, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Inscription deleted successfully",
		"slot_released": released,
	})
}
