package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seminar-registration-backend/internal/model"
	"seminar-registration-backend/internal/store"
)

type assignRequest struct {
	InscriptionID string `json:"inscription_id" binding:"required"`
}

// Assign handles POST /api/assignments. Safe to call redundantly; a
// repeated call reports the existing assignment.
func (h *Handler) Assign(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	result, err := h.assignments.Assign(c.Request.Context(), req.InscriptionID)
	if err != nil {
		h.fail(c, err)
		return
	}

	status := http.StatusCreated
	if result.AlreadyAssigned {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"success": true, "data": result})
}

// Unassign handles DELETE /api/assignments/:id.
func (h *Handler) Unassign(c *gin.Context) {
	if err := h.assignments.Unassign(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Dormitory released successfully"})
}

type reassignRequest struct {
	InscriptionID string `json:"inscription_id" binding:"required"`
	DormitoryID   int64  `json:"dormitory_id" binding:"required"`
}

// Reassign handles POST /api/assignments/reassign.
func (h *Handler) Reassign(c *gin.Context) {
	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	result, err := h.assignments.Reassign(c.Request.Context(), req.InscriptionID, req.DormitoryID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// GetAssignmentByInscription handles GET /api/assignments/inscription/:inscription_id.
func (h *Handler) GetAssignmentByInscription(c *gin.Context) {
	a, err := h.store.GetAssignmentByInscription(c.Request.Context(), c.Param("inscription_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Assignment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": a})
}

// ListAssignments handles GET /api/assignments?dormitory_id=&gender=.
func (h *Handler) ListAssignments(c *gin.Context) {
	var filter store.AssignmentFilter

	if raw := c.Query("dormitory_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid dormitory_id filter"})
			return
		}
		filter.DormitoryID = id
	}
	if gender := model.Gender(c.Query("gender")); gender != "" {
		if !gender.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid gender filter"})
			return
		}
		filter.Gender = gender
	}

	assignments, err := h.store.ListAssignments(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": assignments})
}
