package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seminar-registration-backend/internal/model"
)

type createDormitoryRequest struct {
	Name          string       `json:"name" binding:"required"`
	Gender        model.Gender `json:"gender" binding:"required"`
	TotalCapacity int          `json:"total_capacity" binding:"required,gt=0"`
}

// CreateDormitory handles POST /api/dormitories.
func (h *Handler) CreateDormitory(c *gin.Context) {
	var req createDormitoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	d, err := h.assignments.CreateDormitory(c.Request.Context(), req.Name, req.Gender, req.TotalCapacity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": d})
}

// ListDormitories handles GET /api/dormitories?gender=.
func (h *Handler) ListDormitories(c *gin.Context) {
	gender := model.Gender(c.Query("gender"))
	if gender != "" && !gender.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid gender filter"})
		return
	}

	dorms, err := h.store.ListDormitories(c.Request.Context(), gender)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": dorms})
}

// GetDormitorySlots handles GET /api/dormitories/:id/slots.
func (h *Handler) GetDormitorySlots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid dormitory id"})
		return
	}

	d, err := h.store.GetDormitory(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Dormitory not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"available": d.AvailableSlots,
		"total":     d.TotalCapacity,
		"occupied":  d.TotalCapacity - d.AvailableSlots,
	}})
}

type updateCapacityRequest struct {
	TotalCapacity int `json:"total_capacity" binding:"required,gt=0"`
}

// UpdateDormitoryCapacity handles PATCH /api/dormitories/:id/capacity.
func (h *Handler) UpdateDormitoryCapacity(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid dormitory id"})
		return
	}

	var req updateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	d, err := h.assignments.SetTotalCapacity(c.Request.Context(), id, req.TotalCapacity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": d})
}

// DeleteDormitory handles DELETE /api/dormitories/:id.
func (h *Handler) DeleteDormitory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid dormitory id"})
		return
	}

	if err := h.assignments.DeleteDormitory(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Dormitory deleted successfully"})
}

// RecomputeCapacities handles POST /api/dormitories/recompute.
func (h *Handler) RecomputeCapacities(c *gin.Context) {
	reports, err := h.assignments.RecomputeCapacities(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reports})
}
