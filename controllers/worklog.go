package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"city-issues-api/services"
)

type WorkLogController struct {
	Service *services.RequestService
}

type createWorkLogRequest struct {
	StartTime       time.Time  `json:"start_time" binding:"required"`
	EndTime         *time.Time `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	Notes           string     `json:"notes"`
}

// Create records a time-tracking entry on the caller's assigned request.
func (w *WorkLogController) Create(c *gin.Context) {
	id, ok := requestID(c)
	if !ok {
		return
	}

	var req createWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time is required"})
		return
	}

	entry, err := w.Service.LogWork(currentActor(c), id, services.WorkLogInput{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}
