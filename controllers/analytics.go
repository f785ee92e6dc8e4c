package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"city-issues-api/models"
)

type AnalyticsController struct {
	DB *gorm.DB
}

type dashboardStats struct {
	Total          int      `gorm:"column:total" json:"total"`
	Pending        int      `gorm:"column:pending" json:"pending"`
	InProgress     int      `gorm:"column:in_progress" json:"in_progress"`
	Completed      int      `gorm:"column:completed" json:"completed"`
	CompletedToday int      `gorm:"column:completed_today" json:"completed_today"`
	AvgHours       *float64 `gorm:"column:avg_hours" json:"avg_hours"`
}

type categoryCount struct {
	Category models.Category `gorm:"column:category" json:"category"`
	Count    int             `gorm:"column:count" json:"count"`
}

type dailyCount struct {
	Date  string `gorm:"column:date" json:"date"`
	Count int    `gorm:"column:count" json:"count"`
}

// Dashboard aggregates request counts by status and category plus recent
// volume. Admin only.
func (a *AnalyticsController) Dashboard(c *gin.Context) {
	var stats dashboardStats
	err := a.DB.Raw(`
		SELECT
			COUNT(*) AS total,
			SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END) AS pending,
			SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END) AS in_progress,
			SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS completed,
			SUM(CASE WHEN DATE(completed_at) = CURDATE() THEN 1 ELSE 0 END) AS completed_today,
			ROUND(AVG(TIMESTAMPDIFF(MINUTE, created_at, completed_at)) / 60, 2) AS avg_hours
		FROM requests
	`).Scan(&stats).Error
	if err != nil {
		respondError(c, err)
		return
	}

	var byCategory []categoryCount
	err = a.DB.Raw(`
		SELECT category, COUNT(*) AS count
		FROM requests
		GROUP BY category
		ORDER BY count DESC
	`).Scan(&byCategory).Error
	if err != nil {
		respondError(c, err)
		return
	}

	var last7Days []dailyCount
	err = a.DB.Raw(`
		SELECT DATE(created_at) AS date, COUNT(*) AS count
		FROM requests
		WHERE created_at >= CURDATE() - INTERVAL 6 DAY
		GROUP BY DATE(created_at)
		ORDER BY date
	`).Scan(&last7Days).Error
	if err != nil {
		respondError(c, err)
		return
	}

	avgHours := 0.0
	if stats.AvgHours != nil {
		avgHours = *stats.AvgHours
	}

	c.JSON(http.StatusOK, gin.H{
		"total":           stats.Total,
		"pending":         stats.Pending,
		"in_progress":     stats.InProgress,
		"completed":       stats.Completed,
		"completed_today": stats.CompletedToday,
		"avg_hours":       avgHours,
		"by_category":     byCategory,
		"last_7_days":     last7Days,
	})
}

type hotspot struct {
	Lat      float64         `gorm:"column:lat" json:"lat"`
	Lng      float64         `gorm:"column:lng" json:"lng"`
	Category models.Category `gorm:"column:category" json:"category"`
	Count    int             `gorm:"column:count" json:"count"`
}

// Hotspots groups requests into ~100m buckets for the reporting heatmap.
func (a *AnalyticsController) Hotspots(c *gin.Context) {
	var spots []hotspot
	err := a.DB.Raw(`
		SELECT
			ROUND(lat, 3) AS lat,
			ROUND(lng, 3) AS lng,
			category,
			COUNT(*) AS count
		FROM requests
		GROUP BY ROUND(lat, 3), ROUND(lng, 3), category
		ORDER BY count DESC
	`).Scan(&spots).Error
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, spots)
}

type workerStats struct {
	WorkerID       uint     `gorm:"column:worker_id" json:"worker_id"`
	FullName       string   `gorm:"column:full_name" json:"full_name"`
	Email          string   `gorm:"column:email" json:"email"`
	AssignedCount  int      `gorm:"column:assigned_count" json:"assigned_count"`
	CompletedCount int      `gorm:"column:completed_count" json:"completed_count"`
	CompletionRate *float64 `gorm:"column:completion_rate" json:"completion_rate"`
	AvgTimeMinutes *float64 `gorm:"column:avg_time_minutes" json:"avg_time_minutes"`
}

// WorkerPerformance reports per-worker assignment and completion counts
// with average logged time.
func (a *AnalyticsController) WorkerPerformance(c *gin.Context) {
	var stats []workerStats
	err := a.DB.Raw(`
		SELECT
			u.id AS worker_id,
			u.full_name,
			u.email,
			COUNT(DISTINCT r.id) AS assigned_count,
			COUNT(DISTINCT CASE WHEN r.status = 'completed' THEN r.id END) AS completed_count,
			ROUND(
				COUNT(DISTINCT CASE WHEN r.status = 'completed' THEN r.id END) * 100.0
				/ NULLIF(COUNT(DISTINCT r.id), 0), 2
			) AS completion_rate,
			ROUND(AVG(wl.duration_minutes), 2) AS avg_time_minutes
		FROM users u
		LEFT JOIN requests r ON r.assigned_worker_id = u.id
		LEFT JOIN work_logs wl ON wl.worker_id = u.id AND wl.request_id = r.id
		WHERE u.role = 'worker'
		GROUP BY u.id, u.full_name, u.email
		ORDER BY completed_count DESC
	`).Scan(&stats).Error
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
