package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"city-issues-api/middleware"
	"city-issues-api/models"
)

type NotificationController struct {
	DB *gorm.DB
}

// List returns the caller's notifications, newest first. Supports
// unreadOnly, limit and offset query parameters.
func (n *NotificationController) List(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	limit := 20
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	query := n.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	unreadOnly := c.Query("unreadOnly")
	if unreadOnly == "1" || strings.EqualFold(unreadOnly, "true") {
		query = query.Where("is_read = ?", false)
	}

	var items []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UnreadCount returns the caller's unread notification count.
func (n *NotificationController) UnreadCount(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var count int64
	if err := n.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead flags one of the caller's notifications as read.
func (n *NotificationController) MarkRead(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := n.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// MarkAllRead flags every unread notification of the caller as read.
func (n *NotificationController) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := n.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
