package models

import "time"

type NotificationType string

const (
	NotifyNewRequest      NotificationType = "new_request"
	NotifyStatusUpdate    NotificationType = "status_update"
	NotifyAssignment      NotificationType = "assignment"
	NotifyCitizenApproval NotificationType = "citizen_approval"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyNewRequest, NotifyStatusUpdate, NotifyAssignment, NotifyCitizenApproval:
		return true
	}
	return false
}

// Notification rows are append-only; only the read flag is ever updated.
type Notification struct {
	ID        uint             `gorm:"primaryKey;column:id" json:"id"`
	UserID    uint             `gorm:"column:user_id;index" json:"user_id"`
	RequestID uint             `gorm:"column:request_id" json:"request_id"`
	Message   string           `gorm:"column:message" json:"message"`
	Type      NotificationType `gorm:"column:type" json:"type"`
	IsRead    bool             `gorm:"column:is_read" json:"is_read"`
	CreatedAt time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
