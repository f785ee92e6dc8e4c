package models

import "time"

// WorkLog is a time-tracking entry a worker records against a request.
type WorkLog struct {
	ID              uint       `gorm:"primaryKey;column:id" json:"id"`
	RequestID       uint       `gorm:"column:request_id;index" json:"request_id"`
	WorkerID        uint       `gorm:"column:worker_id;index" json:"worker_id"`
	StartTime       time.Time  `gorm:"column:start_time" json:"start_time"`
	EndTime         *time.Time `gorm:"column:end_time" json:"end_time"`
	DurationMinutes int        `gorm:"column:duration_minutes" json:"duration_minutes"`
	Notes           string     `gorm:"column:notes" json:"notes"`
	CreatedAt       time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (WorkLog) TableName() string {
	return "work_logs"
}
