package models

import (
	"time"
)

// Status is the workflow state of a request. Terminal states are
// StatusApproved and StatusCancelled; citizen rejection of completed work
// returns the request to StatusInProgress rather than storing a rejected
// state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusApproved   Status = "approved"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress,
		StatusCompleted, StatusApproved, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further status updates are allowed.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusCancelled
}

type Category string

const (
	CategoryLighting Category = "lighting"
	CategoryPothole  Category = "pothole"
	CategoryGarbage  Category = "garbage"
	CategoryOther    Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryLighting, CategoryPothole, CategoryGarbage, CategoryOther:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Request struct {
	ID               uint       `gorm:"primaryKey;column:id" json:"id"`
	CitizenID        uint       `gorm:"column:citizen_id;index" json:"citizen_id"`
	Category         Category   `gorm:"column:category" json:"category"`
	Description      string     `gorm:"column:description" json:"description"`
	Lat              float64    `gorm:"column:lat" json:"lat"`
	Lng              float64    `gorm:"column:lng" json:"lng"`
	Address          string     `gorm:"column:address" json:"address"`
	Status           Status     `gorm:"column:status;index" json:"status"`
	Priority         Priority   `gorm:"column:priority" json:"priority"`
	AssignedWorkerID *uint      `gorm:"column:assigned_worker_id;index" json:"assigned_worker_id"`
	Deadline         *time.Time `gorm:"column:deadline" json:"deadline"`
	CitizenApproved  *bool      `gorm:"column:citizen_approved" json:"citizen_approved"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	AssignedAt       *time.Time `gorm:"column:assigned_at" json:"assigned_at"`
	StartedAt        *time.Time `gorm:"column:started_at" json:"started_at"`
	CompletedAt      *time.Time `gorm:"column:completed_at" json:"completed_at"`
	ApprovedAt       *time.Time `gorm:"column:approved_at" json:"approved_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`

	// Display names joined from users; derived, not stored.
	CitizenName string `gorm:"->;-:migration" json:"citizen_name,omitempty"`
	WorkerName  string `gorm:"->;-:migration" json:"worker_name,omitempty"`

	Photos   []Photo   `gorm:"foreignKey:RequestID" json:"photos,omitempty"`
	WorkLogs []WorkLog `gorm:"foreignKey:RequestID" json:"work_logs,omitempty"`
}

func (Request) TableName() string {
	return "requests"
}
