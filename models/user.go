package models

import (
	"time"
)

// Role is fixed at registration; there is no role-change operation.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleWorker  Role = "worker"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           uint       `gorm:"primaryKey;column:id" json:"id"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	FullName     string     `gorm:"column:full_name" json:"full_name"`
	Phone        string     `gorm:"column:phone" json:"phone"`
	Role         Role       `gorm:"column:role" json:"role"`
	Points       int        `gorm:"column:points;default:0" json:"points"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (User) TableName() string {
	return "users"
}
