package services

import (
	"fmt"

	"gorm.io/gorm"

	"city-issues-api/models"
)

// Point policy per trigger. There is no decrement.
const (
	SubmissionReward = 10
	ApprovalReward   = 5
)

// RewardLedger credits user points for lifecycle events.
type RewardLedger struct {
	db *gorm.DB
}

func NewRewardLedger(db *gorm.DB) *RewardLedger {
	return &RewardLedger{db: db}
}

func (l *RewardLedger) HandleEvent(e Event) error {
	switch e.Kind {
	case EventSubmitted:
		return l.credit(e.Request.CitizenID, SubmissionReward)
	case EventApproved:
		// Points only on confirmation; rework carries no penalty.
		if e.Approved != nil && *e.Approved && e.Request.AssignedWorkerID != nil {
			return l.credit(*e.Request.AssignedWorkerID, ApprovalReward)
		}
	}
	return nil
}

// credit performs an atomic in-database increment so concurrent awards
// cannot lose updates.
func (l *RewardLedger) credit(userID uint, points int) error {
	if userID == 0 {
		return nil
	}
	err := l.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", points)).Error
	if err != nil {
		return fmt.Errorf("credit %d points to user %d: %w", points, userID, err)
	}
	return nil
}
