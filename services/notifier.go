package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"city-issues-api/config"
	"city-issues-api/models"
)

// Notifier appends per-user notification rows for lifecycle events and,
// when SMTP is configured, sends a best-effort email copy.
type Notifier struct {
	db *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

func (n *Notifier) HandleEvent(e Event) error {
	switch e.Kind {
	case EventSubmitted:
		return n.notifyAdmins(e.Request.ID,
			fmt.Sprintf("New request #%d submitted by a citizen", e.Request.ID),
			models.NotifyNewRequest)

	case EventAssigned:
		deadline := "unspecified"
		if e.Deadline != nil {
			deadline = e.Deadline.Format("2006-01-02")
		}
		if e.Request.AssignedWorkerID != nil {
			n.notify(*e.Request.AssignedWorkerID, e.Request.ID,
				fmt.Sprintf("You have been assigned request #%d. Deadline: %s", e.Request.ID, deadline),
				models.NotifyAssignment)
		}
		n.notify(e.Request.CitizenID, e.Request.ID,
			fmt.Sprintf("A worker has been assigned to your request #%d", e.Request.ID),
			models.NotifyAssignment)
		return nil

	case EventStatusChanged:
		n.notify(e.Request.CitizenID, e.Request.ID,
			fmt.Sprintf("Status of your request #%d changed to %q", e.Request.ID, e.Request.Status),
			models.NotifyStatusUpdate)
		return nil

	case EventApproved:
		var message string
		if e.Approved != nil && *e.Approved {
			message = fmt.Sprintf("The citizen confirmed completion of request #%d", e.Request.ID)
		} else {
			comment := e.Comment
			if comment == "" {
				comment = "not provided"
			}
			message = fmt.Sprintf("The citizen rejected completion of request #%d. Comment: %s", e.Request.ID, comment)
		}
		if e.Request.AssignedWorkerID != nil {
			n.notify(*e.Request.AssignedWorkerID, e.Request.ID, message, models.NotifyCitizenApproval)
		}
		return n.notifyAdmins(e.Request.ID, message, models.NotifyCitizenApproval)
	}
	return nil
}

// notify writes one notification row. Missing recipients and storage
// errors never fail the triggering operation; they are logged here.
func (n *Notifier) notify(userID, requestID uint, message string, kind models.NotificationType) {
	if userID == 0 {
		return
	}

	row := models.Notification{
		UserID:    userID,
		RequestID: requestID,
		Message:   message,
		Type:      kind,
	}
	if err := n.db.Create(&row).Error; err != nil {
		log.Printf("notification for user %d on request #%d failed: %v", userID, requestID, err)
		return
	}

	n.emailCopy(userID, message)
}

func (n *Notifier) notifyAdmins(requestID uint, message string, kind models.NotificationType) error {
	var admins []models.User
	if err := n.db.Where("role = ?", models.RoleAdmin).Find(&admins).Error; err != nil {
		return fmt.Errorf("load admin users: %w", err)
	}
	for _, admin := range admins {
		n.notify(admin.ID, requestID, message, kind)
	}
	return nil
}

// emailCopy sends the notification text by email when SMTP is set up.
// Fire-and-forget; delivery failures are only logged.
func (n *Notifier) emailCopy(userID uint, message string) {
	if !config.MailConfigured() {
		return
	}

	var user models.User
	if err := n.db.Select("id, email").First(&user, userID).Error; err != nil || user.Email == "" {
		return
	}

	go func(to, body string) {
		if err := config.SendMail([]string{to}, "City issues update", body); err != nil {
			log.Printf("notification email to %s failed: %v", to, err)
		}
	}(user.Email, message)
}
