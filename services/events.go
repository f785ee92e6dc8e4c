package services

import (
	"log"
	"time"

	"city-issues-api/models"
)

type EventKind string

const (
	EventSubmitted     EventKind = "submitted"
	EventAssigned      EventKind = "assigned"
	EventStatusChanged EventKind = "status_changed"
	EventApproved      EventKind = "approval_decided"
)

// Event describes a committed lifecycle transition. Consumers run after
// the primary write; they see the post-transition request state.
type Event struct {
	Kind       EventKind
	Request    models.Request
	Actor      Actor
	PrevStatus models.Status
	Approved   *bool
	Comment    string
	Deadline   *time.Time
	OccurredAt time.Time
}

// EventConsumer reacts to a lifecycle event. Notification and reward
// handlers implement this.
type EventConsumer interface {
	HandleEvent(e Event) error
}

// dispatcher fans a committed event out to all consumers. A consumer
// failure is logged and swallowed: the state change has already
// committed and must still report success.
type dispatcher struct {
	consumers []EventConsumer
}

func (d *dispatcher) Dispatch(e Event) {
	for _, consumer := range d.consumers {
		if err := consumer.HandleEvent(e); err != nil {
			log.Printf("event %s on request #%d: consumer %T failed: %v",
				e.Kind, e.Request.ID, consumer, err)
		}
	}
}
