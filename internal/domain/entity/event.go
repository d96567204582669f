package entity

import "time"

// QueueEventType names a notification published to reception and display screens
type QueueEventType string

const (
	EventRegistrationNew     QueueEventType = "registration.new"
	EventRegistrationReissue QueueEventType = "registration.reissue"
	EventTicketCalled        QueueEventType = "ticket.called"
	EventTicketCompleted     QueueEventType = "ticket.completed"
	EventTicketCancelled     QueueEventType = "ticket.cancelled"
	EventDoctorStatus        QueueEventType = "doctor.status"
)

// QueueEvent is the envelope published on the notification channel
type QueueEvent struct {
	Type       QueueEventType `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    interface{}    `json:"payload"`
}

// NewQueueEvent stamps an event with the current time
func NewQueueEvent(eventType QueueEventType, payload interface{}) QueueEvent {
	return QueueEvent{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
