package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents the lifecycle state of a visit ticket
type TicketStatus string

const (
	TicketStatusPending   TicketStatus = "pending"
	TicketStatusReplaced  TicketStatus = "replaced"
	TicketStatusCompleted TicketStatus = "completed"
	TicketStatusCancelled TicketStatus = "cancelled"
)

// ticketTransitions lists, per target state, the states it may be entered from.
// pending is the only non-terminal state.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusReplaced:  {TicketStatusPending},
	TicketStatusCompleted: {TicketStatusPending},
	TicketStatusCancelled: {TicketStatusPending},
}

// CanTransition reports whether a ticket may move from one state to another
func CanTransition(from, to TicketStatus) bool {
	allowed, ok := ticketTransitions[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}

// IsTerminal checks if no further transition is possible from the state
func (s TicketStatus) IsTerminal() bool {
	return s != TicketStatusPending
}

// Ticket is one printed visit slip. Number is the 1-based per-patient sequence
// and is never reused, whatever the state of earlier tickets.
type Ticket struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:uq_tickets_patient_number,priority:1" json:"patient_id"`
	DoctorID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Motive    string       `gorm:"type:varchar(100);not null" json:"motive"`
	Number    int          `gorm:"not null;uniqueIndex:uq_tickets_patient_number,priority:2" json:"number"`
	Code      string       `gorm:"column:ticket_code;type:varchar(60);uniqueIndex;not null" json:"ticket_code"`
	Status    TicketStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
	ClosedAt  *time.Time   `json:"closed_at,omitempty"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// IsPending checks if the ticket is the patient's active ticket
func (t *Ticket) IsPending() bool {
	return t.Status == TicketStatusPending
}

// TicketCode builds the printed ticket code for a patient code and sequence
func TicketCode(stableCode string, number int) string {
	return fmt.Sprintf("%s-T%d", stableCode, number)
}
