package entity

import (
	"time"

	"github.com/google/uuid"
)

// TicketCall records one announcement of a ticket on a display screen.
// Calls do not change the ticket state.
type TicketCall struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	TicketID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"ticket_id"`
	Screen    int        `gorm:"not null;index:idx_ticket_calls_screen,priority:1" json:"screen"`
	CalledBy  *uuid.UUID `gorm:"type:uuid" json:"called_by,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index:idx_ticket_calls_screen,priority:2" json:"created_at"`
}

func (TicketCall) TableName() string {
	return "ticket_calls"
}

// ScreenCall is one row of a display screen's recent call history
type ScreenCall struct {
	CallID      int64
	TicketID    uuid.UUID
	TicketCode  string
	DisplayName string
	Motive      string
	DoctorName  string
	CalledAt    time.Time
}
