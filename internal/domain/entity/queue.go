package entity

import (
	"time"

	"github.com/google/uuid"
)

// QueueEntry is one row of the reception listing: a pending ticket joined with
// its patient and doctor.
type QueueEntry struct {
	TicketID    uuid.UUID
	TicketCode  string
	CreatedAt   time.Time
	PatientID   uuid.UUID
	DisplayName string
	StableCode  string
	Motive      string
	DoctorID    uuid.UUID
	DoctorName  string
}

// DoctorWaitingCount is the number of pending tickets held against a doctor
type DoctorWaitingCount struct {
	DoctorID uuid.UUID
	Waiting  int64
}
