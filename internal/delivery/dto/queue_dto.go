package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CallTicketRequest struct {
	Screen int `json:"screen" validate:"required,gte=1,lte=99"`
}

// Response DTOs

type QueueEntryResponse struct {
	PatientID   uuid.UUID `json:"patient_id"`
	TicketID    uuid.UUID `json:"ticket_id"`
	DisplayName string    `json:"display_name"`
	TicketCode  string    `json:"ticket_code"`
	StableCode  string    `json:"stable_code"`
	Motive      string    `json:"motive"`
	CreatedAt   time.Time `json:"created_at"`
}

type DoctorQueueResponse struct {
	DoctorID   uuid.UUID            `json:"doctor_id"`
	DoctorName string               `json:"doctor_name"`
	Patients   []QueueEntryResponse `json:"patients"`
	Total      int                  `json:"total"`
}

type QueueListResponse struct {
	Doctors      []DoctorQueueResponse `json:"doctors"`
	TotalDoctors int                   `json:"total_doctors"`
	TotalWaiting int                   `json:"total_waiting"`
}

type DoctorSummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Initial  string    `json:"initial"`
	Status   string    `json:"status"`
	Waiting  int64     `json:"waiting"`
}

type DoctorListResponse struct {
	Doctors []DoctorSummaryResponse `json:"doctors"`
	Total   int                     `json:"total"`
}

type TicketResponse struct {
	ID         uuid.UUID  `json:"id"`
	PatientID  uuid.UUID  `json:"patient_id"`
	DoctorID   uuid.UUID  `json:"doctor_id"`
	Motive     string     `json:"motive"`
	Number     int        `json:"number"`
	TicketCode string     `json:"ticket_code"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
}

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	Motive      string    `json:"motive"`
	StableCode  string    `json:"stable_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// LookupResponse resolves a printed code. MatchedTicket is set when the code
// was a ticket code; ActiveTicket is the patient's current pending ticket.
type LookupResponse struct {
	Patient       PatientResponse `json:"patient"`
	DoctorName    string          `json:"doctor_name"`
	MatchedTicket *TicketResponse `json:"matched_ticket,omitempty"`
	ActiveTicket  *TicketResponse `json:"active_ticket"`
}

type RemovalResponse struct {
	PatientID        uuid.UUID `json:"patient_id"`
	CancelledTickets int64     `json:"cancelled_tickets"`
}

// CallResponse is also the payload of ticket.called events
type CallResponse struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	TicketCode  string    `json:"ticket_code"`
	DisplayName string    `json:"display_name"`
	DoctorName  string    `json:"doctor_name"`
	Screen      int       `json:"screen"`
}

type ScreenCallResponse struct {
	TicketID    uuid.UUID `json:"ticket_id"`
	TicketCode  string    `json:"ticket_code"`
	DisplayName string    `json:"display_name"`
	Motive      string    `json:"motive"`
	DoctorName  string    `json:"doctor_name"`
	CalledAt    time.Time `json:"called_at"`
}

// ScreenCallListResponse lets a display screen rebuild its board after a reconnect
type ScreenCallListResponse struct {
	Screen int                  `json:"screen"`
	Calls  []ScreenCallResponse `json:"calls"`
	Total  int                  `json:"total"`
}
