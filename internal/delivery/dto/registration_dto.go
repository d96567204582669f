package dto

import "github.com/google/uuid"

// Request DTOs

type RegistrationRequest struct {
	Name     string    `json:"name" validate:"required,notblank,max=255"`
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Motive   string    `json:"motive" validate:"required,notblank,max=100"`
}

// Response DTOs

// RegistrationResponse is also the payload of registration.* events.
// PreviousTicketCode is null unless a pending ticket was superseded.
type RegistrationResponse struct {
	Tag                string    `json:"tag"`
	TicketCode         string    `json:"ticket_code"`
	PreviousTicketCode *string   `json:"previous_ticket_code"`
	PatientID          uuid.UUID `json:"patient_id"`
	StableCode         string    `json:"stable_code"`
	DisplayName        string    `json:"display_name"`
	DoctorID           uuid.UUID `json:"doctor_id"`
	DoctorName         string    `json:"doctor_name"`
	Motive             string    `json:"motive"`
}
