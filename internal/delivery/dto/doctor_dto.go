package dto

import "github.com/google/uuid"

// Request DTOs

type UpdateDoctorStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available busy paused unavailable"`
}

// Response DTOs

// DoctorStatusResponse is also the payload of doctor.status events
type DoctorStatusResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	FullName string    `json:"full_name"`
	Status   string    `json:"status"`
}
