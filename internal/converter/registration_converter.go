package converter

import (
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
)

// RegistrationToResponse converts a committed RegistrationResult to the outbound payload
func RegistrationToResponse(result *entity.RegistrationResult) *dto.RegistrationResponse {
	if result == nil {
		return nil
	}

	return &dto.RegistrationResponse{
		Tag:                string(result.Tag),
		TicketCode:         result.Ticket.Code,
		PreviousTicketCode: result.PreviousTicketCode(),
		PatientID:          result.Patient.ID,
		StableCode:         result.Patient.StableCode,
		DisplayName:        result.Patient.DisplayName,
		DoctorID:           result.Doctor.ID,
		DoctorName:         result.Doctor.FullName,
		Motive:             result.Patient.Motive,
	}
}
