package converter

import (
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
)

// QueueEntriesToResponse groups listing rows per doctor, keeping row order
func QueueEntriesToResponse(entries []entity.QueueEntry) *dto.QueueListResponse {
	doctors := make([]dto.DoctorQueueResponse, 0)
	index := make(map[uuid.UUID]int)

	for _, entry := range entries {
		i, ok := index[entry.DoctorID]
		if !ok {
			i = len(doctors)
			index[entry.DoctorID] = i
			doctors = append(doctors, dto.DoctorQueueResponse{
				DoctorID:   entry.DoctorID,
				DoctorName: entry.DoctorName,
				Patients:   make([]dto.QueueEntryResponse, 0),
			})
		}
		doctors[i].Patients = append(doctors[i].Patients, dto.QueueEntryResponse{
			PatientID:   entry.PatientID,
			TicketID:    entry.TicketID,
			DisplayName: entry.DisplayName,
			TicketCode:  entry.TicketCode,
			StableCode:  entry.StableCode,
			Motive:      entry.Motive,
			CreatedAt:   entry.CreatedAt,
		})
		doctors[i].Total++
	}

	return &dto.QueueListResponse{
		Doctors:      doctors,
		TotalDoctors: len(doctors),
		TotalWaiting: len(entries),
	}
}

// TicketToResponse converts a Ticket entity to TicketResponse DTO
func TicketToResponse(ticket *entity.Ticket) *dto.TicketResponse {
	if ticket == nil {
		return nil
	}

	return &dto.TicketResponse{
		ID:         ticket.ID,
		PatientID:  ticket.PatientID,
		DoctorID:   ticket.DoctorID,
		Motive:     ticket.Motive,
		Number:     ticket.Number,
		TicketCode: ticket.Code,
		Status:     string(ticket.Status),
		CreatedAt:  ticket.CreatedAt,
		ClosedAt:   ticket.ClosedAt,
	}
}

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		ID:          patient.ID,
		DisplayName: patient.DisplayName,
		DoctorID:    patient.DoctorID,
		Motive:      patient.Motive,
		StableCode:  patient.StableCode,
		CreatedAt:   patient.CreatedAt,
	}
}

// DoctorQueueToResponse builds one doctor's waiting list; the doctor is
// returned with an empty list when nobody is waiting
func DoctorQueueToResponse(doctor *entity.Staff, entries []entity.QueueEntry) *dto.DoctorQueueResponse {
	queue := &dto.DoctorQueueResponse{
		DoctorID:   doctor.ID,
		DoctorName: doctor.FullName,
		Patients:   make([]dto.QueueEntryResponse, 0, len(entries)),
	}
	for _, grouped := range QueueEntriesToResponse(entries).Doctors {
		if grouped.DoctorID == doctor.ID {
			queue.Patients = grouped.Patients
			queue.Total = grouped.Total
		}
	}
	return queue
}

// ScreenCallsToResponse converts a screen's call history, newest first
func ScreenCallsToResponse(screen int, calls []entity.ScreenCall) *dto.ScreenCallListResponse {
	responses := make([]dto.ScreenCallResponse, len(calls))
	for i, call := range calls {
		responses[i] = dto.ScreenCallResponse{
			TicketID:    call.TicketID,
			TicketCode:  call.TicketCode,
			DisplayName: call.DisplayName,
			Motive:      call.Motive,
			DoctorName:  call.DoctorName,
			CalledAt:    call.CalledAt,
		}
	}
	return &dto.ScreenCallListResponse{
		Screen: screen,
		Calls:  responses,
		Total:  len(responses),
	}
}

// DoctorStatusToResponse converts a doctor account to its status view
func DoctorStatusToResponse(doctor *entity.Staff) *dto.DoctorStatusResponse {
	return &dto.DoctorStatusResponse{
		DoctorID: doctor.ID,
		FullName: doctor.FullName,
		Status:   string(doctor.Status),
	}
}
