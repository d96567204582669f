package repository

import (
	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketRepository interface {
	Create(db *gorm.DB, ticket *entity.Ticket) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Ticket, error)
	FindByCode(db *gorm.DB, code string) (*entity.Ticket, error)
	// FindLatestPending orders by created_at, then per-patient number, newest first.
	FindLatestPending(db *gorm.DB, patientID uuid.UUID) (*entity.Ticket, error)
	CountByPatient(db *gorm.DB, patientID uuid.UUID) (int64, error)
	ExistsByCode(db *gorm.DB, code string) (bool, error)
	// UpdateStatus moves one ticket only if it is still in state from; returns affected rows.
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.TicketStatus) (int64, error)
	// UpdateStatusByPatient moves every ticket of the patient in state from; returns affected rows.
	UpdateStatusByPatient(db *gorm.DB, patientID uuid.UUID, from, to entity.TicketStatus) (int64, error)
	// ListPending returns the reception listing, optionally for one doctor.
	ListPending(db *gorm.DB, doctorID *uuid.UUID) ([]entity.QueueEntry, error)
	CountPendingByDoctor(db *gorm.DB) ([]entity.DoctorWaitingCount, error)
}
