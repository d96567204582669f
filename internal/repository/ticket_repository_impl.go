package repository

import (
	"errors"
	"time"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ticketRepository struct{}

func NewTicketRepository() domainRepo.TicketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(db *gorm.DB, ticket *entity.Ticket) error {
	return translateError(db.Create(ticket).Error)
}

func (r *ticketRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Ticket, error) {
	return r.first(db.Where("id = ?", id))
}

func (r *ticketRepository) FindByCode(db *gorm.DB, code string) (*entity.Ticket, error) {
	return r.first(db.Where("ticket_code = ?", code))
}

func (r *ticketRepository) FindLatestPending(db *gorm.DB, patientID uuid.UUID) (*entity.Ticket, error) {
	return r.first(db.Where("patient_id = ? AND status = ?", patientID, entity.TicketStatusPending).
		Order("created_at DESC").
		Order("number DESC"))
}

func (r *ticketRepository) CountByPatient(db *gorm.DB, patientID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Ticket{}).Where("patient_id = ?", patientID).Count(&count).Error
	return count, err
}

func (r *ticketRepository) ExistsByCode(db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.Model(&entity.Ticket{}).Where("ticket_code = ?", code).Count(&count).Error
	return count > 0, err
}

// UpdateStatus is a compare-and-set on the status column; 0 rows means the
// ticket was not in state from (or does not exist).
func (r *ticketRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.TicketStatus) (int64, error) {
	result := db.Model(&entity.Ticket{}).
		Where("id = ? AND status = ?", id, from).
		Updates(statusUpdate(to))
	return result.RowsAffected, translateError(result.Error)
}

func (r *ticketRepository) UpdateStatusByPatient(db *gorm.DB, patientID uuid.UUID, from, to entity.TicketStatus) (int64, error) {
	result := db.Model(&entity.Ticket{}).
		Where("patient_id = ? AND status = ?", patientID, from).
		Updates(statusUpdate(to))
	return result.RowsAffected, translateError(result.Error)
}

func (r *ticketRepository) ListPending(db *gorm.DB, doctorID *uuid.UUID) ([]entity.QueueEntry, error) {
	var entries []entity.QueueEntry
	query := db.Table("tickets").
		Select(`
			tickets.id AS ticket_id,
			tickets.ticket_code,
			tickets.created_at,
			patients.id AS patient_id,
			patients.display_name,
			patients.stable_code,
			patients.motive,
			staff.id AS doctor_id,
			staff.full_name AS doctor_name
		`).
		Joins("JOIN patients ON patients.id = tickets.patient_id").
		Joins("JOIN staff ON staff.id = tickets.doctor_id").
		Where("tickets.status = ?", entity.TicketStatusPending)
	if doctorID != nil {
		query = query.Where("tickets.doctor_id = ?", *doctorID)
	}
	err := query.
		Order("staff.full_name ASC").
		Order("tickets.created_at ASC").
		Order("tickets.number ASC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ticketRepository) CountPendingByDoctor(db *gorm.DB) ([]entity.DoctorWaitingCount, error) {
	var counts []entity.DoctorWaitingCount
	err := db.Model(&entity.Ticket{}).
		Select("doctor_id, COUNT(*) AS waiting").
		Where("status = ?", entity.TicketStatusPending).
		Group("doctor_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *ticketRepository) first(query *gorm.DB) (*entity.Ticket, error) {
	var ticket entity.Ticket
	err := query.First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func statusUpdate(to entity.TicketStatus) map[string]interface{} {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	if to.IsTerminal() {
		updates["closed_at"] = time.Now()
	}
	return updates
}
