package repository

import (
	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type ticketCallRepository struct{}

func NewTicketCallRepository() domainRepo.TicketCallRepository {
	return &ticketCallRepository{}
}

func (r *ticketCallRepository) Create(db *gorm.DB, call *entity.TicketCall) error {
	return translateError(db.Create(call).Error)
}

func (r *ticketCallRepository) ListRecentByScreen(db *gorm.DB, screen, limit int) ([]entity.ScreenCall, error) {
	var calls []entity.ScreenCall
	err := db.Table("ticket_calls").
		Select(`
			ticket_calls.id AS call_id,
			ticket_calls.created_at AS called_at,
			tickets.id AS ticket_id,
			tickets.ticket_code,
			patients.display_name,
			patients.motive,
			staff.full_name AS doctor_name
		`).
		Joins("JOIN tickets ON tickets.id = ticket_calls.ticket_id").
		Joins("JOIN patients ON patients.id = tickets.patient_id").
		Joins("JOIN staff ON staff.id = tickets.doctor_id").
		Where("ticket_calls.screen = ?", screen).
		Order("ticket_calls.created_at DESC").
		Order("ticket_calls.id DESC").
		Limit(limit).
		Scan(&calls).Error
	if err != nil {
		return nil, err
	}
	return calls, nil
}
