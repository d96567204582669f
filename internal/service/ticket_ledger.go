package service

import (
	"fmt"

	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketLedger owns ticket lifecycle. All state changes go through
// entity.CanTransition and are applied as compare-and-set updates.
type TicketLedger interface {
	ActiveTicket(db *gorm.DB, patientID uuid.UUID) (*entity.Ticket, error)
	SupersedeActive(db *gorm.DB, patientID uuid.UUID) (*entity.Ticket, error)
	Issue(db *gorm.DB, patient *entity.Patient) (*entity.Ticket, error)
	CancelAllPending(db *gorm.DB, patientID uuid.UUID) (int64, error)
	MarkCompleted(db *gorm.DB, ticketID uuid.UUID) (*entity.Ticket, error)
	ListActive(db *gorm.DB, doctorID *uuid.UUID) ([]entity.QueueEntry, error)
}

type ticketLedger struct {
	ticketRepo repository.TicketRepository
	codes      CodeGenerator
}

func NewTicketLedger(ticketRepo repository.TicketRepository, codes CodeGenerator) TicketLedger {
	return &ticketLedger{
		ticketRepo: ticketRepo,
		codes:      codes,
	}
}

func (l *ticketLedger) ActiveTicket(db *gorm.DB, patientID uuid.UUID) (*entity.Ticket, error) {
	ticket, err := l.ticketRepo.FindLatestPending(db, patientID)
	if err != nil {
		return nil, fmt.Errorf("find active ticket: %w", err)
	}
	return ticket, nil
}

// SupersedeActive marks the active ticket replaced and returns it, or nil when
// the patient had none. Any older pending rows are replaced as well.
func (l *ticketLedger) SupersedeActive(db *gorm.DB, patientID uuid.UUID) (*entity.Ticket, error) {
	active, err := l.ActiveTicket(db, patientID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}

	affected, err := l.ticketRepo.UpdateStatusByPatient(db, patientID, entity.TicketStatusPending, entity.TicketStatusReplaced)
	if err != nil {
		return nil, fmt.Errorf("supersede tickets: %w", err)
	}
	if affected == 0 {
		return nil, ErrTicketStateChanged
	}

	replaced, err := l.ticketRepo.FindByID(db, active.ID)
	if err != nil {
		return nil, fmt.Errorf("reload ticket %s: %w", active.ID, err)
	}
	if replaced == nil || replaced.Status != entity.TicketStatusReplaced {
		return nil, ErrTicketStateChanged
	}
	return replaced, nil
}

func (l *ticketLedger) Issue(db *gorm.DB, patient *entity.Patient) (*entity.Ticket, error) {
	code, number, err := l.codes.NextTicketCode(db, patient)
	if err != nil {
		return nil, err
	}

	ticket := &entity.Ticket{
		ID:        uuid.New(),
		PatientID: patient.ID,
		DoctorID:  patient.DoctorID,
		Motive:    patient.Motive,
		Number:    number,
		Code:      code,
		Status:    entity.TicketStatusPending,
	}
	if err := l.ticketRepo.Create(db, ticket); err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return ticket, nil
}

// CancelAllPending is idempotent: a patient without pending tickets yields 0.
func (l *ticketLedger) CancelAllPending(db *gorm.DB, patientID uuid.UUID) (int64, error) {
	affected, err := l.ticketRepo.UpdateStatusByPatient(db, patientID, entity.TicketStatusPending, entity.TicketStatusCancelled)
	if err != nil {
		return 0, fmt.Errorf("cancel pending tickets: %w", err)
	}
	return affected, nil
}

func (l *ticketLedger) MarkCompleted(db *gorm.DB, ticketID uuid.UUID) (*entity.Ticket, error) {
	ticket, err := l.ticketRepo.FindByID(db, ticketID)
	if err != nil {
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	if ticket == nil {
		return nil, ErrTicketNotFound
	}
	if !entity.CanTransition(ticket.Status, entity.TicketStatusCompleted) {
		return nil, ErrTicketNotPending
	}

	affected, err := l.ticketRepo.UpdateStatus(db, ticketID, entity.TicketStatusPending, entity.TicketStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("complete ticket: %w", err)
	}
	if affected == 0 {
		// Lost the race against a supersede or cancel
		return nil, ErrTicketNotPending
	}

	completed, err := l.ticketRepo.FindByID(db, ticketID)
	if err != nil {
		return nil, fmt.Errorf("reload ticket %s: %w", ticketID, err)
	}
	return completed, nil
}

func (l *ticketLedger) ListActive(db *gorm.DB, doctorID *uuid.UUID) ([]entity.QueueEntry, error) {
	entries, err := l.ticketRepo.ListPending(db, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list pending tickets: %w", err)
	}
	return entries, nil
}
