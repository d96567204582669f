package usecase

import (
	"context"
	"strings"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"
	"clinic-queue/internal/service"
	"clinic-queue/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrCodeNotFound  = apperror.NotFound("patient or ticket code")
	ErrCodeRequired  = apperror.Validation("code is required")
	ErrInvalidScreen = apperror.Validation("screen must be between 1 and 99")
)

// recentCallsLimit is the size of a display screen's call board
const recentCallsLimit = 10

type ReceptionUsecase interface {
	ListQueue(ctx context.Context, doctorID *uuid.UUID) (*dto.QueueListResponse, error)
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	Lookup(ctx context.Context, code string) (*dto.LookupResponse, error)
	RemovePatient(ctx context.Context, patientID uuid.UUID) (*dto.RemovalResponse, error)
	CompleteTicket(ctx context.Context, ticketID uuid.UUID) (*dto.TicketResponse, error)
	CallTicket(ctx context.Context, ticketID uuid.UUID, req *dto.CallTicketRequest) (*dto.CallResponse, error)
	RecentCalls(ctx context.Context, screen int) (*dto.ScreenCallListResponse, error)
}

type receptionUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	staffRepo    repository.StaffRepository
	patientRepo  repository.PatientRepository
	ticketRepo   repository.TicketRepository
	callRepo     repository.TicketCallRepository
	ledger       service.TicketLedger
	auditService service.AuditService
	notifier     *service.Notifier
}

func NewReceptionUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	staffRepo repository.StaffRepository,
	patientRepo repository.PatientRepository,
	ticketRepo repository.TicketRepository,
	callRepo repository.TicketCallRepository,
	ledger service.TicketLedger,
	auditService service.AuditService,
	notifier *service.Notifier,
) ReceptionUsecase {
	return &receptionUsecase{
		txManager:    txManager,
		log:          log,
		staffRepo:    staffRepo,
		patientRepo:  patientRepo,
		ticketRepo:   ticketRepo,
		callRepo:     callRepo,
		ledger:       ledger,
		auditService: auditService,
		notifier:     notifier,
	}
}

// ListQueue returns only active tickets: replaced, completed and cancelled
// tickets never appear.
func (u *receptionUsecase) ListQueue(ctx context.Context, doctorID *uuid.UUID) (*dto.QueueListResponse, error) {
	db := u.txManager.Conn(ctx)

	if doctorID != nil {
		doctor, err := u.staffRepo.FindByID(db, *doctorID)
		if err != nil {
			u.log.Warnf("Failed to find doctor %s: %+v", *doctorID, err)
			return nil, err
		}
		if doctor == nil || !doctor.IsDoctor() {
			return nil, service.ErrDoctorNotFound
		}
	}

	entries, err := u.ledger.ListActive(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to list queue: %+v", err)
		return nil, err
	}

	return converter.QueueEntriesToResponse(entries), nil
}

// ListDoctors returns active doctors with their number of waiting patients
func (u *receptionUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	db := u.txManager.Conn(ctx)

	doctors, err := u.staffRepo.FindAll(db, entity.RoleIDDoctor, true)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	counts, err := u.ticketRepo.CountPendingByDoctor(db)
	if err != nil {
		u.log.Warnf("Failed to count waiting patients: %+v", err)
		return nil, err
	}
	waiting := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		waiting[c.DoctorID] = c.Waiting
	}

	summaries := make([]dto.DoctorSummaryResponse, len(doctors))
	for i, doctor := range doctors {
		summaries[i] = dto.DoctorSummaryResponse{
			ID:       doctor.ID,
			FullName: doctor.FullName,
			Initial:  service.DoctorInitial(doctor.FullName),
			Status:   string(doctor.Status),
			Waiting:  waiting[doctor.ID],
		}
	}

	return &dto.DoctorListResponse{
		Doctors: summaries,
		Total:   len(summaries),
	}, nil
}

// Lookup resolves a ticket code (any state) or a stable patient code
func (u *receptionUsecase) Lookup(ctx context.Context, code string) (*dto.LookupResponse, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCodeRequired
	}
	db := u.txManager.Conn(ctx)

	var patient *entity.Patient
	matched, err := u.ticketRepo.FindByCode(db, code)
	if err != nil {
		u.log.Warnf("Failed to find ticket %s: %+v", code, err)
		return nil, err
	}
	if matched != nil {
		patient, err = u.patientRepo.FindByID(db, matched.PatientID)
	} else {
		patient, err = u.patientRepo.FindByStableCode(db, code)
	}
	if err != nil {
		u.log.Warnf("Failed to find patient for code %s: %+v", code, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrCodeNotFound
	}

	active, err := u.ledger.ActiveTicket(db, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to find active ticket of patient %s: %+v", patient.ID, err)
		return nil, err
	}

	doctor, err := u.staffRepo.FindByID(db, patient.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", patient.DoctorID, err)
		return nil, err
	}
	var doctorName string
	if doctor != nil {
		doctorName = doctor.FullName
	}

	return &dto.LookupResponse{
		Patient:       converter.PatientToResponse(patient),
		DoctorName:    doctorName,
		MatchedTicket: converter.TicketToResponse(matched),
		ActiveTicket:  converter.TicketToResponse(active),
	}, nil
}

// RemovePatient takes a patient out of the queue by cancelling every pending
// ticket. The patient identity is kept.
func (u *receptionUsecase) RemovePatient(ctx context.Context, patientID uuid.UUID) (*dto.RemovalResponse, error) {
	var cancelled int64
	var patient *entity.Patient

	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		patient, err = u.patientRepo.LockByID(tx, patientID)
		if err != nil {
			return err
		}
		if patient == nil {
			return service.ErrPatientNotFound
		}

		cancelled, err = u.ledger.CancelAllPending(tx, patientID)
		if err != nil {
			return err
		}
		if cancelled == 0 {
			return nil
		}

		return u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionTicketCancel,
			entity.AuditEntityPatient, patientID.String(),
			map[string]interface{}{"status": entity.TicketStatusPending},
			map[string]interface{}{"status": entity.TicketStatusCancelled, "tickets": cancelled})
	})
	if err != nil {
		if !apperrorIsKnown(err) {
			u.log.Warnf("Failed to remove patient %s from queue: %+v", patientID, err)
		}
		return nil, err
	}

	resp := &dto.RemovalResponse{
		PatientID:        patientID,
		CancelledTickets: cancelled,
	}
	if cancelled > 0 {
		u.log.Infof("Patient removed from queue: id=%s, cancelled=%d", patientID, cancelled)
		u.notifier.Notify(entity.NewQueueEvent(entity.EventTicketCancelled, resp))
	}
	return resp, nil
}

// CompleteTicket moves a pending ticket to completed
func (u *receptionUsecase) CompleteTicket(ctx context.Context, ticketID uuid.UUID) (*dto.TicketResponse, error) {
	var completed *entity.Ticket

	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		completed, err = u.ledger.MarkCompleted(tx, ticketID)
		if err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), entity.AuditActionTicketComplete,
			entity.AuditEntityTicket, ticketID.String(),
			map[string]interface{}{"status": entity.TicketStatusPending},
			map[string]interface{}{"status": entity.TicketStatusCompleted})
	})
	if err != nil {
		if !apperrorIsKnown(err) {
			u.log.Warnf("Failed to complete ticket %s: %+v", ticketID, err)
		}
		return nil, err
	}

	resp := converter.TicketToResponse(completed)
	u.log.Infof("Ticket completed: id=%s, code=%s", completed.ID, completed.Code)
	u.notifier.Notify(entity.NewQueueEvent(entity.EventTicketCompleted, resp))
	return resp, nil
}

// CallTicket announces a pending ticket on a display screen and adds it to
// the screen's call board. The ticket stays pending until it is completed or
// cancelled.
func (u *receptionUsecase) CallTicket(ctx context.Context, ticketID uuid.UUID, req *dto.CallTicketRequest) (*dto.CallResponse, error) {
	if !validScreen(req.Screen) {
		return nil, ErrInvalidScreen
	}
	db := u.txManager.Conn(ctx)

	ticket, err := u.ticketRepo.FindByID(db, ticketID)
	if err != nil {
		u.log.Warnf("Failed to find ticket %s: %+v", ticketID, err)
		return nil, err
	}
	if ticket == nil {
		return nil, service.ErrTicketNotFound
	}
	if !ticket.IsPending() {
		return nil, service.ErrTicketNotPending
	}

	patient, err := u.patientRepo.FindByID(db, ticket.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", ticket.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, service.ErrPatientNotFound
	}
	doctor, err := u.staffRepo.FindByID(db, ticket.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", ticket.DoctorID, err)
		return nil, err
	}

	resp := &dto.CallResponse{
		TicketID:    ticket.ID,
		TicketCode:  ticket.Code,
		DisplayName: patient.DisplayName,
		Screen:      req.Screen,
	}
	if doctor != nil {
		resp.DoctorName = doctor.FullName
	}

	actor := actorFromContext(ctx)
	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		call := &entity.TicketCall{
			TicketID: ticket.ID,
			Screen:   req.Screen,
			CalledBy: actor,
		}
		if err := u.callRepo.Create(tx, call); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionTicketCall,
			entity.AuditEntityTicket, ticket.ID.String(), map[string]interface{}{"screen": req.Screen})
	})
	if err != nil {
		u.log.Warnf("Failed to record call of ticket %s: %+v", ticketID, err)
		return nil, err
	}

	u.notifier.Notify(entity.NewQueueEvent(entity.EventTicketCalled, resp))
	return resp, nil
}

// RecentCalls returns the last calls announced on a screen, newest first
func (u *receptionUsecase) RecentCalls(ctx context.Context, screen int) (*dto.ScreenCallListResponse, error) {
	if !validScreen(screen) {
		return nil, ErrInvalidScreen
	}

	calls, err := u.callRepo.ListRecentByScreen(u.txManager.Conn(ctx), screen, recentCallsLimit)
	if err != nil {
		u.log.Warnf("Failed to list calls of screen %d: %+v", screen, err)
		return nil, err
	}

	return converter.ScreenCallsToResponse(screen, calls), nil
}

func validScreen(screen int) bool {
	return screen >= 1 && screen <= 99
}

// apperrorIsKnown reports domain errors that are answered to the caller, not logged
func apperrorIsKnown(err error) bool {
	switch apperror.CodeOf(err) {
	case apperror.CodeNotFound, apperror.CodeInvalidTransition, apperror.CodeValidation:
		return true
	}
	return false
}
