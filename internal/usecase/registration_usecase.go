package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"
	"clinic-queue/internal/service"
	"clinic-queue/pkg/apperror"
	"clinic-queue/pkg/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNameRequired         = apperror.Validation("name is required")
	ErrMotiveRequired       = apperror.Validation("motive is required")
	ErrRegistrationConflict = apperror.New(apperror.CodeConflict, "registration conflicted with a concurrent update, please retry")
)

type RegistrationUsecase interface {
	RegisterOrReissue(ctx context.Context, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error)
}

type registrationUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	staffRepo    repository.StaffRepository
	directory    service.PatientDirectory
	ledger       service.TicketLedger
	auditService service.AuditService
	identityLock *service.IdentityLock
	notifier     *service.Notifier
	metrics      *metrics.Metrics
	maxRetries   int
}

func NewRegistrationUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	staffRepo repository.StaffRepository,
	directory service.PatientDirectory,
	ledger service.TicketLedger,
	auditService service.AuditService,
	identityLock *service.IdentityLock,
	notifier *service.Notifier,
	metrics *metrics.Metrics,
	maxRetries int,
) RegistrationUsecase {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &registrationUsecase{
		txManager:    txManager,
		log:          log,
		staffRepo:    staffRepo,
		directory:    directory,
		ledger:       ledger,
		auditService: auditService,
		identityLock: identityLock,
		notifier:     notifier,
		metrics:      metrics,
		maxRetries:   maxRetries,
	}
}

// RegisterOrReissue registers a visitor or reissues their ticket.
//
// Flow:
// 1. Validate name and motive, resolve the doctor
// 2. Hold the in-process identity lock
// 3. In one transaction: find the patient (row locked), or create it, then
//    supersede the active ticket and issue a new one
// 4. Retry the whole transaction on unique-constraint conflicts
// 5. Publish the result without waiting for delivery
func (u *registrationUsecase) RegisterOrReissue(ctx context.Context, req *dto.RegistrationRequest) (*dto.RegistrationResponse, error) {
	name := strings.TrimSpace(req.Name)
	motive := entity.CleanMotive(req.Motive)
	if name == "" {
		return nil, ErrNameRequired
	}
	if motive == "" {
		return nil, ErrMotiveRequired
	}

	doctor, err := u.staffRepo.FindByID(u.txManager.Conn(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil || !doctor.AcceptsPatients() {
		u.metrics.RegistrationFailures.WithLabelValues("doctor_not_found").Inc()
		return nil, service.ErrDoctorNotFound
	}

	unlock := u.identityLock.Lock(service.IdentityKey(doctor.ID, motive, entity.NormalizeName(name)))
	defer unlock()

	var result *entity.RegistrationResult
	for attempt := 1; ; attempt++ {
		result, err = u.attempt(ctx, name, doctor, motive)
		if err == nil {
			break
		}
		if !isRetryable(err) {
			u.metrics.RegistrationFailures.WithLabelValues("error").Inc()
			u.log.Warnf("Failed to register %q for doctor %s: %+v", name, doctor.ID, err)
			return nil, err
		}
		if attempt >= u.maxRetries {
			u.metrics.RegistrationFailures.WithLabelValues("conflict").Inc()
			u.log.Warnf("Registration for doctor %s still conflicting after %d attempts: %+v", doctor.ID, attempt, err)
			return nil, fmt.Errorf("%w: %v", ErrRegistrationConflict, err)
		}
		u.metrics.RegistrationRetries.Inc()
		u.log.Infof("Registration conflict for doctor %s, retrying (attempt %d): %v", doctor.ID, attempt, err)
	}

	resp := converter.RegistrationToResponse(result)
	u.metrics.Registrations.WithLabelValues(resp.Tag).Inc()
	u.log.Infof("Registration %s: patient=%s, ticket=%s", resp.Tag, resp.PatientID, resp.TicketCode)

	eventType := entity.EventRegistrationNew
	if result.Tag == entity.RegistrationReissue {
		eventType = entity.EventRegistrationReissue
	}
	u.notifier.Notify(entity.NewQueueEvent(eventType, resp))

	return resp, nil
}

// attempt runs one registration transaction. Nothing is visible unless it commits.
func (u *registrationUsecase) attempt(ctx context.Context, name string, doctor *entity.Staff, motive string) (*entity.RegistrationResult, error) {
	var result *entity.RegistrationResult

	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		patient, err := u.directory.FindExisting(tx, name, doctor.ID, motive)
		if err != nil {
			return err
		}

		if patient == nil {
			result, err = u.registerNew(tx, name, doctor, motive)
		} else {
			result, err = u.reissue(tx, patient, doctor)
		}
		if err != nil {
			return err
		}

		return u.audit(ctx, tx, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (u *registrationUsecase) registerNew(tx *gorm.DB, name string, doctor *entity.Staff, motive string) (*entity.RegistrationResult, error) {
	patient, err := u.directory.Create(tx, name, doctor, motive)
	if err != nil {
		return nil, err
	}
	ticket, err := u.ledger.Issue(tx, patient)
	if err != nil {
		return nil, err
	}
	return &entity.RegistrationResult{
		Tag:     entity.RegistrationNew,
		Patient: patient,
		Doctor:  doctor,
		Ticket:  ticket,
	}, nil
}

func (u *registrationUsecase) reissue(tx *gorm.DB, patient *entity.Patient, doctor *entity.Staff) (*entity.RegistrationResult, error) {
	patient, err := u.directory.EnsureStableCode(tx, patient, doctor)
	if err != nil {
		return nil, err
	}
	previous, err := u.ledger.SupersedeActive(tx, patient.ID)
	if err != nil {
		return nil, err
	}
	ticket, err := u.ledger.Issue(tx, patient)
	if err != nil {
		return nil, err
	}
	return &entity.RegistrationResult{
		Tag:      entity.RegistrationReissue,
		Patient:  patient,
		Doctor:   doctor,
		Ticket:   ticket,
		Previous: previous,
	}, nil
}

func (u *registrationUsecase) audit(ctx context.Context, tx *gorm.DB, result *entity.RegistrationResult) error {
	actor := actorFromContext(ctx)
	newValue := map[string]interface{}{
		"ticket_code": result.Ticket.Code,
		"stable_code": result.Patient.StableCode,
	}

	if result.Tag == entity.RegistrationNew {
		return u.auditService.LogCreate(ctx, tx, actor, entity.AuditActionRegistrationNew,
			entity.AuditEntityPatient, result.Patient.ID.String(), newValue)
	}

	var oldValue interface{}
	if code := result.PreviousTicketCode(); code != nil {
		oldValue = map[string]interface{}{"ticket_code": *code}
	}
	return u.auditService.LogUpdate(ctx, tx, actor, entity.AuditActionRegistrationReissue,
		entity.AuditEntityPatient, result.Patient.ID.String(), oldValue, newValue)
}

// isRetryable reports conflicts that a fresh transaction may resolve
func isRetryable(err error) bool {
	return errors.Is(err, repository.ErrDuplicateKey) || errors.Is(err, service.ErrTicketStateChanged)
}
