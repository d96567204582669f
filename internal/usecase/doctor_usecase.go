package usecase

import (
	"context"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/delivery/http/middleware"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"
	"clinic-queue/internal/service"
	"clinic-queue/pkg/apperror"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidDoctorStatus = apperror.Validation("status must be one of available, busy, paused, unavailable")

// DoctorUsecase serves the signed-in doctor: their availability and their own waiting list
type DoctorUsecase interface {
	GetStatus(ctx context.Context) (*dto.DoctorStatusResponse, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateDoctorStatusRequest) (*dto.DoctorStatusResponse, error)
	ListOwnQueue(ctx context.Context) (*dto.DoctorQueueResponse, error)
}

type doctorUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	staffRepo    repository.StaffRepository
	ledger       service.TicketLedger
	auditService service.AuditService
	notifier     *service.Notifier
}

func NewDoctorUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	staffRepo repository.StaffRepository,
	ledger service.TicketLedger,
	auditService service.AuditService,
	notifier *service.Notifier,
) DoctorUsecase {
	return &doctorUsecase{
		txManager:    txManager,
		log:          log,
		staffRepo:    staffRepo,
		ledger:       ledger,
		auditService: auditService,
		notifier:     notifier,
	}
}

func (u *doctorUsecase) GetStatus(ctx context.Context) (*dto.DoctorStatusResponse, error) {
	doctor, err := u.currentDoctor(ctx, u.txManager.Conn(ctx))
	if err != nil {
		return nil, err
	}
	return converter.DoctorStatusToResponse(doctor), nil
}

// UpdateStatus accepts any move between the four statuses. Setting the current
// status again writes nothing and publishes nothing.
func (u *doctorUsecase) UpdateStatus(ctx context.Context, req *dto.UpdateDoctorStatusRequest) (*dto.DoctorStatusResponse, error) {
	status, ok := entity.ParseDoctorStatus(req.Status)
	if !ok {
		return nil, ErrInvalidDoctorStatus
	}

	var doctor *entity.Staff
	var changed bool
	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		doctor, err = u.currentDoctor(ctx, tx)
		if err != nil {
			return err
		}
		if doctor.Status == status {
			return nil
		}

		previous := doctor.Status
		if _, err := u.staffRepo.UpdateStatus(tx, doctor.ID, status); err != nil {
			return err
		}
		doctor.Status = status
		changed = true

		return u.auditService.LogUpdate(ctx, tx, &doctor.ID, entity.AuditActionDoctorStatus,
			entity.AuditEntityStaff, doctor.ID.String(),
			map[string]interface{}{"status": previous},
			map[string]interface{}{"status": status})
	})
	if err != nil {
		if !apperrorIsKnown(err) {
			u.log.Warnf("Failed to update doctor status: %+v", err)
		}
		return nil, err
	}

	resp := converter.DoctorStatusToResponse(doctor)
	if changed {
		u.log.Infof("Doctor status changed: id=%s, status=%s", doctor.ID, status)
		u.notifier.Notify(entity.NewQueueEvent(entity.EventDoctorStatus, resp))
	}
	return resp, nil
}

// ListOwnQueue is the reception listing narrowed to the signed-in doctor
func (u *doctorUsecase) ListOwnQueue(ctx context.Context) (*dto.DoctorQueueResponse, error) {
	db := u.txManager.Conn(ctx)

	doctor, err := u.currentDoctor(ctx, db)
	if err != nil {
		return nil, err
	}

	entries, err := u.ledger.ListActive(db, &doctor.ID)
	if err != nil {
		u.log.Warnf("Failed to list queue of doctor %s: %+v", doctor.ID, err)
		return nil, err
	}

	return converter.DoctorQueueToResponse(doctor, entries), nil
}

func (u *doctorUsecase) currentDoctor(ctx context.Context, db *gorm.DB) (*entity.Staff, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, service.ErrDoctorNotFound
	}

	doctor, err := u.staffRepo.FindByID(db, userID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", userID, err)
		return nil, err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, service.ErrDoctorNotFound
	}
	return doctor, nil
}
