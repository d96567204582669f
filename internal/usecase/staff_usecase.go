package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-queue/internal/converter"
	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"
	"clinic-queue/internal/service"
	"clinic-queue/pkg/apperror"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrStaffNotFound      = apperror.NotFound("staff member")
	ErrStaffAlreadyExists = apperror.New(apperror.CodeConflict, "username or email is already registered")
	ErrInvalidRole        = apperror.Validation("role must be one of admin, reception, registrar, doctor")
)

type StaffUsecase interface {
	CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)
	ListStaff(ctx context.Context, role string) (*dto.StaffListResponse, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*dto.StaffResponse, error)
}

type staffUsecase struct {
	txManager    repository.TxManager
	log          *logrus.Logger
	staffRepo    repository.StaffRepository
	auditService service.AuditService
}

func NewStaffUsecase(
	txManager repository.TxManager,
	log *logrus.Logger,
	staffRepo repository.StaffRepository,
	auditService service.AuditService,
) StaffUsecase {
	return &staffUsecase{
		txManager:    txManager,
		log:          log,
		staffRepo:    staffRepo,
		auditService: auditService,
	}
}

func (u *staffUsecase) CreateStaff(ctx context.Context, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	roleID, ok := entity.RoleIDByName(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	staff := &entity.Staff{
		ID:       uuid.New(),
		RoleID:   roleID,
		Username: strings.TrimSpace(req.Username),
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(req.FullName),
		IsActive: true,
		Status:   entity.DoctorStatusAvailable,
	}

	err = u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		if err := u.staffRepo.Create(tx, staff); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actorFromContext(ctx), entity.AuditActionStaffCreate,
			entity.AuditEntityStaff, staff.ID.String(), map[string]interface{}{
				"username": staff.Username,
				"role":     req.Role,
			})
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrStaffAlreadyExists
		}
		u.log.Warnf("Failed to create staff %s: %+v", req.Username, err)
		return nil, err
	}

	// The account is committed; on a failed reload answer from what was written
	created, err := u.staffRepo.FindByID(u.txManager.Conn(ctx), staff.ID)
	if err != nil || created == nil {
		u.log.Warnf("Failed to reload staff %s: %+v", staff.ID, err)
		staff.Role = entity.Role{ID: roleID, RoleName: req.Role}
		return converter.StaffToResponse(staff), nil
	}

	u.log.Infof("Staff created: id=%s, username=%s, role=%s", created.ID, created.Username, req.Role)
	return converter.StaffToResponse(created), nil
}

func (u *staffUsecase) ListStaff(ctx context.Context, role string) (*dto.StaffListResponse, error) {
	var roleID int
	if role != "" {
		id, ok := entity.RoleIDByName(role)
		if !ok {
			return nil, ErrInvalidRole
		}
		roleID = id
	}

	staff, err := u.staffRepo.FindAll(u.txManager.Conn(ctx), roleID, false)
	if err != nil {
		u.log.Warnf("Failed to find staff: %+v", err)
		return nil, err
	}

	return &dto.StaffListResponse{
		Staff: converter.StaffsToResponses(staff),
		Total: len(staff),
	}, nil
}

// SetActive enables or disables an account. A disabled doctor stops accepting
// registrations; patients already waiting keep their tickets.
func (u *staffUsecase) SetActive(ctx context.Context, id uuid.UUID, active bool) (*dto.StaffResponse, error) {
	action := entity.AuditActionStaffDeactivate
	if active {
		action = entity.AuditActionStaffActivate
	}

	err := u.txManager.WithinTransaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.staffRepo.FindByID(tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrStaffNotFound
		}

		if _, err := u.staffRepo.SetActive(tx, id, active); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, actorFromContext(ctx), action, entity.AuditEntityStaff, id.String(),
			map[string]interface{}{"is_active": existing.IsActive},
			map[string]interface{}{"is_active": active})
	})
	if err != nil {
		if !errors.Is(err, ErrStaffNotFound) {
			u.log.Warnf("Failed to update staff %s: %+v", id, err)
		}
		return nil, err
	}

	updated, err := u.staffRepo.FindByID(u.txManager.Conn(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to reload staff %s: %+v", id, err)
		return nil, err
	}
	return converter.StaffToResponse(updated), nil
}
