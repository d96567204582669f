package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"
	"clinic-queue/internal/service"
	"clinic-queue/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestCreateStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.staff.CreateStaff(ctx, &dto.CreateStaffRequest{
		Username: " ana ",
		FullName: "Dr. Ana",
		Password: "secret-password",
		Role:     "doctor",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana", created.Username)
	assert.Equal(t, entity.RoleIDDoctor, created.RoleID)
	assert.True(t, created.IsActive)

	stored, err := f.staffRepo.FindByID(nil, created.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret-password")))

	_, err = f.staff.CreateStaff(ctx, &dto.CreateStaffRequest{
		Username: "ana",
		FullName: "Another Ana",
		Password: "secret-password",
		Role:     "reception",
	})
	assert.ErrorIs(t, err, ErrStaffAlreadyExists)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = f.staff.CreateStaff(ctx, &dto.CreateStaffRequest{
		Username: "nurse",
		FullName: "Nurse",
		Password: "secret-password",
		Role:     "nurse",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestListStaff_FilterByRole(t *testing.T) {
	f := newFixture(t)
	f.addDoctor(t, "Dr. Ana")
	f.addStaff(t, "Dr. Off", entity.RoleIDDoctor, false)
	f.addStaff(t, "Rosa", entity.RoleIDReception, true)

	all, err := f.staff.ListStaff(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	doctors, err := f.staff.ListStaff(context.Background(), "doctor")
	require.NoError(t, err)
	assert.Equal(t, 2, doctors.Total)

	_, err = f.staff.ListStaff(context.Background(), "janitor")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestSetActive_DeactivatedDoctorRejectsRegistrations(t *testing.T) {
	f := newFixture(t)
	ana := f.addDoctor(t, "Dr. Ana")
	waiting := f.register(t, "Maria Lopez", ana, "consultation")
	ctx := context.Background()

	updated, err := f.staff.SetActive(ctx, ana.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = f.registration.RegisterOrReissue(ctx, &dto.RegistrationRequest{Name: "Juan", DoctorID: ana.ID, Motive: "consultation"})
	assert.ErrorIs(t, err, service.ErrDoctorNotFound)
	assert.Len(t, f.pendingTickets(t, waiting.PatientID), 1, "waiting patients keep their tickets")

	_, err = f.staff.SetActive(ctx, ana.ID, true)
	require.NoError(t, err)
	f.register(t, "Juan", ana, "consultation")

	_, err = f.staff.SetActive(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

// unreloadableStaffRepo inserts like the gorm repository, which leaves the
// Role association empty, and then fails every read
type unreloadableStaffRepo struct {
	domainRepo.StaffRepository
}

func (r unreloadableStaffRepo) Create(db *gorm.DB, staff *entity.Staff) error {
	if err := r.StaffRepository.Create(db, staff); err != nil {
		return err
	}
	staff.Role = entity.Role{}
	return nil
}

func (r unreloadableStaffRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	return nil, errors.New("connection reset")
}

func TestCreateStaff_ReloadFailureKeepsRole(t *testing.T) {
	f := newFixture(t)
	staff := NewStaffUsecase(f.store, f.log, unreloadableStaffRepo{f.staffRepo}, f.auditService)

	created, err := staff.CreateStaff(context.Background(), &dto.CreateStaffRequest{
		Username: "rita",
		FullName: "Rita Front Desk",
		Password: "secret-password",
		Role:     "reception",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIDReception, created.RoleID)
	assert.Equal(t, entity.RoleReception, created.Role)

	stored, err := f.staffRepo.FindByUsername(nil, "rita")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored.ID, created.ID)
}
