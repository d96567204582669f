package service

import (
	"io"
	"testing"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"
	"clinic-queue/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store       *memory.Store
	staffRepo   domainRepo.StaffRepository
	patientRepo domainRepo.PatientRepository
	ticketRepo  domainRepo.TicketRepository
	codes       CodeGenerator
	directory   PatientDirectory
	ledger      TicketLedger
}

func newFixture() *fixture {
	store := memory.NewStore()
	f := &fixture{
		store:       store,
		staffRepo:   memory.NewStaffRepository(store),
		patientRepo: memory.NewPatientRepository(store),
		ticketRepo:  memory.NewTicketRepository(store),
	}
	f.codes = NewCodeGenerator(f.patientRepo, f.ticketRepo)
	f.directory = NewPatientDirectory(f.patientRepo, f.codes)
	f.ledger = NewTicketLedger(f.ticketRepo, f.codes)
	return f
}

func (f *fixture) staff(t *testing.T, name string, roleID int, active bool) *entity.Staff {
	t.Helper()
	s := &entity.Staff{
		Username: uuid.NewString(),
		FullName: name,
		RoleID:   roleID,
		IsActive: active,
	}
	require.NoError(t, f.staffRepo.Create(nil, s))
	return s
}

func (f *fixture) doctor(t *testing.T, name string) *entity.Staff {
	return f.staff(t, name, entity.RoleIDDoctor, true)
}

func (f *fixture) patient(t *testing.T, name string, doctor *entity.Staff, motive string) *entity.Patient {
	t.Helper()
	p, err := f.directory.Create(nil, name, doctor, motive)
	require.NoError(t, err)
	return p
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
