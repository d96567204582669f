package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"
	"clinic-queue/internal/repository/memory"
	"clinic-queue/internal/service"
	"clinic-queue/pkg/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []entity.QueueEvent
}

func (p *capturePublisher) Publish(ctx context.Context, event entity.QueueEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Types() []entity.QueueEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]entity.QueueEventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

// flakyTicketRepo fails the first failCreates ticket inserts with a duplicate key
type flakyTicketRepo struct {
	domainRepo.TicketRepository
	mu          sync.Mutex
	failCreates int
}

func (r *flakyTicketRepo) Create(db *gorm.DB, ticket *entity.Ticket) error {
	r.mu.Lock()
	if r.failCreates > 0 {
		r.failCreates--
		r.mu.Unlock()
		return domainRepo.ErrDuplicateKey
	}
	r.mu.Unlock()
	return r.TicketRepository.Create(db, ticket)
}

type fixture struct {
	store        *memory.Store
	staffRepo    domainRepo.StaffRepository
	patientRepo  domainRepo.PatientRepository
	ticketRepo   domainRepo.TicketRepository
	auditRepo    domainRepo.AuditLogRepository
	callRepo     domainRepo.TicketCallRepository
	flaky        *flakyTicketRepo
	log          *logrus.Logger
	directory    service.PatientDirectory
	ledger       service.TicketLedger
	auditService service.AuditService
	identityLock *service.IdentityLock
	publisher    *capturePublisher
	notifier     *service.Notifier
	metrics      *metrics.Metrics
	registration RegistrationUsecase
	reception    ReceptionUsecase
	doctor       DoctorUsecase
	staff        StaffUsecase
	auditLogs    AuditLogUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	store := memory.NewStore()
	f := &fixture{
		store:       store,
		log:         log,
		staffRepo:   memory.NewStaffRepository(store),
		patientRepo: memory.NewPatientRepository(store),
		ticketRepo:  memory.NewTicketRepository(store),
		auditRepo:   memory.NewAuditLogRepository(store),
		callRepo:    memory.NewTicketCallRepository(store),
		publisher:   &capturePublisher{},
		metrics:     metrics.NewNopMetrics(),
	}
	f.flaky = &flakyTicketRepo{TicketRepository: f.ticketRepo}

	codes := service.NewCodeGenerator(f.patientRepo, f.flaky)
	f.directory = service.NewPatientDirectory(f.patientRepo, codes)
	f.ledger = service.NewTicketLedger(f.flaky, codes)
	f.auditService = service.NewAuditService(log, f.auditRepo)
	f.identityLock = service.NewIdentityLock(log)
	f.notifier = service.NewNotifier(f.publisher, log, f.metrics, time.Second)
	t.Cleanup(f.identityLock.Stop)
	t.Cleanup(f.notifier.Stop)

	f.registration = NewRegistrationUsecase(store, log, f.staffRepo, f.directory, f.ledger, f.auditService, f.identityLock, f.notifier, f.metrics, 3)
	f.reception = NewReceptionUsecase(store, log, f.staffRepo, f.patientRepo, f.flaky, f.callRepo, f.ledger, f.auditService, f.notifier)
	f.doctor = NewDoctorUsecase(store, log, f.staffRepo, f.ledger, f.auditService, f.notifier)
	f.staff = NewStaffUsecase(store, log, f.staffRepo, f.auditService)
	f.auditLogs = NewAuditLogUsecase(store, log, f.auditRepo)
	return f
}

func (f *fixture) addStaff(t *testing.T, name string, roleID int, active bool) *entity.Staff {
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

func (f *fixture) addDoctor(t *testing.T, name string) *entity.Staff {
	return f.addStaff(t, name, entity.RoleIDDoctor, true)
}

func (f *fixture) register(t *testing.T, name string, doctor *entity.Staff, motive string) *dto.RegistrationResponse {
	t.Helper()
	resp, err := f.registration.RegisterOrReissue(context.Background(), &dto.RegistrationRequest{
		Name:     name,
		DoctorID: doctor.ID,
		Motive:   motive,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) pendingTickets(t *testing.T, patientID uuid.UUID) []entity.QueueEntry {
	t.Helper()
	entries, err := f.ticketRepo.ListPending(nil, nil)
	require.NoError(t, err)
	var mine []entity.QueueEntry
	for _, e := range entries {
		if e.PatientID == patientID {
			mine = append(mine, e)
		}
	}
	return mine
}
