// Package memory implements the domain repositories over an in-process,
// transactional store. The *gorm.DB handles passed to its repositories are
// ignored; isolation comes from the store itself.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memoryState struct {
	staff     map[uuid.UUID]entity.Staff
	patients  map[uuid.UUID]entity.Patient
	tickets   map[uuid.UUID]entity.Ticket
	auditLogs []entity.AuditLog
	auditSeq  int64
	calls     []entity.TicketCall
	callSeq   int64
}

func newMemoryState() memoryState {
	return memoryState{
		staff:    map[uuid.UUID]entity.Staff{},
		patients: map[uuid.UUID]entity.Patient{},
		tickets:  map[uuid.UUID]entity.Ticket{},
	}
}

func (s memoryState) clone() memoryState {
	c := memoryState{
		staff:     make(map[uuid.UUID]entity.Staff, len(s.staff)),
		patients:  make(map[uuid.UUID]entity.Patient, len(s.patients)),
		tickets:   make(map[uuid.UUID]entity.Ticket, len(s.tickets)),
		auditLogs: append([]entity.AuditLog(nil), s.auditLogs...),
		auditSeq:  s.auditSeq,
		calls:     append([]entity.TicketCall(nil), s.calls...),
		callSeq:   s.callSeq,
	}
	for k, v := range s.staff {
		c.staff[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.tickets {
		c.tickets[k] = v
	}
	return c
}

// Store holds every table. Transactions are serialized and roll back to a
// snapshot when the callback fails.
type Store struct {
	txMu  sync.Mutex
	mu    sync.RWMutex
	state memoryState
	last  time.Time
}

var _ domainRepo.TxManager = (*Store)(nil)

func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

func (s *Store) Conn(ctx context.Context) *gorm.DB {
	return nil
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// now returns strictly increasing timestamps so ordering by created_at is total.
// Callers must hold mu.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w: %s", domainRepo.ErrDuplicateKey, constraint)
}

func roleFor(id int) entity.Role {
	names := map[int]string{
		entity.RoleIDAdmin:     entity.RoleAdmin,
		entity.RoleIDReception: entity.RoleReception,
		entity.RoleIDRegistrar: entity.RoleRegistrar,
		entity.RoleIDDoctor:    entity.RoleDoctor,
	}
	return entity.Role{ID: id, RoleName: names[id]}
}
