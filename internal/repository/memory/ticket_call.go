package memory

import (
	"sort"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type ticketCallRepository struct {
	store *Store
}

func NewTicketCallRepository(store *Store) domainRepo.TicketCallRepository {
	return &ticketCallRepository{store: store}
}

func (r *ticketCallRepository) Create(db *gorm.DB, call *entity.TicketCall) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.state.tickets[call.TicketID]; !ok {
		return errForeignKey("ticket_calls_ticket_id_fkey")
	}

	r.store.state.callSeq++
	call.ID = r.store.state.callSeq
	call.CreatedAt = r.store.now()
	r.store.state.calls = append(r.store.state.calls, *call)
	return nil
}

func (r *ticketCallRepository) ListRecentByScreen(db *gorm.DB, screen, limit int) ([]entity.ScreenCall, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	calls := make([]entity.ScreenCall, 0)
	for _, call := range r.store.state.calls {
		if call.Screen != screen {
			continue
		}
		ticket, ok := r.store.state.tickets[call.TicketID]
		if !ok {
			continue
		}
		patient, ok := r.store.state.patients[ticket.PatientID]
		if !ok {
			continue
		}
		doctor, ok := r.store.state.staff[ticket.DoctorID]
		if !ok {
			continue
		}
		calls = append(calls, entity.ScreenCall{
			CallID:      call.ID,
			TicketID:    ticket.ID,
			TicketCode:  ticket.Code,
			DisplayName: patient.DisplayName,
			Motive:      patient.Motive,
			DoctorName:  doctor.FullName,
			CalledAt:    call.CreatedAt,
		})
	}

	sort.Slice(calls, func(i, j int) bool {
		if !calls[i].CalledAt.Equal(calls[j].CalledAt) {
			return calls[i].CalledAt.After(calls[j].CalledAt)
		}
		return calls[i].CallID > calls[j].CallID
	})
	if limit > 0 && len(calls) > limit {
		calls = calls[:limit]
	}
	return calls, nil
}
