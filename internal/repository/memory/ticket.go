package memory

import (
	"sort"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ticketRepository struct {
	store *Store
}

func NewTicketRepository(store *Store) domainRepo.TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) Create(db *gorm.DB, ticket *entity.Ticket) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.state.patients[ticket.PatientID]; !ok {
		return errForeignKey("tickets_patient_id_fkey")
	}
	if ticket.Status == "" {
		ticket.Status = entity.TicketStatusPending
	}
	for _, existing := range r.store.state.tickets {
		if existing.Code == ticket.Code {
			return duplicate("uq_tickets_ticket_code")
		}
		if existing.PatientID != ticket.PatientID {
			continue
		}
		if existing.Number == ticket.Number {
			return duplicate("uq_tickets_patient_number")
		}
		if existing.IsPending() && ticket.IsPending() {
			return duplicate("uq_tickets_one_pending")
		}
	}

	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	now := r.store.now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	stored.Patient = nil
	r.store.state.tickets[ticket.ID] = stored
	return nil
}

func (r *ticketRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ticket, ok := r.store.state.tickets[id]
	if !ok {
		return nil, nil
	}
	return &ticket, nil
}

func (r *ticketRepository) FindByCode(db *gorm.DB, code string) (*entity.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, ticket := range r.store.state.tickets {
		if ticket.Code == code {
			found := ticket
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ticketRepository) FindLatestPending(db *gorm.DB, patientID uuid.UUID) (*entity.Ticket, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest *entity.Ticket
	for _, ticket := range r.store.state.tickets {
		if ticket.PatientID != patientID || !ticket.IsPending() {
			continue
		}
		if latest == nil || newer(ticket, *latest) {
			t := ticket
			latest = &t
		}
	}
	return latest, nil
}

func (r *ticketRepository) CountByPatient(db *gorm.DB, patientID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, ticket := range r.store.state.tickets {
		if ticket.PatientID == patientID {
			count++
		}
	}
	return count, nil
}

func (r *ticketRepository) ExistsByCode(db *gorm.DB, code string) (bool, error) {
	ticket, err := r.FindByCode(db, code)
	return ticket != nil, err
}

func (r *ticketRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.TicketStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ticket, ok := r.store.state.tickets[id]
	if !ok || ticket.Status != from {
		return 0, nil
	}
	r.store.state.tickets[id] = r.moved(ticket, to)
	return 1, nil
}

func (r *ticketRepository) UpdateStatusByPatient(db *gorm.DB, patientID uuid.UUID, from, to entity.TicketStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var affected int64
	for id, ticket := range r.store.state.tickets {
		if ticket.PatientID != patientID || ticket.Status != from {
			continue
		}
		r.store.state.tickets[id] = r.moved(ticket, to)
		affected++
	}
	return affected, nil
}

func (r *ticketRepository) ListPending(db *gorm.DB, doctorID *uuid.UUID) ([]entity.QueueEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	type row struct {
		entry  entity.QueueEntry
		number int
	}
	rows := make([]row, 0)
	for _, ticket := range r.store.state.tickets {
		if !ticket.IsPending() {
			continue
		}
		if doctorID != nil && ticket.DoctorID != *doctorID {
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
		rows = append(rows, row{
			entry: entity.QueueEntry{
				TicketID:    ticket.ID,
				TicketCode:  ticket.Code,
				CreatedAt:   ticket.CreatedAt,
				PatientID:   patient.ID,
				DisplayName: patient.DisplayName,
				StableCode:  patient.StableCode,
				Motive:      patient.Motive,
				DoctorID:    doctor.ID,
				DoctorName:  doctor.FullName,
			},
			number: ticket.Number,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.entry.DoctorName != b.entry.DoctorName {
			return a.entry.DoctorName < b.entry.DoctorName
		}
		if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.entry.CreatedAt.Before(b.entry.CreatedAt)
		}
		return a.number < b.number
	})

	entries := make([]entity.QueueEntry, len(rows))
	for i, r := range rows {
		entries[i] = r.entry
	}
	return entries, nil
}

func (r *ticketRepository) CountPendingByDoctor(db *gorm.DB) ([]entity.DoctorWaitingCount, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byDoctor := map[uuid.UUID]int64{}
	for _, ticket := range r.store.state.tickets {
		if ticket.IsPending() {
			byDoctor[ticket.DoctorID]++
		}
	}
	counts := make([]entity.DoctorWaitingCount, 0, len(byDoctor))
	for doctorID, waiting := range byDoctor {
		counts = append(counts, entity.DoctorWaitingCount{DoctorID: doctorID, Waiting: waiting})
	}
	return counts, nil
}

// moved must be called with mu held
func (r *ticketRepository) moved(ticket entity.Ticket, to entity.TicketStatus) entity.Ticket {
	now := r.store.now()
	ticket.Status = to
	ticket.UpdatedAt = now
	if to.IsTerminal() {
		ticket.ClosedAt = &now
	}
	return ticket
}

func newer(a, b entity.Ticket) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Number > b.Number
}
