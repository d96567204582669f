package memory

import (
	"sort"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type staffRepository struct {
	store *Store
}

func NewStaffRepository(store *Store) domainRepo.StaffRepository {
	return &staffRepository{store: store}
}

func (r *staffRepository) Create(db *gorm.DB, staff *entity.Staff) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.state.staff {
		if existing.Username == staff.Username {
			return duplicate("staff_username_key")
		}
		if staff.Email != nil && existing.Email != nil && *existing.Email == *staff.Email {
			return duplicate("staff_email_key")
		}
	}

	if staff.ID == uuid.Nil {
		staff.ID = uuid.New()
	}
	now := r.store.now()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	staff.Role = roleFor(staff.RoleID)
	if staff.Status == "" {
		staff.Status = entity.DoctorStatusAvailable
	}
	r.store.state.staff[staff.ID] = *staff
	return nil
}

func (r *staffRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	staff, ok := r.store.state.staff[id]
	if !ok {
		return nil, nil
	}
	return &staff, nil
}

func (r *staffRepository) FindByUsername(db *gorm.DB, username string) (*entity.Staff, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, staff := range r.store.state.staff {
		if staff.Username == username {
			found := staff
			return &found, nil
		}
	}
	return nil, nil
}

func (r *staffRepository) FindAll(db *gorm.DB, roleID int, activeOnly bool) ([]entity.Staff, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]entity.Staff, 0, len(r.store.state.staff))
	for _, staff := range r.store.state.staff {
		if roleID != 0 && staff.RoleID != roleID {
			continue
		}
		if activeOnly && !staff.IsActive {
			continue
		}
		result = append(result, staff)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].FullName < result[j].FullName
	})
	return result, nil
}

func (r *staffRepository) SetActive(db *gorm.DB, id uuid.UUID, active bool) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	staff, ok := r.store.state.staff[id]
	if !ok {
		return 0, nil
	}
	staff.IsActive = active
	staff.UpdatedAt = r.store.now()
	r.store.state.staff[id] = staff
	return 1, nil
}

func (r *staffRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	staff, ok := r.store.state.staff[id]
	if !ok {
		return 0, nil
	}
	staff.Status = status
	staff.UpdatedAt = r.store.now()
	r.store.state.staff[id] = staff
	return 1, nil
}
