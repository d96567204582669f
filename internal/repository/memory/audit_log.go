package memory

import (
	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"gorm.io/gorm"
)

type auditLogRepository struct {
	store *Store
}

func NewAuditLogRepository(store *Store) domainRepo.AuditLogRepository {
	return &auditLogRepository{store: store}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.state.auditSeq++
	log.ID = r.store.state.auditSeq
	log.CreatedAt = r.store.now()
	stored := *log
	stored.User = nil
	r.store.state.auditLogs = append(r.store.state.auditLogs, stored)
	return nil
}

// FindAll returns newest first
func (r *auditLogRepository) FindAll(db *gorm.DB, filter domainRepo.AuditLogFilter) ([]entity.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	logs := make([]entity.AuditLog, 0)
	for i := len(r.store.state.auditLogs) - 1; i >= 0; i-- {
		log := r.store.state.auditLogs[i]
		if filter.Action != "" && log.Action != filter.Action {
			continue
		}
		logs = append(logs, r.withUser(log))
		if filter.Limit > 0 && len(logs) == filter.Limit {
			break
		}
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, log := range r.store.state.auditLogs {
		if log.ID == id {
			found := r.withUser(log)
			return &found, nil
		}
	}
	return nil, nil
}

// withUser must be called with mu held
func (r *auditLogRepository) withUser(log entity.AuditLog) entity.AuditLog {
	if log.UserID == nil {
		return log
	}
	if staff, ok := r.store.state.staff[*log.UserID]; ok {
		log.User = &staff
	}
	return log
}
