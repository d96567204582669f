package repository

import (
	"clinic-queue/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindAll(db *gorm.DB, filter AuditLogFilter) ([]entity.AuditLog, error)
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
}

// AuditLogFilter narrows an audit trail listing; zero values mean no filter
type AuditLogFilter struct {
	Action string
	Limit  int
}
