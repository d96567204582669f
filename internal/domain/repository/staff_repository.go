package repository

import (
	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffRepository interface {
	Create(db *gorm.DB, staff *entity.Staff) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Staff, error)
	FindByUsername(db *gorm.DB, username string) (*entity.Staff, error)
	// FindAll lists staff ordered by full name; roleID 0 lists every role.
	FindAll(db *gorm.DB, roleID int, activeOnly bool) ([]entity.Staff, error)
	// SetActive returns affected rows, 0 when the id is unknown.
	SetActive(db *gorm.DB, id uuid.UUID, active bool) (int64, error)
	// UpdateStatus returns affected rows, 0 when the id is unknown.
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.DoctorStatus) (int64, error)
}
