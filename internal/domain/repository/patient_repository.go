package repository

import (
	"clinic-queue/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	// FindByIdentity matches on the exact normalized name, doctor and motive.
	FindByIdentity(db *gorm.DB, doctorID uuid.UUID, motive, normalizedName string) (*entity.Patient, error)
	// LockByID re-reads a patient row holding a row lock until the transaction ends.
	LockByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	FindByStableCode(db *gorm.DB, code string) (*entity.Patient, error)
	CountByDoctorAndMotive(db *gorm.DB, doctorID uuid.UUID, motive string) (int64, error)
	ExistsByStableCode(db *gorm.DB, code string) (bool, error)
	// UpdateStableCode only writes when the stored code is still empty; returns affected rows.
	UpdateStableCode(db *gorm.DB, id uuid.UUID, code string) (int64, error)
}
