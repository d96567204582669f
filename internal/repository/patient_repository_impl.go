package repository

import (
	"errors"

	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type patientRepository struct{}

func NewPatientRepository() domainRepo.PatientRepository {
	return &patientRepository{}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	return translateError(db.Create(patient).Error)
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return r.first(db.Where("id = ?", id))
}

func (r *patientRepository) FindByIdentity(db *gorm.DB, doctorID uuid.UUID, motive, normalizedName string) (*entity.Patient, error) {
	return r.first(db.Where("doctor_id = ? AND motive = ? AND normalized_name = ?", doctorID, motive, normalizedName))
}

// LockByID takes SELECT ... FOR UPDATE on the patient row
func (r *patientRepository) LockByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return r.first(db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *patientRepository) FindByStableCode(db *gorm.DB, code string) (*entity.Patient, error) {
	return r.first(db.Where("stable_code = ?", code))
}

func (r *patientRepository) CountByDoctorAndMotive(db *gorm.DB, doctorID uuid.UUID, motive string) (int64, error) {
	var count int64
	err := db.Model(&entity.Patient{}).
		Where("doctor_id = ? AND motive = ?", doctorID, motive).
		Count(&count).Error
	return count, err
}

func (r *patientRepository) ExistsByStableCode(db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.Model(&entity.Patient{}).Where("stable_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *patientRepository) UpdateStableCode(db *gorm.DB, id uuid.UUID, code string) (int64, error) {
	result := db.Model(&entity.Patient{}).
		Where("id = ? AND stable_code = ''", id).
		Update("stable_code", code)
	return result.RowsAffected, translateError(result.Error)
}

func (r *patientRepository) first(query *gorm.DB) (*entity.Patient, error) {
	var patient entity.Patient
	err := query.First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &patient, nil
}
