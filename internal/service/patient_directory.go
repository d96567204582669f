package service

import (
	"fmt"

	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientDirectory owns patient identities: lookup by (name, doctor, motive),
// creation, and stable-code backfill.
type PatientDirectory interface {
	FindExisting(db *gorm.DB, name string, doctorID uuid.UUID, motive string) (*entity.Patient, error)
	Create(db *gorm.DB, name string, doctor *entity.Staff, motive string) (*entity.Patient, error)
	EnsureStableCode(db *gorm.DB, patient *entity.Patient, doctor *entity.Staff) (*entity.Patient, error)
}

type patientDirectory struct {
	patientRepo repository.PatientRepository
	codes       CodeGenerator
}

func NewPatientDirectory(patientRepo repository.PatientRepository, codes CodeGenerator) PatientDirectory {
	return &patientDirectory{
		patientRepo: patientRepo,
		codes:       codes,
	}
}

// FindExisting matches the exact normalized name. Spelling variants of the
// same person are distinct patients.
func (d *patientDirectory) FindExisting(db *gorm.DB, name string, doctorID uuid.UUID, motive string) (*entity.Patient, error) {
	patient, err := d.patientRepo.FindByIdentity(db, doctorID, entity.CleanMotive(motive), entity.NormalizeName(name))
	if err != nil {
		return nil, fmt.Errorf("find patient: %w", err)
	}
	if patient == nil {
		return nil, nil
	}
	// Row lock for the rest of the transaction
	locked, err := d.patientRepo.LockByID(db, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("lock patient %s: %w", patient.ID, err)
	}
	return locked, nil
}

func (d *patientDirectory) Create(db *gorm.DB, name string, doctor *entity.Staff, motive string) (*entity.Patient, error) {
	if doctor == nil || !doctor.AcceptsPatients() {
		return nil, ErrDoctorNotFound
	}

	motive = entity.CleanMotive(motive)
	code, err := d.codes.NextStableCode(db, doctor, motive)
	if err != nil {
		return nil, err
	}

	patient := &entity.Patient{
		ID:             uuid.New(),
		DisplayName:    name,
		NormalizedName: entity.NormalizeName(name),
		DoctorID:       doctor.ID,
		Motive:         motive,
		StableCode:     code,
	}
	if err := d.patientRepo.Create(db, patient); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return patient, nil
}

func (d *patientDirectory) EnsureStableCode(db *gorm.DB, patient *entity.Patient, doctor *entity.Staff) (*entity.Patient, error) {
	if patient.HasStableCode() {
		return patient, nil
	}

	code, err := d.codes.NextStableCode(db, doctor, patient.Motive)
	if err != nil {
		return nil, err
	}
	if _, err := d.patientRepo.UpdateStableCode(db, patient.ID, code); err != nil {
		return nil, fmt.Errorf("backfill stable code: %w", err)
	}

	// Re-read: a concurrent writer may have filled the code first
	updated, err := d.patientRepo.FindByID(db, patient.ID)
	if err != nil {
		return nil, fmt.Errorf("reload patient %s: %w", patient.ID, err)
	}
	if updated == nil {
		return nil, ErrPatientNotFound
	}
	return updated, nil
}
