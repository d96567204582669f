package memory

import (
	"clinic-queue/internal/domain/entity"
	domainRepo "clinic-queue/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) domainRepo.PatientRepository {
	return &patientRepository{store: store}
}

func (r *patientRepository) Create(db *gorm.DB, patient *entity.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.state.staff[patient.DoctorID]; !ok {
		return errForeignKey("patients_doctor_id_fkey")
	}
	for _, existing := range r.store.state.patients {
		if existing.DoctorID == patient.DoctorID && existing.Motive == patient.Motive &&
			existing.NormalizedName == patient.NormalizedName {
			return duplicate("uq_patients_identity")
		}
		if patient.StableCode != "" && existing.StableCode == patient.StableCode {
			return duplicate("uq_patients_stable_code")
		}
	}

	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	now := r.store.now()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	stored := *patient
	stored.Doctor = nil
	r.store.state.patients[patient.ID] = stored
	return nil
}

func (r *patientRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	patient, ok := r.store.state.patients[id]
	if !ok {
		return nil, nil
	}
	return &patient, nil
}

func (r *patientRepository) FindByIdentity(db *gorm.DB, doctorID uuid.UUID, motive, normalizedName string) (*entity.Patient, error) {
	return r.find(func(p entity.Patient) bool {
		return p.DoctorID == doctorID && p.Motive == motive && p.NormalizedName == normalizedName
	})
}

// LockByID is a plain read: transactions over the store are already serialized.
func (r *patientRepository) LockByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error) {
	return r.FindByID(db, id)
}

func (r *patientRepository) FindByStableCode(db *gorm.DB, code string) (*entity.Patient, error) {
	if code == "" {
		return nil, nil
	}
	return r.find(func(p entity.Patient) bool {
		return p.StableCode == code
	})
}

func (r *patientRepository) CountByDoctorAndMotive(db *gorm.DB, doctorID uuid.UUID, motive string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, p := range r.store.state.patients {
		if p.DoctorID == doctorID && p.Motive == motive {
			count++
		}
	}
	return count, nil
}

func (r *patientRepository) ExistsByStableCode(db *gorm.DB, code string) (bool, error) {
	patient, err := r.FindByStableCode(db, code)
	return patient != nil, err
}

func (r *patientRepository) UpdateStableCode(db *gorm.DB, id uuid.UUID, code string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	patient, ok := r.store.state.patients[id]
	if !ok || patient.StableCode != "" {
		return 0, nil
	}
	for otherID, other := range r.store.state.patients {
		if otherID != id && other.StableCode == code {
			return 0, duplicate("uq_patients_stable_code")
		}
	}
	patient.StableCode = code
	patient.UpdatedAt = r.store.now()
	r.store.state.patients[id] = patient
	return 1, nil
}

func (r *patientRepository) find(match func(entity.Patient) bool) (*entity.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, p := range r.store.state.patients {
		if match(p) {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}
