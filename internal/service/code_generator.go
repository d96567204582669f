package service

import (
	"fmt"
	"strings"
	"unicode"

	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/domain/repository"

	"gorm.io/gorm"
)

// maxCodeProbes bounds the probe-and-increment loop when a candidate code is taken.
const maxCodeProbes = 1000

// honorifics are skipped when taking the doctor initial ("Dr. Ana" -> "A")
var honorifics = map[string]struct{}{
	"dr":      {},
	"dra":     {},
	"doctor":  {},
	"doctora": {},
}

// CodeGenerator mints patient and ticket codes from the current store state.
// It never writes; callers persist the codes inside the same transaction.
type CodeGenerator interface {
	// NextStableCode returns "<doctor initial>-<motive initial>-<NNN>", NNN being
	// one more than the patients already registered for (doctor, motive).
	NextStableCode(db *gorm.DB, doctor *entity.Staff, motive string) (string, error)
	// NextTicketCode returns "<stable code>-T<n>" with n one more than every
	// ticket ever issued to the patient.
	NextTicketCode(db *gorm.DB, patient *entity.Patient) (string, int, error)
}

type codeGenerator struct {
	patientRepo repository.PatientRepository
	ticketRepo  repository.TicketRepository
}

func NewCodeGenerator(patientRepo repository.PatientRepository, ticketRepo repository.TicketRepository) CodeGenerator {
	return &codeGenerator{
		patientRepo: patientRepo,
		ticketRepo:  ticketRepo,
	}
}

func (g *codeGenerator) NextStableCode(db *gorm.DB, doctor *entity.Staff, motive string) (string, error) {
	count, err := g.patientRepo.CountByDoctorAndMotive(db, doctor.ID, motive)
	if err != nil {
		return "", fmt.Errorf("count patients: %w", err)
	}

	prefix := fmt.Sprintf("%s-%s", DoctorInitial(doctor.FullName), firstLetter(motive))
	seq := int(count) + 1
	for i := 0; i < maxCodeProbes; i++ {
		code := fmt.Sprintf("%s-%03d", prefix, seq)
		taken, err := g.patientRepo.ExistsByStableCode(db, code)
		if err != nil {
			return "", fmt.Errorf("probe stable code %s: %w", code, err)
		}
		if !taken {
			return code, nil
		}
		seq++
	}
	return "", ErrCodeSpaceExhausted
}

func (g *codeGenerator) NextTicketCode(db *gorm.DB, patient *entity.Patient) (string, int, error) {
	if !patient.HasStableCode() {
		return "", 0, ErrMissingStableCode
	}

	count, err := g.ticketRepo.CountByPatient(db, patient.ID)
	if err != nil {
		return "", 0, fmt.Errorf("count tickets: %w", err)
	}

	number := int(count) + 1
	for i := 0; i < maxCodeProbes; i++ {
		code := entity.TicketCode(patient.StableCode, number)
		taken, err := g.ticketRepo.ExistsByCode(db, code)
		if err != nil {
			return "", 0, fmt.Errorf("probe ticket code %s: %w", code, err)
		}
		if !taken {
			return code, number, nil
		}
		number++
	}
	return "", 0, ErrCodeSpaceExhausted
}

// DoctorInitial returns the upper-cased first letter of a doctor's name,
// ignoring a leading honorific, or "X" when the name has no letter.
func DoctorInitial(name string) string {
	fields := strings.Fields(name)
	if len(fields) > 1 {
		token := strings.TrimSuffix(strings.ToLower(fields[0]), ".")
		if _, ok := honorifics[token]; ok {
			fields = fields[1:]
		}
	}
	return firstLetter(strings.Join(fields, " "))
}

func firstLetter(s string) string {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return string(unicode.ToUpper(r))
		}
	}
	return "X"
}
