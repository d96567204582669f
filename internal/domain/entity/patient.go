package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient is the permanent identity of a visitor for one (doctor, motive) pair.
// Rows are never deleted; StableCode is only ever backfilled.
type Patient struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DisplayName    string    `gorm:"type:varchar(255);not null" json:"display_name"`
	NormalizedName string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_patients_identity,priority:3" json:"-"`
	DoctorID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_patients_identity,priority:1" json:"doctor_id"`
	Motive         string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_patients_identity,priority:2" json:"motive"`
	StableCode     string    `gorm:"type:varchar(50);not null;default:''" json:"stable_code"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *Staff `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// HasStableCode checks if the patient code has been assigned
func (p *Patient) HasStableCode() bool {
	return p.StableCode != ""
}

// NormalizeName trims surrounding whitespace and lowercases; inner whitespace is kept.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CleanMotive trims surrounding whitespace. Motives are matched exactly and
// stored as entered.
func CleanMotive(motive string) string {
	return strings.TrimSpace(motive)
}
