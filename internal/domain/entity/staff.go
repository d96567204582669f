package entity

import (
	"time"

	"github.com/google/uuid"
)

// Staff represents a clinic account: administrators, reception, registrars and doctors
type Staff struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID    int          `gorm:"not null;index" json:"role_id"`
	Username  string       `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email     *string      `gorm:"type:varchar(255);uniqueIndex" json:"email,omitempty"`
	Password  string       `gorm:"type:text;not null" json:"-"`
	FullName  string       `gorm:"type:varchar(255);not null" json:"full_name"`
	IsActive  bool         `gorm:"not null;index" json:"is_active"`
	Status    DoctorStatus `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

func (Staff) TableName() string {
	return "staff"
}

// IsDoctor checks if the account belongs to a doctor
func (s *Staff) IsDoctor() bool {
	return s.RoleID == RoleIDDoctor
}

// AcceptsPatients reports whether registrations may be filed against this account
func (s *Staff) AcceptsPatients() bool {
	return s.IsDoctor() && s.IsActive
}
