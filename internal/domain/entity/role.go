package entity

// Role represents a staff role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration
const (
	RoleIDAdmin     = 1
	RoleIDReception = 2
	RoleIDRegistrar = 3
	RoleIDDoctor    = 4
)

// RoleNames constants
const (
	RoleAdmin     = "admin"
	RoleReception = "reception"
	RoleRegistrar = "registrar"
	RoleDoctor    = "doctor"
)

// RoleIDByName resolves a role name to its seeded ID
func RoleIDByName(name string) (int, bool) {
	switch name {
	case RoleAdmin:
		return RoleIDAdmin, true
	case RoleReception:
		return RoleIDReception, true
	case RoleRegistrar:
		return RoleIDRegistrar, true
	case RoleDoctor:
		return RoleIDDoctor, true
	}
	return 0, false
}
