package entity

// DoctorStatus is the availability a doctor shows to reception
type DoctorStatus string

const (
	DoctorStatusAvailable   DoctorStatus = "available"
	DoctorStatusBusy        DoctorStatus = "busy"
	DoctorStatusPaused      DoctorStatus = "paused"
	DoctorStatusUnavailable DoctorStatus = "unavailable"
)

// ParseDoctorStatus accepts only the four known statuses
func ParseDoctorStatus(s string) (DoctorStatus, bool) {
	switch status := DoctorStatus(s); status {
	case DoctorStatusAvailable, DoctorStatusBusy, DoctorStatusPaused, DoctorStatusUnavailable:
		return status, true
	}
	return "", false
}
