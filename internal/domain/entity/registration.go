package entity

// RegistrationTag tells a first registration apart from a re-registration.
type RegistrationTag string

const (
	RegistrationNew     RegistrationTag = "new"
	RegistrationReissue RegistrationTag = "reissue"
)

// RegistrationResult is the committed outcome of a registration.
// Previous is set only for a reissue that superseded a pending ticket.
type RegistrationResult struct {
	Tag      RegistrationTag
	Patient  *Patient
	Doctor   *Staff
	Ticket   *Ticket
	Previous *Ticket
}

// PreviousTicketCode returns the superseded ticket code, nil when there was none
func (r *RegistrationResult) PreviousTicketCode() *string {
	if r.Previous == nil {
		return nil
	}
	code := r.Previous.Code
	return &code
}
