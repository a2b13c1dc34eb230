package session

const invalidInvitation = "Invitación inválida"

// InvitationError is returned when an invitation token can't be used.
// Message is safe to show to people.
type InvitationError struct {
	Message string
	Err     error
}

func (e *InvitationError) Error() string {
	return e.Message
}

func (e *InvitationError) Unwrap() error {
	return e.Err
}
