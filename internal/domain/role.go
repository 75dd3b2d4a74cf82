package domain

// Role is the viewer's relation to an event.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
	RoleUnrelated   Role = "unrelated"
)

// RoleFor resolves the role of the session's current address for e.
func RoleFor(s *Session, e *Event) Role {
	addr, ok := s.CurrentAddress()
	if !ok || e == nil {
		return RoleUnrelated
	}
	if addr == e.Organizer {
		return RoleOrganizer
	}
	for _, p := range e.Participants {
		if p == addr {
			return RoleParticipant
		}
	}
	return RoleUnrelated
}
