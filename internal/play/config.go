package play

import "trivia-play/internal/domain"

// HostParticipantID is the reserved participant id carried by the host role.
const HostParticipantID = "host"

// SessionConfig is the immutable identity of one play session, seeded from
// the join flow. All three values must be present before connecting.
type SessionConfig struct {
	SessionPin    string
	ParticipantID string
	QuizID        string
}

// Validate reports a fatal initialization error when any identity value is
// missing; a controller must not connect in that case.
func (c SessionConfig) Validate() error {
	if c.SessionPin == "" || c.ParticipantID == "" || c.QuizID == "" {
		return domain.ErrMissingConfig
	}
	return nil
}
