package play

import "trivia-play/internal/domain"

// Snapshot is the render-facing view of a session. It is a value copy; the
// render layer never mutates session state and re-rendering the same snapshot
// must be a no-op for the user.
type Snapshot struct {
	Phase      Phase
	Countdown  int // pre-quiz countdown value, meaningful in PhaseCountdown
	Question   *domain.Question
	Remaining  int
	TimerPhase TimerPhase
	Roster     []domain.Participant

	// Host fields.
	Answered   int // members who answered the current question
	CanProceed bool
	Revealed   bool

	// Participant fields.
	Selection    domain.Selection
	Submitted    bool
	LocalCorrect bool

	// Terminal message (completion summary or error text).
	Message string
}
