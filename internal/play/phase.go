// Package play implements the client side of a live quiz session: the host
// and participant state machines, the roster, and the per-question timer
// coordination. The machines are pure with respect to I/O: every event
// handler returns the frames to send and the timer effects to apply, and the
// controllers in this package interpret them against a real socket and clock.
package play

// Phase is the coarse state of a play session.
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseCountdown
	PhaseAwaitingQuestion
	PhaseQuestionActive
	PhaseQuestionLocked  // host: no more answers accepted, proceed gate armed
	PhaseAnswerSubmitted // participant: own answer locked in
	PhaseCompleted
	PhaseErrored
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseCountdown:
		return "countdown"
	case PhaseAwaitingQuestion:
		return "awaiting-question"
	case PhaseQuestionActive:
		return "question-active"
	case PhaseQuestionLocked:
		return "question-locked"
	case PhaseAnswerSubmitted:
		return "answer-submitted"
	case PhaseCompleted:
		return "completed"
	case PhaseErrored:
		return "errored"
	}
	return "unknown"
}

// Terminal reports whether no further protocol messages are processed.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseErrored
}

// TimerPhase is the urgency band of the question countdown, derived from the
// remaining seconds.
type TimerPhase int

const (
	TimerNormal  TimerPhase = iota // > 10s
	TimerWarning                   // <= 10s
	TimerDanger                    // <= 5s
)

func timerPhase(remaining int) TimerPhase {
	switch {
	case remaining <= 5:
		return TimerDanger
	case remaining <= 10:
		return TimerWarning
	}
	return TimerNormal
}

// CountdownStart is the fixed pre-quiz countdown value; it ticks down to zero
// before questions begin.
const CountdownStart = 5
