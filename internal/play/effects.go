package play

import "trivia-play/internal/protocol"

// Effects is what a state-machine event asks its controller to do. Keeping the
// machines free of sockets and clocks means every transition can be exercised
// in tests by inspecting the returned effects.
type Effects struct {
	// Outbound frames to send, in order.
	Outbound []protocol.Message
	// StartCountdown begins the pre-quiz countdown ticker.
	StartCountdown bool
	// StopCountdown cancels it.
	StopCountdown bool
	// StartQuestionTimer begins the per-question ticker. The previous question
	// ticker, if any, must be stopped first.
	StartQuestionTimer bool
	// StopQuestionTimer cancels the per-question ticker.
	StopQuestionTimer bool
	// Terminal marks the session as finished; the controller stops all timers
	// and exits its loop after rendering.
	Terminal bool
}

func (e *Effects) send(msgs ...protocol.Message) {
	e.Outbound = append(e.Outbound, msgs...)
}
