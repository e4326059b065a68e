package domain

import "errors"

var (
	// ErrMissingConfig is returned when a controller is constructed without the
	// full session identity (pin, participant id, quiz id).
	ErrMissingConfig = errors.New("session pin, participant id and quiz id are all required")
	// ErrUnknownQuestionType indicates a question frame with a type outside the protocol.
	ErrUnknownQuestionType = errors.New("unknown question type")
	// ErrMalformedAnswerSet indicates an answer set violating the one-correct-answer invariant.
	ErrMalformedAnswerSet = errors.New("malformed answer set")
	// ErrAlreadySubmitted is returned on a second submit attempt for the same question.
	ErrAlreadySubmitted = errors.New("answer already submitted for this question")
	// ErrNoSelection is returned when submit is invoked with nothing selected.
	ErrNoSelection = errors.New("no answer selected")
	// ErrNoQuestion is returned when an answer action arrives outside an active question.
	ErrNoQuestion = errors.New("no question is active")
	// ErrSessionOver indicates the session reached a terminal state.
	ErrSessionOver = errors.New("session is over")
	// ErrEmptyName rejects a lobby join without a display name.
	ErrEmptyName = errors.New("display name must not be empty")
	// ErrNotJoined is returned when leaving a lobby before joining it.
	ErrNotJoined = errors.New("not joined to the session")
)
