// Package protocol defines the JSON text frames exchanged over a live quiz
// session socket. Frames are flat objects discriminated by a "type" field; the
// set of types is closed and each type has a fixed set of required fields.
package protocol

import "trivia-play/internal/domain"

// Type discriminates a wire frame.
type Type string

const (
	TypeJoin                Type = "JOIN"
	TypeLeave               Type = "LEAVE"
	TypeParticipantLeft     Type = "PARTICIPANT_LEFT"
	TypeHostLeft            Type = "HOST_LEFT"
	TypeStartTimer          Type = "START_TIMER"
	TypeStartQuestions      Type = "START_QUESTIONS"
	TypeFirstQuestion       Type = "FIRST_QUESTION"
	TypeNextQuestion        Type = "NEXT_QUESTION"
	TypeSubmitAnswer        Type = "SUBMIT_ANSWER"
	TypeParticipantAnswered Type = "PARTICIPANT_ANSWERED"
	TypeScoreUpdate         Type = "SCORE_UPDATE"
	TypeHostNextQuestion    Type = "HOST_NEXT_QUESTION"
	TypeQuizStarting        Type = "QUIZ_STARTING"
	TypeQuizCompleted       Type = "QUIZ_COMPLETED"
	TypeError               Type = "ERROR"
)

// Message is one decoded wire frame. Concrete types below form a closed union;
// dispatch is by type switch.
type Message interface {
	messageType() Type
}

// Join announces a participant entering the session roster. The server echoes
// it back to all lobby members with the assigned ParticipantID filled in.
type Join struct {
	Type          Type   `json:"type"`
	Name          string `json:"name"`
	SessionID     string `json:"sessionId"`
	Timestamp     string `json:"timestamp,omitempty"`
	ParticipantID string `json:"participantId,omitempty"`
}

// Leave is a participant's own departure notice from the lobby.
type Leave struct {
	Type          Type   `json:"type"`
	ParticipantID string `json:"participantId"`
	SessionID     string `json:"sessionId,omitempty"`
}

// ParticipantLeft removes a participant from the play-screen roster.
type ParticipantLeft struct {
	Type          Type   `json:"type"`
	ParticipantID string `json:"participantId"`
	SessionID     string `json:"sessionId,omitempty"`
}

// HostLeft voids the session for every participant.
type HostLeft struct {
	Type      Type   `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
}

// StartTimer begins the pre-quiz countdown. Sent by the host, received by
// participants.
type StartTimer struct {
	Type      Type   `json:"type"`
	SessionID string `json:"sessionId"`
}

// StartQuestions asks the server for the first question once the host's
// countdown has finished.
type StartQuestions struct {
	Type      Type   `json:"type"`
	SessionID string `json:"sessionId"`
	QuizID    string `json:"quizId"`
}

// Question delivers a new question. FIRST_QUESTION and NEXT_QUESTION share the
// payload; the distinction only marks quiz start.
type Question struct {
	Type Type `json:"type"`
	domain.Question
}

// SubmitAnswer is a participant's answer claim: selection, time remaining at
// submit, and the locally judged correctness.
type SubmitAnswer struct {
	Type          Type   `json:"type"`
	QuestionID    string `json:"questionId"`
	ParticipantID string `json:"participantId"`
	TimeRemaining int    `json:"timeRemaining"`
	IsCorrect     bool   `json:"isCorrect"`
	AnswerID      string `json:"answerId,omitempty"`
	Text          string `json:"text,omitempty"`
}

// ParticipantAnswered notifies the host that a roster member has answered.
type ParticipantAnswered struct {
	Type          Type   `json:"type"`
	ParticipantID string `json:"participantId"`
	IsCorrect     bool   `json:"isCorrect"`
}

// ScoreUpdate is the authoritative scoreboard broadcast.
type ScoreUpdate struct {
	Type   Type           `json:"type"`
	Scores map[string]int `json:"scores"`
}

// HostNextQuestion is the host's manual advance request.
type HostNextQuestion struct {
	Type      Type   `json:"type"`
	SessionID string `json:"sessionId"`
	QuizID    string `json:"quizId"`
}

// QuizStarting moves lobby participants to the play screen.
type QuizStarting struct {
	Type      Type   `json:"type"`
	SessionID string `json:"sessionId"`
	Message   string `json:"message,omitempty"`
}

// QuizCompleted is the terminal success frame.
type QuizCompleted struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

// Error is the terminal server-reported failure frame.
type Error struct {
	Type    Type   `json:"type"`
	Message string `json:"message"`
}

func (Join) messageType() Type                { return TypeJoin }
func (Leave) messageType() Type               { return TypeLeave }
func (ParticipantLeft) messageType() Type     { return TypeParticipantLeft }
func (HostLeft) messageType() Type            { return TypeHostLeft }
func (StartTimer) messageType() Type          { return TypeStartTimer }
func (StartQuestions) messageType() Type      { return TypeStartQuestions }
func (Question) messageType() Type            { return TypeFirstQuestion }
func (SubmitAnswer) messageType() Type        { return TypeSubmitAnswer }
func (ParticipantAnswered) messageType() Type { return TypeParticipantAnswered }
func (ScoreUpdate) messageType() Type         { return TypeScoreUpdate }
func (HostNextQuestion) messageType() Type    { return TypeHostNextQuestion }
func (QuizStarting) messageType() Type        { return TypeQuizStarting }
func (QuizCompleted) messageType() Type       { return TypeQuizCompleted }
func (Error) messageType() Type               { return TypeError }
