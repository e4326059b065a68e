package protocol

import (
	"encoding/json"
	"fmt"
)

// UnknownTypeError is returned by Decode for a tag outside the closed union.
// Callers log and drop such frames.
type UnknownTypeError struct {
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown message type %q", e.Tag)
}

// MissingFieldError flags a frame that parsed but lacks a field required for
// its tag. Such frames are dropped rather than handled optimistically.
type MissingFieldError struct {
	Frame Type
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s frame missing required field %q", e.Frame, e.Field)
}

// Decode parses one raw text frame into its concrete message. It returns an
// error for malformed JSON, unknown tags, and tags whose required fields are
// absent; the caller decides whether that is fatal (it never is for a
// controller: frames failing to decode are logged and ignored).
func Decode(data []byte) (Message, error) {
	var envelope struct {
		Type Type `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse frame: %w", err)
	}

	switch envelope.Type {
	case TypeJoin:
		var m Join
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		if m.Name == "" {
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "name"}
		}
		return m, nil
	case TypeLeave:
		var m Leave
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		if m.ParticipantID == "" {
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "participantId"}
		}
		return m, nil
	case TypeParticipantLeft:
		var m ParticipantLeft
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		if m.ParticipantID == "" {
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "participantId"}
		}
		return m, nil
	case TypeHostLeft:
		var m HostLeft
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeStartTimer:
		var m StartTimer
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeStartQuestions:
		var m StartQuestions
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeFirstQuestion, TypeNextQuestion:
		var m Question
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		switch {
		case m.ID == "":
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "questionId"}
		case m.Question.Text == "":
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "questionText"}
		case !m.Question.Type.Valid():
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "questionType"}
		case m.TimeLimit <= 0:
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "timeLimit"}
		case len(m.Answers) == 0:
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "answers"}
		}
		return m, nil
	case TypeSubmitAnswer:
		var m SubmitAnswer
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		switch {
		case m.QuestionID == "":
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "questionId"}
		case m.ParticipantID == "":
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "participantId"}
		case m.AnswerID == "" && m.Text == "":
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "answerId"}
		}
		return m, nil
	case TypeParticipantAnswered:
		var m ParticipantAnswered
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		if m.ParticipantID == "" {
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "participantId"}
		}
		return m, nil
	case TypeScoreUpdate:
		var m ScoreUpdate
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		if m.Scores == nil {
			return nil, &MissingFieldError{Frame: envelope.Type, Field: "scores"}
		}
		return m, nil
	case TypeHostNextQuestion:
		var m HostNextQuestion
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeQuizStarting:
		var m QuizStarting
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeQuizCompleted:
		var m QuizCompleted
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	case TypeError:
		var m Error
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, &UnknownTypeError{Tag: string(envelope.Type)}
	}
}

// Encode serializes an outbound frame. The Type field must already carry the
// frame's tag; constructors in this package guarantee that.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Outbound frame constructors. They pin the type tag so callers cannot send a
// frame with an empty or mismatched discriminator.

func NewJoin(sessionID, name, timestamp string) Join {
	return Join{Type: TypeJoin, SessionID: sessionID, Name: name, Timestamp: timestamp}
}

func NewLeave(sessionID, participantID string) Leave {
	return Leave{Type: TypeLeave, SessionID: sessionID, ParticipantID: participantID}
}

func NewParticipantLeft(sessionID, participantID string) ParticipantLeft {
	return ParticipantLeft{Type: TypeParticipantLeft, SessionID: sessionID, ParticipantID: participantID}
}

func NewHostLeft(sessionID string) HostLeft {
	return HostLeft{Type: TypeHostLeft, SessionID: sessionID}
}

func NewStartTimer(sessionID string) StartTimer {
	return StartTimer{Type: TypeStartTimer, SessionID: sessionID}
}

func NewStartQuestions(sessionID, quizID string) StartQuestions {
	return StartQuestions{Type: TypeStartQuestions, SessionID: sessionID, QuizID: quizID}
}

func NewHostNextQuestion(sessionID, quizID string) HostNextQuestion {
	return HostNextQuestion{Type: TypeHostNextQuestion, SessionID: sessionID, QuizID: quizID}
}

func NewQuizStarting(sessionID, message string) QuizStarting {
	return QuizStarting{Type: TypeQuizStarting, SessionID: sessionID, Message: message}
}

func NewSubmitAnswer(questionID, participantID string, timeRemaining int, isCorrect bool, answerID, text string) SubmitAnswer {
	return SubmitAnswer{
		Type:          TypeSubmitAnswer,
		QuestionID:    questionID,
		ParticipantID: participantID,
		TimeRemaining: timeRemaining,
		IsCorrect:     isCorrect,
		AnswerID:      answerID,
		Text:          text,
	}
}
