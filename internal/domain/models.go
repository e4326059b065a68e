package domain

import "strings"

// QuestionType discriminates the answer set of a question.
type QuestionType string

const (
	MultipleChoice QuestionType = "MULTIPLE_CHOICE"
	TrueFalse      QuestionType = "TRUE_FALSE"
	Text           QuestionType = "TEXT"
)

// Valid reports whether t is one of the three known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, TrueFalse, Text:
		return true
	}
	return false
}

// Answer is one entry of a question's answer set. For TEXT questions the single
// answer carries the accepted literal in AnswerText.
type Answer struct {
	ID          string `json:"id"`
	AnswerText  string `json:"answerText"`
	AnswerOrder int    `json:"answerOrder"`
	IsCorrect   bool   `json:"isCorrect"`
}

// Question is the per-question view delivered by the server. It is replaced
// wholesale on every FIRST_QUESTION/NEXT_QUESTION frame.
type Question struct {
	ID             string       `json:"questionId"`
	Order          int          `json:"questionOrder"` // 1-based
	TotalQuestions int          `json:"totalQuestions,omitempty"`
	Text           string       `json:"questionText"`
	Type           QuestionType `json:"questionType"`
	Points         int          `json:"points"`
	TimeLimit      int          `json:"timeLimit"` // seconds
	Answers        []Answer     `json:"answers"`
}

// CorrectAnswer returns the answer marked correct, or nil if the set is malformed.
func (q *Question) CorrectAnswer() *Answer {
	for i := range q.Answers {
		if q.Answers[i].IsCorrect {
			return &q.Answers[i]
		}
	}
	return nil
}

// Validate checks the structural invariants of the answer set: exactly one
// correct answer, and a shape consistent with the question type.
func (q *Question) Validate() error {
	if !q.Type.Valid() {
		return ErrUnknownQuestionType
	}
	correct := 0
	for _, a := range q.Answers {
		if a.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return ErrMalformedAnswerSet
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Answers) < 2 {
			return ErrMalformedAnswerSet
		}
	case TrueFalse:
		if len(q.Answers) != 2 {
			return ErrMalformedAnswerSet
		}
	case Text:
		if len(q.Answers) != 1 {
			return ErrMalformedAnswerSet
		}
	}
	return nil
}

// Selection is a participant's chosen answer before submission: an option id
// for choice questions, or free text for TEXT questions.
type Selection struct {
	AnswerID string
	Text     string
}

// IsZero reports whether nothing has been selected yet.
func (s Selection) IsZero() bool {
	return s.AnswerID == "" && strings.TrimSpace(s.Text) == ""
}

// Judge computes the advisory local correctness of a selection: trimmed,
// case-insensitive equality for TEXT questions, option identity otherwise.
// The server's later SCORE_UPDATE remains the authority for the scoreboard;
// this result is only used for immediate feedback and the submission claim.
func Judge(q *Question, sel Selection) bool {
	correct := q.CorrectAnswer()
	if correct == nil {
		return false
	}
	if q.Type == Text {
		got := strings.ToLower(strings.TrimSpace(sel.Text))
		want := strings.ToLower(strings.TrimSpace(correct.AnswerText))
		return got != "" && got == want
	}
	return sel.AnswerID != "" && sel.AnswerID == correct.ID
}

// Participant is a roster member as seen by a controller. HasAnswered and
// IsCorrect are reset on every question; Score is only ever overwritten by
// the server's SCORE_UPDATE broadcast. JoinedLate marks a member who arrived
// while a question was in flight; it clears when they answer or at the next
// question reset.
type Participant struct {
	ID          string `json:"participantId"`
	Name        string `json:"participantName"`
	HasAnswered bool   `json:"hasAnswered"`
	IsCorrect   bool   `json:"isCorrect"`
	JoinedLate  bool   `json:"-"`
	Score       int    `json:"score"`
}

// Quiz is the lobby-visible summary fetched from the session snapshot endpoint.
type Quiz struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}
