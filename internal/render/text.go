// Package render turns session snapshots into terminal output. It holds no
// business logic: a snapshot in, lines out, and rendering the same snapshot
// twice prints nothing the second time.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"trivia-play/internal/domain"
	"trivia-play/internal/lobby"
	"trivia-play/internal/play"
)

// Text writes plain-text screens to w. It implements play.Renderer and
// lobby.Renderer.
type Text struct {
	mu   sync.Mutex
	w    io.Writer
	last string
}

func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

func (t *Text) write(screen string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if screen == t.last {
		return
	}
	t.last = screen
	fmt.Fprint(t.w, screen)
}

// Render draws one play-screen snapshot.
func (t *Text) Render(snap play.Snapshot) {
	var b strings.Builder

	switch snap.Phase {
	case play.PhaseConnecting:
		b.WriteString("Connecting...\n")
	case play.PhaseCountdown:
		fmt.Fprintf(&b, "Quiz starting in %d...\n", snap.Countdown)
	case play.PhaseAwaitingQuestion:
		b.WriteString("Waiting for the first question...\n")
	case play.PhaseQuestionActive, play.PhaseQuestionLocked, play.PhaseAnswerSubmitted:
		t.question(&b, snap)
	case play.PhaseCompleted:
		fmt.Fprintf(&b, "\nQuiz completed! %s\n", snap.Message)
		t.roster(&b, snap.Roster)
	case play.PhaseErrored:
		fmt.Fprintf(&b, "\nSession ended: %s\n", snap.Message)
	}

	t.write(b.String())
}

func (t *Text) question(b *strings.Builder, snap play.Snapshot) {
	q := snap.Question
	if q == nil {
		return
	}

	fmt.Fprintf(b, "\nQuestion %d", q.Order)
	if q.TotalQuestions > 0 {
		fmt.Fprintf(b, "/%d", q.TotalQuestions)
	}
	fmt.Fprintf(b, " (%d points): %s\n", q.Points, q.Text)

	if q.Type != domain.Text {
		for i, a := range sortedAnswers(q.Answers) {
			marker := " "
			if snap.Revealed && a.IsCorrect {
				marker = "*"
			}
			if a.ID == snap.Selection.AnswerID {
				marker = ">"
			}
			fmt.Fprintf(b, "  %s %c) %s\n", marker, 'A'+i, a.AnswerText)
		}
	}

	fmt.Fprintf(b, "  time left: %ds%s\n", snap.Remaining, timerSuffix(snap.TimerPhase))

	if snap.Submitted {
		if snap.LocalCorrect {
			fmt.Fprintf(b, "  Correct! (+%d points)\n", q.Points)
		} else if correct := q.CorrectAnswer(); correct != nil {
			fmt.Fprintf(b, "  Incorrect. The answer was: %s\n", correct.AnswerText)
		}
	}
	if snap.Revealed {
		if correct := q.CorrectAnswer(); correct != nil {
			fmt.Fprintf(b, "  Correct answer: %s\n", correct.AnswerText)
		}
	}
	if snap.CanProceed {
		b.WriteString("  [press enter for the next question]\n")
	}
	if len(snap.Roster) > 0 {
		if snap.Phase == play.PhaseQuestionActive {
			fmt.Fprintf(b, "  answered: %d/%d\n", snap.Answered, len(snap.Roster))
		}
		t.roster(b, snap.Roster)
	}
}

func (t *Text) roster(b *strings.Builder, roster []domain.Participant) {
	b.WriteString("  --- scoreboard ---\n")
	for rank, p := range roster {
		status := "thinking"
		switch {
		case p.JoinedLate:
			status = "joined late"
		case p.HasAnswered && p.IsCorrect:
			status = "correct"
		case p.HasAnswered:
			status = "incorrect"
		}
		fmt.Fprintf(b, "  %d. %s - %d pts (%s)\n", rank+1, p.Name, p.Score, status)
	}
}

// RenderLobby draws one lobby snapshot.
func (t *Text) RenderLobby(snap lobby.Snapshot) {
	var b strings.Builder

	switch {
	case snap.Void:
		b.WriteString("The session is no longer available.\n")
	case snap.Started:
		b.WriteString("The quiz is starting!\n")
	default:
		if snap.Quiz.Title != "" {
			fmt.Fprintf(&b, "Lobby: %s\n", snap.Quiz.Title)
		} else {
			b.WriteString("Lobby\n")
		}
		fmt.Fprintf(&b, "  %d participant(s):\n", len(snap.Roster))
		for _, p := range snap.Roster {
			self := ""
			if p.ID == snap.SelfID {
				self = " (you)"
			}
			fmt.Fprintf(&b, "  - %s%s\n", p.Name, self)
		}
	}

	t.write(b.String())
}

func timerSuffix(phase play.TimerPhase) string {
	switch phase {
	case play.TimerDanger:
		return " !!"
	case play.TimerWarning:
		return " !"
	}
	return ""
}

func sortedAnswers(answers []domain.Answer) []domain.Answer {
	out := make([]domain.Answer, len(answers))
	copy(out, answers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnswerOrder < out[j].AnswerOrder
	})
	return out
}
