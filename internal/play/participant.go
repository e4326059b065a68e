package play

import (
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"trivia-play/internal/domain"
	"trivia-play/internal/protocol"
)

// submission is the at-most-once answer record for the current question. It
// is created at submit time, sent once, and never mutated.
type submission struct {
	selection     domain.Selection
	timeRemaining int
	isCorrect     bool
}

// ParticipantSession is the participant-side state machine: it waits for the
// host's timer signal, receives questions, accepts exactly one answer per
// question, and shows locally judged feedback immediately.
type ParticipantSession struct {
	cfg SessionConfig
	log zerolog.Logger

	phase     Phase
	countdown int
	question  *domain.Question
	remaining int
	selection domain.Selection
	submitted *submission
	message   string
}

func NewParticipantSession(cfg SessionConfig, log zerolog.Logger) (*ParticipantSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ParticipantSession{
		cfg:   cfg,
		log:   log.With().Str("role", "participant").Str("session", cfg.SessionPin).Str("participant", cfg.ParticipantID).Logger(),
		phase: PhaseConnecting,
	}, nil
}

func (s *ParticipantSession) Phase() Phase { return s.phase }

// CountdownTick advances the pre-quiz countdown. Unlike the host, reaching
// zero only dismisses the countdown; the first question arrives from the
// server on the host's schedule.
func (s *ParticipantSession) CountdownTick() Effects {
	if s.phase != PhaseCountdown {
		return Effects{}
	}
	if s.countdown > 0 {
		s.countdown--
		return Effects{}
	}
	s.phase = PhaseAwaitingQuestion
	return Effects{StopCountdown: true}
}

// QuestionTick advances the per-question timer. Expiry auto-submits whatever
// is selected; with nothing selected the question simply locks, since an
// empty claim has nothing to carry.
func (s *ParticipantSession) QuestionTick() Effects {
	if s.phase != PhaseQuestionActive || s.remaining <= 0 {
		return Effects{}
	}
	s.remaining--
	if s.remaining > 0 {
		return Effects{}
	}
	if s.selection.IsZero() {
		s.phase = PhaseAnswerSubmitted
		s.submitted = &submission{timeRemaining: 0}
		return Effects{StopQuestionTimer: true}
	}
	eff, err := s.Submit()
	if err != nil {
		// Already submitted; expiry after a manual submit is a no-op.
		return Effects{StopQuestionTimer: true}
	}
	return eff
}

// Select records the chosen option for a choice question. Selection is
// rejected once the answer is locked in.
func (s *ParticipantSession) Select(answerID string) error {
	if err := s.acceptingInput(); err != nil {
		return err
	}
	s.selection = domain.Selection{AnswerID: answerID}
	return nil
}

// SelectText records the free-text answer for a TEXT question.
func (s *ParticipantSession) SelectText(text string) error {
	if err := s.acceptingInput(); err != nil {
		return err
	}
	s.selection = domain.Selection{Text: text}
	return nil
}

func (s *ParticipantSession) acceptingInput() error {
	if s.phase.Terminal() {
		return domain.ErrSessionOver
	}
	if s.phase != PhaseQuestionActive || s.question == nil {
		return domain.ErrNoQuestion
	}
	if s.submitted != nil {
		return domain.ErrAlreadySubmitted
	}
	return nil
}

// ResolveSelection maps terminal input to a selection for the current
// question: an option letter (a, b, ...) or an option id for choice
// questions, free text for TEXT questions.
func (s *ParticipantSession) ResolveSelection(input string) (domain.Selection, error) {
	if err := s.acceptingInput(); err != nil {
		return domain.Selection{}, err
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return domain.Selection{}, domain.ErrNoSelection
	}
	if s.question.Type == domain.Text {
		return domain.Selection{Text: trimmed}, nil
	}

	answers := make([]domain.Answer, len(s.question.Answers))
	copy(answers, s.question.Answers)
	sort.SliceStable(answers, func(i, j int) bool {
		return answers[i].AnswerOrder < answers[j].AnswerOrder
	})
	if len(trimmed) == 1 {
		idx := int(unicode.ToLower(rune(trimmed[0])) - 'a')
		if idx >= 0 && idx < len(answers) {
			return domain.Selection{AnswerID: answers[idx].ID}, nil
		}
	}
	for _, a := range answers {
		if a.ID == trimmed {
			return domain.Selection{AnswerID: a.ID}, nil
		}
	}
	return domain.Selection{}, domain.ErrNoSelection
}

// Submit judges the current selection locally, sends the claim exactly once,
// and locks further input for this question.
func (s *ParticipantSession) Submit() (Effects, error) {
	if err := s.acceptingInput(); err != nil {
		return Effects{}, err
	}
	if s.selection.IsZero() {
		return Effects{}, domain.ErrNoSelection
	}

	correct := domain.Judge(s.question, s.selection)
	s.submitted = &submission{
		selection:     s.selection,
		timeRemaining: s.remaining,
		isCorrect:     correct,
	}
	s.phase = PhaseAnswerSubmitted

	eff := Effects{StopQuestionTimer: true}
	eff.send(protocol.NewSubmitAnswer(
		s.question.ID,
		s.cfg.ParticipantID,
		s.submitted.timeRemaining,
		correct,
		s.selection.AnswerID,
		s.selection.Text,
	))
	return eff, nil
}

// HandleFrame routes one inbound frame; terminal phases drop everything.
func (s *ParticipantSession) HandleFrame(msg protocol.Message) Effects {
	if s.phase.Terminal() {
		return Effects{}
	}
	switch m := msg.(type) {
	case protocol.StartTimer:
		return s.startCountdown()
	case protocol.StartQuestions:
		// Informational; the first question follows on the same connection.
		return Effects{}
	case protocol.Question:
		return s.nextQuestion(m.Question)
	case protocol.HostLeft:
		s.phase = PhaseErrored
		s.message = "The host has left the session"
		return Effects{StopCountdown: true, StopQuestionTimer: true, Terminal: true}
	case protocol.QuizCompleted:
		s.phase = PhaseCompleted
		s.message = m.Message
		return Effects{StopCountdown: true, StopQuestionTimer: true, Terminal: true}
	case protocol.Error:
		s.phase = PhaseErrored
		s.message = m.Message
		return Effects{StopCountdown: true, StopQuestionTimer: true, Terminal: true}
	default:
		s.log.Debug().Type("frame", msg).Msg("frame not handled by participant")
		return Effects{}
	}
}

func (s *ParticipantSession) startCountdown() Effects {
	if s.phase != PhaseConnecting {
		return Effects{}
	}
	s.phase = PhaseCountdown
	s.countdown = CountdownStart
	return Effects{StartCountdown: true}
}

func (s *ParticipantSession) nextQuestion(q domain.Question) Effects {
	if err := q.Validate(); err != nil {
		s.log.Warn().Err(err).Str("question", q.ID).Msg("dropping malformed question")
		return Effects{}
	}
	s.question = &q
	s.remaining = q.TimeLimit
	s.selection = domain.Selection{}
	s.submitted = nil
	s.phase = PhaseQuestionActive
	return Effects{StopCountdown: true, StopQuestionTimer: true, StartQuestionTimer: true}
}

// Snapshot returns the render view of the current state.
func (s *ParticipantSession) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:      s.phase,
		Countdown:  s.countdown,
		Question:   s.question,
		Remaining:  s.remaining,
		TimerPhase: timerPhase(s.remaining),
		Selection:  s.selection,
		Message:    s.message,
	}
	if s.submitted != nil {
		snap.Submitted = true
		snap.LocalCorrect = s.submitted.isCorrect
	}
	return snap
}
