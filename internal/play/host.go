package play

import (
	"github.com/rs/zerolog"

	"trivia-play/internal/domain"
	"trivia-play/internal/protocol"
)

// HostSession is the host-side state machine. The host owns question pacing:
// it starts the pre-quiz countdown, observes the whole roster, locks each
// question when time runs out or everyone has answered, and advances through
// an explicit proceed gate.
type HostSession struct {
	cfg SessionConfig
	log zerolog.Logger

	phase      Phase
	countdown  int
	roster     *Roster
	question   *domain.Question
	remaining  int
	revealed   bool
	canProceed bool
	message    string
}

func NewHostSession(cfg SessionConfig, log zerolog.Logger) (*HostSession, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HostSession{
		cfg:    cfg,
		log:    log.With().Str("role", "host").Str("session", cfg.SessionPin).Logger(),
		phase:  PhaseConnecting,
		roster: NewRoster(),
	}, nil
}

func (s *HostSession) Phase() Phase    { return s.phase }
func (s *HostSession) Roster() *Roster { return s.roster }

// SeedRoster installs the initial REST snapshot. JOIN frames processed later
// overwrite matching entries (last writer wins).
func (s *HostSession) SeedRoster(participants []domain.Participant) {
	for _, p := range participants {
		s.roster.Upsert(p)
	}
}

// StartSequence fires after the fixed post-open delay: announce the timer to
// participants and begin the local countdown.
func (s *HostSession) StartSequence() Effects {
	if s.phase != PhaseConnecting {
		return Effects{}
	}
	s.phase = PhaseCountdown
	s.countdown = CountdownStart
	eff := Effects{StartCountdown: true}
	eff.send(protocol.NewStartTimer(s.cfg.SessionPin))
	return eff
}

// CountdownTick advances the pre-quiz countdown by one second. Reaching the
// end dismisses the countdown and requests the first question.
func (s *HostSession) CountdownTick() Effects {
	if s.phase != PhaseCountdown {
		return Effects{}
	}
	if s.countdown > 0 {
		s.countdown--
		return Effects{}
	}
	s.phase = PhaseAwaitingQuestion
	eff := Effects{StopCountdown: true}
	eff.send(protocol.NewStartQuestions(s.cfg.SessionPin, s.cfg.QuizID))
	return eff
}

// QuestionTick advances the per-question timer by one second. The timer stops
// at exactly zero and a second expiry tick is a no-op.
func (s *HostSession) QuestionTick() Effects {
	if s.phase != PhaseQuestionActive || s.remaining <= 0 {
		return Effects{}
	}
	s.remaining--
	if s.remaining == 0 {
		return s.lock()
	}
	return Effects{}
}

// Proceed is the manual advance gate. It is enabled only once the current
// question has locked; pressing it again before the next question is a no-op.
func (s *HostSession) Proceed() (Effects, error) {
	if s.phase.Terminal() {
		return Effects{}, domain.ErrSessionOver
	}
	if !s.canProceed {
		return Effects{}, domain.ErrNoQuestion
	}
	s.canProceed = false
	eff := Effects{StopQuestionTimer: true}
	eff.send(protocol.NewHostNextQuestion(s.cfg.SessionPin, s.cfg.QuizID))
	return eff, nil
}

// HandleFrame routes one inbound frame. Frames in a terminal phase are
// dropped; unknown-to-this-role frames are logged and ignored.
func (s *HostSession) HandleFrame(msg protocol.Message) Effects {
	if s.phase.Terminal() {
		return Effects{}
	}
	switch m := msg.(type) {
	case protocol.Join:
		p := domain.Participant{ID: m.ParticipantID, Name: m.Name}
		// A joiner landing mid-question is not waited on for the question
		// already in flight; they answer from the next one.
		if s.phase == PhaseQuestionActive {
			p.HasAnswered = true
			p.JoinedLate = true
		}
		s.roster.Upsert(p)
		return Effects{}
	case protocol.ParticipantLeft:
		return s.participantLeft(m.ParticipantID)
	case protocol.Leave:
		return s.participantLeft(m.ParticipantID)
	case protocol.Question:
		return s.nextQuestion(m.Question)
	case protocol.ParticipantAnswered:
		return s.participantAnswered(m)
	case protocol.ScoreUpdate:
		s.roster.ApplyScores(m.Scores)
		return Effects{}
	case protocol.QuizCompleted:
		s.phase = PhaseCompleted
		s.message = m.Message
		return Effects{StopCountdown: true, StopQuestionTimer: true, Terminal: true}
	case protocol.Error:
		s.phase = PhaseErrored
		s.message = m.Message
		return Effects{StopCountdown: true, StopQuestionTimer: true, Terminal: true}
	default:
		s.log.Debug().Type("frame", msg).Msg("frame not handled by host")
		return Effects{}
	}
}

func (s *HostSession) nextQuestion(q domain.Question) Effects {
	if err := q.Validate(); err != nil {
		s.log.Warn().Err(err).Str("question", q.ID).Msg("dropping malformed question")
		return Effects{}
	}
	s.question = &q
	s.remaining = q.TimeLimit
	s.revealed = false
	s.canProceed = false
	s.roster.ResetAnswers()
	s.phase = PhaseQuestionActive
	return Effects{StopCountdown: true, StopQuestionTimer: true, StartQuestionTimer: true}
}

func (s *HostSession) participantAnswered(m protocol.ParticipantAnswered) Effects {
	if !s.roster.MarkAnswered(m.ParticipantID, m.IsCorrect) {
		s.log.Debug().Str("participant", m.ParticipantID).Msg("answer from unknown participant")
		return Effects{}
	}
	return s.checkLock()
}

func (s *HostSession) participantLeft(id string) Effects {
	s.roster.Remove(id)
	// A departure can complete the all-answered condition for the remaining
	// roster, so the lock check runs here as well.
	return s.checkLock()
}

// checkLock applies the auto-lock rule: all current members answered, or time
// expired. Locking is monotonic: once locked the question stays locked until
// the next question frame.
func (s *HostSession) checkLock() Effects {
	if s.phase != PhaseQuestionActive {
		return Effects{}
	}
	if s.roster.AllAnswered() || s.remaining == 0 {
		return s.lock()
	}
	return Effects{}
}

func (s *HostSession) lock() Effects {
	s.phase = PhaseQuestionLocked
	s.revealed = true
	s.canProceed = true
	return Effects{StopQuestionTimer: true}
}

// Snapshot returns the render view of the current state.
func (s *HostSession) Snapshot() Snapshot {
	return Snapshot{
		Phase:      s.phase,
		Countdown:  s.countdown,
		Question:   s.question,
		Remaining:  s.remaining,
		TimerPhase: timerPhase(s.remaining),
		Roster:     s.roster.Sorted(),
		Answered:   s.roster.AnsweredCount(),
		CanProceed: s.canProceed,
		Revealed:   s.revealed,
		Message:    s.message,
	}
}
