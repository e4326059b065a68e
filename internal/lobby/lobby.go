// Package lobby implements the pre-game screens: participants join a session
// by pin and wait together until the host starts live play, at which point
// everyone hands their identity off to the play screens.
package lobby

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"trivia-play/internal/domain"
	"trivia-play/internal/play"
	"trivia-play/internal/protocol"
)

// Effects is the lobby counterpart of play.Effects: frames to send plus an
// optional hand-off to the play screen.
type Effects struct {
	Outbound []protocol.Message
	// Handoff carries the play-screen identity once the session starts (or,
	// for a departing/voided lobby, stays nil).
	Handoff *play.SessionConfig
	// Done ends the lobby loop: hand-off, own leave, or voided session.
	Done bool
}

// Snapshot is the render view of a lobby.
type Snapshot struct {
	Quiz    domain.Quiz
	Roster  []domain.Participant
	Joined  bool
	SelfID  string
	Void    bool
	Started bool
}

// ParticipantLobby is the join screen: fetch the session snapshot, announce
// yourself, mirror the roster, and wait for QUIZ_STARTING.
type ParticipantLobby struct {
	pin  string
	log  zerolog.Logger
	quiz domain.Quiz

	roster      *play.Roster
	pendingName string
	selfID      string
	joined      bool
	void        bool
	started     bool
}

func NewParticipantLobby(pin string, log zerolog.Logger) *ParticipantLobby {
	return &ParticipantLobby{
		pin:    pin,
		log:    log.With().Str("lobby", pin).Logger(),
		roster: play.NewRoster(),
	}
}

// Seed installs the REST snapshot: quiz summary plus the participants already
// in the lobby. JOIN frames arriving later overwrite matching entries.
func (l *ParticipantLobby) Seed(quiz domain.Quiz, participants []domain.Participant) {
	l.quiz = quiz
	for _, p := range participants {
		l.roster.Upsert(p)
	}
}

func (l *ParticipantLobby) Joined() bool { return l.joined }

// Join announces this client. The name is validated locally before anything
// is sent; the server's JOIN echo carrying our name assigns the id.
func (l *ParticipantLobby) Join(name string) (Effects, error) {
	if l.void || l.started {
		return Effects{}, domain.ErrSessionOver
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Effects{}, domain.ErrEmptyName
	}
	if l.joined {
		return Effects{}, nil
	}
	l.pendingName = trimmed
	eff := Effects{}
	eff.Outbound = append(eff.Outbound, protocol.NewJoin(l.pin, trimmed, time.Now().UTC().Format(time.RFC3339)))
	return eff, nil
}

// Leave withdraws from the lobby and ends the loop.
func (l *ParticipantLobby) Leave() (Effects, error) {
	if !l.joined || l.selfID == "" {
		return Effects{}, domain.ErrNotJoined
	}
	eff := Effects{Done: true}
	eff.Outbound = append(eff.Outbound, protocol.NewLeave(l.pin, l.selfID))
	l.joined = false
	l.selfID = ""
	return eff, nil
}

// HandleFrame routes one inbound lobby frame.
func (l *ParticipantLobby) HandleFrame(msg protocol.Message) Effects {
	if l.void || l.started {
		return Effects{}
	}
	switch m := msg.(type) {
	case protocol.Join:
		l.roster.Upsert(domain.Participant{ID: m.ParticipantID, Name: m.Name})
		// The server assigns our id by echoing the JOIN with our name.
		if !l.joined && l.pendingName != "" && m.Name == l.pendingName {
			l.selfID = m.ParticipantID
			l.joined = true
		}
		return Effects{}
	case protocol.Leave:
		l.roster.Remove(m.ParticipantID)
		if m.ParticipantID == l.selfID {
			l.selfID = ""
			l.joined = false
		}
		return Effects{}
	case protocol.ParticipantLeft:
		l.roster.Remove(m.ParticipantID)
		return Effects{}
	case protocol.HostLeft:
		l.void = true
		return Effects{Done: true}
	case protocol.QuizStarting:
		if !l.joined {
			// Spectators with no identity have nothing to carry over.
			l.void = true
			return Effects{Done: true}
		}
		l.started = true
		return Effects{
			Done: true,
			Handoff: &play.SessionConfig{
				SessionPin:    l.pin,
				ParticipantID: l.selfID,
				QuizID:        l.quiz.ID,
			},
		}
	default:
		l.log.Debug().Type("frame", msg).Msg("frame not handled by lobby")
		return Effects{}
	}
}

// Snapshot returns the render view.
func (l *ParticipantLobby) Snapshot() Snapshot {
	return Snapshot{
		Quiz:    l.quiz,
		Roster:  l.roster.Sorted(),
		Joined:  l.joined,
		SelfID:  l.selfID,
		Void:    l.void,
		Started: l.started,
	}
}

// HostLobby is the start screen: the host watches the roster fill up and
// fires QUIZ_STARTING when ready, handing off to the host play screen.
type HostLobby struct {
	pin    string
	quizID string
	log    zerolog.Logger
	quiz   domain.Quiz

	roster  *play.Roster
	void    bool
	started bool
}

func NewHostLobby(pin, quizID string, log zerolog.Logger) *HostLobby {
	return &HostLobby{
		pin:    pin,
		quizID: quizID,
		log:    log.With().Str("lobby", pin).Str("role", "host").Logger(),
		roster: play.NewRoster(),
	}
}

// Seed installs the REST snapshot.
func (l *HostLobby) Seed(quiz domain.Quiz, participants []domain.Participant) {
	l.quiz = quiz
	if l.quizID == "" {
		l.quizID = quiz.ID
	}
	for _, p := range participants {
		l.roster.Upsert(p)
	}
}

func (l *HostLobby) ParticipantCount() int { return l.roster.Len() }

// Start broadcasts QUIZ_STARTING and hands off to the host play screen. The
// close that follows is intentional: no HOST_LEFT is sent.
func (l *HostLobby) Start() (Effects, error) {
	if l.void {
		return Effects{}, domain.ErrSessionOver
	}
	if l.started {
		return Effects{}, nil
	}
	l.started = true
	eff := Effects{
		Done: true,
		Handoff: &play.SessionConfig{
			SessionPin:    l.pin,
			ParticipantID: play.HostParticipantID,
			QuizID:        l.quizID,
		},
	}
	eff.Outbound = append(eff.Outbound, protocol.NewQuizStarting(l.pin, "The host has started the quiz"))
	return eff, nil
}

// HandleFrame routes one inbound lobby frame on the host side.
func (l *HostLobby) HandleFrame(msg protocol.Message) Effects {
	if l.void || l.started {
		return Effects{}
	}
	switch m := msg.(type) {
	case protocol.Join:
		l.roster.Upsert(domain.Participant{ID: m.ParticipantID, Name: m.Name})
		return Effects{}
	case protocol.Leave:
		l.roster.Remove(m.ParticipantID)
		return Effects{}
	case protocol.ParticipantLeft:
		l.roster.Remove(m.ParticipantID)
		return Effects{}
	default:
		l.log.Debug().Type("frame", msg).Msg("frame not handled by host lobby")
		return Effects{}
	}
}

// Snapshot returns the render view.
func (l *HostLobby) Snapshot() Snapshot {
	return Snapshot{
		Quiz:    l.quiz,
		Roster:  l.roster.Sorted(),
		Joined:  true,
		Void:    l.void,
		Started: l.started,
	}
}
