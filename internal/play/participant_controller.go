package play

import (
	"context"

	"github.com/rs/zerolog"

	"trivia-play/internal/protocol"
	"trivia-play/internal/transport/ws"
)

// ParticipantController runs the participant play screen. It waits passively
// for the host's phase messages and owns the single answer submission per
// question.
type ParticipantController struct {
	*controller
	cfg     SessionConfig
	session *ParticipantSession
}

func NewParticipantController(cfg SessionConfig, conn *ws.Conn, renderer Renderer, opts Options, log zerolog.Logger) (*ParticipantController, error) {
	opts = opts.defaults()
	session, err := NewParticipantSession(cfg, log)
	if err != nil {
		return nil, err
	}
	return &ParticipantController{
		controller: newController(conn, renderer, opts, session.log),
		cfg:        cfg,
		session:    session,
	}, nil
}

// Select records an option choice for the current question.
func (p *ParticipantController) Select(answerID string) {
	p.post(func() {
		if err := p.session.Select(answerID); err != nil {
			p.log.Debug().Err(err).Msg("selection rejected")
		}
	})
}

// SelectText records a free-text answer for the current question.
func (p *ParticipantController) SelectText(text string) {
	p.post(func() {
		if err := p.session.SelectText(text); err != nil {
			p.log.Debug().Err(err).Msg("selection rejected")
		}
	})
}

// Answer resolves terminal input against the current question, records the
// selection, and submits it in one event-loop turn.
func (p *ParticipantController) Answer(input string) {
	p.post(func() {
		sel, err := p.session.ResolveSelection(input)
		if err != nil {
			p.log.Debug().Err(err).Str("input", input).Msg("answer rejected")
			return
		}
		if sel.AnswerID != "" {
			err = p.session.Select(sel.AnswerID)
		} else {
			err = p.session.SelectText(sel.Text)
		}
		if err != nil {
			p.log.Debug().Err(err).Msg("selection rejected")
			return
		}
		eff, err := p.session.Submit()
		if err != nil {
			p.log.Debug().Err(err).Msg("submit rejected")
			return
		}
		p.apply(eff)
	})
}

// Submit sends the answer claim; empty selections and repeat submissions are
// rejected locally and never reach the wire.
func (p *ParticipantController) Submit() {
	p.post(func() {
		eff, err := p.session.Submit()
		if err != nil {
			p.log.Debug().Err(err).Msg("submit rejected")
			return
		}
		p.apply(eff)
	})
}

// Run drives the session until a terminal state, connection loss, or context
// cancellation. The socket is closed on every exit path.
func (p *ParticipantController) Run(ctx context.Context) error {
	defer func() {
		p.teardown(p.session.Phase().Terminal(), protocol.NewParticipantLeft(p.cfg.SessionPin, p.cfg.ParticipantID))
	}()

	p.render(p.session.Snapshot())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-p.countdown.C():
			p.apply(p.session.CountdownTick())
			p.render(p.session.Snapshot())

		case <-p.qtimer.C():
			p.apply(p.session.QuestionTick())
			p.render(p.session.Snapshot())

		case fn := <-p.actions:
			fn()
			p.render(p.session.Snapshot())

		case data, ok := <-p.conn.Frames():
			if !ok {
				if p.session.Phase().Terminal() || p.conn.Intentional() {
					return nil
				}
				return ErrConnectionLost
			}
			msg, ok := p.decode(data)
			if !ok {
				continue
			}
			if terminal := p.apply(p.session.HandleFrame(msg)); terminal {
				p.render(p.session.Snapshot())
				return nil
			}
			p.render(p.session.Snapshot())
		}
	}
}

// Session exposes the state machine for inspection in tests.
func (p *ParticipantController) Session() *ParticipantSession { return p.session }
