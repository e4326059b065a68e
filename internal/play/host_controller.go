package play

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"trivia-play/internal/protocol"
	"trivia-play/internal/transport/rest"
	"trivia-play/internal/transport/ws"
)

// HostController runs the host play screen: it seeds the roster from the
// REST snapshot, drives the start sequence, and funnels every event through
// the host state machine one at a time.
type HostController struct {
	*controller
	cfg        SessionConfig
	session    *HostSession
	rest       *rest.Client
	startDelay time.Duration
}

// NewHostController validates the session identity before anything connects;
// missing identity is a fatal initialization error.
func NewHostController(cfg SessionConfig, conn *ws.Conn, restClient *rest.Client, renderer Renderer, opts Options, log zerolog.Logger) (*HostController, error) {
	opts = opts.defaults()
	session, err := NewHostSession(cfg, log)
	if err != nil {
		return nil, err
	}
	return &HostController{
		controller: newController(conn, renderer, opts, session.log),
		cfg:        cfg,
		session:    session,
		rest:       restClient,
		startDelay: opts.StartDelay,
	}, nil
}

// Proceed is the host's manual advance action. Safe to call from any
// goroutine; the event loop executes it.
func (h *HostController) Proceed() {
	h.post(func() {
		eff, err := h.session.Proceed()
		if err != nil {
			h.log.Debug().Err(err).Msg("proceed rejected")
			return
		}
		h.apply(eff)
	})
}

// Run drives the session until completion, error, connection loss, or
// context cancellation. The socket is closed on every exit path.
func (h *HostController) Run(ctx context.Context) error {
	if h.rest != nil {
		snapshot, err := h.rest.SessionToQuiz(ctx, h.cfg.SessionPin)
		if err != nil {
			// Non-fatal: JOIN frames rebuild the roster.
			h.log.Warn().Err(err).Msg("roster snapshot unavailable")
		} else {
			h.session.SeedRoster(snapshot.Participants)
		}
	}

	defer func() {
		h.teardown(h.session.Phase().Terminal(), protocol.NewHostLeft(h.cfg.SessionPin))
	}()

	h.render(h.session.Snapshot())
	startTimer := h.countdown.clock.After(h.startDelay)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-startTimer:
			startTimer = nil
			h.apply(h.session.StartSequence())
			h.render(h.session.Snapshot())

		case <-h.countdown.C():
			h.apply(h.session.CountdownTick())
			h.render(h.session.Snapshot())

		case <-h.qtimer.C():
			h.apply(h.session.QuestionTick())
			h.render(h.session.Snapshot())

		case fn := <-h.actions:
			fn()
			h.render(h.session.Snapshot())

		case data, ok := <-h.conn.Frames():
			if !ok {
				if h.session.Phase().Terminal() || h.conn.Intentional() {
					return nil
				}
				return ErrConnectionLost
			}
			msg, ok := h.decode(data)
			if !ok {
				continue
			}
			if terminal := h.apply(h.session.HandleFrame(msg)); terminal {
				h.render(h.session.Snapshot())
				return nil
			}
			h.render(h.session.Snapshot())
		}
	}
}

// Session exposes the state machine for inspection in tests.
func (h *HostController) Session() *HostSession { return h.session }
