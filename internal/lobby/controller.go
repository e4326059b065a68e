package lobby

import (
	"context"

	"github.com/rs/zerolog"

	"trivia-play/internal/play"
	"trivia-play/internal/protocol"
	"trivia-play/internal/transport/ws"
)

// machine is either lobby side; the controller loop is identical for both.
type machine interface {
	HandleFrame(protocol.Message) Effects
	Snapshot() Snapshot
}

// Renderer consumes lobby snapshots; same contract as the play renderer.
type Renderer interface {
	RenderLobby(Snapshot)
}

// Controller serializes lobby frames and user actions into single-threaded
// handler execution, and surfaces the hand-off identity when the quiz starts.
type Controller struct {
	log      zerolog.Logger
	conn     *ws.Conn
	m        machine
	renderer Renderer

	// departure builds the best-effort frame sent when the lobby is abandoned
	// without a hand-off; nil means nothing to announce.
	departure func() protocol.Message

	actions chan func() Effects
	done    chan struct{}
	handoff *play.SessionConfig
}

func NewController(conn *ws.Conn, m machine, renderer Renderer, departure func() protocol.Message, log zerolog.Logger) *Controller {
	return &Controller{
		log:       log,
		conn:      conn,
		m:         m,
		renderer:  renderer,
		departure: departure,
		actions:   make(chan func() Effects, 16),
		done:      make(chan struct{}),
	}
}

// Post hands a user action (join, leave, start) to the event loop.
func (c *Controller) Post(fn func() Effects) {
	select {
	case c.actions <- fn:
	case <-c.done:
	}
}

// Run drives the lobby until hand-off, departure, void, or cancellation. It
// returns the play-screen identity when the quiz started, nil otherwise.
func (c *Controller) Run(ctx context.Context) (*play.SessionConfig, error) {
	defer func() {
		defer close(c.done)
		if c.handoff == nil && !c.conn.Intentional() && c.departure != nil {
			if msg := c.departure(); msg != nil {
				c.conn.Send(msg)
			}
		}
		if err := c.conn.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close lobby socket")
		}
	}()

	c.render()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case fn := <-c.actions:
			if done := c.apply(fn()); done {
				return c.handoff, nil
			}
			c.render()

		case data, ok := <-c.conn.Frames():
			if !ok {
				if c.conn.Intentional() {
					return nil, nil
				}
				return nil, play.ErrConnectionLost
			}
			msg, err := protocol.Decode(data)
			if err != nil {
				c.log.Warn().Err(err).Str("frame", string(data)).Msg("dropping frame")
				continue
			}
			if done := c.apply(c.m.HandleFrame(msg)); done {
				return c.handoff, nil
			}
			c.render()
		}
	}
}

func (c *Controller) apply(eff Effects) bool {
	for _, msg := range eff.Outbound {
		c.conn.Send(msg)
	}
	if eff.Handoff != nil {
		c.handoff = eff.Handoff
		// The close that follows is our own transition to the play screen;
		// no departure notice belongs on the wire.
		c.conn.MarkIntentional()
	}
	return eff.Done
}

func (c *Controller) render() {
	if c.renderer != nil {
		c.renderer.RenderLobby(c.m.Snapshot())
	}
}
