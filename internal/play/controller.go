package play

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"trivia-play/internal/protocol"
	"trivia-play/internal/transport/ws"
)

// Renderer consumes state snapshots and produces user-visible output. It must
// be idempotent for identical snapshots and never mutates session state.
type Renderer interface {
	Render(Snapshot)
}

// StartDelay is how long the host waits after the socket opens before
// announcing the pre-quiz timer, giving late joiners time to land on the
// play screen.
const StartDelay = 4 * time.Second

// Options tune a controller. The zero value is completed by defaults().
type Options struct {
	Clock        clockwork.Clock
	TickInterval time.Duration // countdown granularity, one second in production
	StartDelay   time.Duration // host only
}

func (o Options) defaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.TickInterval == 0 {
		o.TickInterval = time.Second
	}
	if o.StartDelay == 0 {
		o.StartDelay = StartDelay
	}
	return o
}

// controller is the event loop shared by both roles: it serializes frames,
// timer ticks and user actions into single-threaded, run-to-completion
// handler execution in wire order.
type controller struct {
	log      zerolog.Logger
	conn     *ws.Conn
	renderer Renderer

	countdown *Ticker
	qtimer    *Ticker

	actions chan func()
	done    chan struct{}
}

func newController(conn *ws.Conn, renderer Renderer, opts Options, log zerolog.Logger) *controller {
	return &controller{
		log:       log,
		conn:      conn,
		renderer:  renderer,
		countdown: NewTicker(opts.Clock, opts.TickInterval),
		qtimer:    NewTicker(opts.Clock, opts.TickInterval),
		actions:   make(chan func(), 16),
		done:      make(chan struct{}),
	}
}

// post hands a user action to the event loop. Actions after shutdown are
// dropped; the session is over and there is nothing left to apply them to.
func (c *controller) post(fn func()) {
	select {
	case c.actions <- fn:
	case <-c.done:
	}
}

// apply interprets an Effects value: frames out, tickers started or stopped.
// It returns true when the session reached a terminal state.
func (c *controller) apply(eff Effects) bool {
	for _, msg := range eff.Outbound {
		c.conn.Send(msg)
	}
	if eff.StopCountdown {
		c.countdown.Stop()
	}
	if eff.StartCountdown {
		c.countdown.Start()
	}
	if eff.StopQuestionTimer {
		c.qtimer.Stop()
	}
	if eff.StartQuestionTimer {
		c.qtimer.Start()
	}
	if eff.Terminal {
		c.countdown.Stop()
		c.qtimer.Stop()
	}
	return eff.Terminal
}

func (c *controller) stopAll() {
	c.countdown.Stop()
	c.qtimer.Stop()
}

// decode parses a raw frame, logging and dropping anything malformed or
// unknown. Protocol errors never crash a controller.
func (c *controller) decode(data []byte) (protocol.Message, bool) {
	msg, err := protocol.Decode(data)
	if err != nil {
		c.log.Warn().Err(err).Str("frame", string(data)).Msg("dropping frame")
		return nil, false
	}
	return msg, true
}

// teardown closes the socket after a best-effort departure notice. The notice
// is skipped when the session already reached a terminal state or when the
// close is the controller's own intentional hand-off; announcing a departure
// there would be semantically wrong.
func (c *controller) teardown(terminal bool, departure protocol.Message) {
	defer close(c.done)
	c.stopAll()
	if !terminal && !c.conn.Intentional() && departure != nil {
		c.conn.Send(departure)
	}
	if err := c.conn.Close(); err != nil {
		c.log.Debug().Err(err).Msg("close socket")
	}
}

func (c *controller) render(snap Snapshot) {
	if c.renderer != nil {
		c.renderer.Render(snap)
	}
}

// ErrConnectionLost is returned when the socket closes underneath a session
// that has not reached a terminal state. There is no recovery path other
// than starting over.
var ErrConnectionLost = errors.New("connection closed before the session finished")
