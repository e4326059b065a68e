package play

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Ticker is a restartable once-per-interval tick source over an injected
// clock. Start always cancels the previous run first, so two tickers of the
// same kind can never run concurrently.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration
	ticker   clockwork.Ticker
}

func NewTicker(clock clockwork.Clock, interval time.Duration) *Ticker {
	return &Ticker{clock: clock, interval: interval}
}

func (t *Ticker) Start() {
	t.Stop()
	t.ticker = t.clock.NewTicker(t.interval)
}

func (t *Ticker) Stop() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

// C returns the tick channel, or nil when the ticker is stopped. A nil
// channel never fires in a select, which is exactly what an idle timer
// should do.
func (t *Ticker) C() <-chan time.Time {
	if t.ticker == nil {
		return nil
	}
	return t.ticker.Chan()
}

func (t *Ticker) Running() bool { return t.ticker != nil }
