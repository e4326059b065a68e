// Package ws owns the WebSocket lifecycle for a session: dial, read pump,
// serialized writes, and teardown. One Conn is opened per controller lifetime;
// a closed connection is terminal for the session; there is no reconnect.
package ws

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"trivia-play/internal/protocol"
)

// Conn wraps one client websocket. Frames arrive on the channel returned by
// Frames; the channel closes when the socket does, whatever the reason.
type Conn struct {
	log zerolog.Logger
	ws  *websocket.Conn

	frames chan []byte
	dead   chan struct{}

	mu     sync.Mutex
	open   bool
	closed sync.Once

	intentionalMu sync.Mutex
	intentional   bool
}

// Dial opens the socket and starts the read pump. The context bounds the
// handshake only; the connection itself lives until Close.
func Dial(ctx context.Context, endpoint string, log zerolog.Logger) (*Conn, error) {
	socket, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	c := &Conn{
		log:    log.With().Str("conn", uuid.New().String()[:8]).Str("endpoint", endpoint).Logger(),
		ws:     socket,
		frames: make(chan []byte, 16),
		dead:   make(chan struct{}),
		open:   true,
	}
	c.log.Debug().Msg("websocket connected")
	go c.readPump()
	return c, nil
}

// Frames returns the inbound frame channel. It is closed on socket close.
func (c *Conn) Frames() <-chan []byte {
	return c.frames
}

// Send writes one frame. A send on a connection that is not open fails
// silently: logged, dropped, no queue and no retry.
func (c *Conn) Send(m protocol.Message) {
	data, err := protocol.Encode(m)
	if err != nil {
		c.log.Error().Err(err).Msg("encode outbound frame")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		c.log.Debug().Str("frame", string(data)).Msg("dropping send on closed socket")
		return
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		c.log.Warn().Err(err).Msg("websocket write failed")
	}
}

// MarkIntentional flags the teardown that follows as the controller's own
// navigation. Departure notices and connection-lost surfacing are suppressed
// for an intentional close.
func (c *Conn) MarkIntentional() {
	c.intentionalMu.Lock()
	c.intentional = true
	c.intentionalMu.Unlock()
}

// Intentional reports whether MarkIntentional was called.
func (c *Conn) Intentional() bool {
	c.intentionalMu.Lock()
	defer c.intentionalMu.Unlock()
	return c.intentional
}

// Close shuts the socket down. Idempotent; every exit path must reach it.
func (c *Conn) Close() error {
	var err error
	c.closed.Do(func() {
		c.mu.Lock()
		c.open = false
		c.mu.Unlock()
		close(c.dead)
		err = c.ws.Close()
		c.log.Debug().Msg("websocket closed")
	})
	return err
}

// readPump delivers raw frames in wire order. Handler ordering is the
// consumer's concern; this loop never drops or reorders a frame.
func (c *Conn) readPump() {
	defer func() {
		c.mu.Lock()
		c.open = false
		c.mu.Unlock()
		close(c.frames)
	}()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if !c.Intentional() {
				c.log.Warn().Err(err).Msg("websocket read ended")
			}
			return
		}
		select {
		case c.frames <- data:
		case <-c.dead:
			return
		}
	}
}
