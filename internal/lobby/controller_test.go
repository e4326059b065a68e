package lobby_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"trivia-play/internal/domain"
	"trivia-play/internal/lobby"
	"trivia-play/internal/play"
	"trivia-play/internal/protocol"
	"trivia-play/internal/transport/ws"
)

var upgrader = websocket.Upgrader{}

func lobbyServer(t *testing.T, script func(*websocket.Conn) error) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer socket.Close()
		if err := script(socket); err != nil {
			t.Errorf("server script: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dialLobby(t *testing.T, srv *httptest.Server) *ws.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return conn
}

func TestControllerJoinThroughHandoff(t *testing.T) {
	srv := lobbyServer(t, func(socket *websocket.Conn) error {
		// Echo the JOIN back with an assigned id, then start the quiz.
		socket.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := socket.ReadMessage()
		if err != nil {
			return err
		}
		var join protocol.Join
		if err := json.Unmarshal(data, &join); err != nil {
			return err
		}
		join.ParticipantID = "p7"
		echo, err := json.Marshal(join)
		if err != nil {
			return err
		}
		if err := socket.WriteMessage(websocket.TextMessage, echo); err != nil {
			return err
		}
		starting, err := protocol.Encode(protocol.NewQuizStarting("123456", "go"))
		if err != nil {
			return err
		}
		return socket.WriteMessage(websocket.TextMessage, starting)
	})

	l := lobby.NewParticipantLobby("123456", zerolog.Nop())
	l.Seed(domain.Quiz{ID: "quiz-1", Title: "Capitals"}, nil)
	ctl := lobby.NewController(dialLobby(t, srv), l, nil, nil, zerolog.Nop())

	ctl.Post(func() lobby.Effects {
		eff, err := l.Join("bob")
		if err != nil {
			t.Errorf("Join: %v", err)
		}
		return eff
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	handoff, err := ctl.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if handoff == nil {
		t.Fatal("no handoff after QUIZ_STARTING")
	}
	if handoff.ParticipantID != "p7" || handoff.QuizID != "quiz-1" || handoff.SessionPin != "123456" {
		t.Errorf("handoff = %+v", handoff)
	}
}

func TestControllerHandoffSendsNoDeparture(t *testing.T) {
	srv := lobbyServer(t, func(socket *websocket.Conn) error {
		socket.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := socket.ReadMessage()
		if err != nil {
			return err
		}
		var join protocol.Join
		if err := json.Unmarshal(data, &join); err != nil {
			return err
		}
		join.ParticipantID = "p7"
		echo, err := json.Marshal(join)
		if err != nil {
			return err
		}
		if err := socket.WriteMessage(websocket.TextMessage, echo); err != nil {
			return err
		}
		starting, err := protocol.Encode(protocol.NewQuizStarting("123456", "go"))
		if err != nil {
			return err
		}
		if err := socket.WriteMessage(websocket.TextMessage, starting); err != nil {
			return err
		}
		// The hand-off close is the client's own navigation; nothing more
		// may arrive on the wire before it.
		for {
			_, data, err := socket.ReadMessage()
			if err != nil {
				return nil
			}
			msg, err := protocol.Decode(data)
			if err != nil {
				return err
			}
			switch msg.(type) {
			case protocol.Leave, protocol.ParticipantLeft, protocol.HostLeft:
				return fmt.Errorf("departure frame after hand-off: %s", data)
			}
		}
	})

	l := lobby.NewParticipantLobby("123456", zerolog.Nop())
	l.Seed(domain.Quiz{ID: "quiz-1", Title: "Capitals"}, nil)
	departure := func() protocol.Message { return protocol.NewLeave("123456", "p7") }
	ctl := lobby.NewController(dialLobby(t, srv), l, nil, departure, zerolog.Nop())

	ctl.Post(func() lobby.Effects {
		eff, err := l.Join("bob")
		if err != nil {
			t.Errorf("Join: %v", err)
		}
		return eff
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	handoff, err := ctl.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if handoff == nil {
		t.Fatal("no handoff after QUIZ_STARTING")
	}
}

func TestControllerVoidedLobbyReturnsNoHandoff(t *testing.T) {
	srv := lobbyServer(t, func(socket *websocket.Conn) error {
		data, err := protocol.Encode(protocol.NewHostLeft("123456"))
		if err != nil {
			return err
		}
		return socket.WriteMessage(websocket.TextMessage, data)
	})

	l := lobby.NewParticipantLobby("123456", zerolog.Nop())
	ctl := lobby.NewController(dialLobby(t, srv), l, nil, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	handoff, err := ctl.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if handoff != nil {
		t.Errorf("voided lobby handed off: %+v", handoff)
	}
}

func TestControllerConnectionLost(t *testing.T) {
	srv := lobbyServer(t, func(socket *websocket.Conn) error {
		return nil // close immediately
	})

	l := lobby.NewParticipantLobby("123456", zerolog.Nop())
	ctl := lobby.NewController(dialLobby(t, srv), l, nil, nil, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := ctl.Run(ctx); !errors.Is(err, play.ErrConnectionLost) {
		t.Fatalf("Run: err = %v, want ErrConnectionLost", err)
	}
}
