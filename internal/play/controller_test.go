package play_test

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

	"trivia-play/internal/play"
	"trivia-play/internal/protocol"
	"trivia-play/internal/transport/ws"
)

var upgrader = websocket.Upgrader{}

// fastOpts keeps the wall-clock cost of a full session run small while still
// exercising the real tick path.
var fastOpts = play.Options{TickInterval: 5 * time.Millisecond, StartDelay: 5 * time.Millisecond}

func testConfig(participantID string) play.SessionConfig {
	return play.SessionConfig{SessionPin: "123456", ParticipantID: participantID, QuizID: "quiz-1"}
}

// scriptServer runs script against each inbound socket. Script errors are
// reported through t; the test must wait on the returned channel before
// asserting so every report lands before the test exits.
func scriptServer(t *testing.T, script func(*websocket.Conn) error) (*httptest.Server, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		socket, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			done <- err
			return
		}
		defer socket.Close()
		done <- script(socket)
	}))
	t.Cleanup(srv.Close)
	return srv, done
}

func dialPlay(t *testing.T, srv *httptest.Server) *ws.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	return conn
}

func readType(socket *websocket.Conn, want protocol.Type) error {
	socket.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			return err
		}
		var envelope struct {
			Type protocol.Type `json:"type"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return err
		}
		if envelope.Type == want {
			return nil
		}
	}
}

func sendJSON(socket *websocket.Conn, m protocol.Message) error {
	data, err := protocol.Encode(m)
	if err != nil {
		return err
	}
	return socket.WriteMessage(websocket.TextMessage, data)
}

func waitScript(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("server script: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server script did not finish")
	}
}

func TestParticipantControllerFullSession(t *testing.T) {
	// Generous limit: with millisecond ticks a short question could expire
	// before the answer action lands.
	question := sampleQuestion(1000)
	gotSubmit := make(chan protocol.SubmitAnswer, 1)

	srv, done := scriptServer(t, func(socket *websocket.Conn) error {
		if err := sendJSON(socket, protocol.NewStartTimer("123456")); err != nil {
			return err
		}
		if err := sendJSON(socket, protocol.Question{Type: protocol.TypeFirstQuestion, Question: question}); err != nil {
			return err
		}

		socket.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			_, data, err := socket.ReadMessage()
			if err != nil {
				return err
			}
			msg, err := protocol.Decode(data)
			if err != nil {
				return err
			}
			if claim, ok := msg.(protocol.SubmitAnswer); ok {
				gotSubmit <- claim
				break
			}
		}
		return sendJSON(socket, protocol.QuizCompleted{Type: protocol.TypeQuizCompleted, Message: "done"})
	})

	ctl, err := play.NewParticipantController(testConfig("p1"), dialPlay(t, srv), nil, fastOpts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewParticipantController: %v", err)
	}

	runDone := make(chan error, 1)
	go func() { runDone <- ctl.Run(context.Background()) }()

	// The answer lands once the question is active; earlier attempts are
	// rejected locally and retried here.
	answered := false
	deadline := time.After(5 * time.Second)
	for !answered {
		ctl.Answer("a")
		select {
		case claim := <-gotSubmit:
			if claim.AnswerID != "a1" || claim.QuestionID != "q1" || claim.ParticipantID != "p1" {
				t.Errorf("claim = %+v", claim)
			}
			if !claim.IsCorrect {
				t.Error("correct option judged incorrect")
			}
			answered = true
		case <-deadline:
			t.Fatal("answer never reached the server")
		case <-time.After(20 * time.Millisecond):
		}
	}

	select {
	case err := <-runDone:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after completion")
	}
	if got := ctl.Session().Phase(); got != play.PhaseCompleted {
		t.Errorf("final phase = %v, want completed", got)
	}
	waitScript(t, done)
}

func TestHostControllerFullSession(t *testing.T) {
	gotNext := make(chan struct{})

	srv, done := scriptServer(t, func(socket *websocket.Conn) error {
		if err := readType(socket, protocol.TypeStartTimer); err != nil {
			return err
		}
		if err := readType(socket, protocol.TypeStartQuestions); err != nil {
			return err
		}
		if err := sendJSON(socket, protocol.Question{Type: protocol.TypeFirstQuestion, Question: sampleQuestion(1)}); err != nil {
			return err
		}
		if err := readType(socket, protocol.TypeHostNextQuestion); err != nil {
			return err
		}
		close(gotNext)
		return sendJSON(socket, protocol.QuizCompleted{Type: protocol.TypeQuizCompleted, Message: "done"})
	})

	ctl, err := play.NewHostController(testConfig(play.HostParticipantID), dialPlay(t, srv), nil, nil, fastOpts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHostController: %v", err)
	}

	runDone := make(chan error, 1)
	go func() { runDone <- ctl.Run(context.Background()) }()

	// Proceed only takes once the one-second question expires and locks;
	// earlier presses are rejected locally and retried here.
	proceeded := false
	deadline := time.After(5 * time.Second)
	for !proceeded {
		ctl.Proceed()
		select {
		case <-gotNext:
			proceeded = true
		case <-deadline:
			t.Fatal("proceed never reached the server")
		case <-time.After(20 * time.Millisecond):
		}
	}

	select {
	case err := <-runDone:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after completion")
	}
	if got := ctl.Session().Phase(); got != play.PhaseCompleted {
		t.Errorf("final phase = %v, want completed", got)
	}
	waitScript(t, done)
}

// readUntilClose drains the socket and fails on any departure frame; a
// session that already ended must not announce a departure on teardown.
func readUntilClose(socket *websocket.Conn) error {
	socket.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			return nil // client closed without further frames
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			return err
		}
		switch msg.(type) {
		case protocol.Leave, protocol.ParticipantLeft, protocol.HostLeft:
			return fmt.Errorf("departure frame after session end: %s", data)
		}
	}
}

func TestParticipantControllerNoDepartureAfterCompletion(t *testing.T) {
	srv, done := scriptServer(t, func(socket *websocket.Conn) error {
		if err := sendJSON(socket, protocol.QuizCompleted{Type: protocol.TypeQuizCompleted, Message: "done"}); err != nil {
			return err
		}
		return readUntilClose(socket)
	})

	ctl, err := play.NewParticipantController(testConfig("p1"), dialPlay(t, srv), nil, fastOpts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewParticipantController: %v", err)
	}
	if err := ctl.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	waitScript(t, done)
}

func TestHostControllerNoDepartureAfterCompletion(t *testing.T) {
	srv, done := scriptServer(t, func(socket *websocket.Conn) error {
		if err := sendJSON(socket, protocol.QuizCompleted{Type: protocol.TypeQuizCompleted, Message: "done"}); err != nil {
			return err
		}
		return readUntilClose(socket)
	})

	ctl, err := play.NewHostController(testConfig(play.HostParticipantID), dialPlay(t, srv), nil, nil, fastOpts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHostController: %v", err)
	}
	if err := ctl.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	waitScript(t, done)
}

func TestParticipantControllerConnectionLost(t *testing.T) {
	srv, done := scriptServer(t, func(socket *websocket.Conn) error {
		// Drop the connection mid-session, no terminal frame.
		return sendJSON(socket, protocol.NewStartTimer("123456"))
	})

	ctl, err := play.NewParticipantController(testConfig("p1"), dialPlay(t, srv), nil, fastOpts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewParticipantController: %v", err)
	}

	if err := ctl.Run(context.Background()); !errors.Is(err, play.ErrConnectionLost) {
		t.Fatalf("Run: err = %v, want ErrConnectionLost", err)
	}
	waitScript(t, done)
}

func TestParticipantControllerSendsDepartureOnCancel(t *testing.T) {
	gotLeft := make(chan protocol.ParticipantLeft, 1)
	srv, done := scriptServer(t, func(socket *websocket.Conn) error {
		socket.SetReadDeadline(time.Now().Add(5 * time.Second))
		for {
			_, data, err := socket.ReadMessage()
			if err != nil {
				return nil // the client closes after its notice
			}
			msg, err := protocol.Decode(data)
			if err != nil {
				return err
			}
			if left, ok := msg.(protocol.ParticipantLeft); ok {
				gotLeft <- left
			}
		}
	})

	ctl, err := play.NewParticipantController(testConfig("p1"), dialPlay(t, srv), nil, fastOpts, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewParticipantController: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- ctl.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-runDone:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run: err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}

	select {
	case left := <-gotLeft:
		if left.ParticipantID != "p1" {
			t.Errorf("departure carries id %q, want p1", left.ParticipantID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no departure notice reached the server")
	}
	waitScript(t, done)
}
