package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trivia-play/internal/lobby"
	"trivia-play/internal/play"
	"trivia-play/internal/protocol"
	"trivia-play/internal/render"
	"trivia-play/internal/transport/rest"
	"trivia-play/internal/transport/ws"
)

func newHostCmd() *cobra.Command {
	var pin, quizID string

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Host a live quiz session: run the lobby, then drive the questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.Context(), pin, quizID)
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "session pin")
	cmd.Flags().StringVar(&quizID, "quiz-id", "", "quiz id")
	_ = cmd.MarkFlagRequired("pin")
	_ = cmd.MarkFlagRequired("quiz-id")
	return cmd
}

func runHost(parent context.Context, pin, quizID string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger()
	server, err := resolveServer()
	if err != nil {
		return err
	}
	renderer := render.NewText(os.Stdout)
	restClient := rest.NewClient(server.HTTPBase())
	input := lines(ctx)

	// Stage one: the lobby. The host watches participants arrive and presses
	// enter to start.
	conn, err := ws.Dial(ctx, server.JoinEndpoint(pin), log)
	if err != nil {
		return fmt.Errorf("connect lobby: %w", err)
	}

	hostLobby := lobby.NewHostLobby(pin, quizID, log)
	if snapshot, err := restClient.SessionToQuiz(ctx, pin); err != nil {
		log.Warn().Err(err).Msg("session snapshot unavailable")
	} else {
		hostLobby.Seed(snapshot.Quiz, snapshot.Participants)
	}

	departure := func() protocol.Message { return protocol.NewHostLeft(pin) }
	lobbyCtl := lobby.NewController(conn, hostLobby, renderer, departure, log)

	fmt.Fprintln(os.Stdout, "Press enter to start the quiz.")

	var handoff *play.SessionConfig
	err = runStage(ctx, func(stageCtx context.Context) error {
		var runErr error
		handoff, runErr = lobbyCtl.Run(stageCtx)
		return runErr
	}, input, func(string) {
		lobbyCtl.Post(func() lobby.Effects {
			eff, err := hostLobby.Start()
			if err != nil {
				log.Warn().Err(err).Msg("cannot start quiz")
			}
			return eff
		})
	})
	if err != nil {
		return err
	}
	if handoff == nil {
		return nil
	}

	// Stage two: the play screen, on a fresh socket.
	playConn, err := ws.Dial(ctx, server.PlayEndpoint(handoff.SessionPin, handoff.ParticipantID, handoff.QuizID), log)
	if err != nil {
		return fmt.Errorf("connect play session: %w", err)
	}

	controller, err := play.NewHostController(*handoff, playConn, restClient, renderer, play.Options{}, log)
	if err != nil {
		return err
	}

	return runStage(ctx, controller.Run, input, func(string) {
		controller.Proceed()
	})
}

// lines forwards stdin lines until EOF or cancellation.
func lines(ctx context.Context) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case ch <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
