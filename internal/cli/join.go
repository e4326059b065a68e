package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"trivia-play/internal/lobby"
	"trivia-play/internal/play"
	"trivia-play/internal/protocol"
	"trivia-play/internal/render"
	"trivia-play/internal/transport/rest"
	"trivia-play/internal/transport/ws"
)

func newJoinCmd() *cobra.Command {
	var pin, name string

	cmd := &cobra.Command{
		Use:   "join",
		Short: "Join a session lobby by pin and play when the host starts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(cmd.Context(), pin, name)
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "session pin")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func runJoin(parent context.Context, pin, name string) error {
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

	// The join screen cannot render a lobby without the session snapshot.
	snapshot, err := restClient.SessionToQuiz(ctx, pin)
	if err != nil {
		return fmt.Errorf("session not found or already finished: %w", err)
	}

	conn, err := ws.Dial(ctx, server.JoinEndpoint(pin), log)
	if err != nil {
		return fmt.Errorf("connect lobby: %w", err)
	}

	participantLobby := lobby.NewParticipantLobby(pin, log)
	participantLobby.Seed(snapshot.Quiz, snapshot.Participants)

	departure := func() protocol.Message {
		if !participantLobby.Joined() {
			return nil
		}
		eff, err := participantLobby.Leave()
		if err != nil || len(eff.Outbound) == 0 {
			return nil
		}
		return eff.Outbound[0]
	}
	lobbyCtl := lobby.NewController(conn, participantLobby, renderer, departure, log)

	join := func(displayName string) {
		lobbyCtl.Post(func() lobby.Effects {
			eff, err := participantLobby.Join(displayName)
			if err != nil {
				log.Warn().Err(err).Msg("join rejected")
			}
			return eff
		})
	}

	if strings.TrimSpace(name) != "" {
		join(name)
	} else {
		fmt.Fprintln(os.Stdout, "Enter your display name to join.")
	}

	var handoff *play.SessionConfig
	err = runStage(ctx, func(stageCtx context.Context) error {
		var runErr error
		handoff, runErr = lobbyCtl.Run(stageCtx)
		return runErr
	}, input, join)
	if err != nil {
		return err
	}
	if handoff == nil {
		return nil
	}

	// The quiz started: carry the assigned identity onto the play screen.
	playConn, err := ws.Dial(ctx, server.PlayEndpoint(handoff.SessionPin, handoff.ParticipantID, handoff.QuizID), log)
	if err != nil {
		return fmt.Errorf("connect play session: %w", err)
	}

	controller, err := play.NewParticipantController(*handoff, playConn, renderer, play.Options{}, log)
	if err != nil {
		return err
	}

	return runStage(ctx, controller.Run, input, controller.Answer)
}
