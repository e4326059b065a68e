package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trivia-play/internal/play"
	"trivia-play/internal/render"
	"trivia-play/internal/transport/ws"
)

func newPlayCmd() *cobra.Command {
	var pin, participantID, quizID string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join a running quiz directly with an assigned participant id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), play.SessionConfig{
				SessionPin:    pin,
				ParticipantID: participantID,
				QuizID:        quizID,
			})
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "session pin")
	cmd.Flags().StringVar(&participantID, "participant-id", "", "participant id assigned at join")
	cmd.Flags().StringVar(&quizID, "quiz-id", "", "quiz id")
	_ = cmd.MarkFlagRequired("pin")
	_ = cmd.MarkFlagRequired("participant-id")
	_ = cmd.MarkFlagRequired("quiz-id")
	return cmd
}

func runPlay(parent context.Context, cfg play.SessionConfig) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := newLogger()
	server, err := resolveServer()
	if err != nil {
		return err
	}
	// Identity must be complete before anything connects.
	if err := cfg.Validate(); err != nil {
		return err
	}

	conn, err := ws.Dial(ctx, server.PlayEndpoint(cfg.SessionPin, cfg.ParticipantID, cfg.QuizID), log)
	if err != nil {
		return fmt.Errorf("connect play session: %w", err)
	}

	renderer := render.NewText(os.Stdout)
	controller, err := play.NewParticipantController(cfg, conn, renderer, play.Options{}, log)
	if err != nil {
		return err
	}

	return runStage(ctx, controller.Run, lines(ctx), controller.Answer)
}
