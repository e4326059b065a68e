package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trivia-play/internal/config"
	"trivia-play/internal/transport/ws"
)

var (
	configPath string
	serverHost string
	serverPort string
	serverTLS  bool
	verbose    bool
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	envHost := os.Getenv("TRIVIA_SERVER")

	cmd := &cobra.Command{
		Use:   "trivia-play",
		Short: "Live trivia quiz client: host, play, and join sessions over WebSocket",
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.PersistentFlags().StringVar(&serverHost, "server", envHost, "trivia server host")
	cmd.PersistentFlags().StringVar(&serverPort, "port", "", "trivia server port (non-TLS only)")
	cmd.PersistentFlags().BoolVar(&serverTLS, "tls", false, "connect over wss/https")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newHostCmd())
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newJoinCmd())
	return cmd
}

// newLogger builds the CLI logger. Screens render to stdout, logs go to
// stderr so they never interleave with the play view.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// resolveServer merges the YAML config with flag overrides.
func resolveServer() (ws.Server, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return ws.Server{}, err
	}
	server := ws.Server{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
		TLS:  cfg.Server.TLS,
	}
	if serverHost != "" {
		server.Host = serverHost
	}
	if serverPort != "" {
		server.Port = serverPort
	}
	if serverTLS {
		server.TLS = true
	}
	return server, nil
}
