package ws

import "fmt"

// Server locates the trivia backend. The port is only dialed on non-TLS
// connections, mirroring the deployed topology (TLS terminates on 443).
type Server struct {
	Host string
	Port string
	TLS  bool
}

func (s Server) wsBase() string {
	if s.TLS {
		return "wss://" + s.Host
	}
	return fmt.Sprintf("ws://%s:%s", s.Host, s.Port)
}

// HTTPBase returns the REST base URL for the same server.
func (s Server) HTTPBase() string {
	if s.TLS {
		return "https://" + s.Host
	}
	return fmt.Sprintf("http://%s:%s", s.Host, s.Port)
}

// PlayEndpoint is the socket for the live play screens.
func (s Server) PlayEndpoint(sessionPin, participantID, quizID string) string {
	return fmt.Sprintf("%s/trivia/playingQuiz/%s/%s/%s", s.wsBase(), sessionPin, participantID, quizID)
}

// JoinEndpoint is the socket for the lobby/join screen.
func (s Server) JoinEndpoint(sessionPin string) string {
	return fmt.Sprintf("%s/trivia/joinQuizSocket/%s", s.wsBase(), sessionPin)
}
