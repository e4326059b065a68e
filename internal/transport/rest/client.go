// Package rest consumes the read-only HTTP collaborators of a session. Its
// only call here is the roster/quiz snapshot used to seed controllers.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"trivia-play/internal/domain"
)

// Client fetches session data from the trivia backend.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// SessionSnapshot is the response of /trivia/sessionToQuiz/{pin}.
type SessionSnapshot struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	Quiz         domain.Quiz          `json:"quiz"`
	Participants []domain.Participant `json:"participants"`
}

// SessionToQuiz fetches the quiz summary and roster snapshot for a session
// pin. A failed fetch is non-fatal for the host play screen (JOIN frames
// fill the roster in) but fatal for the join screen, which cannot render a
// lobby without it.
func (c *Client) SessionToQuiz(ctx context.Context, sessionPin string) (SessionSnapshot, error) {
	url := fmt.Sprintf("%s/trivia/sessionToQuiz/%s", c.base, sessionPin)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return SessionSnapshot{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return SessionSnapshot{}, fmt.Errorf("fetch session snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SessionSnapshot{}, fmt.Errorf("fetch session snapshot: unexpected status %d", resp.StatusCode)
	}

	var snapshot SessionSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return SessionSnapshot{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	if !snapshot.Success {
		return snapshot, fmt.Errorf("session snapshot rejected: %s", snapshot.Message)
	}
	return snapshot, nil
}
