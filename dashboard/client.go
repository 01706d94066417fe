// Package dashboard posts classroom sessions and robot telemetry to the classroom dashboard's
// REST API
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/calvinmclean/babyapi"
)

var ErrNoSession = errors.New("no session created")

// Session is one class period during which robots are tracked
type Session struct {
	ID        string     `json:"id"`
	Classroom string     `json:"classroom"`
	Status    string     `json:"status"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
}

// Event is one telegram heard during a session
type Event struct {
	DeviceID string    `json:"deviceId"`
	Kind     string    `json:"kind"`
	Voltage  float32   `json:"voltage,omitempty"`
	Button   string    `json:"button,omitempty"`
	Program  string    `json:"program,omitempty"`
	Status   string    `json:"status,omitempty"`
	Raw      string    `json:"raw"`
	Time     time.Time `json:"time"`
}

type Client struct {
	client    *babyapi.Client[*session]
	sessionID string
}

type session struct {
	// include NilResource so we don't implement Render/Bind which are not needed
	*babyapi.NilResource
	Session
}

func (s session) GetID() string {
	return s.ID
}

func NewClient(addr string) *Client {
	client := babyapi.NewClient[*session](addr, "/sessions")
	return &Client{client: client}
}

// CreateSession starts an active session for the classroom. Later events are added to it
func (c *Client) CreateSession(ctx context.Context, classroom string, now time.Time) (string, error) {
	resp, err := c.client.Post(ctx, &session{
		Session: Session{
			Classroom: classroom,
			Status:    "active",
			StartTime: now,
		},
	})
	if err != nil {
		return "", err
	}

	c.sessionID = resp.Data.GetID()

	return c.sessionID, nil
}

// SessionID is empty until CreateSession succeeds
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) AddEvent(ctx context.Context, e Event) error {
	if c.sessionID == "" {
		return ErrNoSession
	}

	url, _ := c.client.URL(c.sessionID)
	url += "/events"

	return c.makeRequest(ctx, url, e)
}

// End marks the session as ended
func (c *Client) End(ctx context.Context, now time.Time) error {
	if c.sessionID == "" {
		return ErrNoSession
	}

	url, _ := c.client.URL(c.sessionID)
	url += "/end"

	return c.makeRequest(ctx, url, map[string]any{"time": now})
}

func (c *Client) makeRequest(ctx context.Context, url string, body any) error {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := c.client.MakeGenericRequest(req, nil)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	if resp.Response.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d, response: %v", resp.Response.StatusCode, resp.Body)
	}

	return nil
}
