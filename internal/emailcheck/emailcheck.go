package emailcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xxxsen/brandbot/internal/lead"
)

// Client talks to the external email-validation authority. When the
// authority is unreachable the caller falls back to the local check, so
// transport failures are surfaced distinctly from verdicts.
type Client struct {
	endpoint string
	client   *http.Client
}

func New(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != ""
}

type checkRequest struct {
	Email string `json:"email"`
}

type checkResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// Validate returns nil for a valid address, a lead validation sentinel for
// an authoritative rejection, and a wrapped transport error otherwise.
func (c *Client) Validate(ctx context.Context, email string) error {
	body, err := json.Marshal(checkRequest{Email: email})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("email check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email check call: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email check failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	var out checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("email check decode: %w", err)
	}
	if out.Valid {
		return nil
	}
	if strings.Contains(strings.ToLower(out.Reason), "disposable") {
		return lead.ErrDisposableDomain
	}
	return lead.ErrInvalidFormat
}
