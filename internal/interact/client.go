package interact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/citygate/interstitial/internal/content"
)

// Store is the interaction persistence contract the gateway writes through
// to. The production implementation is Client; tests substitute mocks.
type Store interface {
	Counters(ctx context.Context, kind content.Kind, id string) (Counters, error)
	Flags(ctx context.Context, kind content.Kind, id string) (Flags, error)
	Toggle(ctx context.Context, kind content.Kind, id string, typ Type) (int, error)
	RegisterView(ctx context.Context, id string) error
	Comments(ctx context.Context, kind content.Kind, id string) ([]Comment, error)
	PostComment(ctx context.Context, kind content.Kind, id, text string) (Comment, error)
}

// Client talks to the portal backend's interaction API over HTTP.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a Client. token may be empty for an unauthenticated
// viewer; read endpoints work either way, write endpoints will come back
// with ErrAuthRequired.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ Store = (*Client)(nil)

// Counters fetches the aggregate counts for one item.
func (c *Client) Counters(ctx context.Context, kind content.Kind, id string) (Counters, error) {
	var out Counters
	err := c.get(ctx, fmt.Sprintf("/api/interactions/%s/%s/counters", kind, id), &out)
	return out, err
}

// Flags fetches this viewer's interaction flags for one item.
func (c *Client) Flags(ctx context.Context, kind content.Kind, id string) (Flags, error) {
	var out Flags
	err := c.get(ctx, fmt.Sprintf("/api/interactions/%s/%s/flags", kind, id), &out)
	return out, err
}

// toggleResponse carries the new authoritative count after a toggle.
type toggleResponse struct {
	Count int `json:"count"`
}

// Toggle flips (or increments, for share/calendar) one interaction and
// returns the new aggregate count the server computed.
func (c *Client) Toggle(ctx context.Context, kind content.Kind, id string, typ Type) (int, error) {
	var out toggleResponse
	path := fmt.Sprintf("/api/interactions/%s/%s/%s/toggle", kind, id, typ)
	if err := c.post(ctx, path, nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// RegisterView records that the item was shown. No response body expected.
func (c *Client) RegisterView(ctx context.Context, id string) error {
	return c.post(ctx, fmt.Sprintf("/api/interstitials/%s/view", id), nil, nil)
}

// Comments fetches the comment list for one item.
func (c *Client) Comments(ctx context.Context, kind content.Kind, id string) ([]Comment, error) {
	var out []Comment
	err := c.get(ctx, fmt.Sprintf("/api/interactions/%s/%s/comments", kind, id), &out)
	return out, err
}

// PostComment appends a comment and returns the created record.
func (c *Client) PostComment(ctx context.Context, kind content.Kind, id, text string) (Comment, error) {
	body := map[string]string{"text": text}
	var out Comment
	path := fmt.Sprintf("/api/interactions/%s/%s/comments", kind, id)
	err := c.post(ctx, path, body, &out)
	return out, err
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode: %v", ErrWriteFailed, err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("User-Agent", "interstitial/0.1")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthRequired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: HTTP %d", ErrWriteFailed, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrWriteFailed, err)
	}
	return nil
}
