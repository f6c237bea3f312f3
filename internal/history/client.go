// Package history is the REST client for the Sociofy backend's messaging
// endpoints: the friend list and past conversations. Everything else the
// backend serves (posts, profiles, settings) belongs to other screens and is
// not reachable from here.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rakshverma/sociochat/internal/model"
)

const defaultTimeout = 10 * time.Second

// Client talks to the history API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
}

// NewClient creates a client for the given API base URL. timeout bounds each
// request; zero means the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// GetPeers fetches the user's friend list. The server's ordering is kept.
func (c *Client) GetPeers(ctx context.Context, userID string) ([]model.Peer, error) {
	var peers []model.Peer
	if err := c.get(ctx, c.baseURL+"/friends/"+url.PathEscape(userID), &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

// GetConversation fetches past messages between the user and one peer. No
// ordering is assumed from the server; callers sort before display.
func (c *Client) GetConversation(ctx context.Context, userID, peerID string) ([]model.Message, error) {
	u, err := url.Parse(c.baseURL + "/chat-history")
	if err != nil {
		return nil, fmt.Errorf("history url: %w", err)
	}
	q := u.Query()
	q.Set("userEmail", userID)
	q.Set("friendEmail", peerID)
	u.RawQuery = q.Encode()

	var msgs []model.Message
	if err := c.get(ctx, u.String(), &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("history request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &model.HTTPError{Status: resp.StatusCode, URL: rawURL}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode history response: %w", err)
	}
	return nil
}
