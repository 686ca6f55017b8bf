// Package client is the Go client for the card-deck HTTP API. The draw
// flow in game/draw consumes it through its fetcher interface.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Card mirrors the wire shape of a deck card.
type Card struct {
	ID         int64  `json:"id"`
	Category   string `json:"category"`
	Content    string `json:"content"`
	Penalty    string `json:"penalty"`
	Difficulty string `json:"difficulty"`
}

// Client talks to a running deck server.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// New creates a Client for the given base URL. A nil httpc falls back to
// http.DefaultClient; timeouts are whatever the caller's client and
// context carry.
func New(baseURL string, httpc *http.Client, logger *zap.Logger) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		logger:  logger,
	}
}

// Random draws one random card. An empty deck returns (nil, nil).
func (c *Client) Random(ctx context.Context) (*Card, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cards/random", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("draw random card: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Success bool  `json:"success"`
		Card    *Card `json:"card"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("draw random card: decode response: %w", err)
	}
	if !body.Success || body.Card == nil {
		return nil, fmt.Errorf("draw random card: malformed response")
	}
	return body.Card, nil
}

// List returns every card in the deck.
func (c *Client) List(ctx context.Context) ([]Card, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cards", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list cards: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Success bool   `json:"success"`
		Count   int    `json:"count"`
		Cards   []Card `json:"cards"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("list cards: decode response: %w", err)
	}
	return body.Cards, nil
}

// Seed asks the server to reseed the deck from its data files and returns
// the inserted count.
func (c *Client) Seed(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cards/seed", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var body struct {
		Success bool   `json:"success"`
		Count   int    `json:"count"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("seed deck: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Success {
		if body.Error != "" {
			return 0, fmt.Errorf("seed deck: %s", body.Error)
		}
		return 0, fmt.Errorf("seed deck: unexpected status %d", resp.StatusCode)
	}
	return body.Count, nil
}
