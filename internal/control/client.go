// Package control relays drive commands to the wheelchair controller and
// polls its status endpoint.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
)

// Command is a single-letter drive instruction understood by the
// controller firmware.
type Command string

const (
	CommandForward  Command = "F"
	CommandBackward Command = "B"
	CommandLeft     Command = "L"
	CommandRight    Command = "R"
	CommandStop     Command = "S"
)

// Valid reports whether the command is one the firmware accepts.
func (c Command) Valid() bool {
	switch c {
	case CommandForward, CommandBackward, CommandLeft, CommandRight, CommandStop:
		return true
	}
	return false
}

// Client talks to the wheelchair control server. Drive is fire-and-forget;
// there is no retry or backoff, a dropped command is corrected by the next
// one the operator sends.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a control client for the given base URL.
func NewClient(baseURL string, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 2 * time.Second,
		},
		logger: log,
	}
}

// Drive sends a drive command without waiting for the controller's answer.
// Failures are logged and dropped. Invalid commands are rejected up front.
func (c *Client) Drive(cmd Command) error {
	if !cmd.Valid() {
		return fmt.Errorf("invalid drive command %q", cmd)
	}

	go func() {
		form := url.Values{"cmd": {string(cmd)}}
		resp, err := c.httpClient.PostForm(c.baseURL+"/drive", form)
		if err != nil {
			c.logger.Warning("Drive command %s not delivered: %v", cmd, err)
			return
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			c.logger.Warning("Drive command %s rejected with status %d", cmd, resp.StatusCode)
		}
	}()
	return nil
}

// Status fetches the controller's status blob. The payload is passed
// through untouched; the ground station does not interpret firmware
// fields beyond checking they are JSON.
func (c *Client) Status(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("building status request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading status body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("status endpoint returned malformed JSON")
	}
	return json.RawMessage(body), nil
}

// PollStatus fetches the status on the given interval and hands each
// successful blob to the callback, until the context is cancelled.
// Individual fetch failures are logged and skipped.
func (c *Client) PollStatus(ctx context.Context, interval time.Duration, fn func(json.RawMessage)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status, err := c.Status(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Warning("Status poll failed: %v", err)
				continue
			}
			fn(status)
		}
	}
}
