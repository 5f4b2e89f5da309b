// Package camera pulls the multipart MJPEG stream from the onboard camera
// server and emits complete JPEG frames.
package camera

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/stream"
)

// ErrStreamEnded marks a stream that closed from the remote side.
var ErrStreamEnded = errors.New("camera stream ended")

const readChunkSize = 4096

// Client opens streaming sessions against the camera server. Reconnecting
// after a terminal error is the caller's decision, not the client's.
type Client struct {
	streamURL  string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a camera client for the given MJPEG endpoint. The HTTP
// client carries no timeout; the stream is open-ended and cancellation
// comes from the context.
func NewClient(streamURL string, log *logger.Logger) *Client {
	return &Client{
		streamURL:  streamURL,
		httpClient: &http.Client{},
		logger:     log,
	}
}

// Stream connects to the camera and sends every complete frame payload to
// the frames channel until the context is cancelled or the stream fails.
// The returned error is the terminal condition; io.EOF from the remote is
// reported as ErrStreamEnded.
func (c *Client) Stream(ctx context.Context, frames chan<- []byte) error {
	sessionID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL, nil)
	if err != nil {
		return fmt.Errorf("building stream request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to camera stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("camera stream returned status %d", resp.StatusCode)
	}

	c.logger.Info("Camera session %s connected to %s", sessionID, c.streamURL)

	demux := stream.NewDemux()
	buf := make([]byte, readChunkSize)
	var frameCount int64

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, frame := range demux.Feed(buf[:n]) {
				frameCount++
				select {
				case frames <- frame:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		if readErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warning("Camera session %s closed after %d frames: %v", sessionID, frameCount, readErr)
			if errors.Is(readErr, io.EOF) {
				return ErrStreamEnded
			}
			return fmt.Errorf("reading camera stream: %w", readErr)
		}
	}
}
