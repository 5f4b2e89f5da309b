package camera

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/stream"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

func mjpegBody(payloads ...[]byte) []byte {
	var b bytes.Buffer
	for _, p := range payloads {
		b.WriteString(stream.BoundaryMarker)
		b.Write(p)
	}
	// Trailing marker closes the last frame.
	b.WriteString(stream.BoundaryMarker)
	return b.Bytes()
}

func TestStreamEmitsFrames(t *testing.T) {
	frameA := bytes.Repeat([]byte{0xA1}, 600)
	frameB := bytes.Repeat([]byte{0xB2}, 800)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(mjpegBody(frameA, frameB))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger(t))
	frames := make(chan []byte, 4)

	err := client.Stream(context.Background(), frames)
	if !errors.Is(err, ErrStreamEnded) {
		t.Fatalf("expected ErrStreamEnded, got %v", err)
	}

	close(frames)
	var got [][]byte
	for f := range frames {
		got = append(got, f)
	}
	if len(got) != 2 {
		t.Fatalf("got %d frames, expected 2", len(got))
	}
	if !bytes.Equal(got[0], frameA) || !bytes.Equal(got[1], frameB) {
		t.Error("frame payloads do not match the served stream")
	}
}

func TestStreamRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger(t))
	err := client.Stream(context.Background(), make(chan []byte, 1))
	if err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestStreamStopsOnContextCancel(t *testing.T) {
	frame := bytes.Repeat([]byte{0xC3}, 600)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for {
			if _, err := w.Write(mjpegBody(frame)); err != nil {
				return
			}
			flusher.Flush()
			time.Sleep(5 * time.Millisecond)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(srv.URL, testLogger(t))
	frames := make(chan []byte, 64)

	done := make(chan error, 1)
	go func() { done <- client.Stream(ctx, frames) }()

	// Wait for at least one frame, then cancel.
	select {
	case <-frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received before timeout")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stream did not return after cancellation")
	}
}

func TestStreamConnectFailure(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/stream.mjpg", testLogger(t))
	if err := client.Stream(context.Background(), make(chan []byte, 1)); err == nil {
		t.Fatal("expected a connection error")
	}
}
