package control

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

func TestCommandValid(t *testing.T) {
	valid := []Command{CommandForward, CommandBackward, CommandLeft, CommandRight, CommandStop}
	for _, c := range valid {
		if !c.Valid() {
			t.Errorf("command %q should be valid", c)
		}
	}
	for _, c := range []Command{"", "X", "FF", "f"} {
		if c.Valid() {
			t.Errorf("command %q should be invalid", c)
		}
	}
}

func TestDriveDeliversCommand(t *testing.T) {
	received := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/drive" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		received <- r.FormValue("cmd")
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger(t))
	if err := client.Drive(CommandForward); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}

	select {
	case cmd := <-received:
		if cmd != "F" {
			t.Errorf("controller received %q, expected F", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("drive command never reached the controller")
	}
}

func TestDriveRejectsInvalidCommand(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", testLogger(t))
	if err := client.Drive("X"); err == nil {
		t.Fatal("expected an error for an invalid command")
	}
}

func TestStatusPassesBlobThrough(t *testing.T) {
	blob := `{"battery":87,"speed":2,"obstacle":false}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(blob))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger(t))
	got, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if string(got) != blob {
		t.Errorf("Status = %s, expected %s", got, blob)
	}
}

func TestStatusRejectsMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger(t))
	if _, err := client.Status(context.Background()); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestStatusRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger(t))
	if _, err := client.Status(context.Background()); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}

func TestPollStatusStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger(t))
	ctx, cancel := context.WithCancel(context.Background())

	polls := make(chan struct{}, 16)
	done := make(chan struct{})
	go func() {
		client.PollStatus(ctx, 5*time.Millisecond, func(json.RawMessage) {
			select {
			case polls <- struct{}{}:
			default:
			}
		})
		close(done)
	}()

	select {
	case <-polls:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never delivered a status")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}
