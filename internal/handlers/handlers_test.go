package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/detect"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/storage"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.NewLogger(&config.Config{LogDirectory: t.TempDir()})
}

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestLoginHandlerAcceptsPassword(t *testing.T) {
	cfg := &config.Config{Password: "secret", LogDirectory: t.TempDir()}
	handler := LoginHandler(cfg, logger.NewLogger(cfg))

	form := url.Values{"password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, expected %d", rec.Code, http.StatusSeeOther)
	}

	var authed bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "authenticated" && c.Value == "true" {
			authed = true
		}
	}
	if !authed {
		t.Error("authenticated cookie not set")
	}
}

func TestLoginHandlerRejectsWrongPassword(t *testing.T) {
	cfg := &config.Config{Password: "secret", LogDirectory: t.TempDir()}
	handler := LoginHandler(cfg, logger.NewLogger(cfg))

	form := url.Values{"password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, expected %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestGetEventsHandlerReturnsStoredEvents(t *testing.T) {
	store := testStore(t)
	if _, err := store.InsertEvent(&storage.Event{
		FrameID:     "f1",
		SessionID:   "s1",
		Timestamp:   time.Now(),
		ImageWidth:  640,
		ImageHeight: 480,
		Detections: []detect.Detection{
			{Left: 1, Top: 2, Right: 3, Bottom: 4, Label: "person", Confidence: 0.9},
		},
	}); err != nil {
		t.Fatal(err)
	}

	handler := GetEventsHandler(store, testLogger(t))
	req := httptest.NewRequest(http.MethodGet, "/api/events?label=person", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d", rec.Code, http.StatusOK)
	}

	var events []storage.Event
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(events) != 1 || events[0].FrameID != "f1" {
		t.Errorf("unexpected events: %+v", events)
	}
}

func TestGetEventsHandlerEmptyIsJSONArray(t *testing.T) {
	handler := GetEventsHandler(testStore(t), testLogger(t))
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("empty result body = %q, expected []", body)
	}
}

func TestDeleteEventHandlerValidation(t *testing.T) {
	handler := DeleteEventHandler(testStore(t), testLogger(t))

	req := httptest.NewRequest(http.MethodDelete, "/api/events/delete?id=abc", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id: status = %d, expected %d", rec.Code, http.StatusBadRequest)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events/delete?id=1", nil)
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method: status = %d, expected %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
