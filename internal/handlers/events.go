package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/storage"
)

// GetEventsHandler returns persisted detection events, filtered by the
// query string: session, label, min_confidence, since, until, limit,
// offset.
func GetEventsHandler(store *storage.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := &storage.EventFilter{
			SessionID: r.URL.Query().Get("session"),
			Label:     r.URL.Query().Get("label"),
			Limit:     50,
		}

		if v := r.URL.Query().Get("min_confidence"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				filter.MinConfidence = f
			}
		}
		if v := r.URL.Query().Get("since"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.Since = t
			}
		}
		if v := r.URL.Query().Get("until"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.Until = t
			}
		}
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				filter.Limit = n
			}
		}
		if v := r.URL.Query().Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				filter.Offset = n
			}
		}

		events, err := store.GetEvents(filter)
		if err != nil {
			log.Error("Failed to query events: %v", err)
			http.Error(w, "Unable to query events", http.StatusInternalServerError)
			return
		}
		if events == nil {
			events = []storage.Event{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(events); err != nil {
			log.Error("Error encoding JSON response: %v", err)
		}
	}
}

// GetLabelsHandler lists every label that appears in stored events, for
// filter dropdowns.
func GetLabelsHandler(store *storage.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		labels, err := store.GetLabels()
		if err != nil {
			log.Error("Failed to query labels: %v", err)
			http.Error(w, "Unable to query labels", http.StatusInternalServerError)
			return
		}
		if labels == nil {
			labels = []string{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(labels); err != nil {
			log.Error("Error encoding JSON response: %v", err)
		}
	}
}

// GetStatsHandler returns aggregate event counts.
func GetStatsHandler(store *storage.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.GetStats()
		if err != nil {
			log.Error("Failed to query stats: %v", err)
			http.Error(w, "Unable to query stats", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(stats); err != nil {
			log.Error("Error encoding JSON response: %v", err)
		}
	}
}

// DeleteEventHandler removes a single event by id.
func DeleteEventHandler(store *storage.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete && r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid event id", http.StatusBadRequest)
			return
		}

		if err := store.DeleteEvent(id); err != nil {
			log.Error("Failed to delete event %d: %v", id, err)
			http.Error(w, "Unable to delete event", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
