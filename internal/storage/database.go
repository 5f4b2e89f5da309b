// Package storage persists detection events and annotated snapshots.
package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/detect"
)

// Event is one persisted detection event: a frame that produced at least
// one detection, together with the boxes it produced.
type Event struct {
	ID          int64              `json:"id"`
	FrameID     string             `json:"frame_id"`
	SessionID   string             `json:"session_id"`
	Timestamp   time.Time          `json:"timestamp"`
	ImageWidth  int                `json:"image_width"`
	ImageHeight int                `json:"image_height"`
	Snapshot    string             `json:"snapshot,omitempty"`
	Detections  []detect.Detection `json:"detections"`
}

// EventFilter narrows event queries. Zero values mean "no constraint".
type EventFilter struct {
	SessionID     string
	Label         string
	MinConfidence float64
	Since         time.Time
	Until         time.Time
	Limit         int
	Offset        int
}

// Store is the SQLite-backed event store. SQLite is run in WAL mode on a
// single connection; the mutex serializes writers against readers.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore opens (or creates) the database and applies the schema.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		frame_id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		image_width INTEGER NOT NULL,
		image_height INTEGER NOT NULL,
		snapshot TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS event_detections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL,
		label TEXT NOT NULL,
		class_id INTEGER NOT NULL,
		confidence REAL NOT NULL,
		box_left REAL NOT NULL,
		box_top REAL NOT NULL,
		box_right REAL NOT NULL,
		box_bottom REAL NOT NULL,
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_event_detections_label ON event_detections(label);
	CREATE INDEX IF NOT EXISTS idx_event_detections_event_id ON event_detections(event_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// InsertEvent writes one event and its detections in a single transaction.
func (s *Store) InsertEvent(ev *Event) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO events (frame_id, session_id, timestamp, image_width, image_height, snapshot)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ev.FrameID, ev.SessionID, ev.Timestamp, ev.ImageWidth, ev.ImageHeight, ev.Snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	eventID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for _, d := range ev.Detections {
		_, err := tx.Exec(`
			INSERT INTO event_detections (event_id, label, class_id, confidence, box_left, box_top, box_right, box_bottom)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, eventID, d.Label, d.ClassID, d.Confidence, d.Left, d.Top, d.Right, d.Bottom)
		if err != nil {
			return 0, fmt.Errorf("failed to insert detection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return eventID, nil
}

// GetEvents retrieves events matching the filter, newest first.
func (s *Store) GetEvents(filter *EventFilter) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT DISTINCT e.id, e.frame_id, e.session_id, e.timestamp, e.image_width, e.image_height, e.snapshot
		FROM events e
		LEFT JOIN event_detections d ON e.id = d.event_id
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.SessionID != "" {
		query += " AND e.session_id = ?"
		args = append(args, filter.SessionID)
	}
	if filter.Label != "" {
		query += " AND d.label = ?"
		args = append(args, filter.Label)
	}
	if filter.MinConfidence > 0 {
		query += " AND d.confidence >= ?"
		args = append(args, filter.MinConfidence)
	}
	if !filter.Since.IsZero() {
		query += " AND e.timestamp >= ?"
		args = append(args, filter.Since)
	}
	if !filter.Until.IsZero() {
		query += " AND e.timestamp <= ?"
		args = append(args, filter.Until)
	}

	query += " ORDER BY e.timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		err := rows.Scan(&ev.ID, &ev.FrameID, &ev.SessionID, &ev.Timestamp, &ev.ImageWidth, &ev.ImageHeight, &ev.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		detections, err := s.getEventDetections(ev.ID)
		if err != nil {
			return nil, err
		}
		ev.Detections = detections
		events = append(events, ev)
	}
	return events, nil
}

func (s *Store) getEventDetections(eventID int64) ([]detect.Detection, error) {
	rows, err := s.db.Query(`
		SELECT label, class_id, confidence, box_left, box_top, box_right, box_bottom
		FROM event_detections WHERE event_id = ?
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	var detections []detect.Detection
	for rows.Next() {
		var d detect.Detection
		if err := rows.Scan(&d.Label, &d.ClassID, &d.Confidence, &d.Left, &d.Top, &d.Right, &d.Bottom); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		detections = append(detections, d)
	}
	return detections, nil
}

// GetLabels returns every distinct label that has been detected.
func (s *Store) GetLabels() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT DISTINCT label FROM event_detections ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("failed to query labels: %w", err)
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan label: %w", err)
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// GetStats returns aggregate counts for the events API.
func (s *Store) GetStats() (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})

	var totalEvents int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&totalEvents); err != nil {
		return nil, err
	}
	stats["total_events"] = totalEvents

	rows, err := s.db.Query(`
		SELECT label, COUNT(*) as cnt
		FROM event_detections
		GROUP BY label
		ORDER BY cnt DESC
		LIMIT 10
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labelCounts := make(map[string]int)
	for rows.Next() {
		var label string
		var count int
		if err := rows.Scan(&label, &count); err != nil {
			return nil, err
		}
		labelCounts[label] = count
	}
	stats["label_counts"] = labelCounts

	return stats, nil
}

// DeleteEvent removes one event and its detections.
func (s *Store) DeleteEvent(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM event_detections WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete detections: %w", err)
	}
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	return err
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}
