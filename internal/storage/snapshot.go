package storage

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/detect"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
)

var (
	boxColor   = color.RGBA{R: 0, G: 220, B: 70, A: 255}
	labelColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Snapshot is one annotated frame awaiting its flush to disk.
type Snapshot struct {
	Filename  string
	SessionID string
	Timestamp time.Time
	Data      []byte
}

// SnapshotBuffer collects annotated JPEGs in memory and writes them out on
// a ticker, so detection bursts do not turn into disk write bursts.
type SnapshotBuffer struct {
	dir       string
	limit     int
	snapshots []Snapshot
	logger    *logger.Logger
	mu        sync.Mutex
}

// NewSnapshotBuffer creates a buffer that flushes into dir and holds at
// most limit snapshots between flushes. Overflow drops the newest frame;
// earlier snapshots of the same burst are the more interesting ones.
func NewSnapshotBuffer(dir string, limit int, log *logger.Logger) *SnapshotBuffer {
	return &SnapshotBuffer{
		dir:       dir,
		limit:     limit,
		snapshots: make([]Snapshot, 0, limit),
		logger:    log,
	}
}

// Run flushes on the given interval until the context is cancelled, then
// performs one final flush.
func (b *SnapshotBuffer) Run(ctx context.Context, flushInterval time.Duration) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.Flush()
			return
		case <-ticker.C:
			b.Flush()
		}
	}
}

// Add annotates the frame with its detections and queues it. It returns
// the filename the snapshot will be written under, or an empty string when
// the buffer is full or annotation fails.
func (b *SnapshotBuffer) Add(jpeg []byte, sessionID string, set detect.DetectionSet) string {
	annotated, err := Annotate(jpeg, set.Detections)
	if err != nil {
		b.logger.Warning("Snapshot annotation failed: %v", err)
		return ""
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.snapshots) >= b.limit {
		return ""
	}

	now := time.Now()
	filename := fmt.Sprintf("%s_%s.jpg", now.Format("2006-01-02_15-04-05.000"), uuid.NewString()[:8])
	b.snapshots = append(b.snapshots, Snapshot{
		Filename:  filename,
		SessionID: sessionID,
		Timestamp: now,
		Data:      annotated,
	})
	return filename
}

// Flush writes every queued snapshot to disk and empties the buffer.
func (b *SnapshotBuffer) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.snapshots) == 0 {
		return
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		b.logger.Error("Error creating snapshot directory: %v", err)
		return
	}

	for _, snap := range b.snapshots {
		fullpath := filepath.Join(b.dir, snap.Filename)
		if err := os.WriteFile(fullpath, snap.Data, 0644); err != nil {
			b.logger.Error("Error saving snapshot %s: %v", snap.Filename, err)
			continue
		}
	}

	b.logger.Info("Flushed %d snapshots to disk", len(b.snapshots))
	b.snapshots = b.snapshots[:0]
}

// Pending reports how many snapshots await the next flush.
func (b *SnapshotBuffer) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.snapshots)
}

// Annotate draws detection boxes and captions onto the JPEG and re-encodes
// it.
func Annotate(jpeg []byte, detections []detect.Detection) ([]byte, error) {
	mat, err := gocv.IMDecode(jpeg, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("decoding snapshot: empty image")
	}

	for _, d := range detections {
		rect := image.Rect(int(d.Left), int(d.Top), int(d.Right), int(d.Bottom))
		gocv.Rectangle(&mat, rect, boxColor, 2)

		caption := fmt.Sprintf("%s %.0f%%", d.Label, d.Confidence*100)
		origin := image.Pt(int(d.Left), int(d.Top)-6)
		if origin.Y < 12 {
			origin.Y = int(d.Bottom) + 16
		}
		gocv.PutText(&mat, caption, origin, gocv.FontHersheySimplex, 0.5, labelColor, 1)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}
