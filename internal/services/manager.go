package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/codec"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/detect"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/display"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/scheduler"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/storage"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/services/websocket"
)

// viewerMessage is the envelope broadcast to browser viewers on every
// tick. Image is base64 JPEG; Placements are canvas-space overlay
// instructions matching the configured canvas size.
type viewerMessage struct {
	Type        string              `json:"type"`
	SessionID   string              `json:"session_id,omitempty"`
	Image       string              `json:"image,omitempty"`
	ImageWidth  int                 `json:"image_width,omitempty"`
	ImageHeight int                 `json:"image_height,omitempty"`
	Detections  []detect.Detection  `json:"detections,omitempty"`
	Placements  []display.Placement `json:"placements,omitempty"`
	Status      json.RawMessage     `json:"status,omitempty"`
}

type detectionResult struct {
	frame []byte
	set   detect.DetectionSet
	err   error
}

// Manager owns the live pipeline state: the most recent frame, the most
// recent detection set and its canvas placements. All mutation happens on
// the Run goroutine; other goroutines communicate over channels.
type Manager struct {
	detector  *detect.Detector // nil when the model was rejected at load
	scheduler *scheduler.Scheduler
	mapper    *display.Mapper
	hub       *websocket.HubService
	store     *storage.Store
	snapshots *storage.SnapshotBuffer
	logger    *logger.Logger
	cfg       *config.Config

	frames  chan []byte
	results chan detectionResult

	sessionID        string
	latestFrame      []byte
	latestSet        detect.DetectionSet
	latestPlacements []display.Placement
}

// NewManager wires the pipeline. A nil detector disables inference while
// keeping frame relay alive.
func NewManager(detector *detect.Detector, sched *scheduler.Scheduler, mapper *display.Mapper, hub *websocket.HubService, store *storage.Store, snapshots *storage.SnapshotBuffer, cfg *config.Config, log *logger.Logger) *Manager {
	return &Manager{
		detector:  detector,
		scheduler: sched,
		mapper:    mapper,
		hub:       hub,
		store:     store,
		snapshots: snapshots,
		logger:    log,
		cfg:       cfg,
		frames:    make(chan []byte, 8),
		results:   make(chan detectionResult, 1),
		sessionID: uuid.NewString(),
	}
}

// Frames is the channel the camera session feeds complete payloads into.
func (m *Manager) Frames() chan<- []byte {
	return m.frames
}

// SessionID identifies the current pipeline run in events and logs.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Run is the pipeline's consumer loop. It exits when the context is
// cancelled, after stopping the scheduler and notifying viewers that the
// stream has gone inactive.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.BroadcastInterval)
	defer ticker.Stop()

	m.logger.Info("Pipeline session %s started", m.sessionID)

	for {
		select {
		case <-ctx.Done():
			m.scheduler.Stop()
			m.NotifyStreamInactive()
			m.logger.Info("Pipeline session %s stopped", m.sessionID)
			return

		case frame := <-m.frames:
			m.latestFrame = frame
			m.maybeDispatch(frame)

		case res := <-m.results:
			m.handleResult(res)

		case <-ticker.C:
			m.broadcastTick()
		}
	}
}

// maybeDispatch hands the frame to the detector unless inference is
// disabled, busy, or cooling. Rejected frames are still relayed; they are
// only dropped from inference.
func (m *Manager) maybeDispatch(frame []byte) {
	if m.detector == nil {
		return
	}
	if !m.scheduler.TryAcquire() {
		return
	}

	go func() {
		set, err := m.detector.Detect(frame)
		m.scheduler.Release()
		m.results <- detectionResult{frame: frame, set: set, err: err}
	}()
}

func (m *Manager) handleResult(res detectionResult) {
	if res.err != nil {
		if errors.Is(res.err, codec.ErrDecode) {
			m.logger.Warning("Frame skipped: %v", res.err)
		} else {
			m.logger.Error("Detection failed: %v", res.err)
		}
		return
	}

	m.latestSet = res.set
	m.latestPlacements = m.mapper.Map(res.set, m.cfg.CanvasWidth, m.cfg.CanvasHeight)

	if len(res.set.Detections) > 0 {
		m.persistEvent(res)
	}
}

// persistEvent queues an annotated snapshot and records the event. Storage
// failures are logged; the live pipeline does not depend on them.
func (m *Manager) persistEvent(res detectionResult) {
	snapshot := m.snapshots.Add(res.frame, m.sessionID, res.set)

	_, err := m.store.InsertEvent(&storage.Event{
		FrameID:     uuid.NewString(),
		SessionID:   m.sessionID,
		Timestamp:   time.Now(),
		ImageWidth:  res.set.ImageWidth,
		ImageHeight: res.set.ImageHeight,
		Snapshot:    snapshot,
		Detections:  res.set.Detections,
	})
	if err != nil {
		m.logger.Error("Failed to persist detection event: %v", err)
	}
}

// broadcastTick publishes the most recent frame with the most recent
// detection set. The set may be one throttle cycle stale relative to the
// frame; viewers accept that.
func (m *Manager) broadcastTick() {
	if m.latestFrame == nil {
		return
	}

	msg := viewerMessage{
		Type:        "frame",
		SessionID:   m.sessionID,
		Image:       base64.StdEncoding.EncodeToString(m.latestFrame),
		ImageWidth:  m.latestSet.ImageWidth,
		ImageHeight: m.latestSet.ImageHeight,
		Detections:  m.latestSet.Detections,
		Placements:  m.latestPlacements,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		m.logger.Error("Failed to encode viewer message: %v", err)
		return
	}
	m.hub.Broadcast(payload)
}

// NotifyStreamInactive tells viewers the camera stream has stopped.
func (m *Manager) NotifyStreamInactive() {
	payload, err := json.Marshal(viewerMessage{Type: "stream_inactive", SessionID: m.sessionID})
	if err != nil {
		return
	}
	m.hub.Broadcast(payload)
}

// BroadcastStatus relays a controller status blob to viewers.
func (m *Manager) BroadcastStatus(status json.RawMessage) {
	payload, err := json.Marshal(viewerMessage{Type: "status", Status: status})
	if err != nil {
		m.logger.Error("Failed to encode status message: %v", err)
		return
	}
	m.hub.Broadcast(payload)
}

// GetHub exposes the websocket hub for the viewer handler.
func (m *Manager) GetHub() *websocket.HubService {
	return m.hub
}
