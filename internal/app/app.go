package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/camera"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/codec"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/control"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/detect"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/display"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/routes"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/scheduler"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/services"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/services/websocket"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/storage"
)

const statusPollInterval = time.Second

type App struct {
	config        *config.Config
	logger        *logger.Logger
	detector      *detect.Detector
	store         *storage.Store
	snapshots     *storage.SnapshotBuffer
	hub           *websocket.HubService
	manager       *services.Manager
	cameraClient  *camera.Client
	controlClient *control.Client
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	store, err := storage.NewStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening event store: %w", err)
	}

	// A model the resolver rejects disables detection for the lifetime of
	// the process; frame relay keeps working.
	detector := loadDetector(cfg, log)

	snapshots := storage.NewSnapshotBuffer(cfg.SnapshotDirectory, cfg.SnapshotBufferLimit, log)
	hub := websocket.NewHubService(log)
	mapper := display.NewMapper(0, 0)
	sched := scheduler.New(cfg.InferenceCooldown)

	manager := services.NewManager(detector, sched, mapper, hub, store, snapshots, cfg, log)

	return &App{
		config:        cfg,
		logger:        log,
		detector:      detector,
		store:         store,
		snapshots:     snapshots,
		hub:           hub,
		manager:       manager,
		cameraClient:  camera.NewClient(cfg.StreamURL, log),
		controlClient: control.NewClient(cfg.ControlURL, log),
	}, nil
}

func loadDetector(cfg *config.Config, log *logger.Logger) *detect.Detector {
	invoker, err := detect.NewTFLiteInvoker(cfg.ModelPath)
	if err != nil {
		log.Error("Detection disabled: %v", err)
		return nil
	}

	detector, err := detect.NewDetector(invoker, codec.NewGoCVCodec(), log, cfg.ConfidenceThreshold, cfg.IoUThreshold)
	if err != nil {
		invoker.Close()
		log.Error("Detection disabled: %v", err)
		return nil
	}
	return detector
}

// Run starts every background service and blocks serving HTTP until the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)
	go a.snapshots.Run(ctx, a.config.SnapshotFlushInterval)
	go a.manager.Run(ctx)
	go a.runCameraSession(ctx)
	go a.controlClient.PollStatus(ctx, statusPollInterval, a.manager.BroadcastStatus)

	router := routes.SetupRoutes(a.manager, a.store, a.controlClient, a.config, a.logger)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.config.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	a.logger.Info("Wheelchair ground station listening on :%d", a.config.Port)
	a.logger.Info("Camera stream: %s", a.config.StreamURL)
	a.logger.Info("Control server: %s", a.config.ControlURL)

	err := server.ListenAndServe()
	a.shutdown()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// runCameraSession drives one stream session. Reconnection policy is out
// of scope; a terminal stream error leaves the server up for viewers and
// the events API.
func (a *App) runCameraSession(ctx context.Context) {
	err := a.cameraClient.Stream(ctx, a.manager.Frames())
	if err != nil && ctx.Err() == nil {
		a.logger.Error("Camera stream terminated: %v", err)
		a.manager.NotifyStreamInactive()
	}
}

func (a *App) shutdown() {
	if a.detector != nil {
		a.detector.Close()
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing event store: %v", err)
	}
}
