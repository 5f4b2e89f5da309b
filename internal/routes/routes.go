package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/control"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/handlers"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/middleware"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/services"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/storage"
)

// dynamicHTMLHandler serves /path as /static/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	if path == "/" {
		path = "/index"
	}

	filePath := filepath.Join("static", path+".html")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filePath)
}

// SetupRoutes registers the viewer socket, events API, control proxy, log
// endpoints and static pages, all behind the auth middleware.
func SetupRoutes(manager *services.Manager, store *storage.Store, controlClient *control.Client, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Viewer stream
	mux.HandleFunc("/api/view", handlers.ViewWebsocketHandler(manager, logger))

	// Detection events API
	mux.HandleFunc("/api/events", handlers.GetEventsHandler(store, logger))
	mux.HandleFunc("/api/events/labels", handlers.GetLabelsHandler(store, logger))
	mux.HandleFunc("/api/events/stats", handlers.GetStatsHandler(store, logger))
	mux.HandleFunc("/api/events/delete", handlers.DeleteEventHandler(store, logger))
	mux.HandleFunc("/api/snapshots", handlers.ListSnapshotsHandler(cfg, logger))
	mux.HandleFunc("/api/snapshots/view", handlers.ViewSnapshotHandler(cfg))

	// Wheelchair control proxy
	mux.HandleFunc("/api/drive", handlers.DriveHandler(controlClient, logger))
	mux.HandleFunc("/api/status", handlers.StatusHandler(controlClient, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handlers.ShowLogsHandler(cfg, "info.log"))
	mux.HandleFunc("/logs/warning", handlers.ShowLogsHandler(cfg, "warning.log"))
	mux.HandleFunc("/logs/error", handlers.ShowLogsHandler(cfg, "error.log"))
	mux.HandleFunc("/logs/info/clear", handlers.ClearLogsHandler(logger, "info.log"))
	mux.HandleFunc("/logs/warning/clear", handlers.ClearLogsHandler(logger, "warning.log"))
	mux.HandleFunc("/logs/error/clear", handlers.ClearLogsHandler(logger, "error.log"))

	// Auth endpoints
	mux.HandleFunc("/auth/login", handlers.LoginHandler(cfg, logger))
	mux.HandleFunc("/auth/logout", handlers.LogoutHandler)

	// Automatic HTML handler mapping for example: /settings -> /static/settings.html
	mux.HandleFunc("/", dynamicHTMLHandler)

	return middleware.AuthMiddleware(mux)
}
