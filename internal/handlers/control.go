package handlers

import (
	"net/http"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/control"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
)

// DriveHandler relays a drive command to the wheelchair controller. The
// relay is fire-and-forget, so acceptance means queued, not delivered.
func DriveHandler(client *control.Client, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		cmd := control.Command(r.FormValue("cmd"))
		if err := client.Drive(cmd); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		log.Info("Drive command %s queued", cmd)
		w.WriteHeader(http.StatusAccepted)
	}
}

// StatusHandler proxies the controller's status blob to the browser.
func StatusHandler(client *control.Client, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := client.Status(r.Context())
		if err != nil {
			log.Warning("Status proxy failed: %v", err)
			http.Error(w, "Controller unreachable", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(status)
	}
}
