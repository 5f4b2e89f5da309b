package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
)

// ListSnapshotsHandler lists the annotated snapshot files on disk.
func ListSnapshotsHandler(cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := os.ReadDir(cfg.SnapshotDirectory)
		if err != nil {
			if os.IsNotExist(err) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte("[]"))
				return
			}
			log.Error("Failed to read snapshot directory: %v", err)
			http.Error(w, "Unable to read snapshots", http.StatusInternalServerError)
			return
		}

		names := []string{}
		for _, f := range files {
			if !f.IsDir() && strings.HasSuffix(f.Name(), ".jpg") {
				names = append(names, f.Name())
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(names); err != nil {
			log.Error("Error encoding JSON response: %v", err)
		}
	}
}

// ViewSnapshotHandler serves one snapshot by filename. The name is
// sanitized to its base to keep requests inside the snapshot directory.
func ViewSnapshotHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Query().Get("name"))
		if name == "." || name == "/" {
			http.Error(w, "Missing snapshot name", http.StatusBadRequest)
			return
		}
		http.ServeFile(w, r, filepath.Join(cfg.SnapshotDirectory, name))
	}
}
