package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/services"
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ViewWebsocketHandler upgrades a viewer connection and parks it on the
// hub. Viewers only receive; inbound reads exist to notice disconnects
// and answer pings.
func ViewWebsocketHandler(manager *services.Manager, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade error: %v", err)
			return
		}
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(60 * time.Second))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		defer connection.Close()

		manager.GetHub().Register(connection)
		defer manager.GetHub().Unregister(connection)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				log.Info("Viewer disconnected: %v", err)
				break
			}
		}
	}
}
