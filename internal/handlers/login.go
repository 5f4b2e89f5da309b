package handlers

import (
	"net/http"

	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/config"
	"github.com/Min4code/Ai-Enabled-self-driving-wheelchair-GP/internal/logger"
)

// LoginHandler checks the operator password and sets the auth cookie.
func LoginHandler(cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if r.FormValue("password") != cfg.Password {
			log.Warning("Failed login attempt from %s", r.RemoteAddr)
			http.Error(w, "Invalid password", http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "authenticated",
			Value:    "true",
			Path:     "/",
			HttpOnly: true,
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
