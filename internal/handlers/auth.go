package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hyprflux/hyprflux/internal/auth"
	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/logger"
	"github.com/hyprflux/hyprflux/internal/middleware"
)

const accessLockSetting = "access_lock_hash"

type AuthHandler struct {
	db      *database.DB
	service *auth.Service

	mu   sync.RWMutex
	hash string
}

func NewAuthHandler(db *database.DB, service *auth.Service) (*AuthHandler, error) {
	hash, err := db.GetSetting(accessLockSetting)
	if err != nil {
		return nil, err
	}
	return &AuthHandler{db: db, service: service, hash: hash}, nil
}

// Locked reports whether a password gate is active. Wired into the access
// lock middleware and the websocket hub.
func (h *AuthHandler) Locked() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.hash != ""
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.RLock()
	hash := h.hash
	h.mu.RUnlock()

	if hash == "" {
		writeError(w, http.StatusBadRequest, "no access lock is set")
		return
	}
	if err := h.service.CheckPassword(hash, req.Password); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := h.service.GenerateToken()
	if err != nil {
		logger.Error("Failed to issue session token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Status lets the frontend decide whether to show the unlock screen.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	locked := h.Locked()
	authenticated := !locked
	if locked && h.service.ValidateToken(middleware.SessionToken(r)) == nil {
		authenticated = true
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"locked":        locked,
		"authenticated": authenticated,
	})
}

// SetAccessLock sets, changes, or removes the password gate. Changing or
// removing requires the current password.
func (h *AuthHandler) SetAccessLock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password        string `json:"password"`
		CurrentPassword string `json:"current_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.RLock()
	current := h.hash
	h.mu.RUnlock()

	if current != "" {
		if err := h.service.CheckPassword(current, req.CurrentPassword); err != nil {
			writeError(w, http.StatusUnauthorized, "current password is incorrect")
			return
		}
	}

	password := strings.TrimSpace(req.Password)
	if password == "" {
		if err := h.db.DeleteSetting(accessLockSetting); err != nil {
			logger.Error("Failed to remove access lock: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to remove access lock")
			return
		}
		h.mu.Lock()
		h.hash = ""
		h.mu.Unlock()
		logger.Warn("Access lock removed")
		writeJSON(w, http.StatusOK, map[string]bool{"locked": false})
		return
	}

	if len(password) < 8 {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := h.service.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to set access lock")
		return
	}
	if err := h.db.SetSetting(accessLockSetting, hash); err != nil {
		logger.Error("Failed to save access lock: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to set access lock")
		return
	}

	h.mu.Lock()
	h.hash = hash
	h.mu.Unlock()
	logger.Success("Access lock enabled")
	writeJSON(w, http.StatusOK, map[string]bool{"locked": true})
}

// Rate limit applied by the router to the login endpoint.
const (
	LoginRateLimit  = 5
	LoginRateWindow = time.Minute
)
