package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hyprflux/hyprflux/internal/catalog"
	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/logger"
	"github.com/hyprflux/hyprflux/internal/models"
	"github.com/hyprflux/hyprflux/internal/scheduler"
	"github.com/hyprflux/hyprflux/internal/secrets"
)

// Settings table keys.
const (
	apiKeySetting = "api_key"
)

type SettingsHandler struct {
	db      *database.DB
	secrets *secrets.Manager
	sched   *scheduler.Scheduler
}

func NewSettingsHandler(db *database.DB, sm *secrets.Manager, sched *scheduler.Scheduler) *SettingsHandler {
	return &SettingsHandler{db: db, secrets: sm, sched: sched}
}

// GetAPIKey reports whether a key is configured. The key itself never
// leaves the server.
func (h *SettingsHandler) GetAPIKey(w http.ResponseWriter, r *http.Request) {
	enc, err := h.db.GetSetting(apiKeySetting)
	if err != nil {
		logger.Error("Failed to read API key setting: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": enc != ""})
}

func (h *SettingsHandler) UpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"api_key"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		if err := h.db.DeleteSetting(apiKeySetting); err != nil {
			logger.Error("Failed to clear API key: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to clear API key")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"configured": false})
		return
	}

	enc, err := h.secrets.Encrypt(key)
	if err != nil {
		logger.Error("Failed to encrypt API key: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store API key")
		return
	}
	if err := h.db.SetSetting(apiKeySetting, enc); err != nil {
		logger.Error("Failed to save API key: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store API key")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": true})
}

// GetFormValues returns the remembered field values for one model, or an
// empty object when nothing has been saved yet.
func (h *SettingsHandler) GetFormValues(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelID")
	if _, ok := catalog.Resolve(modelID); !ok {
		writeError(w, http.StatusNotFound, "unknown model: "+modelID)
		return
	}

	raw, err := h.db.GetSetting(formValuesKey(modelID))
	if err != nil {
		logger.Error("Failed to read form values for %s: %v", modelID, err)
		writeError(w, http.StatusInternalServerError, "failed to read setting")
		return
	}

	values := models.FieldValues{}
	if raw != "" {
		if parsed, perr := parseFieldValues(raw); perr == nil {
			values = parsed
		}
	}
	writeJSON(w, http.StatusOK, values)
}

func (h *SettingsHandler) UpdateFormValues(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelID")
	if _, ok := catalog.Resolve(modelID); !ok {
		writeError(w, http.StatusNotFound, "unknown model: "+modelID)
		return
	}

	var values models.FieldValues
	if err := decodeJSON(r, &values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := saveFormValues(h.db, modelID, values); err != nil {
		logger.Error("Failed to save form values for %s: %v", modelID, err)
		writeError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

func (h *SettingsHandler) GetRetention(w http.ResponseWriter, r *http.Request) {
	raw, err := h.db.GetSetting(scheduler.RetentionKey)
	if err != nil {
		logger.Error("Failed to read retention setting: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read setting")
		return
	}
	days := 0
	if raw != "" {
		days, _ = strconv.Atoi(raw)
	}
	writeJSON(w, http.StatusOK, map[string]int{"retention_days": days})
}

// UpdateRetention stores the retention window and re-arms the prune job.
// Zero disables pruning.
func (h *SettingsHandler) UpdateRetention(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RetentionDays int `json:"retention_days"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RetentionDays < 0 {
		writeError(w, http.StatusBadRequest, "retention_days must be zero or positive")
		return
	}

	if err := h.db.SetSetting(scheduler.RetentionKey, strconv.Itoa(req.RetentionDays)); err != nil {
		logger.Error("Failed to save retention setting: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to save setting")
		return
	}
	h.sched.ApplyRetention(req.RetentionDays)
	writeJSON(w, http.StatusOK, map[string]int{"retention_days": req.RetentionDays})
}

func parseFieldValues(raw string) (models.FieldValues, error) {
	var values models.FieldValues
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	return values, nil
}

func saveFormValues(db *database.DB, modelID string, values models.FieldValues) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return db.SetSetting(formValuesKey(modelID), string(data))
}

