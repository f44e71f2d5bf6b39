package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/generate"
	"github.com/hyprflux/hyprflux/internal/logger"
	"github.com/hyprflux/hyprflux/internal/models"
	"github.com/hyprflux/hyprflux/internal/request"
	"github.com/hyprflux/hyprflux/internal/secrets"
)

// Broadcaster pushes an event to connected browser tabs.
type Broadcaster func(msgType string, payload interface{})

type GenerateHandler struct {
	db           *database.DB
	orchestrator *generate.Orchestrator
	secretsMgr   *secrets.Manager
	broadcast    Broadcaster
}

func NewGenerateHandler(db *database.DB, orchestrator *generate.Orchestrator, secretsMgr *secrets.Manager, broadcast Broadcaster) *GenerateHandler {
	return &GenerateHandler{db: db, orchestrator: orchestrator, secretsMgr: secretsMgr, broadcast: broadcast}
}

// Generate runs one submission. The request carries the raw form values;
// building, validation, the API call, and persistence all happen behind the
// orchestrator. Binary inputs make these bodies large, hence the raised
// decode limit.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Values models.FieldValues `json:"values"`
	}
	if err := decodeJSONLimit(r, &req, 64<<20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	modelID, _ := req.Values["model"].(string)
	if modelID == "" {
		writeError(w, http.StatusBadRequest, "model is required")
		return
	}
	if prompt, _ := req.Values["prompt"].(string); prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	apiKey, err := h.loadAPIKey()
	if err != nil || apiKey == "" {
		writeError(w, http.StatusBadRequest, "API key not configured")
		return
	}

	// Remember the submitted values so the form is pre-filled next time,
	// regardless of whether this particular generation succeeds.
	h.saveLastUsed(modelID, req.Values)

	rec, err := h.orchestrator.Submit(r.Context(), apiKey, modelID, req.Values)
	if err != nil {
		var validationErr *generate.ValidationError
		var apiErr *generate.APIError
		var storageErr *generate.StorageError
		switch {
		case errors.Is(err, generate.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, validationErr.Reason)
		case errors.As(err, &apiErr):
			writeError(w, http.StatusBadGateway, apiErr.Message)
		case errors.As(err, &storageErr):
			// The image exists for this session but will not survive a
			// reload; say so instead of silently dropping it.
			logger.Error("Image generated but not persisted: %v", storageErr)
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"image": rec,
				"saved": false,
				"error": storageErr.Error(),
			})
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.broadcast("image_generated", map[string]string{
		"id":        rec.ID,
		"prompt":    rec.Prompt,
		"timestamp": rec.CreatedAt,
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"image": rec,
		"saved": true,
	})
}

// Status reports whether a generation is currently in flight, so the UI can
// keep its submit trigger disabled across reloads.
func (h *GenerateHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"busy": h.orchestrator.Busy()})
}

func (h *GenerateHandler) loadAPIKey() (string, error) {
	encrypted, err := h.db.GetSetting(apiKeySetting)
	if err != nil || encrypted == "" {
		return "", err
	}
	return h.secretsMgr.Decrypt(encrypted)
}

func (h *GenerateHandler) saveLastUsed(modelID string, values models.FieldValues) {
	// Binary payloads are session-scoped; remembering them would bloat the
	// settings table for no benefit.
	trimmed := values.Clone()
	for _, name := range request.BinaryFields(modelID) {
		delete(trimmed, name)
	}

	data, err := json.Marshal(trimmed)
	if err != nil {
		return
	}
	if err := h.db.SetSetting(formValuesKey(modelID), string(data)); err != nil {
		logger.Warn("Failed to save last-used values for %s: %v", modelID, err)
	}
}
