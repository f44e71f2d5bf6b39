package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyprflux/hyprflux/internal/catalog"
	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/models"
)

type CatalogHandler struct {
	db *database.DB
}

func NewCatalogHandler(db *database.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// Families lists all model families in tab order.
func (h *CatalogHandler) Families(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Families())
}

// Model returns everything the form needs for one concrete model: its
// effective fields, defaults, and the last-used values of a returning user.
func (h *CatalogHandler) Model(w http.ResponseWriter, r *http.Request) {
	modelID := chi.URLParam(r, "modelID")

	desc, ok := catalog.Resolve(modelID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown model: "+modelID)
		return
	}

	lastUsed := h.lastUsedValues(modelID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"model":     modelID,
		"name":      desc.DisplayName,
		"fields":    catalog.EffectiveFields(desc, modelID),
		"defaults":  catalog.Defaults(desc, modelID),
		"last_used": lastUsed,
	})
}

func (h *CatalogHandler) lastUsedValues(modelID string) models.FieldValues {
	stored, err := h.db.GetSetting(formValuesKey(modelID))
	if err != nil || stored == "" {
		return nil
	}
	var vals models.FieldValues
	if json.Unmarshal([]byte(stored), &vals) != nil {
		return nil
	}
	return vals
}

func formValuesKey(modelID string) string {
	return "form_values_" + modelID
}
