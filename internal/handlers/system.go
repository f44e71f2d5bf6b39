package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/hyprflux/hyprflux/internal/history"
)

type SystemHandler struct {
	store   *history.Store
	started time.Time
}

func NewSystemHandler(store *history.Store) *SystemHandler {
	return &SystemHandler{store: store, started: time.Now()}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": AppVersion,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"images":  count,
		"go":      runtime.Version(),
	})
}
