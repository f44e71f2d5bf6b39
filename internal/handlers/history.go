package handlers

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hyprflux/hyprflux/internal/history"
	"github.com/hyprflux/hyprflux/internal/logger"
)

type HistoryHandler struct {
	store     *history.Store
	broadcast Broadcaster
}

func NewHistoryHandler(store *history.Store, broadcast Broadcaster) *HistoryHandler {
	return &HistoryHandler{store: store, broadcast: broadcast}
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List()
	if err != nil {
		logger.Error("Failed to list history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(id); err != nil {
		logger.Error("Failed to delete record %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete record")
		return
	}
	h.broadcast("image_deleted", map[string]string{"id": id})
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(); err != nil {
		logger.Error("Failed to clear history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	h.broadcast("history_cleared", map[string]bool{"cleared": true})
	writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// Export streams the full history as a downloadable snapshot file.
func (h *HistoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	recs, err := h.store.List()
	if err != nil {
		logger.Error("Failed to export history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to export history")
		return
	}

	filename := fmt.Sprintf("hyprflux-history-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, history.Snapshot(recs))
}

// Import merges an uploaded snapshot into the store. Malformed files are
// rejected wholesale; duplicates are skipped, never overwritten.
func (h *HistoryHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 256<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	recs, err := history.ParseExport(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inserted, err := h.store.ImportBatch(recs)
	if err != nil {
		logger.Error("Failed to import history: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to import history")
		return
	}

	h.broadcast("history_imported", map[string]int{"imported": inserted})
	writeJSON(w, http.StatusOK, map[string]int{
		"imported": inserted,
		"skipped":  len(recs) - inserted,
	})
}

// File serves one record's image bytes as a PNG download with a filename
// derived from the prompt and creation time.
func (h *HistoryHandler) File(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.Get(id)
	if err != nil {
		logger.Error("Failed to load record %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load record")
		return
	}
	if rec == nil || rec.ImageData == "" {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	raw, err := base64.StdEncoding.DecodeString(rec.ImageData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stored image is not valid base64")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `attachment; filename="`+history.DownloadName(rec.Prompt, rec.CreatedAt)+`"`)
	w.Write(raw)
}
