package history

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hyprflux/hyprflux/internal/models"
)

// ErrBadFormat rejects an import file that is not a history export: no
// version field, or an images field that is not a list. Malformed files are
// rejected wholesale; nothing is partially imported.
var ErrBadFormat = errors.New("invalid history file: missing version or images list")

// Snapshot wraps the given records in the export envelope.
func Snapshot(recs []models.GeneratedImage) models.HistoryExport {
	return models.HistoryExport{
		Version:   models.ExportVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Images:    recs,
	}
}

// ParseExport decodes and validates an export file. The images slice keeps
// the file's order; de-duplication happens later at import time.
func ParseExport(data []byte) ([]models.GeneratedImage, error) {
	var raw struct {
		Version string          `json:"version"`
		Images  json.RawMessage `json:"images"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrBadFormat
	}
	if raw.Version == "" || len(raw.Images) == 0 {
		return nil, ErrBadFormat
	}

	var images []models.GeneratedImage
	if err := json.Unmarshal(raw.Images, &images); err != nil {
		return nil, ErrBadFormat
	}
	if images == nil {
		// "images": null is not a list.
		return nil, ErrBadFormat
	}
	return images, nil
}
