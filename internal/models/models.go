package models

// FieldValues holds the values of one in-progress submission, keyed by
// field name. Values are strings, numbers, or booleans as decoded from JSON.
type FieldValues map[string]interface{}

// Clone returns a shallow copy.
func (v FieldValues) Clone() FieldValues {
	c := make(FieldValues, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// GeneratedImage is one persisted generation result. Records are immutable
// after creation. ID is the identity key; CreatedAt is display metadata and
// doubles as the de-duplication key for imports of older export files.
type GeneratedImage struct {
	ID            string      `json:"id"`
	ImageData     string      `json:"imageData"` // base64-encoded image payload
	Prompt        string      `json:"prompt"`
	RevisedPrompt string      `json:"revised_prompt,omitempty"`
	Settings      FieldValues `json:"settings"`  // the request actually sent, binary fields replaced by placeholders
	CreatedAt     string      `json:"timestamp"` // RFC 3339
}

// HistoryExport is the export file shape. Import consumes exactly this shape
// and rejects anything missing Version or whose Images is not a list.
type HistoryExport struct {
	Version   string           `json:"version"`
	Timestamp string           `json:"timestamp"`
	Images    []GeneratedImage `json:"images"`
}

// ExportVersion is the only export file version this build reads and writes.
const ExportVersion = "1.0"
