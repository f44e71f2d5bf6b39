package history

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hyprflux/hyprflux/internal/models"
)

func TestSnapshot(t *testing.T) {
	recs := []models.GeneratedImage{
		{ID: "a", Prompt: "one", CreatedAt: "2025-01-01T00:00:00Z"},
	}
	snap := Snapshot(recs)
	if snap.Version != models.ExportVersion {
		t.Errorf("Version = %q, want %q", snap.Version, models.ExportVersion)
	}
	if snap.Timestamp == "" {
		t.Error("Timestamp is empty")
	}
	if len(snap.Images) != 1 || snap.Images[0].ID != "a" {
		t.Errorf("Images = %v", snap.Images)
	}
}

func TestParseExportRoundTrip(t *testing.T) {
	recs := []models.GeneratedImage{
		{ID: "a", Prompt: "one", ImageData: "AAAA", CreatedAt: "2025-01-01T00:00:00Z"},
		{ID: "b", Prompt: "two", ImageData: "BBBB", CreatedAt: "2025-01-02T00:00:00Z"},
	}
	data, err := json.Marshal(Snapshot(recs))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	parsed, err := ParseExport(data)
	if err != nil {
		t.Fatalf("ParseExport() error: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d records, want 2", len(parsed))
	}
	// File order is preserved.
	if parsed[0].ID != "a" || parsed[1].ID != "b" {
		t.Errorf("order = [%s, %s], want [a, b]", parsed[0].ID, parsed[1].ID)
	}
}

func TestParseExportEmptyImagesList(t *testing.T) {
	parsed, err := ParseExport([]byte(`{"version":"1.0","timestamp":"t","images":[]}`))
	if err != nil {
		t.Fatalf("ParseExport() error: %v", err)
	}
	if len(parsed) != 0 {
		t.Errorf("parsed %d records, want 0", len(parsed))
	}
}

func TestParseExportRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `this is not json`},
		{"missing version", `{"images":[]}`},
		{"missing images", `{"version":"1.0"}`},
		{"null images", `{"version":"1.0","images":null}`},
		{"images not a list", `{"version":"1.0","images":{"a":1}}`},
	}
	for _, tt := range tests {
		_, err := ParseExport([]byte(tt.data))
		if !errors.Is(err, ErrBadFormat) {
			t.Errorf("%s: error = %v, want ErrBadFormat", tt.name, err)
		}
	}
}

func TestDownloadName(t *testing.T) {
	tests := []struct {
		prompt    string
		createdAt string
		want      string
	}{
		{
			"A cat in a hat",
			"2025-03-14T09:26:53.123Z",
			"2025-03-14T09-26-53Z-a-cat-in-a-hat.png",
		},
		{
			"",
			"2025-03-14T09:26:53Z",
			"2025-03-14T09-26-53Z.png",
		},
		{
			"!!!???",
			"2025-03-14T09:26:53Z",
			"2025-03-14T09-26-53Z.png",
		},
	}
	for _, tt := range tests {
		if got := DownloadName(tt.prompt, tt.createdAt); got != tt.want {
			t.Errorf("DownloadName(%q, %q) = %q, want %q", tt.prompt, tt.createdAt, got, tt.want)
		}
	}
}

func TestPromptSlugTruncation(t *testing.T) {
	long := "a very long prompt that keeps going well past thirty characters"
	slug := promptSlug(long)
	if len(slug) > 30 {
		t.Errorf("slug %q is %d characters, want at most 30", slug, len(slug))
	}
	if slug != "a-very-long-prompt-that-keeps" {
		t.Errorf("slug = %q", slug)
	}
}
