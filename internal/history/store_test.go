package history

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.New(t.TempDir())
	if err != nil {
		t.Fatalf("database.New() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func testRecord(prompt string) *models.GeneratedImage {
	return &models.GeneratedImage{
		ID:        uuid.New().String(),
		ImageData: "aW1hZ2U=",
		Prompt:    prompt,
		Settings:  models.FieldValues{"model": "flux-1.1-pro", "prompt": prompt},
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
}

func TestAppendAndList(t *testing.T) {
	s := testStore(t)

	first := testRecord("first")
	second := testRecord("second")
	if err := s.Append(first); err != nil {
		t.Fatalf("Append(first) error: %v", err)
	}
	if err := s.Append(second); err != nil {
		t.Fatalf("Append(second) error: %v", err)
	}

	recs, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(recs))
	}
	// Newest first.
	if recs[0].Prompt != "second" || recs[1].Prompt != "first" {
		t.Errorf("order = [%s, %s], want [second, first]", recs[0].Prompt, recs[1].Prompt)
	}
	if recs[0].ImageData != "aW1hZ2U=" {
		t.Errorf("ImageData = %q", recs[0].ImageData)
	}
	if recs[0].Settings["model"] != "flux-1.1-pro" {
		t.Errorf("settings model = %v", recs[0].Settings["model"])
	}
}

func TestListEmpty(t *testing.T) {
	s := testStore(t)
	recs, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if recs == nil || len(recs) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", recs)
	}
}

func TestGet(t *testing.T) {
	s := testStore(t)
	rec := testRecord("findable")
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	byID, err := s.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get(id) error: %v", err)
	}
	if byID == nil || byID.Prompt != "findable" {
		t.Errorf("Get(id) = %v", byID)
	}

	byTime, err := s.Get(rec.CreatedAt)
	if err != nil {
		t.Fatalf("Get(created_at) error: %v", err)
	}
	if byTime == nil || byTime.ID != rec.ID {
		t.Errorf("Get(created_at) = %v", byTime)
	}

	missing, err := s.Get("no-such-key")
	if err != nil {
		t.Fatalf("Get(missing) error: %v", err)
	}
	if missing != nil {
		t.Errorf("Get(missing) = %v, want nil", missing)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	s := testStore(t)
	rec := testRecord("doomed")
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	if err := s.Delete(rec.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count() = %d after delete, want 0", n)
	}

	// Deleting again is a no-op, not an error.
	if err := s.Delete(rec.ID); err != nil {
		t.Errorf("second Delete() error: %v", err)
	}
}

func TestDeleteByCreatedAt(t *testing.T) {
	s := testStore(t)
	rec := testRecord("timestamped")
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if err := s.Delete(rec.CreatedAt); err != nil {
		t.Fatalf("Delete(created_at) error: %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestDeletePreservesOthers(t *testing.T) {
	s := testStore(t)
	keep := testRecord("keep")
	drop := testRecord("drop")
	s.Append(keep)
	s.Append(drop)

	if err := s.Delete(drop.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	recs, _ := s.List()
	if len(recs) != 1 || recs[0].ID != keep.ID {
		t.Errorf("List() after delete = %v, want only the kept record", recs)
	}
}

func TestClear(t *testing.T) {
	s := testStore(t)
	s.Append(testRecord("one"))
	s.Append(testRecord("two"))

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if n, _ := s.Count(); n != 0 {
		t.Errorf("Count() = %d after clear, want 0", n)
	}
}

func TestImportBatch(t *testing.T) {
	s := testStore(t)
	existing := testRecord("existing")
	if err := s.Append(existing); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	incoming := []models.GeneratedImage{
		*testRecord("imported-a"),
		*existing, // duplicate, must be skipped
		*testRecord("imported-b"),
	}
	inserted, err := s.ImportBatch(incoming)
	if err != nil {
		t.Fatalf("ImportBatch() error: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	recs, _ := s.List()
	if len(recs) != 3 {
		t.Fatalf("List() returned %d records, want 3", len(recs))
	}
	// Existing history stays in front; imports append in file order.
	wantOrder := []string{"existing", "imported-a", "imported-b"}
	for i, want := range wantOrder {
		if recs[i].Prompt != want {
			t.Errorf("recs[%d].Prompt = %q, want %q", i, recs[i].Prompt, want)
		}
	}
}

func TestImportBatchAssignsIDs(t *testing.T) {
	s := testStore(t)
	inserted, err := s.ImportBatch([]models.GeneratedImage{
		{
			ImageData: "aW1hZ2U=",
			Prompt:    "legacy record",
			CreatedAt: "2024-06-01T10:00:00Z",
		},
	})
	if err != nil {
		t.Fatalf("ImportBatch() error: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("inserted = %d, want 1", inserted)
	}

	recs, _ := s.List()
	if recs[0].ID == "" {
		t.Error("imported record has no assigned id")
	}
}

func TestImportBatchDuplicateTimestamp(t *testing.T) {
	s := testStore(t)
	rec := testRecord("original")
	s.Append(rec)

	// Same created_at under a different id still counts as a duplicate.
	dup := *testRecord("sneaky copy")
	dup.CreatedAt = rec.CreatedAt
	inserted, err := s.ImportBatch([]models.GeneratedImage{dup})
	if err != nil {
		t.Fatalf("ImportBatch() error: %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0", inserted)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := testStore(t)
	src.Append(testRecord("alpha"))
	src.Append(testRecord("beta"))

	recs, err := src.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	data, err := json.Marshal(Snapshot(recs))
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	parsed, err := ParseExport(data)
	if err != nil {
		t.Fatalf("ParseExport() error: %v", err)
	}

	dst := testStore(t)
	inserted, err := dst.ImportBatch(parsed)
	if err != nil {
		t.Fatalf("ImportBatch() error: %v", err)
	}
	if inserted != 2 {
		t.Errorf("inserted = %d, want 2", inserted)
	}

	out, _ := dst.List()
	if len(out) != 2 {
		t.Fatalf("destination has %d records, want 2", len(out))
	}
	for i := range recs {
		if out[i].ID != recs[i].ID {
			t.Errorf("out[%d].ID = %q, want %q", i, out[i].ID, recs[i].ID)
		}
		if out[i].Prompt != recs[i].Prompt {
			t.Errorf("out[%d].Prompt = %q, want %q", i, out[i].Prompt, recs[i].Prompt)
		}
		if out[i].ImageData != recs[i].ImageData {
			t.Errorf("out[%d] image data mismatch", i)
		}
	}
}

func TestPruneOlderThan(t *testing.T) {
	s := testStore(t)

	old := testRecord("old")
	old.CreatedAt = time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC3339Nano)
	fresh := testRecord("fresh")
	s.Append(old)
	s.Append(fresh)

	removed, err := s.PruneOlderThan(time.Now().Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneOlderThan() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	recs, _ := s.List()
	if len(recs) != 1 || recs[0].Prompt != "fresh" {
		t.Errorf("List() = %v, want only the fresh record", recs)
	}
}

func TestListSkipsMissingPayload(t *testing.T) {
	s := testStore(t)
	rec := testRecord("orphaned")
	if err := s.Append(rec); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	if _, err := s.db.Exec("DELETE FROM image_payloads WHERE image_id = ?", rec.ID); err != nil {
		t.Fatalf("delete payload: %v", err)
	}

	recs, err := s.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("List() returned %d records, want payload-less record skipped", len(recs))
	}
}
