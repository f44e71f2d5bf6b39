// Package history persists generated image records. Metadata and image
// payloads live in separate tables; listings join the two and tolerate a
// missing payload by dropping the record rather than failing the call.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyprflux/hyprflux/internal/database"
	"github.com/hyprflux/hyprflux/internal/logger"
	"github.com/hyprflux/hyprflux/internal/models"
)

type Store struct {
	db *database.DB

	// Serializes the four mutation paths (append, delete, clear, import)
	// so no two writes can interleave on the position counter.
	mu sync.Mutex
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

// Append persists a new record at the front of the history: fresh
// generations are shown newest-first.
func (s *Store) Append(rec *models.GeneratedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var front sql.NullInt64
	if err := tx.QueryRow("SELECT MIN(position) FROM images").Scan(&front); err != nil {
		return fmt.Errorf("read front position: %w", err)
	}
	pos := int64(0)
	if front.Valid {
		pos = front.Int64 - 1
	}

	if err := insertRecord(tx, rec, pos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// List returns all records oldest-position-first (newest generation first),
// payloads joined in. A record whose payload cannot be located is dropped
// and logged, never surfaced as an error.
func (s *Store) List() ([]models.GeneratedImage, error) {
	rows, err := s.db.Query(`
		SELECT i.id, i.created_at, i.prompt, i.revised_prompt, i.settings, p.data
		FROM images i
		LEFT JOIN image_payloads p ON p.image_id = i.id
		ORDER BY i.position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	out := []models.GeneratedImage{}
	for rows.Next() {
		var rec models.GeneratedImage
		var settingsJSON string
		var data sql.NullString
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Prompt, &rec.RevisedPrompt, &settingsJSON, &data); err != nil {
			return nil, fmt.Errorf("scan image row: %w", err)
		}
		if !data.Valid {
			logger.Warn("No image payload for record %s; skipping", rec.ID)
			continue
		}
		rec.ImageData = data.String
		rec.Settings = parseSettings(rec.ID, settingsJSON)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns one record by identity key (id, or created_at for records
// from older exports).
func (s *Store) Get(key string) (*models.GeneratedImage, error) {
	var rec models.GeneratedImage
	var settingsJSON string
	var data sql.NullString
	err := s.db.QueryRow(`
		SELECT i.id, i.created_at, i.prompt, i.revised_prompt, i.settings, p.data
		FROM images i
		LEFT JOIN image_payloads p ON p.image_id = i.id
		WHERE i.id = ? OR i.created_at = ?`, key, key).
		Scan(&rec.ID, &rec.CreatedAt, &rec.Prompt, &rec.RevisedPrompt, &settingsJSON, &data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	if data.Valid {
		rec.ImageData = data.String
	}
	rec.Settings = parseSettings(rec.ID, settingsJSON)
	return &rec, nil
}

// Delete removes one record by identity key. Deleting an absent key is not
// an error: the operation is idempotent.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM images WHERE id = ? OR created_at = ?", key, key); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// Clear removes all records and payloads.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin clear: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM image_payloads"); err != nil {
		return fmt.Errorf("clear payloads: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM images"); err != nil {
		return fmt.Errorf("clear images: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}

// ImportBatch merges externally supplied records into the store, skipping
// any whose identity already exists and never overwriting stored fields.
// Inserted records keep the input list's relative order, appended after the
// existing history. Returns how many records were actually inserted.
func (s *Store) ImportBatch(recs []models.GeneratedImage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	var back sql.NullInt64
	if err := tx.QueryRow("SELECT MAX(position) FROM images").Scan(&back); err != nil {
		return 0, fmt.Errorf("read back position: %w", err)
	}
	pos := int64(0)
	if back.Valid {
		pos = back.Int64 + 1
	}

	inserted := 0
	for i := range recs {
		rec := recs[i]
		if rec.ID == "" {
			// Older export files identify records by timestamp alone.
			rec.ID = uuid.New().String()
		}

		var count int
		if err := tx.QueryRow(
			"SELECT COUNT(*) FROM images WHERE id = ? OR created_at = ?",
			rec.ID, rec.CreatedAt,
		).Scan(&count); err != nil {
			return 0, fmt.Errorf("check duplicate: %w", err)
		}
		if count > 0 {
			continue
		}

		if err := insertRecord(tx, &rec, pos); err != nil {
			return 0, err
		}
		pos++
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, nil
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM images").Scan(&n); err != nil {
		return 0, fmt.Errorf("count images: %w", err)
	}
	return n, nil
}

// PruneOlderThan removes records whose creation time predates the cutoff.
// Used by the retention scheduler.
func (s *Store) PruneOlderThan(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM images WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("prune images: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func insertRecord(tx *sql.Tx, rec *models.GeneratedImage, pos int64) error {
	settings := rec.Settings
	if settings == nil {
		settings = models.FieldValues{}
	}
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO images (id, created_at, prompt, revised_prompt, settings, position) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.CreatedAt, rec.Prompt, rec.RevisedPrompt, string(settingsJSON), pos,
	); err != nil {
		return fmt.Errorf("insert image: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO image_payloads (image_id, data) VALUES (?, ?)",
		rec.ID, rec.ImageData,
	); err != nil {
		return fmt.Errorf("insert payload: %w", err)
	}
	return nil
}

func parseSettings(id, settingsJSON string) models.FieldValues {
	vals := models.FieldValues{}
	if settingsJSON == "" {
		return vals
	}
	if err := json.Unmarshal([]byte(settingsJSON), &vals); err != nil {
		logger.Warn("Unreadable settings for record %s: %v", id, err)
	}
	return vals
}
