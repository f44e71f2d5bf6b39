package generate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyprflux/hyprflux/internal/catalog"
	"github.com/hyprflux/hyprflux/internal/models"
	"github.com/hyprflux/hyprflux/internal/request"
)

// Store persists generated image records.
type Store interface {
	Append(rec *models.GeneratedImage) error
}

// Orchestrator owns the submit flow. States: idle -> submitting -> idle.
// Only one submission may be in flight; a second Submit during an active one
// fails fast with ErrBusy instead of racing the first.
type Orchestrator struct {
	client *Client
	store  Store

	mu         sync.Mutex
	submitting bool
}

func NewOrchestrator(client *Client, store Store) *Orchestrator {
	return &Orchestrator{client: client, store: store}
}

// Busy reports whether a submission is in flight.
func (o *Orchestrator) Busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.submitting
}

// Submit runs one generation: build the request, validate it, call the API,
// persist the normalized record. Exactly one network call; exactly one store
// write on success, none otherwise.
//
// On a storage failure the generated record is returned together with a
// *StorageError so the caller can still show the image while reporting that
// it will not survive a reload.
func (o *Orchestrator) Submit(ctx context.Context, apiKey, modelID string, values models.FieldValues) (*models.GeneratedImage, error) {
	o.mu.Lock()
	if o.submitting {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.submitting = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.submitting = false
		o.mu.Unlock()
	}()

	body := request.Build(modelID, values)

	if err := catalog.ValidateRequest(body); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}

	result, err := o.client.Generate(ctx, apiKey, body)
	if err != nil {
		return nil, err
	}

	prompt, _ := values["prompt"].(string)
	rec := &models.GeneratedImage{
		// Identity is a random id; the completion timestamp is kept as
		// display metadata and stays collision-tolerant.
		ID:            uuid.New().String(),
		ImageData:     result.ImageData,
		Prompt:        prompt,
		RevisedPrompt: result.RevisedPrompt,
		Settings:      storageSettings(modelID, body),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339Nano),
	}

	if err := o.store.Append(rec); err != nil {
		return rec, &StorageError{Err: err}
	}
	return rec, nil
}

// storageSettings derives the persisted settings from the request actually
// sent: binary payloads become fixed placeholder filenames and the has_*
// companion flags are stripped, no longer needed once placeholders are in
// place.
func storageSettings(modelID string, body models.FieldValues) models.FieldValues {
	settings := body.Clone()
	for _, name := range request.BinaryFields(modelID) {
		if _, ok := settings[name]; ok {
			delete(settings, name)
			settings[name+"_file"] = name + ".temp"
		}
		delete(settings, "has_"+name)
	}
	return settings
}
