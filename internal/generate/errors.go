package generate

import "errors"

// ErrBusy rejects a submit while another one is in flight. One submission
// per orchestrator at a time; the UI disables its trigger on this signal.
var ErrBusy = errors.New("a generation is already in progress")

// ValidationError is a local, pre-network schema rejection. The reason is
// surfaced to the user verbatim and nothing was sent or stored.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// APIError is a failed generation call: transport failure or a non-success
// response from the endpoint. Status is zero when the transport itself
// failed before a response arrived.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// StorageError reports that a successfully generated image could not be
// persisted. The in-memory result is still handed to the caller for the
// current session, but the record will not survive a reload.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "failed to save image: " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }
