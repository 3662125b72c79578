package event

import (
	"errors"

	"github.com/DeluxeOwl/zerrors"
)

type ValidationError string

const (
	ErrInvalidEvent ValidationError = "invalid_event"
)

// Sentinels naming the exact field a candidate is missing. Callers match
// with errors.Is.
var (
	ErrMissingStreamID = errors.New("missing stream id")
	ErrMissingType     = errors.New("missing event type")
	ErrMissingPayload  = errors.New("missing payload")
	ErrMissingMetadata = errors.New("missing metadata")
	ErrInvalidVersion  = errors.New("version must be positive")
)

// Validate checks the five required fields of a candidate. An empty non-nil
// payload or metadata map passes; a nil map does not. The ID is not checked,
// it belongs to the log.
func (e Event) Validate() error {
	switch {
	case e.StreamID == "":
		return zerrors.New(ErrInvalidEvent).WithError(ErrMissingStreamID)
	case e.Type == "":
		return zerrors.New(ErrInvalidEvent).With("stream", e.StreamID).WithError(ErrMissingType)
	case e.Payload == nil:
		return zerrors.New(ErrInvalidEvent).With("stream", e.StreamID).WithError(ErrMissingPayload)
	case e.Metadata == nil:
		return zerrors.New(ErrInvalidEvent).With("stream", e.StreamID).WithError(ErrMissingMetadata)
	case e.Version < 1:
		return zerrors.New(ErrInvalidEvent).With("stream", e.StreamID).WithError(ErrInvalidVersion)
	}
	return nil
}
