package event

import (
	"context"
	"iter"
)

// Appender is the single mutation point of a log.
type Appender interface {
	// Append validates the candidate, assigns the next id and stores a copy.
	// The returned event is the stored copy; the candidate is not mutated.
	// On a validation error the log is left unchanged.
	Append(ctx context.Context, candidate Event) (Event, error)
}

// Reader serves ordered reads. All three accessors yield events in append
// order over a consistent snapshot; an unknown stream or type yields an
// empty sequence, never an error.
type Reader interface {
	All(ctx context.Context) iter.Seq[Event]
	Stream(ctx context.Context, streamID string) iter.Seq[Event]
	ByType(ctx context.Context, eventType string) iter.Seq[Event]
}

type Log interface {
	Reader
	Appender
}

// If you want to decorate only one of the reader/appender.
type LogComposition struct {
	Reader
	Appender
}
