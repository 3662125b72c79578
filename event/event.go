package event

import (
	"maps"
	"time"

	"github.com/DeluxeOwl/factlog/pkg/timeutils"
	"github.com/gofrs/uuid/v5"
)

// Payload is the domain-specific body of an event. Keys are namespaced by
// convention ("order.customerId") to avoid collisions across domains.
type Payload map[string]any

// Metadata carries operational fields alongside the payload.
type Metadata map[string]string

// Well-known metadata keys. New stamps MetaEventID and MetaRecordTime on
// every candidate unless the caller already set them.
const (
	MetaEventID    = "eventId"
	MetaRecordTime = "recordTime"
	MetaActor      = "actor"
)

// Event is a single immutable fact.
//
// A candidate is built by the caller (usually via New) and has no meaningful
// ID; it becomes a stored event only once a log accepts it and returns the
// copy carrying the assigned ID. The log assigns ids as zero-based positions
// in append order.
//
// For Payload and Metadata, a nil map means the field is absent and fails
// validation; a non-nil empty map is present-and-empty and passes.
type Event struct {
	ID       int64
	StreamID string
	Type     string
	Payload  Payload
	Metadata Metadata
	Version  int
}

type NewOption func(*newConfig)

type newConfig struct {
	payload  Payload
	metadata Metadata
	version  int
	clock    timeutils.TimeProvider
}

// WithPayload sets the candidate's payload. The map is cloned.
func WithPayload(p Payload) NewOption {
	return func(c *newConfig) {
		c.payload = maps.Clone(p)
	}
}

// WithMetadata sets the candidate's metadata. The map is cloned; the
// well-known keys are still stamped afterwards unless already present.
func WithMetadata(m Metadata) NewOption {
	return func(c *newConfig) {
		c.metadata = maps.Clone(m)
	}
}

// WithMeta sets a single metadata key.
func WithMeta(key, value string) NewOption {
	return func(c *newConfig) {
		if c.metadata == nil {
			c.metadata = Metadata{}
		}
		c.metadata[key] = value
	}
}

// WithActor records the originating actor in the metadata.
func WithActor(actor string) NewOption {
	return WithMeta(MetaActor, actor)
}

// WithVersion sets the payload schema version. Defaults to 1.
func WithVersion(v int) NewOption {
	return func(c *newConfig) {
		c.version = v
	}
}

// WithRecordTime pins the record time instead of reading the clock.
func WithRecordTime(t time.Time) NewOption {
	return WithMeta(MetaRecordTime, t.UTC().Format(time.RFC3339))
}

// WithClock swaps the clock used to stamp the record time.
func WithClock(clock timeutils.TimeProvider) NewOption {
	return func(c *newConfig) {
		c.clock = clock
	}
}

// New builds a candidate event for a stream. The candidate carries an empty
// payload, schema version 1, and metadata stamped with a UUIDv7 event id and
// an RFC3339 UTC record time, unless options say otherwise. New never
// validates; validation happens at append.
func New(streamID string, eventType string, opts ...NewOption) Event {
	cfg := &newConfig{
		payload:  Payload{},
		metadata: nil,
		version:  1,
		clock:    timeutils.NewRealTimeProvider(),
	}

	for _, o := range opts {
		o(cfg)
	}

	if cfg.metadata == nil {
		cfg.metadata = Metadata{}
	}
	if _, ok := cfg.metadata[MetaEventID]; !ok {
		cfg.metadata[MetaEventID] = uuid.Must(uuid.NewV7()).String()
	}
	if _, ok := cfg.metadata[MetaRecordTime]; !ok {
		cfg.metadata[MetaRecordTime] = cfg.clock.Now().UTC().Format(time.RFC3339)
	}

	return Event{
		ID:       0,
		StreamID: streamID,
		Type:     eventType,
		Payload:  cfg.payload,
		Metadata: cfg.metadata,
		Version:  cfg.version,
	}
}

// Clone returns a copy whose top-level payload and metadata maps are
// independent of the receiver's. Nested payload values are shared.
func (e Event) Clone() Event {
	e.Payload = maps.Clone(e.Payload)
	e.Metadata = maps.Clone(e.Metadata)
	return e
}

// RecordTime parses the MetaRecordTime metadata entry. The second return is
// false when the entry is missing or not RFC3339. The result is in UTC.
func (e Event) RecordTime() (time.Time, bool) {
	raw, ok := e.Metadata[MetaRecordTime]
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
