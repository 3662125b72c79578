package eventlog

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"sync"

	"github.com/DeluxeOwl/factlog/event"
	"github.com/DeluxeOwl/factlog/internal/assert"
)

var _ event.Log = (*Memory)(nil)

// Memory is the in-memory append-only event log. It is the exclusive owner
// of the stored sequence and of id assignment: ids are a dense, gapless,
// strictly increasing sequence starting at 0, equal to append order.
//
// Append is the sole mutation point and is guarded by the write lock, so two
// concurrent appends never share an id. Readers iterate over a snapshot
// taken under the read lock and never observe a torn write.
type Memory struct {
	mu     sync.RWMutex
	events []event.Event

	// Incrementally maintained indices, positions in append order.
	byStream map[string][]int64
	byType   map[string][]int64

	log *slog.Logger
}

type MemoryOption func(*Memory)

func WithSlogHandler(handler slog.Handler) MemoryOption {
	return func(mem *Memory) {
		if handler == nil {
			mem.log = slog.New(slog.DiscardHandler)
			return
		}
		mem.log = slog.New(handler)
	}
}

// NewMemory creates a new, empty log.
func NewMemory(opts ...MemoryOption) *Memory {
	mem := &Memory{
		mu:       sync.RWMutex{},
		events:   nil,
		byStream: make(map[string][]int64),
		byType:   make(map[string][]int64),
		log:      slog.Default(),
	}

	for _, opt := range opts {
		opt(mem)
	}

	return mem
}

// Append validates the candidate and, on success, stores a copy carrying the
// next id and returns it. The candidate is never mutated and any id it
// carries is ignored. On failure the log is left unchanged and the error
// names the missing field (match with errors.Is against the event package
// sentinels).
func (mem *Memory) Append(ctx context.Context, candidate event.Event) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, fmt.Errorf("append: %w", err)
	}

	if err := candidate.Validate(); err != nil {
		return event.Event{}, fmt.Errorf("append: %w", err)
	}

	mem.mu.Lock()
	defer mem.mu.Unlock()

	stored := candidate.Clone()
	stored.ID = int64(len(mem.events))

	mem.events = append(mem.events, stored)
	mem.byStream[stored.StreamID] = append(mem.byStream[stored.StreamID], stored.ID)
	mem.byType[stored.Type] = append(mem.byType[stored.Type], stored.ID)

	assert.That(int64(len(mem.events)) == stored.ID+1,
		"eventlog: id %d does not match log length %d", stored.ID, len(mem.events))

	mem.log.DebugContext(ctx, "appended event",
		"id", stored.ID,
		"stream", stored.StreamID,
		"type", stored.Type,
	)

	return stored.Clone(), nil
}

// All yields every stored event in append order. The iterator walks a
// snapshot: appends that happen mid-iteration are not observed. Yielded
// events are copies, mutating them cannot reach the stored sequence.
func (mem *Memory) All(ctx context.Context) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		mem.mu.RLock()
		snapshot := mem.cloneEvents(allPositions(len(mem.events)))
		mem.mu.RUnlock()

		yieldAll(ctx, snapshot, yield)
	}
}

// Stream yields the events of one stream in append order, served from the
// stream index. An unknown stream yields nothing.
func (mem *Memory) Stream(ctx context.Context, streamID string) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		mem.mu.RLock()
		snapshot := mem.cloneEvents(mem.byStream[streamID])
		mem.mu.RUnlock()

		yieldAll(ctx, snapshot, yield)
	}
}

// ByType yields the events of one type across all streams in append order,
// served from the type index. An unknown type yields nothing.
func (mem *Memory) ByType(ctx context.Context, eventType string) iter.Seq[event.Event] {
	return func(yield func(event.Event) bool) {
		mem.mu.RLock()
		snapshot := mem.cloneEvents(mem.byType[eventType])
		mem.mu.RUnlock()

		yieldAll(ctx, snapshot, yield)
	}
}

// Len reports the number of stored events.
func (mem *Memory) Len() int {
	mem.mu.RLock()
	defer mem.mu.RUnlock()
	return len(mem.events)
}

// cloneEvents copies the events at the given positions. Callers must hold at
// least the read lock.
func (mem *Memory) cloneEvents(positions []int64) []event.Event {
	out := make([]event.Event, len(positions))
	for i, pos := range positions {
		out[i] = mem.events[pos].Clone()
	}
	return out
}

func allPositions(n int) []int64 {
	positions := make([]int64, n)
	for i := range positions {
		positions[i] = int64(i)
	}
	return positions
}

func yieldAll(ctx context.Context, events []event.Event, yield func(event.Event) bool) {
	for _, e := range events {
		if ctx.Err() != nil {
			return
		}
		if !yield(e) {
			return
		}
	}
}
