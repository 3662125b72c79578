package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/DeluxeOwl/factlog/event"
	"golang.org/x/sync/errgroup"
)

// Projection is a named read-side fold driven by a Group.
type Projection interface {
	Name() string
	// EventTypes returns a slice of glob patterns to match against event
	// types. For example: "order-placed", "order-*", or "*" for all events.
	EventTypes() []string
	Handle(ctx context.Context, evt event.Event) error
}

var ErrBadPattern = errors.New("bad event type pattern")

type managedProjection struct {
	projection Projection
	patterns   []string
	matchesAll bool // Optimization for the "*" pattern.
}

// isInterested checks if a projection should handle a given event type.
func (mp *managedProjection) isInterested(eventType string) bool {
	if mp.matchesAll {
		return true
	}
	for _, pattern := range mp.patterns {
		// The error from filepath.Match can be ignored because all patterns
		// are validated when the Group is created in NewGroup. A malformed
		// pattern is a construction-time error, not a runtime one.
		if matched, _ := filepath.Match(pattern, eventType); matched {
			return true
		}
	}
	return false
}

// Group replays a single snapshot of a log through a set of projections.
// Each Run recomputes every projection from the beginning of the snapshot;
// there is no checkpointing and no delivery of later appends.
type Group struct {
	source             event.Reader
	log                *slog.Logger
	managedProjections []managedProjection
}

type GroupOption func(*Group)

func WithSlogHandler(handler slog.Handler) GroupOption {
	return func(g *Group) {
		if handler == nil {
			g.log = slog.New(slog.DiscardHandler)
			return
		}
		g.log = slog.New(handler)
	}
}

// NewGroup creates a projection group reading from source. It returns an
// error if any projection provides a malformed event type pattern.
func NewGroup(source event.Reader, projections []Projection, opts ...GroupOption) (*Group, error) {
	g := &Group{
		source:             source,
		log:                slog.Default(),
		managedProjections: make([]managedProjection, len(projections)),
	}

	for _, o := range opts {
		o(g)
	}

	for i, p := range projections {
		patterns := p.EventTypes()
		if len(patterns) == 0 {
			// A projection that listens to nothing. This is valid.
			g.managedProjections[i] = managedProjection{
				projection: p,
				patterns:   nil,
				matchesAll: false,
			}
			continue
		}

		matchesAll := false
		for _, pattern := range patterns {
			if _, err := filepath.Match(pattern, ""); err != nil {
				return nil, fmt.Errorf(
					"projection %q has an invalid event type pattern %q: %w",
					p.Name(),
					pattern,
					ErrBadPattern,
				)
			}
			if pattern == "*" {
				matchesAll = true
				break
			}
		}

		g.managedProjections[i] = managedProjection{
			projection: p,
			patterns:   patterns,
			matchesAll: matchesAll,
		}
	}

	return g, nil
}

// Run takes one snapshot of the source and feeds it to every projection
// concurrently, each in its own goroutine. It blocks until all projections
// have consumed the snapshot and returns the first handler error, if any.
func (g *Group) Run(ctx context.Context) error {
	snapshot := slices.Collect(g.source.All(ctx))
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("projection group: %w", err)
	}

	wg, ctx := errgroup.WithContext(ctx)

	for _, mp := range g.managedProjections {
		wg.Go(func() error {
			return g.runProjection(ctx, mp, snapshot)
		})
	}

	return wg.Wait()
}

func (g *Group) runProjection(ctx context.Context, mp managedProjection, snapshot []event.Event) error {
	pname := mp.projection.Name()

	if len(mp.patterns) == 0 {
		g.log.InfoContext(ctx, "Projection has no event types to handle, skipping.", "name", pname)
		return nil
	}

	var handled int
	for _, evt := range snapshot {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("projection %q: %w", pname, err)
		}

		if !mp.isInterested(evt.Type) {
			continue
		}

		if err := mp.projection.Handle(ctx, evt); err != nil {
			return fmt.Errorf("projection %q: handler failed on event %d: %w", pname, evt.ID, err)
		}
		handled++
	}

	g.log.DebugContext(ctx, "Projection run complete",
		"projection", pname,
		"handled", handled,
		"snapshot_size", len(snapshot),
	)

	return nil
}
