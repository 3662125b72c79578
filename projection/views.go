// Package projection contains pure folds over event sequences.
//
// A projection never reads from or writes to a log directly: it takes an
// explicit event sequence (typically a log's All) and recomputes its view
// from scratch on every call. Same input, same output.
package projection

import (
	"iter"
	"slices"
	"time"

	"github.com/DeluxeOwl/factlog/event"
)

// HistoryQuery selects the events of one subject for SubjectHistory.
type HistoryQuery struct {
	// Type is the event type to keep, e.g. "order-placed".
	Type string
	// SubjectKey is the payload key carrying the subject reference,
	// e.g. "order.customerId".
	SubjectKey string
	// SubjectRef is the subject to match, e.g. "alice".
	SubjectRef string
	// AmountKey is the payload key carrying the amount, e.g. "order.total".
	AmountKey string
}

type HistoryEntry struct {
	SubjectRef string
	Amount     float64
	Timestamp  time.Time
}

// SubjectHistory returns the simplified history of one subject: the events
// of the queried type whose payload carries the subject reference, mapped to
// entries and kept in original relative order. An unknown subject yields an
// empty result, not an error.
func SubjectHistory(events iter.Seq[event.Event], q HistoryQuery) []HistoryEntry {
	matching := Filter(events, func(e event.Event) bool {
		if e.Type != q.Type {
			return false
		}
		ref, ok := e.Payload[q.SubjectKey].(string)
		return ok && ref == q.SubjectRef
	})

	return slices.Collect(MapSeq(matching, func(e event.Event) HistoryEntry {
		ts, _ := e.RecordTime()
		return HistoryEntry{
			SubjectRef: q.SubjectRef,
			Amount:     amountOf(e.Payload[q.AmountKey]),
			Timestamp:  ts,
		}
	}))
}

// CountInMonth counts the events of a type whose record time falls in the
// given UTC calendar year and month. Zero matches is 0, not an error.
func CountInMonth(events iter.Seq[event.Event], eventType string, year int, month time.Month) int {
	return Reduce(events, 0, func(n int, e event.Event) int {
		if e.Type != eventType {
			return n
		}
		ts, ok := e.RecordTime()
		if !ok {
			return n
		}
		if ts.Year() == year && ts.Month() == month {
			return n + 1
		}
		return n
	})
}

// HourHistogram maps UTC hour-of-day (0-23) to the count of events of the
// given type recorded in that hour. Hours with zero matches are absent.
func HourHistogram(events iter.Seq[event.Event], eventType string) map[int]int {
	matching := Filter(events, func(e event.Event) bool {
		if e.Type != eventType {
			return false
		}
		_, ok := e.RecordTime()
		return ok
	})

	return CountBy(matching, func(e event.Event) int {
		ts, _ := e.RecordTime()
		return ts.Hour()
	})
}

func amountOf(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
