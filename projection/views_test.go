package projection_test

import (
	"slices"
	"testing"
	"time"

	"github.com/DeluxeOwl/factlog/event"
	"github.com/DeluxeOwl/factlog/projection"
	"github.com/stretchr/testify/require"
)

// The five-event July/August 2025 scenario used across the view tests:
// three placements and two cancellations for customers alice and bob.
func orderFixture() []event.Event {
	placed := func(id int64, stream, customer string, total float64, ts time.Time) event.Event {
		e := event.New(stream, "order-placed",
			event.WithPayload(event.Payload{
				"order.customerId": customer,
				"order.total":      total,
			}),
			event.WithRecordTime(ts),
		)
		e.ID = id
		return e
	}
	cancelled := func(id int64, stream, customer string, ts time.Time) event.Event {
		e := event.New(stream, "order-cancelled",
			event.WithPayload(event.Payload{
				"order.customerId": customer,
			}),
			event.WithRecordTime(ts),
		)
		e.ID = id
		return e
	}

	return []event.Event{
		placed(0, "s47", "alice", 99.99, time.Date(2025, time.July, 14, 9, 15, 0, 0, time.UTC)),
		placed(1, "s48", "bob", 149.99, time.Date(2025, time.July, 20, 14, 5, 0, 0, time.UTC)),
		cancelled(2, "s48", "bob", time.Date(2025, time.July, 21, 9, 40, 0, 0, time.UTC)),
		placed(3, "s49", "alice", 19.50, time.Date(2025, time.August, 2, 18, 30, 0, 0, time.UTC)),
		cancelled(4, "s49", "alice", time.Date(2025, time.August, 3, 9, 0, 0, 0, time.UTC)),
	}
}

func TestSubjectHistory(t *testing.T) {
	events := orderFixture()

	history := projection.SubjectHistory(slices.Values(events), projection.HistoryQuery{
		Type:       "order-placed",
		SubjectKey: "order.customerId",
		SubjectRef: "alice",
		AmountKey:  "order.total",
	})

	require.Equal(t, []projection.HistoryEntry{
		{
			SubjectRef: "alice",
			Amount:     99.99,
			Timestamp:  time.Date(2025, time.July, 14, 9, 15, 0, 0, time.UTC),
		},
		{
			SubjectRef: "alice",
			Amount:     19.50,
			Timestamp:  time.Date(2025, time.August, 2, 18, 30, 0, 0, time.UTC),
		},
	}, history)
}

func TestSubjectHistory_UnknownSubject(t *testing.T) {
	history := projection.SubjectHistory(slices.Values(orderFixture()), projection.HistoryQuery{
		Type:       "order-placed",
		SubjectKey: "order.customerId",
		SubjectRef: "carol",
		AmountKey:  "order.total",
	})

	require.Empty(t, history)
}

func TestSubjectHistory_IsPure(t *testing.T) {
	events := orderFixture()
	q := projection.HistoryQuery{
		Type:       "order-placed",
		SubjectKey: "order.customerId",
		SubjectRef: "bob",
		AmountKey:  "order.total",
	}

	first := projection.SubjectHistory(slices.Values(events), q)
	second := projection.SubjectHistory(slices.Values(events), q)

	require.Equal(t, first, second)
	require.Len(t, events, 5)
}

func TestCountInMonth(t *testing.T) {
	events := orderFixture()

	require.Equal(t, 1, projection.CountInMonth(slices.Values(events), "order-cancelled", 2025, time.July))
	require.Equal(t, 1, projection.CountInMonth(slices.Values(events), "order-cancelled", 2025, time.August))
	require.Equal(t, 2, projection.CountInMonth(slices.Values(events), "order-placed", 2025, time.July))
	require.Equal(t, 0, projection.CountInMonth(slices.Values(events), "order-cancelled", 2025, time.September))
	require.Equal(t, 0, projection.CountInMonth(slices.Values(events), "order-shipped", 2025, time.July))
}

func TestHourHistogram(t *testing.T) {
	events := orderFixture()

	// Placements happened at 09:15, 14:05 and 18:30 UTC; every other hour
	// must be absent, not zero.
	require.Equal(t, map[int]int{9: 1, 14: 1, 18: 1},
		projection.HourHistogram(slices.Values(events), "order-placed"))

	require.Equal(t, map[int]int{9: 2},
		projection.HourHistogram(slices.Values(events), "order-cancelled"))

	require.Empty(t, projection.HourHistogram(slices.Values(events), "order-shipped"))
}

func TestFoldHelpers(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5}

	evens := slices.Collect(projection.Filter(slices.Values(nums), func(n int) bool {
		return n%2 == 0
	}))
	require.Equal(t, []int{2, 4}, evens)

	doubled := slices.Collect(projection.MapSeq(slices.Values(nums), func(n int) int {
		return n * 2
	}))
	require.Equal(t, []int{2, 4, 6, 8, 10}, doubled)

	sum := projection.Reduce(slices.Values(nums), 0, func(acc, n int) int {
		return acc + n
	})
	require.Equal(t, 15, sum)

	parity := projection.CountBy(slices.Values(nums), func(n int) int {
		return n % 2
	})
	require.Equal(t, map[int]int{0: 2, 1: 3}, parity)
}
