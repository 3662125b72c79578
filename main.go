package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/DeluxeOwl/factlog/event"
	"github.com/DeluxeOwl/factlog/eventlog"
	"github.com/DeluxeOwl/factlog/projection"
	"github.com/caarlos0/env/v11"
	"github.com/sanity-io/litter"
)

type demoConfig struct {
	LogLevel string `env:"FACTLOG_LOG_LEVEL" envDefault:"info"`
	Orders   int    `env:"FACTLOG_DEMO_ORDERS" envDefault:"3"`
}

func main() {
	var cfg demoConfig
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})

	ctx := context.Background()
	log := eventlog.NewMemory(eventlog.WithSlogHandler(handler))

	customers := []string{"alice", "bob"}
	base := time.Date(2025, time.July, 14, 9, 0, 0, 0, time.UTC)

	for i := range cfg.Orders {
		customer := customers[i%len(customers)]
		placedAt := base.Add(time.Duration(i) * 26 * time.Hour)

		placed, err := log.Append(ctx, event.New(
			fmt.Sprintf("order-%d", i),
			"order-placed",
			event.WithPayload(event.Payload{
				"order.customerId": customer,
				"order.total":      49.99 + float64(i)*25,
			}),
			event.WithRecordTime(placedAt),
			event.WithActor("checkout-service"),
		))
		if err != nil {
			panic(err)
		}

		// Every other order gets cancelled a few hours later.
		if i%2 == 1 {
			_, err := log.Append(ctx, event.New(
				placed.StreamID,
				"order-cancelled",
				event.WithPayload(event.Payload{
					"order.customerId": customer,
				}),
				event.WithRecordTime(placedAt.Add(3*time.Hour)),
				event.WithActor("support-desk"),
			))
			if err != nil {
				panic(err)
			}
		}
	}

	fmt.Println("All events:")
	litter.Dump(slices.Collect(log.All(ctx)))

	fmt.Println("\nStream order-0:")
	litter.Dump(slices.Collect(log.Stream(ctx, "order-0")))

	fmt.Println("\nAll order-cancelled events:")
	litter.Dump(slices.Collect(log.ByType(ctx, "order-cancelled")))

	fmt.Println("\nAlice's order history:")
	litter.Dump(projection.SubjectHistory(log.All(ctx), projection.HistoryQuery{
		Type:       "order-placed",
		SubjectKey: "order.customerId",
		SubjectRef: "alice",
		AmountKey:  "order.total",
	}))

	fmt.Println("\nCancellations in July 2025:")
	litter.Dump(projection.CountInMonth(log.All(ctx), "order-cancelled", 2025, time.July))

	fmt.Println("\nOrders placed by hour of day:")
	litter.Dump(projection.HourHistogram(log.All(ctx), "order-placed"))
}
