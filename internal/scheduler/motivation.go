package scheduler

import (
	"context"

	"github.com/zenithlabs/zenith/internal/events"
	"github.com/zenithlabs/zenith/internal/mentor"
)

// MotivationSource produces a short daily motivation.
type MotivationSource interface {
	Motivation(ctx context.Context) mentor.Motivation
}

// MotivationJob builds the daily motivation job. It asks the source for
// a fresh motivation and publishes it on the bus.
func MotivationJob(bus *events.Bus, src MotivationSource) JobFunc {
	return func(ctx context.Context) error {
		m := src.Motivation(ctx)
		bus.Publish(events.NewEvent(events.EventMotivation, events.SourceScheduler, map[string]any{
			"code": m.Code,
			"text": m.Text,
		}))
		return nil
	}
}
