package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/zenithlabs/zenith/internal/events"
	"github.com/zenithlabs/zenith/internal/mentor"
)

func TestScheduler_RunDue(t *testing.T) {
	s := New()

	var runs int
	if err := s.Add("test", "0 8 * * *", func(ctx context.Context) error {
		runs++
		return nil
	}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx := context.Background()
	at8 := time.Date(2026, 3, 1, 8, 0, 10, 0, time.UTC)

	s.runDue(ctx, at8)
	if runs != 1 {
		t.Fatalf("expected 1 run at 08:00, got %d", runs)
	}

	// Same minute again: cooldown suppresses the second fire.
	s.runDue(ctx, at8.Add(20*time.Second))
	if runs != 1 {
		t.Fatalf("expected cooldown to suppress rerun, got %d runs", runs)
	}

	// Off-schedule minute does nothing.
	s.runDue(ctx, at8.Add(time.Minute))
	if runs != 1 {
		t.Fatalf("expected no run at 08:01, got %d runs", runs)
	}

	// Next day fires again.
	s.runDue(ctx, at8.Add(24*time.Hour))
	if runs != 2 {
		t.Fatalf("expected 2 runs after next activation, got %d", runs)
	}
}

func TestScheduler_AddInvalidCron(t *testing.T) {
	s := New()
	err := s.Add("bad", "not a cron", func(ctx context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
	if len(s.Jobs()) != 0 {
		t.Fatalf("expected no jobs registered, got %v", s.Jobs())
	}
}

type staticMotivation struct {
	m mentor.Motivation
}

func (s staticMotivation) Motivation(ctx context.Context) mentor.Motivation {
	return s.m
}

func TestMotivationJob_PublishesEvent(t *testing.T) {
	bus := events.NewBus(16)
	defer bus.Close()

	src := staticMotivation{m: mentor.Motivation{Code: "focus", Text: "One thing at a time."}}
	job := MotivationJob(bus, src)

	if err := job(context.Background()); err != nil {
		t.Fatalf("job: %v", err)
	}

	var history []events.Event
	for i := 0; i < 200; i++ {
		history = bus.History(10)
		if len(history) > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 event, got %d", len(history))
	}

	e := history[0]
	if e.Type != events.EventMotivation || e.Source != events.SourceScheduler {
		t.Fatalf("event: %+v", e)
	}
	if e.Payload["text"] != "One thing at a time." {
		t.Fatalf("payload: %+v", e.Payload)
	}
}
