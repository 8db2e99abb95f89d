package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultCooldown is the minimum interval between two runs of the same job.
// It guards against a job firing twice within its scheduled minute.
const DefaultCooldown = 60 * time.Second

// JobFunc is the work a scheduled job performs.
type JobFunc func(ctx context.Context) error

type job struct {
	name    string
	cron    *CronExpr
	run     JobFunc
	lastRun time.Time
}

// Scheduler triggers registered jobs when their cron expressions match.
type Scheduler struct {
	mu   sync.Mutex
	jobs []*job

	done chan struct{}
	once sync.Once
}

// New creates an empty scheduler.
func New() *Scheduler {
	return &Scheduler{
		done: make(chan struct{}),
	}
}

// Add registers a job under a cron expression.
func (s *Scheduler) Add(name, cronSpec string, run JobFunc) error {
	expr, err := ParseCron(cronSpec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, &job{name: name, cron: expr, run: run})
	s.mu.Unlock()

	slog.Info("scheduler: registered job", "name", name, "cron", cronSpec)
	return nil
}

// Jobs returns the names of all registered jobs.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, len(s.jobs))
	for i, j := range s.jobs {
		names[i] = j.name
	}
	return names
}

// Start begins the minute ticker. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("scheduler started", "jobs", len(s.jobs))
	go s.loop(ctx)
}

// Stop halts the scheduler. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.once.Do(func() {
		close(s.done)
		slog.Info("scheduler stopped")
	})
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.runDue(ctx, now)
		}
	}
}

// runDue fires every job whose schedule matches now. Jobs run in the
// caller's goroutine so a tick is fully handled before the next.
func (s *Scheduler) runDue(ctx context.Context, now time.Time) {
	s.mu.Lock()
	var due []*job
	for _, j := range s.jobs {
		if !j.cron.Matches(now) {
			continue
		}
		if now.Sub(j.lastRun) < DefaultCooldown {
			continue
		}
		j.lastRun = now
		due = append(due, j)
	}
	s.mu.Unlock()

	for _, j := range due {
		if err := j.run(ctx); err != nil {
			slog.Error("scheduler: job failed", "name", j.name, "error", err)
		}
	}
}
