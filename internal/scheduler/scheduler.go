package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/projectpulse/pulse/internal/domain"
	"github.com/projectpulse/pulse/internal/repo"
)

// CheckRunner executes one dispatched check task. It must contain its own
// errors; the scheduler never inspects the outcome.
type CheckRunner interface {
	RunCheck(ctx context.Context, t domain.CheckTask)
}

// Scheduler wakes on a fixed tick, selects services whose interval has
// elapsed, marks the whole due set as checked in one store call, and fans
// the checks out to a bounded pool. It never waits for task completion
// before the next tick.
type Scheduler struct {
	Logger      *zap.Logger
	Services    repo.ServiceStore
	Runner      CheckRunner
	Interval    time.Duration
	Concurrency int

	now func() time.Time
	sem chan struct{}
}

func New(logger *zap.Logger, services repo.ServiceStore, runner CheckRunner, interval time.Duration, concurrency int) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Scheduler{
		Logger:      logger,
		Services:    services,
		Runner:      runner,
		Interval:    interval,
		Concurrency: concurrency,
		now:         time.Now,
		sem:         make(chan struct{}, concurrency),
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("scheduler_stopped")
			return
		case <-t.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	svcs, err := s.Services.List(ctx)
	if err != nil {
		// retried on the next tick
		s.Logger.Warn("scheduler_list_error", zap.Error(err))
		return
	}
	if len(svcs) == 0 {
		return
	}

	now := s.now().UTC()
	var due []*domain.Service
	for _, svc := range svcs {
		if svc.IsDue(now) {
			due = append(due, svc)
		}
	}
	if len(due) == 0 {
		return
	}

	ids := make([]domain.ServiceID, 0, len(due))
	for _, svc := range due {
		ids = append(ids, svc.ID)
	}

	// The batch mark-checked must commit before any dispatch so an
	// overlapping tick cannot re-select a service mid-check. If it fails,
	// fail closed: skip this tick rather than risk double-checking.
	if err := s.Services.MarkChecked(ctx, ids, now); err != nil {
		s.Logger.Warn("scheduler_mark_checked_error", zap.Error(err))
		return
	}

	s.Logger.Info("scheduler_dispatch", zap.Int("due", len(due)))

	for _, svc := range due {
		task := domain.CheckTask{
			ServiceID:  svc.ID,
			BaseURL:    svc.BaseURL,
			HealthPath: svc.HealthPath,
		}
		s.sem <- struct{}{}
		go func() {
			defer func() { <-s.sem }()
			s.Runner.RunCheck(ctx, task)
		}()
	}
}
