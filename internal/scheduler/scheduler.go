package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/davrenn/flowdraft/internal/store"
)

// DefaultPurgeSchedule runs the session purge at the top of every hour.
const DefaultPurgeSchedule = "0 * * * *"

// PurgeScheduler periodically deletes expired login sessions from the store.
type PurgeScheduler struct {
	store    store.Store
	schedule cron.Schedule
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
	mu       sync.Mutex

	nextRun time.Time
}

// NewPurgeScheduler parses the cron expression (standard five-field syntax)
// and returns a scheduler that purges on that cadence.
func NewPurgeScheduler(s store.Store, cronExpr string, logger *slog.Logger) (*PurgeScheduler, error) {
	if cronExpr == "" {
		cronExpr = DefaultPurgeSchedule
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parse purge schedule %q: %w", cronExpr, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PurgeScheduler{store: s, schedule: schedule, logger: logger}, nil
}

// Start launches the background purge loop with a 60s ticker.
func (p *PurgeScheduler) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.done != nil {
		p.mu.Unlock()
		return fmt.Errorf("purge scheduler already started")
	}

	purgeCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.nextRun = p.schedule.Next(time.Now().UTC())
	p.mu.Unlock()

	go p.loop(purgeCtx)
	p.logger.Info("session purge scheduler started")
	return nil
}

func (p *PurgeScheduler) loop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick purges when the schedule is due and advances the next run time.
func (p *PurgeScheduler) tick(ctx context.Context) {
	now := time.Now().UTC()

	p.mu.Lock()
	due := !p.nextRun.After(now)
	if due {
		p.nextRun = p.schedule.Next(now)
	}
	p.mu.Unlock()

	if !due {
		return
	}

	n, err := p.store.DeleteExpiredSessions(ctx, now)
	if err != nil {
		p.logger.Error("session purge failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		p.logger.Info("expired sessions purged", slog.Int64("count", n))
	}
}

// Stop gracefully shuts down the scheduler. The wait for the loop happens
// outside the lock so an in-flight tick can finish.
func (p *PurgeScheduler) Stop() error {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}

	cancel()
	<-done

	p.logger.Info("session purge scheduler stopped")
	return nil
}
