package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/deadman/internal/repo"
)

// Sweeper periodically scans the latest record per path and logs the
// jobs whose expected next check-in has passed. It only observes:
// overdue stays a derived, read-time property and is never written back
// to the store.
type Sweeper struct {
	Logger   *zap.Logger
	Records  repo.RecordStore
	Interval time.Duration
	Now      func() time.Time
}

func NewSweeper(logger *zap.Logger, rs repo.RecordStore, interval time.Duration, now func() time.Time) *Sweeper {
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		Logger:   logger,
		Records:  rs,
		Interval: interval,
		Now:      now,
	}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if s.Interval == 0 {
		// disabled
		s.Logger.Info("sweeper_disabled")
		return
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	// immediate pass
	s.sweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("sweeper_stopped")
			return
		case <-t.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	recs, err := s.Records.Latest(ctx)
	if err != nil {
		s.Logger.Warn("sweeper_latest_error", zap.Error(err))
		return
	}

	now := s.Now()
	overdue := 0
	for i := range recs {
		r := &recs[i]
		if !r.IsOverdue(now) {
			continue
		}
		overdue++
		s.Logger.Warn("job_overdue",
			zap.String("path", r.Path),
			zap.String("status", string(r.Status)),
			zap.Time("ts", r.TS),
			zap.Time("next", *r.Next),
		)
	}
	if overdue > 0 {
		s.Logger.Info("sweep_done",
			zap.Int("jobs", len(recs)),
			zap.Int("overdue", overdue),
		)
	}
}
