package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wardje/tubevault/internal/models"
	"github.com/wardje/tubevault/internal/shared"
)

// DefaultInitialDelay is how long the scheduler waits before the first run
// of a freshly installed schedule.
const DefaultInitialDelay = time.Minute

// Scheduler triggers recurring bulk syncs with a fixed initial delay and a
// period derived from user settings.
//
// Reschedule atomically replaces the previous schedule rather than layering
// a second one; at most one schedule is ever active.
type Scheduler struct {
	run          func(ctx context.Context)
	initialDelay time.Duration
	logger       *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler creates a Scheduler invoking run on every trigger.
func NewScheduler(run func(ctx context.Context), logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Scheduler{
		run:          run,
		initialDelay: DefaultInitialDelay,
		logger:       logger,
	}
}

// Reschedule installs a schedule for the given frequency, replacing any
// previous one.
func (s *Scheduler) Reschedule(freq models.SyncFrequency) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.logger.Info("schedule installed", "frequency", freq, "period", freq.Period())
	go s.loop(ctx, freq.Period())
}

// Stop cancels the active schedule, if any. An in-flight run is not
// interrupted; it completes before the goroutine exits.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Active reports whether a schedule is currently installed.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Scheduler) loop(ctx context.Context, period time.Duration) {
	initial := time.NewTimer(s.initialDelay)
	defer initial.Stop()

	select {
	case <-ctx.Done():
		return
	case <-initial.C:
		s.run(ctx)
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx)
		}
	}
}
