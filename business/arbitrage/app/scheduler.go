package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/internal/cache"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

// TimeoutMessage is shown when a timed scan gives up empty-handed.
const TimeoutMessage = "No opportunities found after 2 minutes. Try again later or adjust the filters."

// SchedulerConfig tunes one scan loop.
type SchedulerConfig struct {
	// Interval is the polling cadence. Passes never overlap; one that
	// overruns the interval is followed immediately by the next.
	Interval time.Duration

	// Timeout auto-stops the scan if nothing has been found by then.
	// Zero disables it.
	Timeout time.Duration

	// MergeLimit keeps up to this many opportunities across passes,
	// fresh results winning on duplicate routes. Zero replaces the
	// list wholesale each pass.
	MergeLimit int
}

// Scheduler runs one finder in a serial loop: a pass must finish
// before the next begins. Start and Stop are idempotent; results from
// a pass that began before a Stop or restart are discarded.
type Scheduler struct {
	finder   Finder
	cfg      SchedulerConfig
	clock    cache.Clock
	activity *domain.ActivityLog
	reporter Reporter
	log      logger.LoggerInterface

	mu         sync.Mutex
	running    bool
	generation uint64
	cancel     context.CancelFunc
	startedAt  time.Time
	everFound  bool
	timedOut   bool
	passes     uint64
	current    []*domain.Opportunity
}

func NewScheduler(finder Finder, cfg SchedulerConfig, activity *domain.ActivityLog, log logger.LoggerInterface, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		finder:   finder,
		cfg:      cfg,
		clock:    cache.RealClock,
		activity: activity,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SchedulerOption func(*Scheduler)

// WithSchedulerClock injects a clock, used by tests to drive the
// no-results timeout.
func WithSchedulerClock(clock cache.Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = clock }
}

// WithReporter forwards each pass's merged results to a reporter.
func WithReporter(r Reporter) SchedulerOption {
	return func(s *Scheduler) { s.reporter = r }
}

// Start begins scanning. Calling Start on a running scheduler is a
// no-op, so accidental double-starts reset nothing.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.generation++
	gen := s.generation
	s.startedAt = s.clock.Now()
	s.everFound = false
	s.timedOut = false
	s.current = nil

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.activity.Clear()
	s.activity.Add("info", fmt.Sprintf("%s scan started", s.finder.Name()))
	s.log.Info(ctx, "scan started", "strategy", s.finder.Name(), "interval", s.cfg.Interval)
	if s.reporter != nil {
		s.reporter.ReportScanState(s.finder.Name(), true, false)
	}

	go s.run(runCtx, gen)
}

// Stop halts scanning. Safe to call repeatedly or when not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.generation++
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.activity.Add("info", fmt.Sprintf("%s scan stopped", s.finder.Name()))
	if s.reporter != nil {
		s.reporter.ReportScanState(s.finder.Name(), false, false)
	}
}

// Running reports whether a scan loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Opportunities returns a snapshot of the current merged results.
func (s *Scheduler) Opportunities() []*domain.Opportunity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Opportunity, len(s.current))
	copy(out, s.current)
	return out
}

// Passes returns how many scan passes have completed since creation.
func (s *Scheduler) Passes() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

// TimedOut reports whether the last scan ended on the no-results timeout.
func (s *Scheduler) TimedOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timedOut
}

// Remove drops an opportunity from the current results, used after a
// successful execution.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, opp := range s.current {
		if opp.ID == id {
			s.current = append(s.current[:i], s.current[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) run(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(s.intervalOrDefault())
	defer ticker.Stop()

	for {
		if stop := s.pass(ctx, gen); stop {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pass runs one scan and folds its results in. It returns true when
// the loop should end.
func (s *Scheduler) pass(ctx context.Context, gen uint64) bool {
	results, err := s.finder.Scan(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		s.log.Warn(ctx, "scan pass failed", "strategy", s.finder.Name(), "error", err)
		s.activity.Add("error", fmt.Sprintf("%s pass failed: %v", s.finder.Name(), err))
		return false
	}

	s.mu.Lock()
	s.passes++
	if s.generation != gen || !s.running {
		// A Stop or restart happened mid-pass. These results belong
		// to a scan the user no longer sees.
		s.mu.Unlock()
		return true
	}

	if len(results) > 0 {
		s.everFound = true
	}
	if s.cfg.MergeLimit > 0 {
		s.current = domain.Merge(results, s.current, s.cfg.MergeLimit)
	} else {
		s.current = results
	}
	merged := make([]*domain.Opportunity, len(s.current))
	copy(merged, s.current)

	timedOut := s.cfg.Timeout > 0 && !s.everFound &&
		s.clock.Now().Sub(s.startedAt) >= s.cfg.Timeout
	if timedOut {
		s.timedOut = true
		s.running = false
		s.generation++
		cancel := s.cancel
		s.cancel = nil
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		s.activity.Add("warning", TimeoutMessage)
		s.log.Info(ctx, "scan timed out with no results", "strategy", s.finder.Name())
		if s.reporter != nil {
			s.reporter.ReportScanState(s.finder.Name(), false, true)
		}
		return true
	}
	s.mu.Unlock()

	if s.reporter != nil {
		s.reporter.ReportOpportunities(merged)
	}
	return false
}

func (s *Scheduler) intervalOrDefault() time.Duration {
	if s.cfg.Interval > 0 {
		return s.cfg.Interval
	}
	return 3 * time.Second
}
