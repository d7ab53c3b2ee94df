package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/internal/cache"
)

// stubFinder returns canned results, optionally blocking each pass
// until released.
type stubFinder struct {
	mu      sync.Mutex
	results []*domain.Opportunity
	block   chan struct{}
	passes  int
}

func (s *stubFinder) Name() string { return "stub" }

func (s *stubFinder) Scan(ctx context.Context) ([]*domain.Opportunity, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passes++
	out := make([]*domain.Opportunity, len(s.results))
	copy(out, s.results)
	return out, nil
}

func (s *stubFinder) setResults(opps []*domain.Opportunity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = opps
}

// recordingReporter captures reporter calls for assertions.
type recordingReporter struct {
	mu     sync.Mutex
	opps   [][]*domain.Opportunity
	states []bool
}

func (r *recordingReporter) Start(context.Context) error { return nil }
func (r *recordingReporter) Stop() error                 { return nil }
func (r *recordingReporter) ReportProgress(ScanProgress) {}

func (r *recordingReporter) ReportOpportunities(opps []*domain.Opportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opps = append(r.opps, opps)
}

func (r *recordingReporter) ReportActivity(domain.ActivityEntry) {}

func (r *recordingReporter) ReportScanState(_ string, running, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, running)
}

func (r *recordingReporter) lastOpportunities() []*domain.Opportunity {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.opps) == 0 {
		return nil
	}
	return r.opps[len(r.opps)-1]
}

func schedulerOpp(token string, net int64) *domain.Opportunity {
	return &domain.Opportunity{
		ID:          domain.NewID(token, 8453, 42161),
		Kind:        domain.KindCrossChain,
		Token:       token,
		FromChainID: 8453,
		ToChainID:   42161,
		Profit:      domain.ProfitBreakdown{GrossUSD: decimal.NewFromInt(net)},
		CreatedAt:   time.Now(),
	}
}

func TestSchedulerStartStop(t *testing.T) {
	finder := &stubFinder{}
	activity := domain.NewActivityLog()
	s := NewScheduler(finder, SchedulerConfig{Interval: time.Millisecond}, activity, testLogger())

	s.Start(context.Background())
	assert.True(t, s.Running())

	require.Eventually(t, func() bool { return s.Passes() > 0 }, time.Second, time.Millisecond)

	s.Stop()
	assert.False(t, s.Running())

	// Stop is idempotent.
	s.Stop()
	assert.False(t, s.Running())
}

func TestSchedulerStartWhileRunningIsNoOp(t *testing.T) {
	finder := &stubFinder{}
	activity := domain.NewActivityLog()
	s := NewScheduler(finder, SchedulerConfig{Interval: time.Millisecond}, activity, testLogger())

	s.Start(context.Background())
	defer s.Stop()
	require.Eventually(t, func() bool { return s.Passes() > 0 }, time.Second, time.Millisecond)

	// A second Start must not reset the activity log.
	before := activity.Len()
	s.Start(context.Background())
	assert.GreaterOrEqual(t, activity.Len(), before)
	assert.True(t, s.Running())
}

func TestSchedulerPublishesResults(t *testing.T) {
	finder := &stubFinder{}
	finder.setResults([]*domain.Opportunity{schedulerOpp("WETH", 25)})
	reporter := &recordingReporter{}
	s := NewScheduler(finder, SchedulerConfig{Interval: time.Millisecond},
		domain.NewActivityLog(), testLogger(), WithReporter(reporter))

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		return len(reporter.lastOpportunities()) == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, "WETH", reporter.lastOpportunities()[0].Token)
	assert.Len(t, s.Opportunities(), 1)
}

func TestSchedulerTimesOutWithNoResults(t *testing.T) {
	clock := cache.NewFakeClock(time.Now())
	finder := &stubFinder{}
	activity := domain.NewActivityLog()
	reporter := &recordingReporter{}
	s := NewScheduler(finder, SchedulerConfig{
		Interval: time.Millisecond,
		Timeout:  2 * time.Minute,
	}, activity, testLogger(), WithSchedulerClock(clock), WithReporter(reporter))

	s.Start(context.Background())
	require.Eventually(t, func() bool { return s.Passes() > 0 }, time.Second, time.Millisecond)
	assert.True(t, s.Running(), "must keep scanning before the deadline")

	clock.Advance(2 * time.Minute)

	require.Eventually(t, func() bool { return !s.Running() }, time.Second, time.Millisecond)
	assert.True(t, s.TimedOut())

	entries := activity.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, "warning", entries[0].Level)
	assert.Equal(t, TimeoutMessage, entries[0].Message)
}

func TestSchedulerNoTimeoutOnceResultsExist(t *testing.T) {
	clock := cache.NewFakeClock(time.Now())
	finder := &stubFinder{}
	finder.setResults([]*domain.Opportunity{schedulerOpp("WETH", 10)})
	s := NewScheduler(finder, SchedulerConfig{
		Interval: time.Millisecond,
		Timeout:  2 * time.Minute,
	}, domain.NewActivityLog(), testLogger(), WithSchedulerClock(clock))

	s.Start(context.Background())
	defer s.Stop()
	require.Eventually(t, func() bool { return s.Passes() > 0 }, time.Second, time.Millisecond)

	clock.Advance(3 * time.Minute)

	// Results were found, so the deadline never fires.
	require.Eventually(t, func() bool { return s.Passes() > 2 }, time.Second, time.Millisecond)
	assert.True(t, s.Running())
	assert.False(t, s.TimedOut())
}

func TestSchedulerDiscardsResultsFromStoppedPass(t *testing.T) {
	finder := &stubFinder{block: make(chan struct{})}
	finder.setResults([]*domain.Opportunity{schedulerOpp("WETH", 10)})
	s := NewScheduler(finder, SchedulerConfig{Interval: time.Millisecond},
		domain.NewActivityLog(), testLogger())

	s.Start(context.Background())
	s.Stop() // pass is still blocked inside Scan
	close(finder.block)

	require.Eventually(t, func() bool { return s.Passes() > 0 }, time.Second, time.Millisecond)
	assert.Empty(t, s.Opportunities(), "results from a stopped pass must be discarded")
}

func TestSchedulerMergesAcrossPasses(t *testing.T) {
	finder := &stubFinder{}
	first := schedulerOpp("WETH", 10)
	finder.setResults([]*domain.Opportunity{first})
	s := NewScheduler(finder, SchedulerConfig{Interval: time.Millisecond, MergeLimit: 20},
		domain.NewActivityLog(), testLogger())

	s.Start(context.Background())
	defer s.Stop()
	require.Eventually(t, func() bool { return len(s.Opportunities()) == 1 }, time.Second, time.Millisecond)

	// A later pass finds a different route; the old one is retained.
	second := schedulerOpp("ARB", 5)
	second.ToChainID = 10
	finder.setResults([]*domain.Opportunity{second})

	require.Eventually(t, func() bool { return len(s.Opportunities()) == 2 }, time.Second, time.Millisecond)
}

func TestSchedulerRemove(t *testing.T) {
	finder := &stubFinder{}
	opp := schedulerOpp("WETH", 10)
	finder.setResults([]*domain.Opportunity{opp})
	s := NewScheduler(finder, SchedulerConfig{Interval: time.Hour},
		domain.NewActivityLog(), testLogger())

	s.Start(context.Background())
	defer s.Stop()
	require.Eventually(t, func() bool { return len(s.Opportunities()) == 1 }, time.Second, time.Millisecond)

	s.Remove(opp.ID)
	assert.Empty(t, s.Opportunities())
}
