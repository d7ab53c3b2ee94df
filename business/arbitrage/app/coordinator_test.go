package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	bridgeApp "github.com/devJaja/kivo-scanner/business/bridge/app"
	bridgeDomain "github.com/devJaja/kivo-scanner/business/bridge/domain"
	"github.com/devJaja/kivo-scanner/internal/apperror"
	"github.com/devJaja/kivo-scanner/internal/asset"
)

// stubExecutor completes immediately unless told to block or fail.
type stubExecutor struct {
	mu    sync.Mutex
	block chan struct{}
	err   error
	calls int
}

func (s *stubExecutor) Bridge(ctx context.Context, _ bridgeApp.ExecutionRequest, _ bridgeDomain.ProgressFunc) (*bridgeDomain.Receipt, error) {
	s.mu.Lock()
	s.calls++
	block := s.block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &bridgeDomain.Receipt{
		DepositTx:   common.HexToHash("0xabc123"),
		DepositedAt: time.Now(),
	}, nil
}

// recordingHistory captures recorder calls.
type recordingHistory struct {
	mu            sync.Mutex
	opportunities []string
	executions    []struct {
		id      string
		success bool
		detail  string
	}
}

func (r *recordingHistory) RecordOpportunity(_ context.Context, opp *domain.Opportunity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opportunities = append(r.opportunities, opp.ID)
	return nil
}

func (r *recordingHistory) RecordExecution(_ context.Context, id string, success bool, detail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executions = append(r.executions, struct {
		id      string
		success bool
		detail  string
	}{id, success, detail})
	return nil
}

func executableOpp() *domain.Opportunity {
	return &domain.Opportunity{
		ID:          domain.NewID("WETH", asset.ChainIDBase, asset.ChainIDArbitrum),
		Kind:        domain.KindCrossChain,
		Token:       "WETH",
		FromChainID: asset.ChainIDBase,
		ToChainID:   asset.ChainIDArbitrum,
		TradeAmount: decimal.RequireFromString("0.5"),
		Profit:      domain.ProfitBreakdown{GrossUSD: decimal.NewFromInt(20)},
		CreatedAt:   time.Now(),
	}
}

func newCoordinatorFixture(bridge *stubBridge, executor *stubExecutor, history HistoryRecorder) *Coordinator {
	return NewCoordinator(nil, bridge, executor, asset.DefaultRegistry(), history,
		domain.NewActivityLog(), testLogger())
}

func TestCoordinatorExecutesAndRecords(t *testing.T) {
	bridge := &stubBridge{}
	executor := &stubExecutor{}
	history := &recordingHistory{}
	c := newCoordinatorFixture(bridge, executor, history)

	opp := executableOpp()
	err := c.Execute(context.Background(), opp, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, executor.calls)
	require.Len(t, history.opportunities, 1)
	assert.Equal(t, opp.ID, history.opportunities[0])
	require.Len(t, history.executions, 1)
	assert.True(t, history.executions[0].success)
	assert.NotEmpty(t, history.executions[0].detail)
}

func TestCoordinatorRejectsSameChainOpportunity(t *testing.T) {
	c := newCoordinatorFixture(&stubBridge{}, &stubExecutor{}, nil)

	opp := executableOpp()
	opp.Kind = domain.KindTwoPool
	opp.ToChainID = opp.FromChainID

	err := c.Execute(context.Background(), opp, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeInvalidInput, apperror.GetCode(err))
}

func TestCoordinatorRejectsConcurrentExecution(t *testing.T) {
	bridge := &stubBridge{}
	executor := &stubExecutor{block: make(chan struct{})}
	c := newCoordinatorFixture(bridge, executor, nil)

	opp := executableOpp()
	done := make(chan error, 1)
	go func() { done <- c.Execute(context.Background(), opp, nil) }()

	// Wait until the first execution is inside the bridge call.
	require.Eventually(t, func() bool {
		executor.mu.Lock()
		defer executor.mu.Unlock()
		return executor.calls == 1
	}, time.Second, time.Millisecond)

	err := c.Execute(context.Background(), opp, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeAlreadyExecuting, apperror.GetCode(err))

	close(executor.block)
	require.NoError(t, <-done)

	// Once finished, the id is executable again.
	err = c.Execute(context.Background(), opp, nil)
	require.NoError(t, err)
}

func TestCoordinatorRejectsBelowBridgeMinimum(t *testing.T) {
	bridge := &stubBridge{tooLow: true}
	executor := &stubExecutor{}
	c := newCoordinatorFixture(bridge, executor, nil)

	err := c.Execute(context.Background(), executableOpp(), nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeBridgeAmountTooLow, apperror.GetCode(err))
	assert.Zero(t, executor.calls)
}

func TestCoordinatorRecordsFailure(t *testing.T) {
	bridge := &stubBridge{}
	executor := &stubExecutor{err: errors.New("deposit reverted")}
	history := &recordingHistory{}
	c := newCoordinatorFixture(bridge, executor, history)

	err := c.Execute(context.Background(), executableOpp(), nil)
	require.Error(t, err)

	require.Len(t, history.executions, 1)
	assert.False(t, history.executions[0].success)
	assert.Contains(t, history.executions[0].detail, "deposit reverted")
}

func TestCoordinatorRejectsUnknownToken(t *testing.T) {
	c := newCoordinatorFixture(&stubBridge{}, &stubExecutor{}, nil)

	opp := executableOpp()
	opp.Token = "NOPE"

	err := c.Execute(context.Background(), opp, nil)
	require.Error(t, err)
	assert.Equal(t, apperror.CodeTokenNotListed, apperror.GetCode(err))
}
