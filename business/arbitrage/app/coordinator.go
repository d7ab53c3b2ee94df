package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	bridgeApp "github.com/devJaja/kivo-scanner/business/bridge/app"
	bridgeDomain "github.com/devJaja/kivo-scanner/business/bridge/domain"
	"github.com/devJaja/kivo-scanner/internal/apperror"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

// HistoryRecorder persists surfaced opportunities and execution
// outcomes. A nil recorder disables persistence.
type HistoryRecorder interface {
	RecordOpportunity(ctx context.Context, opp *domain.Opportunity) error
	RecordExecution(ctx context.Context, opportunityID string, success bool, detail string) error
}

// Coordinator executes cross-chain opportunities through the bridge.
// Each opportunity id executes at most once at a time; a second
// request while the first is in flight is rejected.
type Coordinator struct {
	scheduler *Scheduler
	bridge    bridgeApp.QuoteClient
	executor  bridgeApp.Executor
	registry  *asset.Registry
	history   HistoryRecorder
	activity  *domain.ActivityLog
	log       logger.LoggerInterface

	mu        sync.Mutex
	executing map[string]bool
}

func NewCoordinator(
	scheduler *Scheduler,
	bridge bridgeApp.QuoteClient,
	executor bridgeApp.Executor,
	registry *asset.Registry,
	history HistoryRecorder,
	activity *domain.ActivityLog,
	log logger.LoggerInterface,
) *Coordinator {
	return &Coordinator{
		scheduler: scheduler,
		bridge:    bridge,
		executor:  executor,
		registry:  registry,
		history:   history,
		activity:  activity,
		log:       log,
		executing: make(map[string]bool),
	}
}

// Execute bridges the opportunity's trade amount from its origin to
// its destination chain, reporting stage transitions through
// onProgress. The quote is re-fetched so execution never runs on the
// stale numbers the scan saw.
func (c *Coordinator) Execute(ctx context.Context, opp *domain.Opportunity, onProgress bridgeDomain.ProgressFunc) error {
	if !opp.IsCrossChain() {
		return apperror.Validation(apperror.CodeInvalidInput, "only cross-chain opportunities are executable")
	}

	if !c.begin(opp.ID) {
		return apperror.Conflict(apperror.CodeAlreadyExecuting, fmt.Sprintf("opportunity %s", opp.ID))
	}
	defer c.end(opp.ID)

	token, ok := c.registry.GetBySymbolAndChain(opp.Token, opp.FromChainID)
	if !ok {
		return apperror.NotFound(apperror.CodeTokenNotListed,
			fmt.Sprintf("%s on chain %d", opp.Token, opp.FromChainID))
	}

	amount, err := asset.ParseDecimal(token, opp.TradeAmount.Truncate(int32(token.Decimals())))
	if err != nil || amount.IsZero() {
		return apperror.Validation(apperror.CodeInvalidInput, "trade amount does not fit the token")
	}

	quote, err := c.bridge.SuggestedFees(ctx, bridgeApp.QuoteRequest{
		OriginChainID:      opp.FromChainID,
		DestinationChainID: opp.ToChainID,
		Token:              token.Address(),
		Amount:             amount,
	})
	if err != nil {
		return err
	}
	if !quote.Usable() {
		return apperror.Validation(apperror.CodeBridgeAmountTooLow, fmt.Sprintf("opportunity %s", opp.ID))
	}

	c.activity.Add("info", fmt.Sprintf("executing %s", opp.ID))
	if c.history != nil {
		if err := c.history.RecordOpportunity(ctx, opp); err != nil {
			c.log.Warn(ctx, "history write failed", "opportunity", opp.ID, "error", err)
		}
	}
	receipt, err := c.executor.Bridge(ctx, bridgeApp.ExecutionRequest{Quote: quote}, onProgress)
	if err != nil {
		c.activity.Add("error", fmt.Sprintf("execution of %s failed: %v", opp.ID, err))
		c.record(ctx, opp.ID, false, err.Error())
		return err
	}

	c.activity.Add("success", fmt.Sprintf("executed %s, deposit %s", opp.ID, receipt.DepositTx.Hex()))
	if c.scheduler != nil {
		c.scheduler.Remove(opp.ID)
	}
	c.record(ctx, opp.ID, true, receipt.DepositTx.Hex())
	return nil
}

func (c *Coordinator) begin(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.executing[id] {
		return false
	}
	c.executing[id] = true
	return true
}

func (c *Coordinator) end(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.executing, id)
}

func (c *Coordinator) record(ctx context.Context, id string, success bool, detail string) {
	if c.history == nil {
		return
	}
	if err := c.history.RecordExecution(ctx, id, success, detail); err != nil {
		c.log.Warn(ctx, "history write failed", "opportunity", id, "error", err)
	}
}
