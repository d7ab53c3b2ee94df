// Package app contains the history context's application services.
package app

import (
	"context"

	arbitrageDomain "github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/business/history/domain"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

// Store is the persistence port for scan history.
type Store interface {
	// Migrate creates the history tables if they do not exist.
	Migrate(ctx context.Context) error

	SaveOpportunity(ctx context.Context, rec domain.OpportunityRecord) error
	SaveExecution(ctx context.Context, rec domain.ExecutionRecord) error

	RecentOpportunities(ctx context.Context, limit int) ([]domain.OpportunityRecord, error)
	Summary(ctx context.Context) (domain.Summary, error)
}

// Recorder persists scan findings and execution attempts. Store
// failures are logged and swallowed so a database outage never stops
// a scan.
type Recorder struct {
	store Store
	log   logger.LoggerInterface
}

// NewRecorder creates a new Recorder.
func NewRecorder(store Store, log logger.LoggerInterface) *Recorder {
	return &Recorder{store: store, log: log}
}

// RecordOpportunity persists one scan finding.
func (r *Recorder) RecordOpportunity(ctx context.Context, opp *arbitrageDomain.Opportunity) error {
	rec := domain.OpportunityRecord{
		OpportunityID: opp.ID,
		Kind:          string(opp.Kind),
		Token:         opp.Token,
		FromChainID:   opp.FromChainID,
		ToChainID:     opp.ToChainID,
		SpreadPercent: opp.SpreadPercent,
		NetUSD:        opp.Profit.Net(),
		Risk:          string(opp.Risk),
		FoundAt:       opp.CreatedAt,
	}
	if err := r.store.SaveOpportunity(ctx, rec); err != nil {
		r.log.Warn(ctx, "history write failed", "opportunity_id", opp.ID, "error", err)
		return err
	}
	return nil
}

// RecordExecution persists one execution attempt.
func (r *Recorder) RecordExecution(ctx context.Context, opportunityID string, success bool, detail string) error {
	rec := domain.ExecutionRecord{
		OpportunityID: opportunityID,
		Success:       success,
		Detail:        detail,
	}
	if err := r.store.SaveExecution(ctx, rec); err != nil {
		r.log.Warn(ctx, "history write failed", "opportunity_id", opportunityID, "error", err)
		return err
	}
	return nil
}

// Recent returns the most recent persisted findings, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]domain.OpportunityRecord, error) {
	return r.store.RecentOpportunities(ctx, limit)
}

// Summary aggregates the history tables.
func (r *Recorder) Summary(ctx context.Context) (domain.Summary, error) {
	return r.store.Summary(ctx)
}
