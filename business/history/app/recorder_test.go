package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arbitrageDomain "github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/business/history/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/logger"
)

type memStore struct {
	opportunities []domain.OpportunityRecord
	executions    []domain.ExecutionRecord
	err           error
}

func (s *memStore) Migrate(context.Context) error { return s.err }

func (s *memStore) SaveOpportunity(_ context.Context, rec domain.OpportunityRecord) error {
	if s.err != nil {
		return s.err
	}
	s.opportunities = append(s.opportunities, rec)
	return nil
}

func (s *memStore) SaveExecution(_ context.Context, rec domain.ExecutionRecord) error {
	if s.err != nil {
		return s.err
	}
	s.executions = append(s.executions, rec)
	return nil
}

func (s *memStore) RecentOpportunities(_ context.Context, _ int) ([]domain.OpportunityRecord, error) {
	return s.opportunities, s.err
}

func (s *memStore) Summary(context.Context) (domain.Summary, error) {
	return domain.Summary{Opportunities: uint64(len(s.opportunities))}, s.err
}

func testRecorder(store Store) *Recorder {
	return NewRecorder(store, logger.New(io.Discard, logger.Level(0), "history-test", nil))
}

func TestRecordOpportunityMapsFields(t *testing.T) {
	store := &memStore{}
	foundAt := time.Now()

	opp := &arbitrageDomain.Opportunity{
		ID:            arbitrageDomain.NewID("WETH", asset.ChainIDBase, asset.ChainIDArbitrum),
		Kind:          arbitrageDomain.KindCrossChain,
		Token:         "WETH",
		FromChainID:   asset.ChainIDBase,
		ToChainID:     asset.ChainIDArbitrum,
		SpreadPercent: decimal.RequireFromString("3.33"),
		Profit: arbitrageDomain.ProfitBreakdown{
			GrossUSD:     decimal.NewFromInt(33),
			BridgeFeeUSD: decimal.NewFromInt(3),
		},
		Risk:      arbitrageDomain.RiskMedium,
		CreatedAt: foundAt,
	}

	require.NoError(t, testRecorder(store).RecordOpportunity(context.Background(), opp))
	require.Len(t, store.opportunities, 1)

	rec := store.opportunities[0]
	assert.Equal(t, opp.ID, rec.OpportunityID)
	assert.Equal(t, "cross_chain", rec.Kind)
	assert.Equal(t, uint64(asset.ChainIDBase), rec.FromChainID)
	assert.Equal(t, uint64(asset.ChainIDArbitrum), rec.ToChainID)
	assert.Equal(t, "30", rec.NetUSD.String())
	assert.Equal(t, "medium", rec.Risk)
	assert.Equal(t, foundAt, rec.FoundAt)
}

func TestRecordExecution(t *testing.T) {
	store := &memStore{}

	require.NoError(t, testRecorder(store).RecordExecution(context.Background(), "WETH_8453_42161", true, "0xabc"))
	require.Len(t, store.executions, 1)
	assert.True(t, store.executions[0].Success)
	assert.Equal(t, "0xabc", store.executions[0].Detail)
}

func TestRecorderSurfacesStoreError(t *testing.T) {
	store := &memStore{err: errors.New("connection refused")}
	r := testRecorder(store)

	assert.Error(t, r.RecordOpportunity(context.Background(), &arbitrageDomain.Opportunity{ID: "x"}))
	assert.Error(t, r.RecordExecution(context.Background(), "x", false, ""))
}
