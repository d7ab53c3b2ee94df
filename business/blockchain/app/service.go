// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/devJaja/kivo-scanner/business/blockchain/domain"
	"github.com/devJaja/kivo-scanner/internal/config"
)

// GasService converts swap cost estimates into USD using the static
// per-chain native coin prices from configuration.
type GasService struct {
	estimator CostEstimator
	cfg       *config.Config
}

// NewGasService creates a new GasService.
func NewGasService(estimator CostEstimator, cfg *config.Config) *GasService {
	return &GasService{estimator: estimator, cfg: cfg}
}

// SwapCost returns the native-denominated estimate for a swap.
func (s *GasService) SwapCost(ctx context.Context, chainID uint64, kind domain.SwapKind) domain.SwapCost {
	return s.estimator.SwapCost(ctx, chainID, kind)
}

// SwapCostUSD returns the USD cost of a swap on the chain. Unknown
// chains get a zero native price and therefore a zero USD cost.
func (s *GasService) SwapCostUSD(ctx context.Context, chainID uint64, kind domain.SwapKind) decimal.Decimal {
	cost := s.estimator.SwapCost(ctx, chainID, kind)
	chain, ok := s.cfg.ChainByID(chainID)
	if !ok {
		return decimal.Zero
	}
	return cost.CostUSD(chain.NativeUSDPriceDecimal())
}
