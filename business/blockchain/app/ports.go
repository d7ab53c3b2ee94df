// Package app contains application services and port definitions for the blockchain context.
package app

import (
	"context"

	"github.com/devJaja/kivo-scanner/business/blockchain/domain"
)

// CostEstimator estimates the gas cost of a swap on a chain. The
// estimate never fails: when the node cannot be queried the estimator
// returns the fixed fallback cost so a scan pass always completes.
type CostEstimator interface {
	SwapCost(ctx context.Context, chainID uint64, kind domain.SwapKind) domain.SwapCost
}
