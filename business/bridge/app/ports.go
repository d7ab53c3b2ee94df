// Package app contains application services and port definitions for the bridge context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/devJaja/kivo-scanner/business/bridge/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
)

// QuoteRequest asks for a bridge fee quote. Amount carries the token
// and therefore its decimals.
type QuoteRequest struct {
	OriginChainID      uint64
	DestinationChainID uint64
	Token              common.Address // token address on the origin chain
	Amount             asset.Amount
	Recipient          common.Address
}

// QuoteClient fetches bridge fee quotes. An error means the route
// could not be quoted at all; an amount-too-low outcome is a valid
// quote with IsAmountTooLow set.
type QuoteClient interface {
	SuggestedFees(ctx context.Context, req QuoteRequest) (*domain.Quote, error)
}

// ExecutionRequest describes a bridge transfer to execute.
type ExecutionRequest struct {
	Quote     *domain.Quote
	Recipient common.Address
}

// Executor performs the approve + deposit sequence against the origin
// chain's spoke pool and tracks the destination fill, reporting each
// stage through the progress callback.
type Executor interface {
	Bridge(ctx context.Context, req ExecutionRequest, onProgress domain.ProgressFunc) (*domain.Receipt, error)
}
