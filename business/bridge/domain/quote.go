// Package domain contains the core domain types for the bridge context.
package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/devJaja/kivo-scanner/internal/asset"
)

// Quote is a bridge fee quote for moving a token between two chains.
// All amounts are denominated in the bridged token.
type Quote struct {
	OriginChainID      uint64
	DestinationChainID uint64
	Token              *asset.Asset
	InputAmount        asset.Amount

	RelayerFee asset.Amount
	LPFee      asset.Amount
	TotalFee   asset.Amount
	NetAmount  asset.Amount // InputAmount - TotalFee, what arrives on the destination

	EstimatedFillTime time.Duration
	IsAmountTooLow    bool

	// Deposit parameters echoed by the fee API, needed to execute.
	SpokePool           common.Address
	ExclusiveRelayer    common.Address
	QuoteTimestamp      uint32
	ExclusivityDeadline uint32

	Timestamp time.Time
}

// Usable reports whether the quote can back a trade.
func (q *Quote) Usable() bool {
	return q != nil && !q.IsAmountTooLow
}
