// Package asset models on-chain tokens and quantities. Raw amounts
// stay in big.Int base units; decimal.Decimal appears only at the
// parsing and display boundary.
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AssetID is the identity of an asset: chain plus contract address.
// The zero address marks the native coin; chain 0 marks fiat. Symbols
// are display metadata, never identity.
type AssetID struct {
	chainID uint64
	address common.Address
}

func NewNativeAssetID(chainID uint64) AssetID {
	return AssetID{chainID: chainID}
}

func NewTokenAssetID(chainID uint64, addr common.Address) AssetID {
	if addr == (common.Address{}) {
		panic("asset: token address cannot be zero, use NewNativeAssetID")
	}
	return AssetID{chainID: chainID, address: addr}
}

// NewFiatAssetID derives a synthetic address from the currency code so
// fiat entries get distinct identities on chain 0.
func NewFiatAssetID(symbol string) AssetID {
	return AssetID{
		chainID: 0,
		address: common.BytesToAddress(common.RightPadBytes([]byte(symbol), 20)),
	}
}

func (id AssetID) ChainID() uint64         { return id.chainID }
func (id AssetID) Address() common.Address { return id.address }

func (id AssetID) IsNative() bool { return id.chainID != 0 && id.address == (common.Address{}) }
func (id AssetID) IsFiat() bool   { return id.chainID == 0 }

func (id AssetID) Equals(other AssetID) bool {
	return id.chainID == other.chainID && id.address == other.address
}

func (id AssetID) String() string {
	switch {
	case id.IsFiat():
		return fmt.Sprintf("fiat:%s", id.address.Hex()[:10])
	case id.IsNative():
		return fmt.Sprintf("chain:%d/native", id.chainID)
	default:
		return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
	}
}

// Asset is the immutable metadata behind an AssetID.
type Asset struct {
	id       AssetID
	symbol   string
	name     string
	decimals uint8
}

func NewAsset(id AssetID, symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}
	return &Asset{id: id, symbol: symbol, decimals: decimals}
}

func NewAssetWithName(id AssetID, symbol, name string, decimals uint8) *Asset {
	a := NewAsset(id, symbol, decimals)
	a.name = name
	return a
}

func (a *Asset) ID() AssetID     { return a.id }
func (a *Asset) Symbol() string  { return a.symbol }
func (a *Asset) Decimals() uint8 { return a.decimals }
func (a *Asset) ChainID() uint64 { return a.id.ChainID() }

// Address returns the contract address, zero for native coins.
func (a *Asset) Address() common.Address { return a.id.Address() }

func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

func (a *Asset) String() string { return a.symbol }
