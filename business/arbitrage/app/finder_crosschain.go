package app

import (
	"context"
	"fmt"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	blockchainDomain "github.com/devJaja/kivo-scanner/business/blockchain/domain"
	bridgeApp "github.com/devJaja/kivo-scanner/business/bridge/app"
	pricingDomain "github.com/devJaja/kivo-scanner/business/pricing/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/shopspring/decimal"
)

// crossChainWatchlist is the token universe scanned across chains.
// USDC is excluded because it is the quote currency.
var crossChainWatchlist = []string{
	"WETH", "USDT", "DAI", "WBTC", "LINK", "ARB", "AERO", "BRETT", "cbETH",
}

// gasService is the slice of the blockchain context the finders need.
type gasService interface {
	SwapCostUSD(ctx context.Context, chainID uint64, kind blockchainDomain.SwapKind) decimal.Decimal
}

// CrossChainFinder looks for the same token priced differently on two
// chains, nets out the bridge fee and gas, and gates survivors through
// the advisor when one is configured.
type CrossChainFinder struct {
	cfg      *config.Config
	calc     *Calculator
	bridge   bridgeApp.QuoteClient
	gas      gasService
	advisor  Advisor
	registry *asset.Registry
	activity *domain.ActivityLog
	log      logger.LoggerInterface

	onProgress func(ScanProgress)
}

func NewCrossChainFinder(
	cfg *config.Config,
	calc *Calculator,
	bridge bridgeApp.QuoteClient,
	gas gasService,
	advisor Advisor,
	registry *asset.Registry,
	activity *domain.ActivityLog,
	log logger.LoggerInterface,
) *CrossChainFinder {
	return &CrossChainFinder{
		cfg:      cfg,
		calc:     calc,
		bridge:   bridge,
		gas:      gas,
		advisor:  advisor,
		registry: registry,
		activity: activity,
		log:      log,
	}
}

func (f *CrossChainFinder) Name() string { return "cross-chain" }

// SetProgressFunc installs an optional per-route progress callback.
func (f *CrossChainFinder) SetProgressFunc(fn func(ScanProgress)) { f.onProgress = fn }

func (f *CrossChainFinder) Scan(ctx context.Context) ([]*domain.Opportunity, error) {
	chains := f.cfg.Chains
	minSpread := decimal.NewFromFloat(f.cfg.Scanner.CrossChain.MinProfitPercent)
	minNet := decimal.NewFromFloat(f.cfg.Scanner.CrossChain.MinNetUSD)
	notional := decimal.NewFromFloat(f.cfg.Scanner.CrossChain.NotionalUSD)

	total := len(crossChainWatchlist) * len(chains) * (len(chains) - 1)
	scanned := 0

	var found []*domain.Opportunity
	for _, token := range crossChainWatchlist {
		if err := ctx.Err(); err != nil {
			return found, err
		}

		// Price the token everywhere it trades before comparing.
		prices := make(map[uint64]decimal.Decimal, len(chains))
		for _, chain := range chains {
			if price, ok := f.calc.USDPrice(ctx, chain.ChainID, token); ok {
				prices[chain.ChainID] = price
			}
		}

		for _, from := range chains {
			for _, to := range chains {
				if from.ChainID == to.ChainID {
					continue
				}
				scanned++
				f.progress(token, from.Name, to.Name, scanned, total)

				buyPrice, okFrom := prices[from.ChainID]
				sellPrice, okTo := prices[to.ChainID]
				if !okFrom || !okTo {
					continue
				}

				spread := pricingDomain.DirectionalSpreadPercent(buyPrice, sellPrice)
				if !spread.GreaterThan(minSpread) {
					continue
				}

				opp := f.evaluate(ctx, token, from.ChainID, to.ChainID, buyPrice, sellPrice, spread, notional, minNet)
				if opp == nil {
					continue
				}
				found = append(found, opp)
				f.activity.Add("success", fmt.Sprintf("%s: %s %s -> %s, net $%s",
					f.Name(), token, from.Name, to.Name, opp.Profit.Net().StringFixed(2)))
			}
		}
	}

	domain.Rank(found)
	return found, nil
}

// evaluate prices the bridge and gas for one candidate route and
// returns nil when anything disqualifies it.
func (f *CrossChainFinder) evaluate(
	ctx context.Context,
	token string,
	fromChainID, toChainID uint64,
	buyPrice, sellPrice, spread, notional, minNet decimal.Decimal,
) *domain.Opportunity {
	tokenAsset, ok := f.registry.GetBySymbolAndChain(token, fromChainID)
	if !ok {
		return nil
	}

	tradeAmount, gross := SpreadEconomics(buyPrice, sellPrice, notional)
	amount, err := asset.ParseDecimal(tokenAsset, tradeAmount.Truncate(int32(tokenAsset.Decimals())))
	if err != nil || amount.IsZero() {
		return nil
	}

	quote, err := f.bridge.SuggestedFees(ctx, bridgeApp.QuoteRequest{
		OriginChainID:      fromChainID,
		DestinationChainID: toChainID,
		Token:              tokenAsset.Address(),
		Amount:             amount,
	})
	if err != nil {
		f.log.Warn(ctx, "bridge quote failed",
			"token", token, "from", fromChainID, "to", toChainID, "error", err)
		return nil
	}
	if !quote.Usable() {
		f.activity.Add("info", fmt.Sprintf("%s: %s %s -> %s below bridge minimum",
			f.Name(), token, asset.ChainName(fromChainID), asset.ChainName(toChainID)))
		return nil
	}

	bridgeFeeUSD := quote.TotalFee.ToDecimal().Mul(buyPrice)
	gasUSD := f.gas.SwapCostUSD(ctx, fromChainID, blockchainDomain.SwapSingle)

	profit := CrossChainProfit(gross, bridgeFeeUSD, gasUSD)
	if !profit.Profitable(minNet) {
		return nil
	}

	opp := &domain.Opportunity{
		ID:            domain.NewID(token, fromChainID, toChainID),
		Kind:          domain.KindCrossChain,
		Token:         token,
		FromChainID:   fromChainID,
		ToChainID:     toChainID,
		BuyVenue:      asset.ChainName(fromChainID),
		SellVenue:     asset.ChainName(toChainID),
		BuyPrice:      buyPrice,
		SellPrice:     sellPrice,
		SpreadPercent: spread,
		TradeAmount:   tradeAmount,
		Profit:        profit,
		Risk:          domain.CrossChainRisk(spread),
		CreatedAt:     quote.Timestamp,
	}

	if f.advisor != nil {
		approved, err := f.advisor.Approve(ctx, opp)
		if err != nil {
			f.log.Warn(ctx, "advisor unavailable, rejecting", "id", opp.ID, "error", err)
			return nil
		}
		if !approved {
			f.activity.Add("info", fmt.Sprintf("advisor rejected %s", opp.ID))
			return nil
		}
	}
	return opp
}

func (f *CrossChainFinder) progress(token, from, to string, scanned, total int) {
	if f.onProgress == nil {
		return
	}
	f.onProgress(ScanProgress{
		Strategy: f.Name(),
		Scanned:  scanned,
		Total:    total,
		Current:  fmt.Sprintf("%s %s -> %s", token, from, to),
	})
}
