package app

import (
	"context"
	"fmt"
	"time"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	pricingDomain "github.com/devJaja/kivo-scanner/business/pricing/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/shopspring/decimal"
)

// Fast mode trades breadth for speed: two chains, four tokens, flat
// execution-cost estimates instead of live bridge and gas quotes.
var (
	fastChains  = []uint64{asset.ChainIDBase, asset.ChainIDArbitrum}
	fastTokens  = []string{"WETH", "USDC", "USDT", "DAI"}
	fastStables = []string{"USDC", "USDT", "DAI"}

	// Flat cost assumptions per execution, in USD.
	fastSameChainCost  = decimal.NewFromInt(1)
	fastCrossChainCost = decimal.NewFromInt(2)
)

// FastFinder hunts stablecoin depegs and small cross-chain gaps with
// minimal RPC traffic per pass.
type FastFinder struct {
	cfg      *config.Config
	calc     *Calculator
	activity *domain.ActivityLog
	log      logger.LoggerInterface

	onProgress func(ScanProgress)
}

func NewFastFinder(cfg *config.Config, calc *Calculator, activity *domain.ActivityLog, log logger.LoggerInterface) *FastFinder {
	return &FastFinder{cfg: cfg, calc: calc, activity: activity, log: log}
}

func (f *FastFinder) Name() string { return "fast" }

func (f *FastFinder) SetProgressFunc(fn func(ScanProgress)) { f.onProgress = fn }

func (f *FastFinder) Scan(ctx context.Context) ([]*domain.Opportunity, error) {
	prices, err := f.collectPrices(ctx)
	if err != nil {
		return nil, err
	}

	found := f.scanStablePairs(prices)
	found = append(found, f.scanCrossChain(prices)...)

	domain.Rank(found)
	if limit := f.cfg.Scanner.Fast.ScanLimit; limit > 0 && len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

// collectPrices quotes every fast-mode token on every fast-mode chain.
// Tokens without a pool on a chain are simply absent from the result.
func (f *FastFinder) collectPrices(ctx context.Context) (map[uint64]map[string]decimal.Decimal, error) {
	prices := make(map[uint64]map[string]decimal.Decimal, len(fastChains))
	total := len(fastChains) * len(fastTokens)
	scanned := 0

	for _, chainID := range fastChains {
		if _, ok := f.cfg.ChainByID(chainID); !ok {
			continue
		}
		prices[chainID] = make(map[string]decimal.Decimal, len(fastTokens))
		for _, token := range fastTokens {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scanned++
			f.progress(scanned, total, fmt.Sprintf("%s on %s", token, asset.ChainName(chainID)))

			if price, ok := f.calc.USDPrice(ctx, chainID, token); ok {
				prices[chainID][token] = price
			}
		}
	}
	return prices, nil
}

// scanStablePairs looks for depegs between stablecoin pairs on one chain.
func (f *FastFinder) scanStablePairs(prices map[uint64]map[string]decimal.Decimal) []*domain.Opportunity {
	minSpread := decimal.NewFromFloat(f.cfg.Scanner.Fast.MinProfitPercent)
	minNet := decimal.NewFromFloat(f.cfg.Scanner.Fast.MinNetUSD)
	notional := decimal.NewFromFloat(f.cfg.Scanner.Fast.NotionalUSD)

	var found []*domain.Opportunity
	for chainID, chainPrices := range prices {
		for _, buy := range fastStables {
			for _, sell := range fastStables {
				if buy == sell {
					continue
				}
				buyPrice, okBuy := chainPrices[buy]
				sellPrice, okSell := chainPrices[sell]
				if !okBuy || !okSell {
					continue
				}

				spread := pricingDomain.DirectionalSpreadPercent(buyPrice, sellPrice)
				if !spread.GreaterThan(minSpread) {
					continue
				}

				tradeAmount, gross := SpreadEconomics(buyPrice, sellPrice, notional)
				profit := domain.ProfitBreakdown{GrossUSD: gross, FlatFeeUSD: fastSameChainCost}
				if !profit.Profitable(minNet) {
					continue
				}

				// The pair, not the single token, identifies the route.
				pair := fmt.Sprintf("%s/%s", buy, sell)
				opp := &domain.Opportunity{
					ID:            domain.NewID(pair, chainID, chainID),
					Kind:          domain.KindStable,
					Token:         pair,
					FromChainID:   chainID,
					ToChainID:     chainID,
					BuyVenue:      buy,
					SellVenue:     sell,
					BuyPrice:      buyPrice,
					SellPrice:     sellPrice,
					SpreadPercent: spread,
					TradeAmount:   tradeAmount,
					Profit:        profit,
					Risk:          domain.SameChainRisk(profit.Net()),
					CreatedAt:     time.Now(),
				}
				found = append(found, opp)
				f.activity.Add("success", fmt.Sprintf("%s: %s/%s depeg on %s, net $%s",
					f.Name(), buy, sell, asset.ChainName(chainID), profit.Net().StringFixed(2)))
			}
		}
	}
	return found
}

// scanCrossChain compares every token's price between the fast chains.
func (f *FastFinder) scanCrossChain(prices map[uint64]map[string]decimal.Decimal) []*domain.Opportunity {
	minSpread := decimal.NewFromFloat(f.cfg.Scanner.Fast.MinProfitPercent)
	minNet := decimal.NewFromFloat(f.cfg.Scanner.Fast.MinNetUSD)
	notional := decimal.NewFromFloat(f.cfg.Scanner.Fast.NotionalUSD)

	var found []*domain.Opportunity
	for _, from := range fastChains {
		for _, to := range fastChains {
			if from == to {
				continue
			}
			fromPrices, okFrom := prices[from]
			toPrices, okTo := prices[to]
			if !okFrom || !okTo {
				continue
			}

			for _, token := range fastTokens {
				buyPrice, okBuy := fromPrices[token]
				sellPrice, okSell := toPrices[token]
				if !okBuy || !okSell {
					continue
				}

				spread := pricingDomain.DirectionalSpreadPercent(buyPrice, sellPrice)
				if !spread.GreaterThan(minSpread) {
					continue
				}

				tradeAmount, gross := SpreadEconomics(buyPrice, sellPrice, notional)
				profit := domain.ProfitBreakdown{GrossUSD: gross, FlatFeeUSD: fastCrossChainCost}
				if !profit.Profitable(minNet) {
					continue
				}

				opp := &domain.Opportunity{
					ID:            domain.NewID(token, from, to),
					Kind:          domain.KindCrossChain,
					Token:         token,
					FromChainID:   from,
					ToChainID:     to,
					BuyVenue:      asset.ChainName(from),
					SellVenue:     asset.ChainName(to),
					BuyPrice:      buyPrice,
					SellPrice:     sellPrice,
					SpreadPercent: spread,
					TradeAmount:   tradeAmount,
					Profit:        profit,
					Risk:          domain.CrossChainRisk(spread),
					CreatedAt:     time.Now(),
				}
				found = append(found, opp)
				f.activity.Add("success", fmt.Sprintf("%s: %s %s -> %s, net $%s",
					f.Name(), token, asset.ChainName(from), asset.ChainName(to), profit.Net().StringFixed(2)))
			}
		}
	}
	return found
}

func (f *FastFinder) progress(scanned, total int, current string) {
	if f.onProgress == nil {
		return
	}
	f.onProgress(ScanProgress{Strategy: f.Name(), Scanned: scanned, Total: total, Current: current})
}
