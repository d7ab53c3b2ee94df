package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	blockchainDomain "github.com/devJaja/kivo-scanner/business/blockchain/domain"
	pricingApp "github.com/devJaja/kivo-scanner/business/pricing/app"
	pricingDomain "github.com/devJaja/kivo-scanner/business/pricing/domain"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/shopspring/decimal"
)

// dexWatchlist is the token universe for same-chain venue arbitrage.
var dexWatchlist = []string{"WETH", "USDC", "DAI", "WBTC", "AERO", "ARB"}

// defaultTriangularTriples are the circular routes probed on every
// chain that carries all three tokens.
var defaultTriangularTriples = [][3]string{
	{"WETH", "USDC", "DAI"},
	{"WETH", "USDC", "WBTC"},
	{"WETH", "DAI", "USDT"},
}

// DexFinder scans each chain in isolation: two-pool spreads between
// venues, triangular routes, and the DEX price against the reference
// feed.
type DexFinder struct {
	cfg      *config.Config
	calc     *Calculator
	reader   pricingApp.QuoteReader
	feed     pricingApp.PriceFeed
	gas      gasService
	advisor  Advisor
	registry *asset.Registry
	activity *domain.ActivityLog
	log      logger.LoggerInterface
}

func NewDexFinder(
	cfg *config.Config,
	calc *Calculator,
	reader pricingApp.QuoteReader,
	feed pricingApp.PriceFeed,
	gas gasService,
	advisor Advisor,
	registry *asset.Registry,
	activity *domain.ActivityLog,
	log logger.LoggerInterface,
) *DexFinder {
	return &DexFinder{
		cfg:      cfg,
		calc:     calc,
		reader:   reader,
		feed:     feed,
		gas:      gas,
		advisor:  advisor,
		registry: registry,
		activity: activity,
		log:      log,
	}
}

func (f *DexFinder) Name() string { return "dex" }

func (f *DexFinder) Scan(ctx context.Context) ([]*domain.Opportunity, error) {
	var found []*domain.Opportunity
	for _, chain := range f.cfg.Chains {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		found = append(found, f.scanTwoPool(ctx, &chain)...)
		found = append(found, f.scanTriangular(ctx, &chain)...)
		found = append(found, f.scanOracle(ctx, &chain)...)
	}

	domain.Rank(found)
	return found, nil
}

// scanTwoPool probes every token pair across every ordered venue pair.
func (f *DexFinder) scanTwoPool(ctx context.Context, chain *config.ChainConfig) []*domain.Opportunity {
	if len(chain.Venues) < 2 {
		return nil
	}

	tokens := f.chainTokens(chain.ChainID)
	var found []*domain.Opportunity
	for i := 0; i < len(tokens); i++ {
		for j := i + 1; j < len(tokens); j++ {
			for _, buyVenue := range chain.Venues {
				for _, sellVenue := range chain.Venues {
					if buyVenue.Name == sellVenue.Name {
						continue
					}
					opp := f.evaluateRoundTrip(ctx, chain, tokens[i], tokens[j], buyVenue.Name, sellVenue.Name)
					if opp != nil {
						found = append(found, opp)
					}
				}
			}
		}
	}
	return found
}

// evaluateRoundTrip quotes base -> quote on the buy venue and the
// proceeds back on the sell venue, then nets gas and slippage.
func (f *DexFinder) evaluateRoundTrip(
	ctx context.Context,
	chain *config.ChainConfig,
	base, quote *asset.Asset,
	buyVenue, sellVenue string,
) *domain.Opportunity {
	in := OneToken(base)

	leg1 := f.reader.VenueQuote(ctx, chain.ChainID, buyVenue, base.Address(), quote.Address(), in)
	if !leg1.OK() {
		return nil
	}
	leg2 := f.reader.VenueQuote(ctx, chain.ChainID, sellVenue, quote.Address(), base.Address(), leg1.Quote.AmountOut.Raw())
	if !leg2.OK() {
		return nil
	}

	profitTokens := leg2.Quote.AmountOut.ToDecimal().Sub(decimal.NewFromInt(1))
	spread := profitTokens.Mul(decimal.NewFromInt(100))
	if !spread.GreaterThan(decimal.NewFromFloat(f.cfg.Scanner.Dex.MinProfitPercent)) {
		return nil
	}

	basePrice, ok := f.calc.USDPrice(ctx, chain.ChainID, base.Symbol())
	if !ok {
		return nil
	}

	grossUSD := profitTokens.Mul(basePrice)
	gasUSD := f.gas.SwapCostUSD(ctx, chain.ChainID, blockchainDomain.SwapMulti)
	profit := DexProfit(grossUSD, gasUSD, decimal.NewFromFloat(f.cfg.Scanner.Dex.SlippagePercent))
	if !profit.Profitable(decimal.NewFromFloat(f.cfg.Scanner.Dex.MinNetUSD)) {
		return nil
	}

	opp := &domain.Opportunity{
		ID:            domain.NewID(base.Symbol(), chain.ChainID, chain.ChainID),
		Kind:          domain.KindTwoPool,
		Token:         base.Symbol(),
		FromChainID:   chain.ChainID,
		ToChainID:     chain.ChainID,
		BuyVenue:      buyVenue,
		SellVenue:     sellVenue,
		BuyPrice:      basePrice,
		SellPrice:     basePrice.Mul(decimal.NewFromInt(1).Add(profitTokens)),
		SpreadPercent: spread,
		TradeAmount:   decimal.NewFromInt(1),
		Profit:        profit,
		Risk:          domain.SameChainRisk(profit.Net()),
		CreatedAt:     leg2.Quote.Timestamp,
	}
	f.activity.Add("success", fmt.Sprintf("%s: %s/%s %s -> %s on %s, net $%s",
		f.Name(), base.Symbol(), quote.Symbol(), buyVenue, sellVenue, chain.Name, profit.Net().StringFixed(2)))
	return opp
}

// scanTriangular probes built-in triples plus any advisor suggestions.
func (f *DexFinder) scanTriangular(ctx context.Context, chain *config.ChainConfig) []*domain.Opportunity {
	if len(chain.Venues) == 0 {
		return nil
	}

	routes := f.builtinRoutes(chain)
	if f.advisor != nil {
		routes = append(routes, f.advisor.SuggestRoutes(ctx, chain.ChainID)...)
	}

	var found []*domain.Opportunity
	for _, route := range routes {
		opp := f.evaluateTriangular(ctx, chain, route)
		if opp != nil {
			found = append(found, opp)
		}
	}
	return found
}

func (f *DexFinder) builtinRoutes(chain *config.ChainConfig) []TriangularRoute {
	var routes []TriangularRoute
	for _, triple := range defaultTriangularTriples {
		if !f.hasAll(chain.ChainID, triple[0], triple[1], triple[2]) {
			continue
		}
		for _, venue := range chain.Venues {
			routes = append(routes, TriangularRoute{
				Tokens: []string{triple[0], triple[1], triple[2], triple[0]},
				Venues: []string{venue.Name, venue.Name, venue.Name},
			})
		}
	}
	return routes
}

func (f *DexFinder) evaluateTriangular(ctx context.Context, chain *config.ChainConfig, route TriangularRoute) *domain.Opportunity {
	if len(route.Tokens) != 4 || len(route.Venues) != 3 || route.Tokens[0] != route.Tokens[3] {
		return nil
	}

	start, ok := f.registry.GetBySymbolAndChain(route.Tokens[0], chain.ChainID)
	if !ok {
		return nil
	}

	amount := OneToken(start)
	legs := make([]string, 0, 3)
	for hop := 0; hop < 3; hop++ {
		from, okFrom := f.registry.GetBySymbolAndChain(route.Tokens[hop], chain.ChainID)
		to, okTo := f.registry.GetBySymbolAndChain(route.Tokens[hop+1], chain.ChainID)
		if !okFrom || !okTo {
			return nil
		}
		result := f.reader.VenueQuote(ctx, chain.ChainID, route.Venues[hop], from.Address(), to.Address(), amount)
		if !result.OK() {
			return nil
		}
		amount = result.Quote.AmountOut.Raw()
		legs = append(legs, fmt.Sprintf("%s->%s@%s", from.Symbol(), to.Symbol(), route.Venues[hop]))
	}

	final := asset.NewAmount(start, amount)
	profitTokens := final.ToDecimal().Sub(decimal.NewFromInt(1))
	spread := profitTokens.Mul(decimal.NewFromInt(100))
	if !spread.GreaterThan(decimal.NewFromFloat(f.cfg.Scanner.Dex.MinProfitPercent)) {
		return nil
	}

	startPrice, ok := f.calc.USDPrice(ctx, chain.ChainID, start.Symbol())
	if !ok {
		return nil
	}

	grossUSD := profitTokens.Mul(startPrice)
	gasUSD := f.gas.SwapCostUSD(ctx, chain.ChainID, blockchainDomain.SwapMulti)
	profit := DexProfit(grossUSD, gasUSD, decimal.NewFromFloat(f.cfg.Scanner.Dex.SlippagePercent))
	if !profit.Profitable(decimal.NewFromFloat(f.cfg.Scanner.Dex.MinNetUSD)) {
		return nil
	}

	opp := &domain.Opportunity{
		ID:            domain.NewID(start.Symbol(), chain.ChainID, chain.ChainID),
		Kind:          domain.KindTriangular,
		Token:         start.Symbol(),
		FromChainID:   chain.ChainID,
		ToChainID:     chain.ChainID,
		BuyVenue:      route.Venues[0],
		SellVenue:     route.Venues[len(route.Venues)-1],
		Route:         legs,
		BuyPrice:      startPrice,
		SpreadPercent: spread,
		TradeAmount:   decimal.NewFromInt(1),
		Profit:        profit,
		Risk:          domain.SameChainRisk(profit.Net()),
		CreatedAt:     time.Now(),
	}
	f.activity.Add("success", fmt.Sprintf("%s: route %s on %s, net $%s",
		f.Name(), strings.Join(legs, " "), chain.Name, profit.Net().StringFixed(2)))
	return opp
}

// scanOracle compares the on-chain WETH/USDC price against the
// reference feed in both directions.
func (f *DexFinder) scanOracle(ctx context.Context, chain *config.ChainConfig) []*domain.Opportunity {
	dexPrice, ok := f.calc.USDPrice(ctx, chain.ChainID, "WETH")
	if !ok {
		return nil
	}

	feedPrices, err := f.feed.USDPrices(ctx, []string{"WETH"})
	if err != nil {
		f.log.Warn(ctx, "reference feed unavailable", "chain", chain.Name, "error", err)
		return nil
	}
	feedPrice, ok := feedPrices["WETH"]
	if !ok || feedPrice.IsZero() {
		return nil
	}

	// Buy at the lower of the two, sell at the higher.
	spread := pricingDomain.CalculateSpread(dexPrice, feedPrice)
	buyVenue, sellVenue := "dex", "oracle"
	if spread.Direction == pricingDomain.SpreadSecondCheaper {
		buyVenue, sellVenue = "oracle", "dex"
	}

	if !spread.Percent.GreaterThan(decimal.NewFromFloat(f.cfg.Scanner.Dex.MinProfitPercent)) {
		return nil
	}

	notional := decimal.NewFromFloat(f.cfg.Scanner.Dex.NotionalUSD)
	tradeAmount, grossUSD := SpreadEconomics(spread.BuyPrice, spread.SellPrice, notional)
	gasUSD := f.gas.SwapCostUSD(ctx, chain.ChainID, blockchainDomain.SwapSingle)
	profit := DexProfit(grossUSD, gasUSD, decimal.NewFromFloat(f.cfg.Scanner.Dex.SlippagePercent))
	if !profit.Profitable(decimal.NewFromFloat(f.cfg.Scanner.Dex.MinNetUSD)) {
		return nil
	}

	opp := &domain.Opportunity{
		ID:            domain.NewID("WETH", chain.ChainID, chain.ChainID),
		Kind:          domain.KindOracle,
		Token:         "WETH",
		FromChainID:   chain.ChainID,
		ToChainID:     chain.ChainID,
		BuyVenue:      buyVenue,
		SellVenue:     sellVenue,
		BuyPrice:      spread.BuyPrice,
		SellPrice:     spread.SellPrice,
		SpreadPercent: spread.Percent,
		TradeAmount:   tradeAmount,
		Profit:        profit,
		Risk:          domain.SameChainRisk(profit.Net()),
		CreatedAt:     time.Now(),
	}
	f.activity.Add("success", fmt.Sprintf("%s: WETH %s vs %s on %s, net $%s",
		f.Name(), buyVenue, sellVenue, chain.Name, profit.Net().StringFixed(2)))
	return []*domain.Opportunity{opp}
}

func (f *DexFinder) chainTokens(chainID uint64) []*asset.Asset {
	tokens := make([]*asset.Asset, 0, len(dexWatchlist))
	for _, symbol := range dexWatchlist {
		if token, ok := f.registry.GetBySymbolAndChain(symbol, chainID); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func (f *DexFinder) hasAll(chainID uint64, symbols ...string) bool {
	for _, symbol := range symbols {
		if _, ok := f.registry.GetBySymbolAndChain(symbol, chainID); !ok {
			return false
		}
	}
	return true
}
