// Package pricing implements the pricing bounded context: on-chain AMM
// quotes and off-chain USD reference prices.
package pricing

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/devJaja/kivo-scanner/business/pricing/app"
	pricingDI "github.com/devJaja/kivo-scanner/business/pricing/di"
	"github.com/devJaja/kivo-scanner/business/pricing/infra/feed"
	"github.com/devJaja/kivo-scanner/business/pricing/infra/uniswap"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/di"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct{}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register the raw AMM reader - private dependency
	di.RegisterToken(c, pricingDI.RawQuoteReader, func(sr di.ServiceRegistry) app.QuoteReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		clients := sr.Get("chainClients").(map[uint64]*ethclient.Client)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		reader, err := uniswap.NewReader(clients, cfg.Chains, registry, log)
		if err != nil {
			panic("failed to create amm reader: " + err.Error())
		}
		return reader
	})

	// Register the cached reader (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.QuoteReader, func(sr di.ServiceRegistry) app.QuoteReader {
		cfg := sr.Get("config").(*config.Config)
		raw := di.GetToken(sr, pricingDI.RawQuoteReader)
		return app.NewCachedReader(raw, cfg.Scanner.QuoteTTL)
	})

	// Register the USD price feed (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PriceFeed, func(sr di.ServiceRegistry) app.PriceFeed {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		provider, err := feed.NewProvider(feed.ProviderConfig{
			CoinGeckoURL: cfg.Feed.CoinGeckoURL,
			CMCURL:       cfg.Feed.CMCURL,
			CMCAPIKey:    cfg.Feed.CMCAPIKey,
			CacheTTL:     cfg.Feed.CacheTTL,
			Retries:      cfg.Feed.Retries,
			RetryBackoff: cfg.Feed.RetryBackoff,
			Timeout:      cfg.Feed.Timeout,
		}, log)
		if err != nil {
			panic("failed to create price feed: " + err.Error())
		}
		return provider
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	// Force construction so config errors surface at startup rather
	// than on the first scan pass.
	pricingDI.GetQuoteReader(mono.Services())
	pricingDI.GetPriceFeed(mono.Services())

	mono.Logger().Info(ctx, "pricing module started",
		"chains", len(mono.Config().Chains))
	return nil
}
