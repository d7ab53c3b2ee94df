// Package bridge implements the bridge bounded context: Across fee
// quotes and cross-chain transfer execution.
package bridge

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/devJaja/kivo-scanner/business/bridge/app"
	bridgeDI "github.com/devJaja/kivo-scanner/business/bridge/di"
	"github.com/devJaja/kivo-scanner/business/bridge/infra/across"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/di"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/monolith"
)

// Module implements the bridge bounded context.
type Module struct{}

// RegisterServices registers all bridge services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register QuoteClient (public - exposed to other modules)
	di.RegisterToken(c, bridgeDI.QuoteClient, func(sr di.ServiceRegistry) app.QuoteClient {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := across.NewClient(across.ClientConfig{
			APIBaseURL: cfg.Bridge.APIBaseURL,
			Timeout:    cfg.Bridge.Timeout,
			RateLimit:  cfg.Bridge.RateLimit,
		}, log)
		if err != nil {
			panic("failed to create bridge quote client: " + err.Error())
		}
		return client
	})

	// Register Executor (public). Without a configured wallet the
	// scanner still quotes and ranks; execution attempts fail cleanly.
	di.RegisterToken(c, bridgeDI.Executor, func(sr di.ServiceRegistry) app.Executor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		if !cfg.Executor.Enabled || cfg.Executor.PrivateKey == "" {
			return app.DisabledExecutor{}
		}

		clients := sr.Get("chainClients").(map[uint64]*ethclient.Client)
		statusClient := bridgeDI.GetQuoteClient(sr).(*across.Client)

		executor, err := across.NewExecutor(cfg.Executor.PrivateKey, clients, statusClient, log)
		if err != nil {
			panic("failed to create bridge executor: " + err.Error())
		}
		return executor
	})

	return nil
}

// Startup initializes the bridge module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	bridgeDI.GetQuoteClient(mono.Services())

	executionEnabled := mono.Config().Executor.Enabled
	mono.Logger().Info(ctx, "bridge module started", "execution_enabled", executionEnabled)
	return nil
}
