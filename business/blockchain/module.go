// Package blockchain implements the blockchain bounded context: gas
// prices and swap cost estimation across the configured chains.
package blockchain

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/devJaja/kivo-scanner/business/blockchain/app"
	blockchainDI "github.com/devJaja/kivo-scanner/business/blockchain/di"
	"github.com/devJaja/kivo-scanner/business/blockchain/infra/ethereum"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/di"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/monolith"
)

// Module implements the blockchain bounded context.
type Module struct{}

// RegisterServices registers all blockchain services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register CostEstimator (private - internal dependency)
	di.RegisterToken(c, blockchainDI.CostEstimator, func(sr di.ServiceRegistry) app.CostEstimator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		clients := sr.Get("chainClients").(map[uint64]*ethclient.Client)

		estCfg := ethereum.DefaultEstimatorConfig()
		estCfg.Multiplier = cfg.Scanner.GasMultiplier

		est, err := ethereum.NewEstimator(estCfg, clients, log)
		if err != nil {
			panic("failed to create cost estimator: " + err.Error())
		}
		return est
	})

	// Register GasService (public - exposed to other modules)
	di.RegisterToken(c, blockchainDI.GasService, func(sr di.ServiceRegistry) *app.GasService {
		cfg := sr.Get("config").(*config.Config)
		est := blockchainDI.GetCostEstimator(sr)
		return app.NewGasService(est, cfg)
	})

	return nil
}

// Startup initializes the blockchain module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	blockchainDI.GetGasService(mono.Services())
	mono.Logger().Info(ctx, "blockchain module started")
	return nil
}
