// Package di contains dependency injection tokens for the blockchain context.
package di

import (
	"github.com/devJaja/kivo-scanner/business/blockchain/app"
	"github.com/devJaja/kivo-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	GasService = di.NewToken[*app.GasService]("blockchain.GasService")
)

// Private dependency tokens - internal to blockchain module
var (
	CostEstimator = di.NewToken[app.CostEstimator]("blockchain:costEstimator")
)

// Helper functions for type-safe access
func GetGasService(c di.ServiceRegistry) *app.GasService {
	return di.GetToken(c, GasService)
}

func GetCostEstimator(c di.ServiceRegistry) app.CostEstimator {
	return di.GetToken(c, CostEstimator)
}
