// Package di contains dependency injection tokens for the bridge context.
package di

import (
	"github.com/devJaja/kivo-scanner/business/bridge/app"
	"github.com/devJaja/kivo-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	QuoteClient = di.NewToken[app.QuoteClient]("bridge.QuoteClient")
	Executor    = di.NewToken[app.Executor]("bridge.Executor")
)

// Helper functions for type-safe access
func GetQuoteClient(c di.ServiceRegistry) app.QuoteClient {
	return di.GetToken(c, QuoteClient)
}

func GetExecutor(c di.ServiceRegistry) app.Executor {
	return di.GetToken(c, Executor)
}
