// Package di contains dependency injection tokens for the pricing context.
package di

import (
	"github.com/devJaja/kivo-scanner/business/pricing/app"
	"github.com/devJaja/kivo-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	QuoteReader = di.NewToken[app.QuoteReader]("pricing.QuoteReader")
	PriceFeed   = di.NewToken[app.PriceFeed]("pricing.PriceFeed")
)

// Private dependency tokens - internal to pricing module
var (
	RawQuoteReader = di.NewToken[app.QuoteReader]("pricing:rawQuoteReader")
)

// Helper functions for type-safe access
func GetQuoteReader(c di.ServiceRegistry) app.QuoteReader {
	return di.GetToken(c, QuoteReader)
}

func GetPriceFeed(c di.ServiceRegistry) app.PriceFeed {
	return di.GetToken(c, PriceFeed)
}
