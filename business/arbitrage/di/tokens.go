// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/devJaja/kivo-scanner/business/arbitrage/app"
	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	CrossChainScheduler = di.NewToken[*app.Scheduler]("arbitrage.CrossChainScheduler")
	DexScheduler        = di.NewToken[*app.Scheduler]("arbitrage.DexScheduler")
	FastScheduler       = di.NewToken[*app.Scheduler]("arbitrage.FastScheduler")
	Coordinator         = di.NewToken[*app.Coordinator]("arbitrage.Coordinator")
	ActivityLog         = di.NewToken[*domain.ActivityLog]("arbitrage.ActivityLog")
	Reporter            = di.NewToken[app.Reporter]("arbitrage.Reporter")
)

// Private dependency tokens - internal to arbitrage module
var (
	Calculator = di.NewToken[*app.Calculator]("arbitrage:calculator")
	Advisor    = di.NewToken[app.Advisor]("arbitrage:advisor")
)

// Helper functions for type-safe access
func GetCrossChainScheduler(c di.ServiceRegistry) *app.Scheduler {
	return di.GetToken(c, CrossChainScheduler)
}

func GetDexScheduler(c di.ServiceRegistry) *app.Scheduler {
	return di.GetToken(c, DexScheduler)
}

func GetFastScheduler(c di.ServiceRegistry) *app.Scheduler {
	return di.GetToken(c, FastScheduler)
}

func GetCoordinator(c di.ServiceRegistry) *app.Coordinator {
	return di.GetToken(c, Coordinator)
}

func GetActivityLog(c di.ServiceRegistry) *domain.ActivityLog {
	return di.GetToken(c, ActivityLog)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}

// SchedulerByStrategy maps a strategy name to its scheduler, or nil
// for an unknown name.
func SchedulerByStrategy(c di.ServiceRegistry, strategy string) *app.Scheduler {
	switch strategy {
	case "cross-chain":
		return GetCrossChainScheduler(c)
	case "dex":
		return GetDexScheduler(c)
	case "fast":
		return GetFastScheduler(c)
	}
	return nil
}
