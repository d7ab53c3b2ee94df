// Package arbitrage implements the arbitrage bounded context: scan
// strategies, scheduling, and execution coordination.
package arbitrage

import (
	"context"

	"github.com/devJaja/kivo-scanner/business/arbitrage/app"
	arbitrageDI "github.com/devJaja/kivo-scanner/business/arbitrage/di"
	"github.com/devJaja/kivo-scanner/business/arbitrage/domain"
	"github.com/devJaja/kivo-scanner/business/arbitrage/infra"
	"github.com/devJaja/kivo-scanner/business/arbitrage/infra/gemini"
	blockchainDI "github.com/devJaja/kivo-scanner/business/blockchain/di"
	bridgeDI "github.com/devJaja/kivo-scanner/business/bridge/di"
	historyDI "github.com/devJaja/kivo-scanner/business/history/di"
	pricingDI "github.com/devJaja/kivo-scanner/business/pricing/di"
	"github.com/devJaja/kivo-scanner/internal/asset"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/di"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/monolith"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.ActivityLog, func(sr di.ServiceRegistry) *domain.ActivityLog {
		log := domain.NewActivityLog()
		reporter := arbitrageDI.GetReporter(sr)
		log.SetNotify(reporter.ReportActivity)
		return log
	})

	di.RegisterToken(c, arbitrageDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		cfg := sr.Get("config").(*config.Config)
		if cfg.Scanner.TUIMode {
			return infra.NewTUIReporter()
		}
		return infra.NewConsoleReporter()
	})

	di.RegisterToken(c, arbitrageDI.Calculator, func(sr di.ServiceRegistry) *app.Calculator {
		registry := sr.Get("assetRegistry").(*asset.Registry)
		return app.NewCalculator(pricingDI.GetQuoteReader(sr), registry)
	})

	// Resolved only when the advisory gate is enabled.
	di.RegisterToken(c, arbitrageDI.Advisor, func(sr di.ServiceRegistry) app.Advisor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		advisor, err := gemini.NewAdvisor(gemini.AdvisorConfig{
			APIURL:  cfg.Advisor.APIURL,
			APIKey:  cfg.Advisor.APIKey,
			Model:   cfg.Advisor.Model,
			Timeout: cfg.Advisor.Timeout,
		}, log)
		if err != nil {
			panic("failed to create advisor: " + err.Error())
		}
		return advisor
	})

	di.RegisterToken(c, arbitrageDI.CrossChainScheduler, func(sr di.ServiceRegistry) *app.Scheduler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)
		activity := arbitrageDI.GetActivityLog(sr)
		reporter := arbitrageDI.GetReporter(sr)

		finder := app.NewCrossChainFinder(
			cfg,
			di.GetToken(sr, arbitrageDI.Calculator),
			bridgeDI.GetQuoteClient(sr),
			blockchainDI.GetGasService(sr),
			optionalAdvisor(sr, cfg),
			registry,
			activity,
			log,
		)
		finder.SetProgressFunc(reporter.ReportProgress)

		return app.NewScheduler(finder, app.SchedulerConfig{
			Interval: cfg.Scanner.CrossChain.Interval,
		}, activity, log, app.WithReporter(reporter))
	})

	di.RegisterToken(c, arbitrageDI.DexScheduler, func(sr di.ServiceRegistry) *app.Scheduler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)
		activity := arbitrageDI.GetActivityLog(sr)
		reporter := arbitrageDI.GetReporter(sr)

		finder := app.NewDexFinder(
			cfg,
			di.GetToken(sr, arbitrageDI.Calculator),
			pricingDI.GetQuoteReader(sr),
			pricingDI.GetPriceFeed(sr),
			blockchainDI.GetGasService(sr),
			optionalAdvisor(sr, cfg),
			registry,
			activity,
			log,
		)

		return app.NewScheduler(finder, app.SchedulerConfig{
			Interval: cfg.Scanner.Dex.Interval,
		}, activity, log, app.WithReporter(reporter))
	})

	di.RegisterToken(c, arbitrageDI.FastScheduler, func(sr di.ServiceRegistry) *app.Scheduler {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		activity := arbitrageDI.GetActivityLog(sr)
		reporter := arbitrageDI.GetReporter(sr)

		finder := app.NewFastFinder(cfg, di.GetToken(sr, arbitrageDI.Calculator), activity, log)
		finder.SetProgressFunc(reporter.ReportProgress)

		return app.NewScheduler(finder, app.SchedulerConfig{
			Interval:   cfg.Scanner.Fast.Interval,
			Timeout:    cfg.Scanner.Fast.Timeout,
			MergeLimit: cfg.Scanner.Fast.TopN,
		}, activity, log, app.WithReporter(reporter))
	})

	di.RegisterToken(c, arbitrageDI.Coordinator, func(sr di.ServiceRegistry) *app.Coordinator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("assetRegistry").(*asset.Registry)

		var recorder app.HistoryRecorder
		if cfg.History.Enabled {
			recorder = historyDI.GetRecorder(sr)
		}

		return app.NewCoordinator(
			arbitrageDI.GetCrossChainScheduler(sr),
			bridgeDI.GetQuoteClient(sr),
			bridgeDI.GetExecutor(sr),
			registry,
			recorder,
			arbitrageDI.GetActivityLog(sr),
			log,
		)
	})

	return nil
}

// optionalAdvisor returns the advisory gate, or nil when disabled so
// finders surface candidates ungated.
func optionalAdvisor(sr di.ServiceRegistry, cfg *config.Config) app.Advisor {
	if !cfg.Advisor.Enabled {
		return nil
	}
	return di.GetToken(sr, arbitrageDI.Advisor)
}

// Startup initializes the arbitrage module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	services := mono.Services()

	arbitrageDI.GetCrossChainScheduler(services)
	arbitrageDI.GetDexScheduler(services)
	arbitrageDI.GetFastScheduler(services)
	arbitrageDI.GetCoordinator(services)

	mono.Logger().Info(ctx, "arbitrage module started",
		"advisor_enabled", mono.Config().Advisor.Enabled,
		"tui_mode", mono.Config().Scanner.TUIMode)
	return nil
}
