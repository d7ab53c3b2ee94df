// Package history implements the history bounded context: persisted
// scan findings and execution attempts.
package history

import (
	"context"

	"github.com/devJaja/kivo-scanner/business/history/app"
	historyDI "github.com/devJaja/kivo-scanner/business/history/di"
	"github.com/devJaja/kivo-scanner/business/history/infra/postgres"
	"github.com/devJaja/kivo-scanner/internal/config"
	"github.com/devJaja/kivo-scanner/internal/di"
	"github.com/devJaja/kivo-scanner/internal/logger"
	"github.com/devJaja/kivo-scanner/internal/monolith"
)

// Module implements the history bounded context.
type Module struct{}

// RegisterServices registers all history services with the DI container.
// Tokens are only resolved when cfg.History.Enabled is set.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, historyDI.Store, func(sr di.ServiceRegistry) app.Store {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		store, err := postgres.NewStore(context.Background(), cfg.History.DSN, log)
		if err != nil {
			panic("failed to create history store: " + err.Error())
		}
		return store
	})

	di.RegisterToken(c, historyDI.Recorder, func(sr di.ServiceRegistry) *app.Recorder {
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewRecorder(historyDI.GetStore(sr), log)
	})

	return nil
}

// Startup migrates the schema when history is enabled.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	if !mono.Config().History.Enabled {
		mono.Logger().Info(ctx, "history module disabled")
		return nil
	}

	store := historyDI.GetStore(mono.Services())
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "history module started")
	return nil
}
