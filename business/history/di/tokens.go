// Package di contains dependency injection tokens for the history context.
package di

import (
	"github.com/devJaja/kivo-scanner/business/history/app"
	"github.com/devJaja/kivo-scanner/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Recorder = di.NewToken[*app.Recorder]("history.Recorder")
)

// Private dependency tokens - internal to history module
var (
	Store = di.NewToken[app.Store]("history:store")
)

// Helper functions for type-safe access
func GetRecorder(c di.ServiceRegistry) *app.Recorder {
	return di.GetToken(c, Recorder)
}

func GetStore(c di.ServiceRegistry) app.Store {
	return di.GetToken(c, Store)
}
