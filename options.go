package tdbdesk

import (
	"log/slog"

	"github.com/dracory/tdbdesk/shared/connector"
	"github.com/dracory/tdbdesk/shared/storage"
)

// Option configures an App.
type Option func(*App)

// WithStorage sets the durable key-value backend for connection records.
func WithStorage(kv storage.Storage) Option {
	return func(a *App) {
		a.kv = kv
	}
}

// WithConnector replaces the websocket connector.
func WithConnector(c connector.Connector) Option {
	return func(a *App) {
		a.connector = c
	}
}

// WithLogger sets the logger passed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}
