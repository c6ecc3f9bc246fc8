// Package tdbdesk serves the TDB new-connection workflow: schema editing and
// import, connecting to a TDB server over websocket, and remembering the
// connection per url and database.
package tdbdesk

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dracory/api"

	"github.com/dracory/tdbdesk/api/api_connect"
	"github.com/dracory/tdbdesk/api/api_connection_load"
	"github.com/dracory/tdbdesk/api/api_disconnect"
	"github.com/dracory/tdbdesk/api/api_schema_import"
	"github.com/dracory/tdbdesk/api/api_schema_overwrite"
	"github.com/dracory/tdbdesk/api/api_schema_update"
	"github.com/dracory/tdbdesk/pages/page_connection_new"
	"github.com/dracory/tdbdesk/shared/connector"
	"github.com/dracory/tdbdesk/shared/connstore"
	"github.com/dracory/tdbdesk/shared/constants"
	"github.com/dracory/tdbdesk/shared/storage"
	"github.com/dracory/tdbdesk/shared/submit"
	"github.com/dracory/tdbdesk/shared/types"
	"github.com/dracory/tdbdesk/shared/urls"
)

const readyCheckKey = constants.StorageKeyPrefix + "readyz"

// App represents the main application instance
type App struct {
	config    types.Config
	logger    *slog.Logger
	kv        storage.Storage
	connector connector.Connector

	store     *connstore.Store
	submitter *submit.Submitter
	page      *page_connection_new.Handler
}

// New creates a new App. Without WithStorage records are kept in memory;
// without WithConnector a websocket connector bounded by cfg.ConnectTimeout
// is used.
func New(cfg types.Config, options ...Option) *App {
	a := &App{config: withDefaults(cfg)}
	for _, option := range options {
		option(a)
	}

	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.kv == nil {
		a.kv = storage.NewMemoryStore()
	}
	if a.connector == nil {
		a.connector = connector.NewWebsocketConnector(a.config.ConnectTimeout, a.logger)
	}

	a.store = connstore.New(a.kv, a.logger)
	a.submitter = submit.New(a.connector, a.store, a.logger)
	a.page = page_connection_new.New(a.config)
	if a.config.CSRFEnabled {
		a.page.CSRFToken = func(w http.ResponseWriter, r *http.Request) string {
			return EnsureCSRFCookie(w, r, a.config.SessionSecret, a.config.SecureCookies)
		}
	}
	return a
}

func withDefaults(cfg types.Config) types.Config {
	if cfg.ActionParam == "" {
		cfg.ActionParam = urls.DefaultActionParam
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/"
	}
	if cfg.SessionSecret == "" {
		b := make([]byte, 32)
		_, _ = rand.Read(b)
		cfg.SessionSecret = hex.EncodeToString(b)
	}
	return cfg
}

// Config returns the effective configuration.
func (a *App) Config() types.Config {
	return a.config
}

// Store returns the connection record store.
func (a *App) Store() *connstore.Store {
	return a.store
}

// Handler returns an http.Handler that serves the UI and API
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(a.config.BasePath, a.handleRequest)
	return securityHeaders(mux)
}

// Close disconnects every open connection and releases the storage backend.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.connector.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if c, ok := a.kv.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// handleRequest routes requests to the appropriate handler
func (a *App) handleRequest(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get(a.config.ActionParam)

	if r.Method == http.MethodPost && a.config.CSRFEnabled && !VerifyCSRF(r, a.config.SessionSecret) {
		a.logger.Warn("csrf_rejected", slog.String("action", action), slog.String("request_id", GetRequestID(r.Context())))
		api.Respond(w, r, api.Error("invalid csrf token"))
		return
	}

	switch action {
	case constants.ActionHealthz:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))

	case constants.ActionReadyz:
		if err := a.ready(r.Context()); err != nil {
			a.logger.Warn("not_ready", slog.String("error", err.Error()))
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))

	// API Handlers
	case constants.ActionApiSchemaUpdate:
		api_schema_update.New().ServeHTTP(w, r)
	case constants.ActionApiSchemaImport:
		api_schema_import.New(a.logger).ServeHTTP(w, r)
	case constants.ActionApiSchemaOverwrite:
		api_schema_overwrite.New().ServeHTTP(w, r)
	case constants.ActionApiConnect:
		api_connect.New(a.submitter).ServeHTTP(w, r)
	case constants.ActionApiConnectionLoad:
		api_connection_load.New(a.store).ServeHTTP(w, r)
	case constants.ActionApiDisconnect:
		api_disconnect.New(a.disconnector()).ServeHTTP(w, r)

	// Page Handlers
	case constants.ActionPageConnectionNew:
		a.page.ServeHTTP(w, r)

	default:
		http.Redirect(w, r, urls.ConnectionNew(a.config.BasePath, a.config.ActionParam), http.StatusFound)
	}
}

func (a *App) ready(ctx context.Context) error {
	_, _, err := a.kv.Get(ctx, readyCheckKey)
	return err
}

type noDisconnect struct{}

func (noDisconnect) Disconnect(string) error { return connector.ErrUnknownConnection }

func (a *App) disconnector() api_disconnect.Disconnector {
	if d, ok := a.connector.(api_disconnect.Disconnector); ok {
		return d
	}
	return noDisconnect{}
}
