package api_connection_load

import (
	"context"
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/tdbdesk/shared/types"
)

// Loader reads saved connection records
type Loader interface {
	Load(ctx context.Context, url, dbName string) (types.ConnectionRecord, bool)
}

// Connection is the saved connection returned to the form. The password is
// never sent back.
type Connection struct {
	ConnID   string `json:"conn_id"`
	URL      string `json:"url"`
	Database string `json:"db_name"`
	Username string `json:"username,omitempty"`
	Schema   string `json:"schema,omitempty"`
}

// Handler handles the saved connection lookup
type Handler struct {
	loader Loader
}

// New creates a new connection load handler
func New(loader Loader) *Handler {
	return &Handler{
		loader: loader,
	}
}

// ServeHTTP looks up the connection saved for the url and db_name query
// parameters.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.Respond(w, r, api.Error("method not allowed"))
		return
	}

	url := strings.TrimSpace(r.URL.Query().Get(string(types.FieldURL)))
	dbName := strings.TrimSpace(r.URL.Query().Get(string(types.FieldDBName)))
	if url == "" {
		api.Respond(w, r, api.Error("url is required"))
		return
	}

	rec, ok := h.loader.Load(r.Context(), url, dbName)
	if !ok {
		api.Respond(w, r, api.Error("connection not found"))
		return
	}

	api.Respond(w, r, api.SuccessWithData("", map[string]any{
		"connection": ToConnection(rec),
	}))
}

// ToConnection converts a stored record for JSON output.
func ToConnection(rec types.ConnectionRecord) Connection {
	return Connection{
		ConnID:   rec.ConnectionID,
		URL:      rec.Fields.Value(types.FieldURL),
		Database: rec.Fields.Value(types.FieldDBName),
		Username: rec.Fields.Value(types.FieldUsername),
		Schema:   rec.Fields.Value(types.FieldSchema),
	}
}
