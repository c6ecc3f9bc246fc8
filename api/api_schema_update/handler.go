package api_schema_update

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/tdbdesk/shared/session"
)

// Handler stores the schema text typed into the form
type Handler struct{}

// New creates a new schema update handler
func New() *Handler {
	return &Handler{}
}

// ServeHTTP replaces the session's schema text with the posted value.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := session.EnsureSession(w, r)

	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("schema_update must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	s.Form.Reconciler.SetText(r.PostForm.Get("schema"))

	api.Respond(w, r, api.SuccessWithData("schema updated", s.Form.Snapshot()))
}
