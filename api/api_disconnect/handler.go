package api_disconnect

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/tdbdesk/shared/connector"
	"github.com/dracory/tdbdesk/shared/session"
)

// Disconnector closes open connections by id
type Disconnector interface {
	Disconnect(connID string) error
}

// Handler handles disconnection requests
type Handler struct {
	disconnector Disconnector
}

// New creates a new disconnect handler
func New(disconnector Disconnector) *Handler {
	return &Handler{
		disconnector: disconnector,
	}
}

// ServeHTTP closes the connection named by conn_id, or the last connection
// opened from this session when conn_id is omitted.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := session.EnsureSession(w, r)

	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("disconnect must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	connID := strings.TrimSpace(r.PostForm.Get("conn_id"))
	if connID == "" {
		connID = s.Form.LastConnID()
	}
	if connID == "" {
		api.Respond(w, r, api.Error("no active connection"))
		return
	}

	err := h.disconnector.Disconnect(connID)
	if errors.Is(err, connector.ErrUnknownConnection) {
		api.Respond(w, r, api.Error("no active connection"))
		return
	}
	if err != nil {
		api.Respond(w, r, api.Error("disconnect failed: "+err.Error()))
		return
	}

	if s.Form.LastConnID() == connID {
		s.Form.SetLastConnID("")
	}

	api.Respond(w, r, api.SuccessWithData("disconnected", map[string]any{
		"conn_id": connID,
	}))
}
