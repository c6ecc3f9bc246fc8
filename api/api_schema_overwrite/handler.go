package api_schema_overwrite

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/tdbdesk/shared/constants"
	"github.com/dracory/tdbdesk/shared/schema"
	"github.com/dracory/tdbdesk/shared/session"
)

// Handler resolves the overwrite prompt of a staged schema import
type Handler struct{}

// New creates a new overwrite decision handler
func New() *Handler {
	return &Handler{}
}

// ServeHTTP applies decision=confirm or decision=cancel to the pending import.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := session.EnsureSession(w, r)

	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("schema_overwrite must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	var err error
	msg := ""
	switch strings.TrimSpace(r.PostForm.Get("decision")) {
	case constants.DecisionConfirm:
		err = s.Form.Reconciler.Confirm()
		msg = "schema overwritten"
	case constants.DecisionCancel:
		err = s.Form.Reconciler.Cancel()
		msg = "import cancelled"
	default:
		api.Respond(w, r, api.Error("decision must be confirm or cancel"))
		return
	}

	if errors.Is(err, schema.ErrNoPendingImport) {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}

	api.Respond(w, r, api.SuccessWithData(msg, s.Form.Snapshot()))
}
