package api_connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/tdbdesk/shared/session"
	"github.com/dracory/tdbdesk/shared/submit"
	"github.com/dracory/tdbdesk/shared/types"
)

// Submitter runs the connect-and-save workflow for a submitted form
type Submitter interface {
	Submit(ctx context.Context, form map[string][]string) (types.ConnectionRecord, error)
}

// apiConnectController handles connection form submissions
type apiConnectController struct {
	submitter Submitter
}

// New creates a new connection handler
func New(submitter Submitter) *apiConnectController {
	return &apiConnectController{
		submitter: submitter,
	}
}

// ConnectResponse represents the data returned by a successful connect
type ConnectResponse struct {
	ConnID   string `json:"conn_id"`
	URL      string `json:"url"`
	Database string `json:"db_name"`
}

// ServeHTTP submits the connection form. The schema comes from the form
// when posted, otherwise from the session's schema text.
func (h *apiConnectController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := session.EnsureSession(w, r)

	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("connect must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	form := map[string][]string{}
	for k, v := range r.PostForm {
		form[k] = v
	}

	posted := strings.TrimSpace(r.PostForm.Get(string(types.FieldSchema)))
	if posted != "" {
		s.Form.Reconciler.SetText(r.PostForm.Get(string(types.FieldSchema)))
	} else {
		form[string(types.FieldSchema)] = []string{s.Form.Schema.CurrentText()}
	}

	rec, err := h.submitter.Submit(r.Context(), form)
	if errors.Is(err, submit.ErrConnectFailed) {
		api.Respond(w, r, api.Error(err.Error()))
		return
	}
	if err != nil {
		api.Respond(w, r, api.Error("connection could not be saved: "+err.Error()))
		return
	}

	s.Form.SetLastConnID(rec.ConnectionID)

	api.Respond(w, r, api.SuccessWithData("connected", map[string]any{
		"connection": ConnectResponse{
			ConnID:   rec.ConnectionID,
			URL:      rec.Fields.Value(types.FieldURL),
			Database: rec.Fields.Value(types.FieldDBName),
		},
	}))
}
