package api_disconnect_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dracory/tdbdesk/api/api_disconnect"
	"github.com/dracory/tdbdesk/shared/connector"
	"github.com/dracory/tdbdesk/shared/session"
)

type fakeDisconnector struct {
	open   map[string]bool
	closed []string
	err    error
}

func (f *fakeDisconnector) Disconnect(connID string) error {
	if f.err != nil {
		return f.err
	}
	if !f.open[connID] {
		return connector.ErrUnknownConnection
	}
	delete(f.open, connID)
	f.closed = append(f.closed, connID)
	return nil
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		form          url.Values
		lastConnID    string
		err           error
		expectStatus  string
		expectMessage string
		expectClosed  []string
	}{
		{
			name:          "explicit conn_id",
			method:        "POST",
			form:          url.Values{"conn_id": {"a"}},
			expectStatus:  "success",
			expectMessage: "disconnected",
			expectClosed:  []string{"a"},
		},
		{
			name:          "falls back to the last connection",
			method:        "POST",
			lastConnID:    "b",
			expectStatus:  "success",
			expectMessage: "disconnected",
			expectClosed:  []string{"b"},
		},
		{
			name:          "unknown connection",
			method:        "POST",
			form:          url.Values{"conn_id": {"zzz"}},
			expectStatus:  "error",
			expectMessage: "no active connection",
		},
		{
			name:          "nothing to disconnect",
			method:        "POST",
			expectStatus:  "error",
			expectMessage: "no active connection",
		},
		{
			name:          "close error",
			method:        "POST",
			form:          url.Values{"conn_id": {"a"}},
			err:           errors.New("broken pipe"),
			expectStatus:  "error",
			expectMessage: "disconnect failed: broken pipe",
		},
		{
			name:          "wrong method",
			method:        "GET",
			expectStatus:  "error",
			expectMessage: "disconnect must be POST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeDisconnector{open: map[string]bool{"a": true, "b": true}, err: tt.err}
			handler := api_disconnect.New(fake)

			sess := session.New("test-disconnect-" + strings.ReplaceAll(tt.name, " ", "-"))
			t.Cleanup(func() { session.DeleteSession(sess.ID) })
			sess.Form.SetLastConnID(tt.lastConnID)

			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: sess.ID})
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectStatus, resp["status"])
			assert.Equal(t, tt.expectMessage, resp["message"])
			assert.Equal(t, tt.expectClosed, fake.closed)
			if tt.expectStatus == "success" {
				assert.Empty(t, sess.Form.LastConnID())
			}
		})
	}
}
