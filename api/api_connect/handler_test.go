package api_connect_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dracory/tdbdesk/api/api_connect"
	"github.com/dracory/tdbdesk/shared/connector"
	"github.com/dracory/tdbdesk/shared/connstore"
	"github.com/dracory/tdbdesk/shared/session"
	"github.com/dracory/tdbdesk/shared/storage"
	"github.com/dracory/tdbdesk/shared/submit"
	"github.com/dracory/tdbdesk/shared/types"
)

func newSubmitter(kv storage.Storage, connectErr error, seen *types.FieldSet) *submit.Submitter {
	c := connector.Func(func(_ context.Context, connID string, fields types.FieldSet) (connector.Result, error) {
		if seen != nil {
			*seen = fields
		}
		if connectErr != nil {
			return connector.Result{}, connectErr
		}
		return connector.Result{ConnID: connID}, nil
	})
	s := submit.New(c, connstore.New(kv, nil), nil)
	s.NewID = func() string { return "conn-1" }
	return s
}

func postForm(form url.Values, sess *session.Session) *http.Request {
	req := httptest.NewRequest("POST", "/?action=api_connect", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: sess.ID})
	}
	return req
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func TestApiConnect_ServeHTTP(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		form          url.Values
		connectErr    error
		expectStatus  string
		expectMessage string
		expectWrites  int
	}{
		{
			name:         "valid connection request",
			method:       "POST",
			form:         url.Values{"url": {"ws://h:1"}, "db_name": {"d"}, "schema": {"s"}},
			expectStatus: "success",
			expectWrites: 1,
		},
		{
			name:          "connect rejected",
			method:        "POST",
			form:          url.Values{"url": {"ws://h:1"}, "db_name": {"d"}, "schema": {"s"}},
			connectErr:    errors.New("refused"),
			expectStatus:  "error",
			expectMessage: "connect failed: refused",
			expectWrites:  0,
		},
		{
			name:          "wrong method",
			method:        "GET",
			expectStatus:  "error",
			expectMessage: "connect must be POST",
			expectWrites:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryStore()
			handler := api_connect.New(newSubmitter(kv, tt.connectErr, nil))

			req := postForm(tt.form, nil)
			req.Method = tt.method
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			resp := decode(t, rr)
			assert.Equal(t, tt.expectStatus, resp["status"])
			if tt.expectMessage != "" {
				assert.Equal(t, tt.expectMessage, resp["message"])
			}
			assert.Equal(t, tt.expectWrites, kv.Writes())
		})
	}
}

func TestApiConnect_UsesSessionSchema(t *testing.T) {
	kv := storage.NewMemoryStore()
	var seen types.FieldSet
	handler := api_connect.New(newSubmitter(kv, nil, &seen))

	sess := session.New("test-session-connect")
	t.Cleanup(func() { session.DeleteSession(sess.ID) })
	sess.Form.Reconciler.OnFileLoaded("imported schema")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, postForm(url.Values{"url": {"ws://h:1"}, "db_name": {"d"}}, sess))

	resp := decode(t, rr)
	require.Equal(t, "success", resp["status"], resp["message"])
	assert.Equal(t, "imported schema", seen.Value(types.FieldSchema))
	assert.Equal(t, "conn-1", sess.Form.LastConnID())

	data := resp["data"].(map[string]any)
	conn := data["connection"].(map[string]any)
	assert.Equal(t, "conn-1", conn["conn_id"])
	assert.Equal(t, "ws://h:1", conn["url"])
	assert.Equal(t, "d", conn["db_name"])
}

func TestApiConnect_PostedSchemaUpdatesSession(t *testing.T) {
	handler := api_connect.New(newSubmitter(storage.NewMemoryStore(), nil, nil))
	sess := session.New("test-session-posted-schema")
	t.Cleanup(func() { session.DeleteSession(sess.ID) })
	sess.Form.Schema.SetText("old")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, postForm(url.Values{"url": {"ws://h:1"}, "db_name": {"d"}, "schema": {"typed"}}, sess))

	assert.Equal(t, "success", decode(t, rr)["status"])
	assert.Equal(t, "typed", sess.Form.Schema.CurrentText())
}

func TestConnectResponse_JSON(t *testing.T) {
	got, err := json.Marshal(api_connect.ConnectResponse{ConnID: "c", URL: "ws://h:1", Database: "d"})
	require.NoError(t, err)
	assert.Equal(t, `{"conn_id":"c","url":"ws://h:1","db_name":"d"}`, string(got))
}

type failingStorage struct{}

func (failingStorage) Get(context.Context, string) (string, bool, error) { return "", false, nil }
func (failingStorage) Set(context.Context, string, string) error        { return errors.New("disk full") }

type trackingConnector struct {
	open map[string]bool
}

func (c *trackingConnector) Connect(_ context.Context, connID string, _ types.FieldSet) (connector.Result, error) {
	c.open[connID] = true
	return connector.Result{ConnID: connID}, nil
}

func (c *trackingConnector) Disconnect(connID string) error {
	delete(c.open, connID)
	return nil
}

func TestApiConnect_SaveFailureLeavesNoOpenConnection(t *testing.T) {
	conn := &trackingConnector{open: map[string]bool{}}
	sub := submit.New(conn, connstore.New(failingStorage{}, nil), nil)
	sub.NewID = func() string { return "conn-unsaved" }
	handler := api_connect.New(sub)

	sess := session.New("test-session-save-failure")
	t.Cleanup(func() { session.DeleteSession(sess.ID) })

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, postForm(url.Values{"url": {"ws://h:1"}, "db_name": {"d"}, "schema": {"s"}}, sess))

	resp := decode(t, rr)
	assert.Equal(t, "error", resp["status"])
	assert.Contains(t, resp["message"], "disk full")
	assert.Empty(t, conn.open)
	assert.Empty(t, sess.Form.LastConnID())
}
