package api_schema_import_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dracory/tdbdesk/api/api_schema_import"
	"github.com/dracory/tdbdesk/shared/schema"
	"github.com/dracory/tdbdesk/shared/session"
)

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile(api_schema_import.FileField, filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		current        string
		filename       string
		content        string
		expectOutcome  string
		expectImported bool
		expectMessage  string
		expectText     string
		expectState    schema.State
	}{
		{
			name:           "empty form applies",
			filename:       "a.tdb",
			content:        "table a",
			expectOutcome:  "applied",
			expectImported: true,
			expectMessage:  "schema imported",
			expectText:     "table a",
			expectState:    schema.StateIdle,
		},
		{
			name:           "whitespace form applies",
			current:        "  \n",
			filename:       "a.TDB",
			content:        "table a",
			expectOutcome:  "applied",
			expectImported: true,
			expectMessage:  "schema imported",
			expectText:     "table a",
			expectState:    schema.StateIdle,
		},
		{
			name:           "non-empty form stages",
			current:        "table old",
			filename:       "b.tdb",
			content:        "table b",
			expectOutcome:  "staged",
			expectImported: true,
			expectMessage:  "import will overwrite existing schema",
			expectText:     "table old",
			expectState:    schema.StateAwaitingConfirmation,
		},
		{
			name:           "empty file is ignored",
			current:        "table old",
			filename:       "empty.tdb",
			content:        "",
			expectOutcome:  "ignored",
			expectMessage:  "schema file is empty",
			expectText:     "table old",
			expectState:    schema.StateIdle,
		},
		{
			name:          "no file selected",
			current:       "table old",
			expectOutcome: "ignored",
			expectMessage: "no file selected",
			expectText:    "table old",
			expectState:   schema.StateIdle,
		},
		{
			name:          "wrong extension",
			current:       "table old",
			filename:      "notes.txt",
			content:       "table c",
			expectOutcome: "ignored",
			expectText:    "table old",
			expectState:   schema.StateIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := session.New("test-import-" + strings.ReplaceAll(tt.name, " ", "-"))
			t.Cleanup(func() { session.DeleteSession(sess.ID) })
			sess.Form.Schema.SetText(tt.current)

			req := uploadRequest(t, tt.filename, tt.content)
			req.AddCookie(&http.Cookie{Name: session.SessionCookieName, Value: sess.ID})
			rr := httptest.NewRecorder()

			api_schema_import.New(nil).ServeHTTP(rr, req)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
			assert.Equal(t, "success", resp["status"])
			if tt.expectMessage != "" {
				assert.Equal(t, tt.expectMessage, resp["message"])
			}

			data := resp["data"].(map[string]any)
			assert.Equal(t, tt.expectOutcome, data["outcome"])
			assert.Equal(t, tt.expectImported, data["imported"])
			assert.Equal(t, tt.expectText, sess.Form.Schema.CurrentText())
			assert.Equal(t, tt.expectState, sess.Form.Reconciler.State())
		})
	}
}

func TestHandler_RejectsGet(t *testing.T) {
	rr := httptest.NewRecorder()
	api_schema_import.New(nil).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp["status"])
}
