package urls_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dracory/tdbdesk/shared/urls"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		param  string
		action string
		params map[string]string
		want   string
	}{
		{"action only", "/", "", "api_connect", nil, "/?action=api_connect"},
		{"adds leading slash", "db", "", "healthz", nil, "/db?action=healthz"},
		{"sorted params", "/", "", "api_connection_load", map[string]string{"url": "ws://h:1", "db_name": "d"}, "/?action=api_connection_load&db_name=d&url=ws%3A%2F%2Fh%3A1"},
		{"custom param", "/x", "op", "home", nil, "/x?op=home"},
		{"no action", "/x", "", "", nil, "/x"},
		{"params cannot override the action", "/", "", "home", map[string]string{"action": "other", "": "skip"}, "/?action=home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, urls.BuildWith(tt.base, tt.param, tt.action, tt.params))
		})
	}
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"connection page", urls.ConnectionNew("/", ""), "/?action=page_connection_new"},
		{"healthz", urls.Healthz("/tdb", "op"), "/tdb?op=healthz"},
		{"connect", urls.Connect("/", "action"), "/?action=api_connect"},
		{"disconnect", urls.Disconnect("/", "", map[string]string{"conn_id": "c1"}), "/?action=api_disconnect&conn_id=c1"},
		{"connection load", urls.ConnectionLoad("/", "", map[string]string{"url": "ws://localhost:7085", "db_name": "main"}), "/?action=api_connection_load&db_name=main&url=ws%3A%2F%2Flocalhost%3A7085"},
		{"schema update", urls.SchemaUpdate("/", "op"), "/?op=api_schema_update"},
		{"schema import", urls.SchemaImport("/", ""), "/?action=api_schema_import"},
		{"schema overwrite", urls.SchemaOverwrite("/x", ""), "/x?action=api_schema_overwrite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}
