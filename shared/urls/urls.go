package urls

import (
	neturl "net/url"
	"sort"

	"github.com/dracory/tdbdesk/shared/constants"
	"github.com/samber/lo"
)

// DefaultActionParam is the query key that selects an action.
const DefaultActionParam = "action"

// ConnectionNew builds the URL of the new connection page.
func ConnectionNew(basePath, actionParam string, params ...map[string]string) string {
	return BuildWith(basePath, actionParam, constants.ActionPageConnectionNew, params...)
}

// Healthz builds the URL of the liveness check.
func Healthz(basePath, actionParam string) string {
	return BuildWith(basePath, actionParam, constants.ActionHealthz)
}

// Connect builds the URL of the connect endpoint.
func Connect(basePath, actionParam string, params ...map[string]string) string {
	return BuildWith(basePath, actionParam, constants.ActionApiConnect, params...)
}

// Disconnect builds the URL of the disconnect endpoint.
func Disconnect(basePath, actionParam string, params ...map[string]string) string {
	return BuildWith(basePath, actionParam, constants.ActionApiDisconnect, params...)
}

// ConnectionLoad builds the URL for looking up a saved connection. Callers
// add url and db_name as params, or append them client side.
func ConnectionLoad(basePath, actionParam string, params ...map[string]string) string {
	return BuildWith(basePath, actionParam, constants.ActionApiConnectionLoad, params...)
}

// SchemaUpdate builds the URL that stores typed schema text.
func SchemaUpdate(basePath, actionParam string, params ...map[string]string) string {
	return BuildWith(basePath, actionParam, constants.ActionApiSchemaUpdate, params...)
}

// SchemaImport builds the URL that receives schema file uploads.
func SchemaImport(basePath, actionParam string, params ...map[string]string) string {
	return BuildWith(basePath, actionParam, constants.ActionApiSchemaImport, params...)
}

// SchemaOverwrite builds the URL that resolves the overwrite prompt.
func SchemaOverwrite(basePath, actionParam string, params ...map[string]string) string {
	return BuildWith(basePath, actionParam, constants.ActionApiSchemaOverwrite, params...)
}

// BuildWith constructs a URL like: basePath?actionParam=action&k=v...
// Keys are sorted for stable output and values are URL-escaped. An empty
// actionParam falls back to DefaultActionParam.
func BuildWith(basePath, actionParam, action string, params ...map[string]string) string {
	p := lo.FirstOr(params, map[string]string{})
	if actionParam == "" {
		actionParam = DefaultActionParam
	}

	if basePath == "" || basePath[0] != '/' {
		basePath = "/" + basePath
	}
	q := neturl.Values{}
	if action != "" {
		q.Set(actionParam, action)
	}
	keys := lo.Filter(lo.Keys(p), func(k string, _ int) bool { return k != "" && k != actionParam })
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, p[k])
	}
	enc := q.Encode()
	if enc == "" {
		return basePath
	}
	return basePath + "?" + enc
}
