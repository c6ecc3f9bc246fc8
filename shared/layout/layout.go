package layout

import (
	"html/template"

	hb "github.com/gouniverse/hb"

	"github.com/dracory/tdbdesk/shared/urls"
)

// Options bundles parameters for rendering the full HTML layout.
type Options struct {
	Title       string
	BasePath    string
	ActionParam string
	MainHTML    string
	// Connected shows the active connection id in the footer.
	Connected    string
	ExtraHead    []hb.TagInterface
	ExtraBodyEnd []hb.TagInterface
}

// RenderWith builds the full HTML page and returns it as a safe HTML string.
func RenderWith(o Options) template.HTML {
	headChildren := []hb.TagInterface{
		hb.NewTag("meta").Attr("charset", "utf-8"),
		hb.NewTag("meta").Attr("name", "viewport").Attr("content", "width=device-width, initial-scale=1"),
		hb.NewTag("title").Text(o.Title + " · TDB Desk"),
		hb.ScriptURL("https://cdn.tailwindcss.com"),
	}
	headChildren = append(headChildren, o.ExtraHead...)

	nav := hb.Nav().Class("td-nav flex gap-3 text-sm").Children([]hb.TagInterface{
		hb.A().Href(urls.ConnectionNew(o.BasePath, o.ActionParam)).Text("New connection"),
		hb.A().Href(urls.Healthz(o.BasePath, o.ActionParam)).Text("Health"),
	})

	header := hb.Header().
		Class("td-header border-b border-gray-200 p-3").
		Child(
			hb.Div().
				Class("td-container flex items-center justify-between").
				Children([]hb.TagInterface{
					hb.Heading1().
						Class("td-title text-lg font-semibold").
						Child(hb.A().Href(urls.ConnectionNew(o.BasePath, o.ActionParam)).Text("TDB Desk")),
					nav,
				}),
		)

	main := hb.Main().Class("td-main grow p-4").
		Child(hb.Div().Class("td-container").
			Child(hb.Raw(o.MainHTML)))

	status := "Not connected"
	if o.Connected != "" {
		status = "Connected: " + o.Connected
	}
	footer := hb.Footer().Class("td-footer td-container p-3 text-xs text-slate-500").
		Child(hb.NewTag("small").Attr("id", "td-status").Text(status))

	bodyChildren := []hb.TagInterface{header, main, footer}
	bodyChildren = append(bodyChildren, o.ExtraBodyEnd...)

	html := hb.NewTag("html").
		Attr("lang", "en").
		Children([]hb.TagInterface{
			hb.NewTag("head").Children(headChildren),
			hb.NewTag("body").Children(bodyChildren),
		})

	return template.HTML("<!doctype html>" + html.ToHTML())
}
