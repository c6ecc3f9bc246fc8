package page_connection_new

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gouniverse/cdn"
	hb "github.com/gouniverse/hb"

	"github.com/dracory/tdbdesk/shared"
	"github.com/dracory/tdbdesk/shared/constants"
	"github.com/dracory/tdbdesk/shared/layout"
	"github.com/dracory/tdbdesk/shared/session"
	"github.com/dracory/tdbdesk/shared/types"
	"github.com/dracory/tdbdesk/shared/urls"
)

// DefaultTitle is the page title
const DefaultTitle = "New connection"

//go:embed script.js styles.css
var embeddedFS embed.FS

// Handler renders the new connection form
type Handler struct {
	config types.Config
	// CSRFToken returns the token embedded in the page for POSTs. Nil
	// renders an empty token.
	CSRFToken func(w http.ResponseWriter, r *http.Request) string
}

// New creates a new connection page handler
func New(config types.Config) *Handler {
	return &Handler{config: config}
}

// ServeHTTP renders the form prefilled with the session's schema state.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := session.EnsureSession(w, r)

	token := ""
	if h.CSRFToken != nil {
		token = h.CSRFToken(w, r)
	}

	html, err := h.Render(s.Form, token)
	if err != nil {
		http.Error(w, "Failed to render connection page: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// Render builds the full page for form.
func (h *Handler) Render(form *session.Form, csrfToken string) (template.HTML, error) {
	pageCSS, err := shared.EmbeddedFileToString(embeddedFS, "styles.css")
	if err != nil {
		return "", err
	}
	pageJS, err := shared.EmbeddedFileToString(embeddedFS, "script.js")
	if err != nil {
		return "", err
	}

	base, param := h.config.BasePath, h.config.ActionParam

	pending, awaiting := form.Reconciler.Pending()

	main := hb.Div().Class("td-connection max-w-xl").Children([]hb.TagInterface{
		hb.Heading2().Class("text-xl mb-4").Text(DefaultTitle),
		h.formHTML(form.Schema.CurrentText(), csrfToken),
		overwritePrompt(awaiting, pending),
	}).ToHTML()

	config := `window.tdbConfig = {
		urls: {
			connect: "` + template.JSEscapeString(urls.Connect(base, param)) + `",
			disconnect: "` + template.JSEscapeString(urls.Disconnect(base, param)) + `",
			load: "` + template.JSEscapeString(urls.ConnectionLoad(base, param)) + `",
			schemaUpdate: "` + template.JSEscapeString(urls.SchemaUpdate(base, param)) + `",
			schemaImport: "` + template.JSEscapeString(urls.SchemaImport(base, param)) + `",
			schemaOverwrite: "` + template.JSEscapeString(urls.SchemaOverwrite(base, param)) + `"
		},
		actionParam: "` + template.JSEscapeString(h.config.ActionParam) + `",
		csrfToken: "` + template.JSEscapeString(csrfToken) + `"
	};`

	return layout.RenderWith(layout.Options{
		Title:       DefaultTitle,
		BasePath:    h.config.BasePath,
		ActionParam: h.config.ActionParam,
		MainHTML:    main,
		Connected:   form.LastConnID(),
		ExtraHead:   []hb.TagInterface{hb.Style(pageCSS)},
		ExtraBodyEnd: []hb.TagInterface{
			hb.ScriptURL(cdn.Sweetalert2_11()),
			hb.Script(config),
			hb.Script(pageJS),
		},
	}), nil
}

func (h *Handler) formHTML(schemaText, csrfToken string) hb.TagInterface {
	field := func(name types.FieldName, label, inputType, value string) hb.TagInterface {
		input := hb.NewTag("input").
			Attr("type", inputType).
			Attr("name", string(name)).
			Attr("id", "td-"+string(name)).
			Class("td-input").
			Attr("value", value)
		if name.Required() {
			input = input.Attr("required", "required")
		}
		return hb.Div().Class("td-field mb-3").Children([]hb.TagInterface{
			hb.NewTag("label").Attr("for", "td-"+string(name)).Text(label),
			input,
		})
	}

	schemaField := hb.Div().Class("td-field mb-3").Children([]hb.TagInterface{
		hb.NewTag("label").Attr("for", "td-schema").Text("Schema"),
		hb.NewTag("textarea").
			Attr("name", string(types.FieldSchema)).
			Attr("id", "td-schema").
			Class("td-input td-schema").
			Attr("rows", "10").
			Text(schemaText),
		hb.Div().Class("td-schema-actions").Children([]hb.TagInterface{
			hb.NewTag("button").Attr("type", "button").Attr("id", "td-import").Class("td-button-secondary").Text("Import " + constants.SchemaFileExtension + " file"),
			hb.NewTag("input").
				Attr("type", "file").
				Attr("id", "td-file").
				Attr("name", "file").
				Attr("accept", constants.SchemaFileExtension).
				Attr("hidden", "hidden"),
		}),
	})

	return hb.NewTag("form").
		Attr("id", "td-connection-form").
		Attr("method", http.MethodPost).
		Attr("action", urls.Connect(h.config.BasePath, h.config.ActionParam)).
		Children([]hb.TagInterface{
			hb.NewTag("input").Attr("type", "hidden").Attr("name", "csrf_token").Attr("value", csrfToken),
			field(types.FieldURL, "URL", "url", constants.DefaultConnectionURL),
			field(types.FieldDBName, "Database", "text", ""),
			field(types.FieldUsername, "Username", "text", ""),
			field(types.FieldPassword, "Password", "password", ""),
			schemaField,
			hb.NewTag("button").Attr("type", "submit").Class("td-button").Text("Connect"),
			hb.NewTag("button").Attr("type", "button").Attr("id", "td-disconnect").Class("td-button-secondary").Text("Disconnect"),
		})
}

// overwritePrompt is shown while an import waits for confirmation. The page
// script also raises it in place after an upload.
func overwritePrompt(awaiting bool, pending string) hb.TagInterface {
	prompt := hb.Div().
		Attr("id", "td-overwrite").
		Class("td-overwrite mt-4").
		Attr("data-pending", pending).
		Children([]hb.TagInterface{
			hb.Paragraph().Text("Importing this file will replace the schema in the form."),
			hb.NewTag("button").Attr("type", "button").Class("td-button").Attr("data-decision", constants.DecisionConfirm).Text("Overwrite"),
			hb.NewTag("button").Attr("type", "button").Class("td-button-secondary").Attr("data-decision", constants.DecisionCancel).Text("Keep current"),
		})
	if !awaiting {
		prompt = prompt.Attr("hidden", "hidden")
	}
	return prompt
}
