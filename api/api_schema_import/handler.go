package api_schema_import

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/tdbdesk/shared/schema"
	"github.com/dracory/tdbdesk/shared/session"
)

// FileField is the multipart field carrying the schema file
const FileField = "file"

const maxUploadMemory = schema.MaxFileSize + 1<<20

// Handler imports a schema file into the session's form
type Handler struct {
	logger *slog.Logger
}

// New creates a new schema import handler. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger}
}

// ServeHTTP reads the uploaded .tdb file and reconciles it with the text in
// the form. A missing file or a failed read leaves the form unchanged and is
// reported with imported=false.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := session.EnsureSession(w, r)

	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("schema_import must be POST"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadMemory)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Warn("schema_import_failed", slog.String("session", s.ID), slog.String("error", err.Error()))
		h.respond(w, r, s.Form, schema.OutcomeIgnored, "schema file could not be read")
		return
	}

	file, header, err := r.FormFile(FileField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		h.respond(w, r, s.Form, schema.OutcomeIgnored, "no file selected")
		return
	}
	if err != nil {
		h.logger.Warn("schema_import_failed", slog.String("session", s.ID), slog.String("error", err.Error()))
		h.respond(w, r, s.Form, schema.OutcomeIgnored, "schema file could not be read")
		return
	}
	defer file.Close()

	outcome, err := s.Form.Reconciler.ImportFile(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Warn("schema_import_failed",
			slog.String("session", s.ID),
			slog.String("file", header.Filename),
			slog.String("error", err.Error()),
		)
		h.respond(w, r, s.Form, outcome, err.Error())
		return
	}

	msg := "schema imported"
	switch outcome {
	case schema.OutcomeStaged:
		msg = "import will overwrite existing schema"
	case schema.OutcomeIgnored:
		msg = "schema file is empty"
	}
	h.respond(w, r, s.Form, outcome, msg)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, form *session.Form, outcome schema.Outcome, msg string) {
	data := form.Snapshot()
	data["outcome"] = outcome.String()
	data["imported"] = outcome != schema.OutcomeIgnored
	api.Respond(w, r, api.SuccessWithData(msg, data))
}
