package web

import (
	"database/sql"
	"encoding/json"
	"html/template"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/config"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/errors"
	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/ops"
)

// maxRequestBody bounds compute request bodies. Large transcripts are
// rejected by the size limit in ops anyway; this guards the decoder.
const maxRequestBody = 4 << 20

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	version string
}

// HandleIndex returns service identification.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{
		"service": "ariadne-clew",
		"version": h.version,
	})
}

// HandleHealth reports liveness, including database reachability.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		renderError(w, errors.NewInternal(err))
		return
	}
	renderJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type computeRequest struct {
	SessionID  *string `json:"session_id"`
	Transcript string  `json:"transcript"`
	Store      bool    `json:"store"`
	Mode       string  `json:"mode"`
}

// HandleCompute runs the pipeline over a posted transcript.
func (h *Handlers) HandleCompute(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(ct); err != nil || mediaType != "application/json" {
		renderJSON(w, http.StatusUnsupportedMediaType, map[string]any{
			"error": map[string]any{
				"code":    "UNSUPPORTED_MEDIA_TYPE",
				"message": "Content-Type must be application/json",
				"status":  http.StatusUnsupportedMediaType,
			},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req computeRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		renderError(w, errors.NewInvalidRequest("invalid request body: "+err.Error()))
		return
	}

	source := "web"
	out, err := ops.Compute(r.Context(), h.db, h.cfg, ops.ComputeInput{
		SessionID:  req.SessionID,
		Transcript: req.Transcript,
		Source:     &source,
		Store:      req.Store,
		Mode:       ops.StoreMode(req.Mode),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	status := http.StatusOK
	if out.Stored {
		status = http.StatusCreated
	}
	renderJSON(w, status, out)
}

// HandleList returns paginated recap summaries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := queryInt(q.Get("limit"), 0)
	if err != nil {
		renderError(w, errors.NewInvalidRequest("limit must be an integer"))
		return
	}
	offset, err := queryInt(q.Get("offset"), 0)
	if err != nil {
		renderError(w, errors.NewInvalidRequest("offset must be an integer"))
		return
	}

	out, err := ops.List(r.Context(), h.db, ops.ListInput{
		Limit:          limit,
		Offset:         offset,
		IncludeDeleted: queryBool(q.Get("include_deleted")),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, out)
}

// HandleLatest returns the most recently updated recap.
func (h *Handlers) HandleLatest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	includeRecap := queryBool(q.Get("include_recap"))
	out, err := ops.Latest(r.Context(), h.db, ops.LatestInput{
		IncludeRecap:   &includeRecap,
		IncludeDeleted: queryBool(q.Get("include_deleted")),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, out)
}

// HandleFetch returns a stored recap by session id.
func (h *Handlers) HandleFetch(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		SessionID:      r.PathValue("session_id"),
		IncludeDeleted: queryBool(r.URL.Query().Get("include_deleted")),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, out)
}

var viewTemplate = template.Must(template.New("view").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Recap {{.SessionID}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 56rem; margin: 2rem auto; padding: 0 1rem; }
pre { background: #f6f8fa; padding: 0.8rem; overflow-x: auto; border-radius: 4px; }
code { font-family: ui-monospace, monospace; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

type viewData struct {
	SessionID string
	Body      template.HTML
}

// HandleView renders a stored recap as an HTML page.
func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		SessionID:      r.PathValue("session_id"),
		IncludeDeleted: queryBool(r.URL.Query().Get("include_deleted")),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = viewTemplate.Execute(w, viewData{
		SessionID: out.SessionID,
		Body:      renderMarkdown(out.Recap.Markdown()),
	})
	if err != nil {
		log.Printf("view template execution error: %v", err)
	}
}

// HandleDelete soft-deletes a recap.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	out, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{
		SessionID: r.PathValue("session_id"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, out)
}

// HandlePurge permanently removes soft-deleted recaps.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	var olderThanDays *int
	if raw := r.URL.Query().Get("older_than_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			renderError(w, errors.NewInvalidRequest("older_than_days must be a non-negative integer"))
			return
		}
		olderThanDays = &days
	}

	out, err := ops.Purge(r.Context(), h.db, ops.PurgeInput{OlderThanDays: olderThanDays})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, out)
}

// queryInt parses an optional integer query parameter.
func queryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}

// queryBool parses an optional boolean query parameter.
func queryBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	}
	return false
}
