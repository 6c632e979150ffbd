package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/earlgreyhot1701D/Ariadne-Clew/internal/errors"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes a structured JSON error response.
func renderError(w http.ResponseWriter, err error) {
	var cErr *errors.ClewError
	if !stderrors.As(err, &cErr) {
		cErr = errors.NewInternal(err)
	}

	body := map[string]any{
		"error": map[string]any{
			"code":    string(cErr.Code),
			"message": cErr.Message,
			"status":  cErr.Status,
		},
	}
	if len(cErr.Details) > 0 {
		body["error"].(map[string]any)["details"] = cErr.Details
	}

	renderJSON(w, cErr.Status, body)
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}
