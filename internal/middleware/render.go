package middleware

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/moufette/console/internal/ui"
)

// RenderPage writes c as an HTML response with status. Rendering is buffered;
// a render error becomes a 500.
func RenderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component, logger *slog.Logger) {
	buf, err := ui.Buffer(r.Context(), c)
	if err != nil {
		logger.Error("failed to render page", "error", err, "path", r.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
