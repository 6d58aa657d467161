package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/tankbattle/internal/middleware"
	"github.com/mcoot/tankbattle/internal/web/templates/layout"
	"github.com/mcoot/tankbattle/internal/web/templates/pages"
)

// Recovery creates panic recovery middleware for the web interface
// Returns an HTML error page on panic
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, webPanicHandler)
}

// The panicking request's identity is not visible here, so the page is
// rendered anonymously.
func webPanicHandler(w http.ResponseWriter, r *http.Request, _ any) {
	data := layout.PageData{Title: "Error"}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_ = pages.Error(data, "Please try again later.").Render(r.Context(), w)
}
