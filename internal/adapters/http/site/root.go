// Package site serves the embedded activity signup front end.
package site

import (
	"bytes"
	"context"
	"net/http"
	"time"
)

// IndexPath is where the root path redirects.
const IndexPath = "/static/index.html"

// Register attaches the root redirect and the /static/ file server to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /{$}", NewRootHandler())
	// http.FileServer redirects */index.html to the directory, so the index
	// page is served explicitly.
	mux.HandleFunc("GET "+IndexPath, serveIndex)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// RootHandler redirects the bare root to the front end.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// ServeHTTP answers GET / with a temporary redirect so clients replay the
// original method against the index page.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, IndexPath, http.StatusTemporaryRedirect)
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(page))
}
