// Package web serves the static landing page for the playlist creation service.
package web

import (
	_ "embed"
	"net/http"

	"quotelist/internal/identity"
	"quotelist/internal/server"
)

//go:embed index.html
var indexPage []byte

// IndexHandler serves the landing page and assigns a visitor identity cookie
// on first contact. It also owns the catch-all route: any path other than the
// root is a 404.
//
// Implements the [server.Handler] interface.
type IndexHandler struct {
	resolver *identity.Resolver
}

// NewIndexHandler creates an IndexHandler using the given identity resolver.
func NewIndexHandler(resolver *identity.Resolver) *IndexHandler {
	if resolver == nil {
		resolver = identity.NewResolver()
	}
	return &IndexHandler{resolver: resolver}
}

// Routes returns the HTTP routes this handler serves.
func (h *IndexHandler) Routes() []string {
	return []string{"/"}
}

// ServeHTTP serves the landing page for the exact root path.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		server.NotFound(w)
		return
	}

	h.resolver.Resolve(w, r)

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	w.Write(indexPage)
}
