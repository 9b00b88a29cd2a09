// Package server provides HTTP routing, middleware, and the authorization
// flow for the playlist creation web service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Authorization Flow
//
// [PlaylistFlow] implements the OAuth2 authorization-code orchestration:
//
//  1. /create-playlist resolves the visitor identity from cookies and checks
//     the credential cache. A usable credential skips the redirect entirely.
//  2. Otherwise the requested playlist name is parked in a pending session
//     keyed by a one-time state token and the visitor is redirected to the
//     authorization endpoint. Nothing blocks while the visitor is away.
//  3. /receive-code consumes the pending session, exchanges the code for an
//     access credential, caches it for an hour, resolves the account profile
//     (cached for 24 hours), fetches a quote, creates the playlist, and
//     redirects the visitor to its public URL.
//
// Invalid input at any entry point (missing query parameters, unknown state)
// is a 404. A failed external dependency is a 502. Every branch terminates
// the response; no request is left hanging on an upstream failure.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
