// package identity derives a stable pseudonymous identifier for a browser
// visitor from cookies, minting a fresh one when absent or expired.
//
// The identifier is the join key for both cache record kinds. It carries no
// cryptographic binding to the server, so any holder of the cookie can act as
// that identity; acceptable at this trust level but worth knowing.
package identity

import (
	"net/http"
	"strconv"
	"time"

	"quotelist/internal/models"
	"quotelist/internal/shared"
)

// Cookie names used for the visitor identity.
//
// The expires cookie holds an absolute epoch-millisecond integer rather than
// an HTTP-date; the resolver re-validates it on every request instead of
// trusting transport-level expiry.
const (
	CookieUserID  = "userId"
	CookieExpires = "expires"
)

// Resolver issues and validates visitor identity tokens.
type Resolver struct {
	now func() time.Time
}

// NewResolver creates a Resolver using wall-clock time.
func NewResolver() *Resolver {
	return &Resolver{now: time.Now}
}

// NewResolverAt creates a Resolver with an injectable clock for tests.
func NewResolverAt(now func() time.Time) *Resolver {
	return &Resolver{now: now}
}

// Resolve returns the visitor's identity token.
//
// A request carrying a userId cookie together with a numeric, unexpired
// expires cookie keeps its token and nothing is written to the response.
// Every other case, malformed input included, silently mints a new token and
// sets both cookies with an expiry 24 hours out. Resolve never fails.
func (r *Resolver) Resolve(w http.ResponseWriter, req *http.Request) string {
	now := r.now()

	userCookie, err := req.Cookie(CookieUserID)
	if err != nil || userCookie.Value == "" {
		return r.mint(w, now)
	}

	expiresCookie, err := req.Cookie(CookieExpires)
	if err != nil {
		return r.mint(w, now)
	}

	expires, err := strconv.ParseInt(expiresCookie.Value, 10, 64)
	if err != nil || expires <= now.UnixMilli() {
		return r.mint(w, now)
	}

	return userCookie.Value
}

// mint issues a fresh identity token and instructs the client to store it.
func (r *Resolver) mint(w http.ResponseWriter, now time.Time) string {
	token := shared.GenerateToken()
	expires := models.EpochMillis(now.Add(models.IdentityTTL))

	http.SetCookie(w, &http.Cookie{Name: CookieUserID, Value: token, Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: CookieExpires, Value: strconv.FormatInt(expires, 10), Path: "/"})

	return token
}
