// package models defines the data model for the playlist creation web service
package models

import (
	"fmt"
	"time"
)

// TTLs for the two cached record kinds and the identity cookie.
//
// The profile id outlives the access token because a Spotify account id
// changes far less often than an access token rotates. If the remote account
// id changes inside the window the cached value goes stale; that risk is
// accepted.
const (
	CredentialTTL = time.Hour
	ProfileTTL    = 24 * time.Hour
	IdentityTTL   = 24 * time.Hour
)

// EpochMillis converts a [time.Time] to absolute epoch milliseconds, the
// expiration encoding used in cache records and the identity cookie.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// Credential is a cached access token for one visitor identity.
//
// Expiration is an absolute epoch-millisecond instant 3600 seconds after the
// token request was sent to the authorization server.
type Credential struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Expiration  int64  `json:"expiration"`
}

// Usable reports whether the credential can still be presented at the given instant.
func (c Credential) Usable(now time.Time) bool {
	return c.AccessToken != "" && c.Expiration > now.UnixMilli()
}

// Validate checks if the credential's data is valid and returns an error if not
func (c Credential) Validate() error {
	if c.AccessToken == "" {
		return fmt.Errorf("credential missing access token")
	}
	if c.Expiration <= 0 {
		return fmt.Errorf("credential missing expiration")
	}
	return nil
}

// Profile is a cached Spotify account identifier for one visitor identity.
type Profile struct {
	ID         string `json:"id"`
	Expiration int64  `json:"expiration"`
}

// Usable reports whether the cached profile id can still be reused at the given instant.
func (p Profile) Usable(now time.Time) bool {
	return p.ID != "" && p.Expiration > now.UnixMilli()
}

// Validate checks if the profile's data is valid and returns an error if not
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile missing account id")
	}
	if p.Expiration <= 0 {
		return fmt.Errorf("profile missing expiration")
	}
	return nil
}

// Session is a pending authorization round trip, keyed by its one-time state
// token and carrying the requested playlist name across the external redirect.
type Session struct {
	State        string
	PlaylistName string
	CreatedAt    time.Time
}

// Expired reports whether the session has outlived the given lifetime.
func (s Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) > ttl
}
