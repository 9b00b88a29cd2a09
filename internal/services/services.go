// package services defines clients for the external HTTP APIs
//
// Spotify (authorization, profile, playlist creation) and the quote decoration API
package services

import (
	"context"

	"quotelist/internal/models"
)

// MusicService defines the external music account operations the
// authorization flow depends on.
type MusicService interface {
	// AuthURL returns the authorization endpoint URL the visitor is
	// redirected to, carrying the one-time state token.
	AuthURL(state string) string

	// Exchange trades an authorization code for an access credential.
	// The credential's expiration is anchored to the instant the exchange
	// request was sent, not when the response arrived.
	Exchange(ctx context.Context, code string) (models.Credential, error)

	// Profile returns the account identifier of the token's owner.
	Profile(ctx context.Context, accessToken string) (string, error)

	// CreatePlaylist creates a playlist for the given account and returns
	// its public location URL.
	CreatePlaylist(ctx context.Context, accessToken, userID, name, description string) (string, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// QuoteProvider supplies the short decoration string used in playlist naming.
type QuoteProvider interface {
	Random(ctx context.Context) (*Quote, error)
}

// Quote is a single quote from the decoration API.
type Quote struct {
	Anime     string `json:"anime"`
	Character string `json:"character"`
	Quote     string `json:"quote"`
}
