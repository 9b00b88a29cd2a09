// Spotify API implementation of [MusicService]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"quotelist/internal/models"
	"quotelist/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify allows roughly 180 requests per minute; 3/s keeps well under it.
	spotifyRateLimit = 3.0
)

// SpotifyUser represents the authenticated Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a created Spotify playlist.
type SpotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyService implements [MusicService] for the Spotify Web API.
//
// Uses [oauth2] for the authorization-code exchange and a [rate.Limiter] to
// stay inside Spotify's request budget.
type SpotifyService struct {
	config     *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	now        func() time.Time
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
//
// Optional "auth_url", "token_url", and "api_base_url" entries override the
// production endpoints, which tests use to point at a local fake.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		return nil, fmt.Errorf("%w: missing redirect_uri", shared.ErrMissingCredentials)
	}

	authURL := credentials["auth_url"]
	if authURL == "" {
		authURL = spotifyAuthURL
	}
	tokenURL := credentials["token_url"]
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	baseURL := credentials["api_base_url"]
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  authURL,
			TokenURL: tokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(spotifyRateLimit), 1),
		baseURL:    baseURL,
		now:        time.Now,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the OAuth2 authorization URL carrying the state token.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access credential.
//
// The send instant is captured before the token request goes out and the
// credential expires 3600 seconds after that instant, so a slow authorization
// server can only shorten the cached lifetime, never extend it.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (models.Credential, error) {
	sendTime := s.now()

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return models.Credential{}, fmt.Errorf("%w: %v", shared.ErrExchangeFailed, err)
	}

	return models.Credential{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Expiration:  models.EpochMillis(sendTime.Add(models.CredentialTTL)),
	}, nil
}

// doRequest performs a bearer-authenticated HTTP request against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint, accessToken string, body, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	var reqBody *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Profile retrieves the account identifier of the token's owner.
func (s *SpotifyService) Profile(ctx context.Context, accessToken string) (string, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", accessToken, nil, &user); err != nil {
		return "", err
	}
	if user.ID == "" {
		return "", fmt.Errorf("%w: profile response missing id", shared.ErrAPIRequest)
	}
	return user.ID, nil
}

// CreatePlaylist creates a playlist for the given account and returns its public URL.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, accessToken, userID, name, description string) (string, error) {
	body := map[string]string{
		"name":        name,
		"description": description,
	}

	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", userID)
	if err := s.doRequest(ctx, http.MethodPost, endpoint, accessToken, body, &playlist); err != nil {
		return "", err
	}

	if playlist.ExternalURLs.Spotify == "" {
		return "", fmt.Errorf("%w: playlist response missing location", shared.ErrAPIRequest)
	}
	return playlist.ExternalURLs.Spotify, nil
}
