package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"quotelist/internal/cache"
	"quotelist/internal/identity"
	"quotelist/internal/models"
	"quotelist/internal/services"
	"quotelist/internal/session"
	"quotelist/internal/shared"
)

// PlaylistFlow drives the authorization-code flow from the initial
// playlist-creation request through the callback to the final redirect.
//
// Implements the [Handler] interface for registration with a [Router].
//
// Sequencing: a cached, unexpired credential short-circuits straight to
// profile resolution; otherwise the request is suspended into a pending
// session and resumed by the callback. Cache writes are advisory - a failed
// write is logged and the request continues, since absence only costs a
// fallback fetch on the next visit.
type PlaylistFlow struct {
	resolver *identity.Resolver
	store    cache.Store
	sessions *session.Tracker
	music    services.MusicService
	quotes   services.QuoteProvider
	logger   *log.Logger
	now      func() time.Time
}

// FlowOpts contains the dependencies for creating a PlaylistFlow.
type FlowOpts struct {
	Resolver *identity.Resolver
	Store    cache.Store
	Sessions *session.Tracker
	Music    services.MusicService
	Quotes   services.QuoteProvider
	Logger   *log.Logger
	Now      func() time.Time
}

// NewPlaylistFlow creates a PlaylistFlow with the provided dependencies.
func NewPlaylistFlow(opts FlowOpts) *PlaylistFlow {
	if opts.Resolver == nil {
		opts.Resolver = identity.NewResolver()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewTracker(session.DefaultTTL)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &PlaylistFlow{
		resolver: opts.Resolver,
		store:    opts.Store,
		sessions: opts.Sessions,
		music:    opts.Music,
		quotes:   opts.Quotes,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// Routes returns the HTTP routes this handler serves.
func (f *PlaylistFlow) Routes() []string {
	return []string{"/create-playlist", "/receive-code"}
}

// ServeHTTP dispatches to the flow stage matching the request path.
func (f *PlaylistFlow) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/create-playlist":
		f.handleCreate(w, r)
	case "/receive-code":
		f.handleCallback(w, r)
	default:
		NotFound(w)
	}
}

// handleCreate starts the flow for a playlist-creation request.
//
// A missing playlistName is rejected before the cache or session layers are
// touched. A usable cached credential skips the session tracker entirely.
func (f *PlaylistFlow) handleCreate(w http.ResponseWriter, r *http.Request) {
	playlistName := r.URL.Query().Get("playlistName")
	if playlistName == "" {
		NotFound(w)
		return
	}

	user := f.resolver.Resolve(w, r)

	cred, err := cache.GetCredential(r.Context(), f.store, user)
	if err == nil && cred.Usable(f.now()) {
		f.logger.Info("access token cache in use", "user", user)
		f.finish(w, r, cred.AccessToken, user, playlistName)
		return
	}
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		f.logger.Warn("credential cache read failed", "user", user, "error", err)
	}

	f.logger.Info("access token cache not found or expired", "user", user)

	state := f.sessions.Create(playlistName)
	http.Redirect(w, r, f.music.AuthURL(state), http.StatusFound)
}

// handleCallback resumes the flow when the authorization server redirects back.
//
// A missing code or state, or a state with no pending session, is a
// not-found outcome; no external calls are made in that case.
func (f *PlaylistFlow) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		NotFound(w)
		return
	}

	sess, ok := f.sessions.Consume(state)
	if !ok {
		NotFound(w)
		return
	}

	// The cookie may have been lost across the redirect round trip, in which
	// case this mints a fresh identity and the exchange is cached under it.
	user := f.resolver.Resolve(w, r)

	cred, err := f.music.Exchange(r.Context(), code)
	if err != nil {
		f.logger.Error("token exchange failed", "error", err)
		BadGateway(w)
		return
	}

	if err := cache.PutCredential(r.Context(), f.store, user, cred); err != nil {
		f.logger.Warn("credential cache write failed", "user", user, "error", err)
	}

	f.finish(w, r, cred.AccessToken, user, sess.PlaylistName)
}

// finish runs the stages shared by the cached and freshly-authorized paths:
// profile resolution, decoration, playlist creation, final redirect.
func (f *PlaylistFlow) finish(w http.ResponseWriter, r *http.Request, accessToken, user, playlistName string) {
	ctx := r.Context()

	accountID, err := f.resolveProfile(w, r, accessToken, user)
	if err != nil {
		f.logger.Error("profile resolution failed", "user", user, "error", err)
		BadGateway(w)
		return
	}

	quote, err := f.quotes.Random(ctx)
	if err != nil {
		f.logger.Error("quote request failed", "error", err)
		BadGateway(w)
		return
	}

	character := quote.Character
	if character == "" {
		character = "Anonymous"
	}

	location, err := f.music.CreatePlaylist(ctx, accessToken, accountID, character+" - "+playlistName, "")
	if err != nil {
		f.logger.Error("playlist creation failed", "user", user, "error", err)
		BadGateway(w)
		return
	}

	http.Redirect(w, r, location, http.StatusFound)
}

// resolveProfile returns the visitor's account id from cache or, failing
// that, from the profile endpoint, caching the result for 24 hours.
func (f *PlaylistFlow) resolveProfile(w http.ResponseWriter, r *http.Request, accessToken, user string) (string, error) {
	ctx := r.Context()

	profile, err := cache.GetProfile(ctx, f.store, user)
	if err == nil && profile.Usable(f.now()) {
		f.logger.Info("profile cache in use", "user", user)
		return profile.ID, nil
	}
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		f.logger.Warn("profile cache read failed", "user", user, "error", err)
	}

	accountID, err := f.music.Profile(ctx, accessToken)
	if err != nil {
		return "", err
	}

	record := models.Profile{
		ID:         accountID,
		Expiration: models.EpochMillis(f.now().Add(models.ProfileTTL)),
	}
	if err := cache.PutProfile(ctx, f.store, user, record); err != nil {
		f.logger.Warn("profile cache write failed", "user", user, "error", err)
	}

	return accountID, nil
}
