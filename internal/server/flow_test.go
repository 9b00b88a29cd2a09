package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"quotelist/internal/cache"
	"quotelist/internal/identity"
	"quotelist/internal/models"
	"quotelist/internal/services"
	"quotelist/internal/session"
	qltesting "quotelist/internal/testing"
)

var testTime = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type flowFixture struct {
	flow     *PlaylistFlow
	store    cache.Store
	sessions *session.Tracker
	music    *qltesting.MockMusic
	quotes   *qltesting.MockQuotes
}

func newFlowFixture(store cache.Store) *flowFixture {
	if store == nil {
		store = cache.NewMemoryStore()
	}

	music := &qltesting.MockMusic{
		Credential: models.Credential{
			AccessToken: "fresh-token",
			TokenType:   "Bearer",
			Expiration:  testTime.Add(time.Hour).UnixMilli(),
		},
		AccountID: "listener42",
		Location:  "https://open.spotify.com/playlist/pl-1",
	}
	quotes := &qltesting.MockQuotes{
		Quote: services.Quote{Anime: "Gintama", Character: "Gintoki", Quote: "Listen up."},
	}
	sessions := session.NewTrackerAt(session.DefaultTTL, func() time.Time { return testTime })

	logger := log.New(io.Discard)

	flow := NewPlaylistFlow(FlowOpts{
		Resolver: identity.NewResolverAt(func() time.Time { return testTime }),
		Store:    store,
		Sessions: sessions,
		Music:    music,
		Quotes:   quotes,
		Logger:   logger,
		Now:      func() time.Time { return testTime },
	})

	return &flowFixture{flow: flow, store: store, sessions: sessions, music: music, quotes: quotes}
}

func validCookies(token string) []*http.Cookie {
	expires := strconv.FormatInt(testTime.Add(time.Hour).UnixMilli(), 10)
	return []*http.Cookie{
		{Name: identity.CookieUserID, Value: token},
		{Name: identity.CookieExpires, Value: expires},
	}
}

func TestCreatePlaylist(t *testing.T) {
	t.Run("Missing Name Is 404", func(t *testing.T) {
		fx := newFlowFixture(nil)

		for range 2 {
			req := httptest.NewRequest(http.MethodGet, "/create-playlist", nil)
			rec := httptest.NewRecorder()
			fx.flow.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Errorf("expected 404, got %d", rec.Code)
			}
		}

		if fx.sessions.Len() != 0 {
			t.Error("session layer must not be reached without a playlist name")
		}
	})

	t.Run("Fresh Visitor Is Redirected To Authorize", func(t *testing.T) {
		fx := newFlowFixture(nil)

		req := httptest.NewRequest(http.MethodGet, "/create-playlist?playlistName=Focus", nil)
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}

		if len(rec.Result().Cookies()) == 0 {
			t.Error("expected a fresh identity cookie")
		}

		location, err := url.Parse(rec.Header().Get("Location"))
		if err != nil {
			t.Fatalf("bad redirect location: %v", err)
		}
		if location.Host != "accounts.example.com" {
			t.Errorf("expected redirect to authorization endpoint, got %s", location.Host)
		}

		state := location.Query().Get("state")
		if state == "" {
			t.Fatal("redirect must carry a state parameter")
		}

		sess, ok := fx.sessions.Consume(state)
		if !ok {
			t.Fatal("expected a pending session for the redirect state")
		}
		if sess.PlaylistName != "Focus" {
			t.Errorf("expected session to carry playlist name Focus, got %q", sess.PlaylistName)
		}
	})

	t.Run("Cached Credential Skips Redirect", func(t *testing.T) {
		fx := newFlowFixture(nil)

		cred := models.Credential{
			AccessToken: "cached-token",
			TokenType:   "Bearer",
			Expiration:  testTime.Add(30 * time.Minute).UnixMilli(),
		}
		if err := cache.PutCredential(t.Context(), fx.store, "visitor-1", cred); err != nil {
			t.Fatalf("failed to seed credential: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/create-playlist?playlistName=Focus", nil)
		for _, c := range validCookies("visitor-1") {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != fx.music.Location {
			t.Errorf("expected redirect to created playlist, got %q", got)
		}

		if fx.sessions.Len() != 0 {
			t.Error("cached reuse must bypass the session tracker")
		}
		if len(fx.music.ExchangeCalls) != 0 {
			t.Error("cached reuse must not exchange a code")
		}
		if len(fx.music.CreateCalls) != 1 || fx.music.CreateCalls[0].AccessToken != "cached-token" {
			t.Errorf("expected playlist created with cached token, got %+v", fx.music.CreateCalls)
		}
	})

	t.Run("Expired Credential Is Treated As Absent", func(t *testing.T) {
		fx := newFlowFixture(nil)

		cred := models.Credential{
			AccessToken: "stale-token",
			TokenType:   "Bearer",
			Expiration:  testTime.Add(-time.Minute).UnixMilli(),
		}
		if err := cache.PutCredential(t.Context(), fx.store, "visitor-1", cred); err != nil {
			t.Fatalf("failed to seed credential: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/create-playlist?playlistName=Focus", nil)
		for _, c := range validCookies("visitor-1") {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if !strings.Contains(rec.Header().Get("Location"), "accounts.example.com") {
			t.Error("expired credential must trigger the authorization redirect")
		}
		if len(fx.music.CreateCalls) != 0 {
			t.Error("expired credential must never be presented downstream")
		}
	})
}

func TestReceiveCode(t *testing.T) {
	t.Run("Unknown State Is 404 Without External Calls", func(t *testing.T) {
		fx := newFlowFixture(nil)

		req := httptest.NewRequest(http.MethodGet, "/receive-code?state=doesnotexist&code=abc", nil)
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", rec.Code)
		}
		if len(fx.music.ExchangeCalls) != 0 || fx.music.ProfileCalls != 0 || fx.quotes.Calls != 0 {
			t.Error("unknown state must not trigger external calls")
		}
	})

	t.Run("Missing Parameters Are 404", func(t *testing.T) {
		fx := newFlowFixture(nil)
		state := fx.sessions.Create("Focus")

		for _, target := range []string{
			"/receive-code",
			"/receive-code?code=abc",
			"/receive-code?state=" + state,
		} {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			rec := httptest.NewRecorder()
			fx.flow.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Errorf("%s: expected 404, got %d", target, rec.Code)
			}
		}

		// the session with only a state and no code must survive untouched
		if _, ok := fx.sessions.Consume(state); !ok {
			t.Error("session should still be pending after invalid callbacks")
		}
	})

	t.Run("Valid Callback Completes The Flow", func(t *testing.T) {
		fx := newFlowFixture(nil)
		state := fx.sessions.Create("Focus")

		req := httptest.NewRequest(http.MethodGet, "/receive-code?code=abc&state="+state, nil)
		for _, c := range validCookies("visitor-1") {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != fx.music.Location {
			t.Errorf("expected redirect to created playlist, got %q", got)
		}

		if len(fx.music.ExchangeCalls) != 1 || fx.music.ExchangeCalls[0] != "abc" {
			t.Errorf("expected one exchange with code abc, got %v", fx.music.ExchangeCalls)
		}

		cred, err := cache.GetCredential(t.Context(), fx.store, "visitor-1")
		if err != nil {
			t.Fatalf("expected cached credential: %v", err)
		}
		if *cred != fx.music.Credential {
			t.Errorf("cached credential %+v does not match exchanged %+v", *cred, fx.music.Credential)
		}

		profile, err := cache.GetProfile(t.Context(), fx.store, "visitor-1")
		if err != nil {
			t.Fatalf("expected cached profile: %v", err)
		}
		if profile.ID != "listener42" {
			t.Errorf("expected cached account id listener42, got %q", profile.ID)
		}
		if want := testTime.Add(24 * time.Hour).UnixMilli(); profile.Expiration != want {
			t.Errorf("expected profile expiration %d, got %d", want, profile.Expiration)
		}

		if len(fx.music.CreateCalls) != 1 {
			t.Fatalf("expected one playlist creation, got %d", len(fx.music.CreateCalls))
		}
		call := fx.music.CreateCalls[0]
		if call.Name != "Gintoki - Focus" {
			t.Errorf("expected playlist name 'Gintoki - Focus', got %q", call.Name)
		}
		if call.UserID != "listener42" || call.AccessToken != "fresh-token" {
			t.Errorf("unexpected creation call %+v", call)
		}

		if _, ok := fx.sessions.Consume(state); ok {
			t.Error("session must be evicted after a successful match")
		}
	})

	t.Run("Cached Profile Skips Profile Endpoint", func(t *testing.T) {
		fx := newFlowFixture(nil)
		state := fx.sessions.Create("Focus")

		profile := models.Profile{ID: "listener42", Expiration: testTime.Add(12 * time.Hour).UnixMilli()}
		if err := cache.PutProfile(t.Context(), fx.store, "visitor-1", profile); err != nil {
			t.Fatalf("failed to seed profile: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/receive-code?code=abc&state="+state, nil)
		for _, c := range validCookies("visitor-1") {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if fx.music.ProfileCalls != 0 {
			t.Error("cached profile must skip the profile endpoint")
		}
	})

	t.Run("Exchange Failure Is 502", func(t *testing.T) {
		fx := newFlowFixture(nil)
		fx.music.ExchangeErr = io.ErrUnexpectedEOF
		state := fx.sessions.Create("Focus")

		req := httptest.NewRequest(http.MethodGet, "/receive-code?code=abc&state="+state, nil)
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("Quote Failure Is 502", func(t *testing.T) {
		fx := newFlowFixture(nil)
		fx.quotes.Err = io.ErrUnexpectedEOF
		state := fx.sessions.Create("Focus")

		req := httptest.NewRequest(http.MethodGet, "/receive-code?code=abc&state="+state, nil)
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
		if len(fx.music.CreateCalls) != 0 {
			t.Error("playlist must not be created without a decoration")
		}
	})

	t.Run("Creation Failure Is 502", func(t *testing.T) {
		fx := newFlowFixture(nil)
		fx.music.CreateErr = io.ErrUnexpectedEOF
		state := fx.sessions.Create("Focus")

		req := httptest.NewRequest(http.MethodGet, "/receive-code?code=abc&state="+state, nil)
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", rec.Code)
		}
	})

	t.Run("Empty Quote Character Falls Back", func(t *testing.T) {
		fx := newFlowFixture(nil)
		fx.quotes.Quote = services.Quote{}
		state := fx.sessions.Create("Focus")

		req := httptest.NewRequest(http.MethodGet, "/receive-code?code=abc&state="+state, nil)
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302, got %d", rec.Code)
		}
		if got := fx.music.CreateCalls[0].Name; got != "Anonymous - Focus" {
			t.Errorf("expected fallback decoration, got %q", got)
		}
	})

	t.Run("Cache Write Failure Does Not Abort", func(t *testing.T) {
		fx := newFlowFixture(&qltesting.FStore{Inner: cache.NewMemoryStore()})
		state := fx.sessions.Create("Focus")

		req := httptest.NewRequest(http.MethodGet, "/receive-code?code=abc&state="+state, nil)
		rec := httptest.NewRecorder()
		fx.flow.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Errorf("advisory cache failure must not abort the request, got %d", rec.Code)
		}
	})
}
