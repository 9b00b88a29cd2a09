// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"quotelist/internal/cache"
	"quotelist/internal/models"
	"quotelist/internal/services"
)

// MockMusic is a test double for [services.MusicService] that records calls.
type MockMusic struct {
	mu sync.Mutex

	Credential  models.Credential
	ExchangeErr error
	AccountID   string
	ProfileErr  error
	Location    string
	CreateErr   error

	ExchangeCalls []string
	ProfileCalls  int
	CreateCalls   []CreateCall
}

// CreateCall records the arguments of one CreatePlaylist invocation.
type CreateCall struct {
	AccessToken string
	UserID      string
	Name        string
	Description string
}

func (m *MockMusic) Name() string { return "mock" }

func (m *MockMusic) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (m *MockMusic) Exchange(ctx context.Context, code string) (models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExchangeCalls = append(m.ExchangeCalls, code)
	if m.ExchangeErr != nil {
		return models.Credential{}, m.ExchangeErr
	}
	return m.Credential, nil
}

func (m *MockMusic) Profile(ctx context.Context, accessToken string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProfileCalls++
	if m.ProfileErr != nil {
		return "", m.ProfileErr
	}
	return m.AccountID, nil
}

func (m *MockMusic) CreatePlaylist(ctx context.Context, accessToken, userID, name, description string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, CreateCall{accessToken, userID, name, description})
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.Location, nil
}

// MockQuotes is a test double for [services.QuoteProvider].
type MockQuotes struct {
	Quote services.Quote
	Err   error
	Calls int
}

func (m *MockQuotes) Random(ctx context.Context) (*services.Quote, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	q := m.Quote
	return &q, nil
}

// FStore wraps a [cache.Store] and fails every write.
type FStore struct {
	Inner cache.Store
}

func (s *FStore) Get(ctx context.Context, kind cache.Kind, key string) ([]byte, error) {
	return s.Inner.Get(ctx, kind, key)
}

func (s *FStore) Put(ctx context.Context, kind cache.Kind, key string, record []byte) error {
	return errors.New("write failed")
}

func (s *FStore) Delete(ctx context.Context, kind cache.Kind, key string) error {
	return s.Inner.Delete(ctx, kind, key)
}

func (s *FStore) Close() error { return nil }

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
