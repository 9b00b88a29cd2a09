// package cache implements keyed, namespaced persistence of small JSON records.
//
// Records are stored per visitor identity token under one of two kinds:
// access credentials and profile identifiers. The store never inspects
// expirations; a Get returns whatever was last written and TTL policy belongs
// to the caller, because the two record kinds carry different lifetimes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"quotelist/internal/models"
)

// Kind namespaces records within the store.
type Kind string

const (
	KindCredential Kind = "credential"
	KindProfile    Kind = "profile"
)

// ErrNotFound is returned by Get when no record exists for a kind and key.
// Absence is a first-class result, not an existence probe followed by a read.
var ErrNotFound = fmt.Errorf("cache: record not found")

// Store defines the keyed record store shared by all backends.
//
// A single Put is atomic as observed by subsequent Gets and unconditionally
// overwrites any prior record (last writer wins).
type Store interface {
	Get(ctx context.Context, kind Kind, key string) ([]byte, error)
	Put(ctx context.Context, kind Kind, key string, record []byte) error
	Delete(ctx context.Context, kind Kind, key string) error
	Close() error
}

// GetCredential loads and decodes the cached credential for an identity token.
func GetCredential(ctx context.Context, s Store, key string) (*models.Credential, error) {
	raw, err := s.Get(ctx, KindCredential, key)
	if err != nil {
		return nil, err
	}

	var cred models.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential record: %w", err)
	}
	return &cred, nil
}

// PutCredential encodes and stores a credential for an identity token.
func PutCredential(ctx context.Context, s Store, key string, cred models.Credential) error {
	raw, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential record: %w", err)
	}
	return s.Put(ctx, KindCredential, key, raw)
}

// GetProfile loads and decodes the cached profile id for an identity token.
func GetProfile(ctx context.Context, s Store, key string) (*models.Profile, error) {
	raw, err := s.Get(ctx, KindProfile, key)
	if err != nil {
		return nil, err
	}

	var profile models.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile record: %w", err)
	}
	return &profile, nil
}

// PutProfile encodes and stores a profile id for an identity token.
func PutProfile(ctx context.Context, s Store, key string, profile models.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile record: %w", err)
	}
	return s.Put(ctx, KindProfile, key, raw)
}
