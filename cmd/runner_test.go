package main

import (
	"bytes"
	"context"
	"testing"

	"quotelist/internal/cache"
	"quotelist/internal/shared"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner Defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected default config")
		}
		if runner.logger == nil {
			t.Error("expected default logger")
		}
		if runner.output == nil {
			t.Error("expected default output writer")
		}
		if runner.httpClient == nil {
			t.Error("expected default http client")
		}
	})

	t.Run("OpenStore", func(t *testing.T) {
		ctx := context.Background()
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

		t.Run("SQLite In Memory", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Cache.Backend = "sqlite"
			config.Cache.Path = ":memory:"

			store, err := runner.openStore(ctx, config)
			if err != nil {
				t.Fatalf("failed to open sqlite store: %v", err)
			}
			defer store.Close()

			if err := store.Put(ctx, cache.KindProfile, "v", []byte(`{"id":"x"}`)); err != nil {
				t.Fatalf("put failed: %v", err)
			}
			if got, err := store.Get(ctx, cache.KindProfile, "v"); err != nil || string(got) != `{"id":"x"}` {
				t.Errorf("round trip failed: %s, %v", got, err)
			}
		})

		t.Run("Memory Backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Cache.Backend = "memory"

			store, err := runner.openStore(ctx, config)
			if err != nil {
				t.Fatalf("failed to open memory store: %v", err)
			}
			if _, ok := store.(*cache.MemoryStore); !ok {
				t.Errorf("expected MemoryStore, got %T", store)
			}
		})

		t.Run("Unknown Backend", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Cache.Backend = "etcd"

			if _, err := runner.openStore(ctx, config); err == nil {
				t.Error("expected error for unknown backend")
			}
		})
	})

	t.Run("BuildMusicService", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		t.Run("Missing Credentials", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = ""

			if _, err := runner.buildMusicService(config); err == nil {
				t.Error("expected error for missing client id")
			}
		})

		t.Run("With Credentials", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Credentials.Spotify.ClientID = "id"
			config.Credentials.Spotify.ClientSecret = "secret"
			config.Credentials.Spotify.RedirectURI = "http://localhost:9000/receive-code"

			music, err := runner.buildMusicService(config)
			if err != nil {
				t.Fatalf("expected service, got %v", err)
			}
			if music.Name() != "Spotify" {
				t.Errorf("expected Spotify service, got %s", music.Name())
			}
		})
	})

	t.Run("ConfigShow", func(t *testing.T) {
		out := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: out})

		cmd := configCommand(runner)
		if err := cmd.Run(context.Background(), []string{"config", "show"}); err != nil {
			t.Fatalf("config show failed: %v", err)
		}
		if !bytes.Contains(out.Bytes(), []byte("[cache]")) {
			t.Errorf("expected TOML config output, got %q", out.String())
		}
	})

	t.Run("ParseKind", func(t *testing.T) {
		if kind, err := parseKind("credential"); err != nil || kind != cache.KindCredential {
			t.Errorf("expected credential kind, got %v %v", kind, err)
		}
		if kind, err := parseKind("profile"); err != nil || kind != cache.KindProfile {
			t.Errorf("expected profile kind, got %v %v", kind, err)
		}
		if _, err := parseKind("sessions"); err == nil {
			t.Error("expected error for unknown kind")
		}
	})
}
