package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"quotelist/internal/cache"
	"quotelist/internal/shared"
)

// CacheGet prints the raw cached record for a visitor and kind.
func (r *Runner) CacheGet(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKind(cmd.String("kind"))
	if err != nil {
		return err
	}
	user := cmd.String("user")

	store, err := r.openStore(ctx, r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.Get(ctx, kind, user)
	if errors.Is(err, cache.ErrNotFound) {
		r.writePlainln("no %s record for %s", kind, user)
		return nil
	}
	if err != nil {
		return err
	}

	r.writePlainln("%s", record)
	return nil
}

// CachePurge removes both cached record kinds for a visitor.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	user := cmd.String("user")

	store, err := r.openStore(ctx, r.loadConfig(cmd))
	if err != nil {
		return err
	}
	defer store.Close()

	for _, kind := range []cache.Kind{cache.KindCredential, cache.KindProfile} {
		if err := store.Delete(ctx, kind, user); err != nil {
			return fmt.Errorf("failed to purge %s record: %w", kind, err)
		}
	}

	r.logger.Info("purged cached records", "user", user)
	r.writePlainln("purged cached records for %s", user)
	return nil
}

func parseKind(value string) (cache.Kind, error) {
	switch value {
	case "credential":
		return cache.KindCredential, nil
	case "profile":
		return cache.KindProfile, nil
	default:
		return "", fmt.Errorf("%w: kind must be credential or profile", shared.ErrInvalidArgument)
	}
}

// cacheCommand handles cached record inspection and cleanup
func cacheCommand(r *Runner) *cli.Command {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}

	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and clear cached visitor records",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Print a cached record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kind",
						Usage:    "Record kind (credential or profile)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "user",
						Usage:    "Visitor identity token",
						Required: true,
					},
					configFlag,
				},
				Action: r.CacheGet,
			},
			{
				Name:  "purge",
				Usage: "Remove all cached records for a visitor",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "user",
						Usage:    "Visitor identity token",
						Required: true,
					},
					configFlag,
				},
				Action: r.CachePurge,
			},
		},
	}
}
