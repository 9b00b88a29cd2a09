package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/urfave/cli/v3"

	"quotelist/internal/identity"
	"quotelist/internal/server"
	"quotelist/internal/services"
	"quotelist/internal/session"
	"quotelist/internal/shared"
	"quotelist/internal/web"
)

// Serve starts the playlist creation web service.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)

	store, err := r.openStore(ctx, config)
	if err != nil {
		return err
	}
	defer store.Close()

	music, err := r.buildMusicService(config)
	if err != nil {
		return err
	}
	quotes := services.NewQuoteService(config.Quotes.BaseURL, r.httpClient)
	resolver := identity.NewResolver()

	flow := server.NewPlaylistFlow(server.FlowOpts{
		Resolver: resolver,
		Store:    store,
		Sessions: session.NewTracker(session.DefaultTTL),
		Music:    music,
		Quotes:   quotes,
		Logger:   shared.WithLogger(r.logger, "component", "flow"),
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(shared.WithLogger(r.logger, "component", "http")))
	router.Handler(web.NewIndexHandler(resolver))
	router.Handler(flow)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	r.logger.Info("listening", "addr", addr)

	srv := &http.Server{Addr: addr, Handler: router}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

// serveCommand starts the web service
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the playlist creation web service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Serve,
	}
}
