package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bailus/pinpoint/internal/server"
	"github.com/bailus/pinpoint/pkg/config"
	"github.com/bailus/pinpoint/pkg/store"
)

// serveCommand creates the serve command running the HTTP placement service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		listen    string
		storeKind string
		overlays  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP placement service",
		Long: `Run the HTTP placement service.

The service keeps registered overlays in a store (in-memory or MongoDB) and
computes placements for any camera on demand via POST /v1/placements.
Responses are cached using the backend selected in the config file.

An overlay set can be preloaded at startup with --overlays.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Serve.Listen = listen
			}
			if storeKind != "" {
				cfg.Serve.Store = storeKind
			}
			if overlays != "" {
				cfg.Serve.Overlays = overlays
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&storeKind, "store", "", "overlay store backend: memory (default), mongo")
	cmd.Flags().StringVar(&overlays, "overlays", "", "overlay set JSON to preload at startup")

	return cmd
}

// runServe builds the store and cache and serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)

	st, err := newStore(ctx, cfg.Serve)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	if cfg.Serve.Overlays != "" {
		n, err := preloadOverlays(ctx, st, cfg.Serve.Overlays)
		if err != nil {
			return fmt.Errorf("preload overlays: %w", err)
		}
		logger.Info("preloaded overlays", "count", n, "path", cfg.Serve.Overlays)
	}

	responseCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer responseCache.Close()

	srv := server.New(st, responseCache, nil, cfg.Cache.TTL.Std(), logger)
	return srv.Run(ctx, cfg.Serve.Listen)
}

// newStore builds the overlay store selected by the config.
func newStore(ctx context.Context, cfg config.Serve) (store.Store, error) {
	if cfg.Store == "mongo" {
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	}
	return store.NewMemoryStore(), nil
}

// preloadOverlays loads an overlay set file into the store.
func preloadOverlays(ctx context.Context, st store.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	overlays, err := store.ReadJSON(f)
	if err != nil {
		return 0, err
	}
	for _, o := range overlays {
		if err := st.Put(ctx, o); err != nil {
			return 0, err
		}
	}
	return len(overlays), nil
}
