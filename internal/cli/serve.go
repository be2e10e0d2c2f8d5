package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadtree/pkg/buildinfo"
	"github.com/matzehuels/threadtree/pkg/cache"
	"github.com/matzehuels/threadtree/pkg/server"
	"github.com/matzehuels/threadtree/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	store         string // graph store: memory or mongo
	mongoURI      string
	mongoDatabase string
	keyPrefix     string // prepended to every cache key
	noCache       bool
}

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyServerConfig(cmd, &opts)
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&opts.store, "store", storeMemory, "graph store: memory, mongo")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection URI (store=mongo)")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-database", store.DefaultDatabase, "MongoDB database")
	cmd.Flags().StringVar(&opts.keyPrefix, "key-prefix", defaultKeyPrefix, "cache key prefix separating API entries from CLI entries")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")

	return cmd
}

// applyServerConfig fills flags the user did not set from the config file.
func (c *CLI) applyServerConfig(cmd *cobra.Command, opts *serveOpts) {
	cfg := c.Config.Server
	flags := cmd.Flags()
	if !flags.Changed("addr") && cfg.Addr != "" {
		opts.addr = cfg.Addr
	}
	if !flags.Changed("store") && cfg.Store != "" {
		opts.store = cfg.Store
	}
	if !flags.Changed("mongo-uri") && cfg.MongoURI != "" {
		opts.mongoURI = cfg.MongoURI
	}
	if !flags.Changed("mongo-database") && cfg.MongoDatabase != "" {
		opts.mongoDatabase = cfg.MongoDatabase
	}
	if !flags.Changed("key-prefix") {
		opts.keyPrefix = cfg.KeyPrefix
	}
}

// serverKeyer scopes cache keys with prefix. An empty prefix shares the CLI's
// keys.
func serverKeyer(prefix string) cache.Keyer {
	if prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	st, err := c.openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	r, err := c.newRunner(ctx, opts.noCache, serverKeyer(opts.keyPrefix))
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Info("starting server", "store", opts.store, "cache", c.Config.Cache.Backend, "version", buildinfo.Version)
	srv := server.New(server.Config{
		Addr:    opts.addr,
		Runner:  r,
		Store:   st,
		Logger:  logger,
		Version: buildinfo.Version,
	})
	return srv.ListenAndServe(ctx)
}

func (c *CLI) openStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	switch opts.store {
	case storeMemory:
		return store.NewMemoryStore(), nil
	case storeMongo:
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:      opts.mongoURI,
			Database: opts.mongoDatabase,
		})
		if err != nil {
			return nil, fmt.Errorf("mongo store: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("invalid store: %q (must be one of: memory, mongo)", opts.store)
}
