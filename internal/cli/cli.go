// Package cli implements the threadtree command-line interface.
//
// The commands load a tree-shaped graph from a JSON or TOML file, convert it
// into a binary tree and traverse, thread, draw or animate it. The CLI is
// built using cobra and logs via charmbracelet/log.
//
// # Commands
//
//   - validate: Check that a graph is a rooted tree
//   - traverse: Print pre-, in- or post-order sequences, recursive or threaded
//   - render: Draw the binary tree and its threads with Graphviz
//   - animate: Step through a threaded traversal in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Configuration
//
// Defaults come from ~/.config/threadtree/config.toml (see [Config]);
// command-line flags override them.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/threadtree/pkg/buildinfo"
	"github.com/matzehuels/threadtree/pkg/cache"
	"github.com/matzehuels/threadtree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "threadtree"

	// defaultInterval is the delay between animation steps.
	defaultInterval = 600 * time.Millisecond
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFile string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: defaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Threadtree builds, threads and traverses binary trees",
		Long:         `Threadtree converts a rooted tree graph into a binary tree and traverses it in pre-, in- or post-order, either recursively or by following threads, without a stack.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ~/.config/threadtree/config.toml)")

	for _, cmd := range []*cobra.Command{
		c.validateCommand(),
		c.traverseCommand(),
		c.renderCommand(),
		c.animateCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	} {
		registerCompletions(cmd)
		root.AddCommand(cmd)
	}

	return root
}

// setup loads the config file and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	path, explicit := c.configFile, c.configFile != ""
	if !explicit {
		if p, err := configPath(); err == nil {
			path = p
		}
	}
	cfg, err := loadConfig(path, explicit, c.Logger)
	if err != nil {
		return err
	}
	c.Config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. A nil
// keyer uses the default cache keys.
func (c *CLI) newRunner(ctx context.Context, noCache bool, keyer cache.Keyer) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case cacheNone:
		return cache.NewNullCache(), nil
	case cacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			URL:    c.Config.Cache.RedisURL,
			Addr:   c.Config.Cache.RedisAddr,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	}

	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/threadtree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// orderFlag returns the flag value, falling back to the config file.
func (c *CLI) orderFlag(cmd *cobra.Command, flag string) string {
	v, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) {
		return v
	}
	switch flag {
	case "order":
		return c.Config.Order
	case "order-by":
		return c.Config.OrderBy
	}
	return v
}
