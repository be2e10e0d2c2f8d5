package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/threadtree/pkg/cache"
	graphio "github.com/matzehuels/threadtree/pkg/io"
	"github.com/matzehuels/threadtree/pkg/pipeline"
)

func TestServerKeyer(t *testing.T) {
	opts := cache.TraversalKeyOpts{Order: "in"}
	plain := cache.NewDefaultKeyer().TraversalKey("g", opts)

	tests := []struct {
		prefix string
		want   string
	}{
		{"", plain},
		{"api:", "api:" + plain},
		{"team-a/", "team-a/" + plain},
	}
	for _, tt := range tests {
		if got := serverKeyer(tt.prefix).TraversalKey("g", opts); got != tt.want {
			t.Errorf("serverKeyer(%q) key = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}

func TestServerCacheEntriesSeparate(t *testing.T) {
	g, err := graphio.ReadJSON(strings.NewReader(sampleGraph))
	if err != nil {
		t.Fatal(err)
	}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	cliRunner := pipeline.NewRunner(fc, nil, nil)
	apiRunner := pipeline.NewRunner(fc, serverKeyer(defaultKeyPrefix), nil)
	opts := pipeline.Options{Order: "pre"}

	if _, err := cliRunner.Traverse(t.Context(), g, opts); err != nil {
		t.Fatal(err)
	}
	res, err := apiRunner.Traverse(t.Context(), g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("API runner should not read entries written by the CLI")
	}

	res, err = apiRunner.Traverse(t.Context(), g, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheHit {
		t.Error("API runner should read its own entries")
	}
}

func TestApplyServerConfigKeyPrefix(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	c.Config.Server.KeyPrefix = "shared:"

	cmd := c.serveCommand()
	opts := serveOpts{keyPrefix: defaultKeyPrefix}
	c.applyServerConfig(cmd, &opts)
	if opts.keyPrefix != "shared:" {
		t.Errorf("keyPrefix = %q, want config value", opts.keyPrefix)
	}

	if err := cmd.Flags().Set("key-prefix", "cli:"); err != nil {
		t.Fatal(err)
	}
	opts = serveOpts{keyPrefix: "cli:"}
	c.applyServerConfig(cmd, &opts)
	if opts.keyPrefix != "cli:" {
		t.Errorf("keyPrefix = %q, flag should win", opts.keyPrefix)
	}
}
