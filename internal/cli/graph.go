package cli

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadtree/pkg/digraph"
	errs "github.com/matzehuels/threadtree/pkg/errors"
	graphio "github.com/matzehuels/threadtree/pkg/io"
)

// stdinArg selects standard input as the graph source.
const stdinArg = "-"

// loadGraph reads the graph named by path. "-" reads JSON from stdin.
func loadGraph(ctx context.Context, cmd *cobra.Command, path string) (*digraph.Graph, error) {
	logger := loggerFromContext(ctx)

	var (
		g   *digraph.Graph
		err error
	)
	if path == stdinArg {
		g, err = graphio.ReadJSON(cmd.InOrStdin())
	} else {
		g, err = graphio.ImportFile(path)
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "graph file not found: %s", path)
	case err != nil:
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "read graph %s", path)
	}

	logger.Debugf("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	return g, nil
}

// outputBase derives the output path without extension from the input path.
func outputBase(input string) string {
	if input == stdinArg {
		return "tree"
	}
	return input[:len(input)-len(filepath.Ext(input))]
}
