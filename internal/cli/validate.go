package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadtree/pkg/pipeline"
)

// validateCommand checks that a graph is a rooted tree that converts into a
// binary tree.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that a graph is a rooted tree with at most two children per node",
		Long: `Validate checks that the graph has exactly one root, that every other node
has exactly one parent, that there are no cycles and that no node has more than
two children. Use "-" to read JSON from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := loadGraph(ctx, cmd, args[0])
			if err != nil {
				return err
			}

			r, err := c.newRunner(ctx, true, nil)
			if err != nil {
				return err
			}
			defer r.Close()

			root, err := r.Validate(ctx, g)
			if err != nil {
				return err
			}
			t, err := r.Build(ctx, g, pipeline.Options{OrderBy: c.Config.OrderBy})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Valid binary tree")
			printKeyValue(out, "root", root)
			printKeyValue(out, "nodes", strconv.Itoa(t.Len()))
			printKeyValue(out, "leaves", strings.Join(t.Leaves(), ", "))
			return nil
		},
	}
}
