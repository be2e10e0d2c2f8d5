package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadtree/pkg/pipeline"
	"github.com/matzehuels/threadtree/pkg/tree"
)

// traverseOpts holds the command-line flags for the traverse command.
type traverseOpts struct {
	threaded bool // walk the threaded tree instead of recursing
	all      bool // walk every order
	asJSON   bool // print results as JSON
	noCache  bool
	refresh  bool
}

// traverseCommand prints traversal sequences of the binary tree.
func (c *CLI) traverseCommand() *cobra.Command {
	var opts traverseOpts

	cmd := &cobra.Command{
		Use:   "traverse [file]",
		Short: "Print the pre-, in- or post-order sequence of a tree",
		Long: `Traverse converts the graph into a binary tree and prints its nodes in the
requested order. With --thread the tree is threaded for that order and walked
iteratively along the threads; the sequence is the same as the recursive one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orders := []string{c.orderFlag(cmd, "order")}
			if opts.all {
				orders = orders[:0]
				for _, o := range tree.Orders {
					orders = append(orders, o.String())
				}
			}
			return c.runTraverse(cmd, args[0], orders, c.orderFlag(cmd, "order-by"), opts)
		},
	}

	cmd.Flags().String("order", pipeline.DefaultOrder, "traversal order: pre, in, post")
	cmd.Flags().String("order-by", pipeline.DefaultOrderBy, "sibling ordering: id, id-desc, x, x-desc")
	cmd.Flags().BoolVarP(&opts.threaded, "thread", "t", false, "walk the threaded tree")
	cmd.Flags().BoolVar(&opts.all, "all", false, "print all three orders")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")

	return cmd
}

func (c *CLI) runTraverse(cmd *cobra.Command, input string, orders []string, orderBy string, opts traverseOpts) error {
	ctx := cmd.Context()
	prog := newProgress(loggerFromContext(ctx))

	g, err := loadGraph(ctx, cmd, input)
	if err != nil {
		return err
	}
	r, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	results := make([]*pipeline.Result, 0, len(orders))
	for _, order := range orders {
		res, err := r.Traverse(ctx, g, pipeline.Options{
			Order:    order,
			OrderBy:  orderBy,
			Threaded: opts.threaded,
			Refresh:  opts.refresh,
		})
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeResults(out, results)
	}

	for _, res := range results {
		printSequence(out, res.Order, res.Sequence)
		for _, th := range res.Threads {
			printDetail(out, "%s %s %s (%s)", th.From, iconArrow, th.To, th.Side)
		}
	}
	last := results[len(results)-1]
	printStats(out, last.Stats.NodeCount, len(last.Threads), last.CacheHit)
	prog.done(fmt.Sprintf("Traversed %d nodes", last.Stats.NodeCount))
	return nil
}

// writeResults prints one result as an object and several as an array.
func writeResults(w io.Writer, results []*pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}
