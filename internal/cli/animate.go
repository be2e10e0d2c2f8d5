package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/threadtree/pkg/errors"
	"github.com/matzehuels/threadtree/pkg/pipeline"
	"github.com/matzehuels/threadtree/pkg/tree"
)

// animateCommand replays a threaded traversal in the terminal, highlighting
// one node per interval.
func (c *CLI) animateCommand() *cobra.Command {
	var (
		interval  time.Duration
		exitAtEnd bool
	)

	cmd := &cobra.Command{
		Use:   "animate [file]",
		Short: "Step through a threaded traversal in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = c.Config.Interval.Duration
			}
			if interval <= 0 {
				return fmt.Errorf("invalid interval: %s", interval)
			}
			opts := pipeline.Options{
				Order:   c.orderFlag(cmd, "order"),
				OrderBy: c.orderFlag(cmd, "order-by"),
			}
			return c.runAnimate(cmd, args[0], opts, interval, exitAtEnd)
		},
	}

	cmd.Flags().String("order", pipeline.DefaultOrder, "traversal order: pre, in, post")
	cmd.Flags().String("order-by", pipeline.DefaultOrderBy, "sibling ordering: id, id-desc, x, x-desc")
	cmd.Flags().DurationVar(&interval, "interval", defaultInterval, "delay between steps")
	cmd.Flags().BoolVar(&exitAtEnd, "exit", false, "quit after the last node")

	return cmd
}

func (c *CLI) runAnimate(cmd *cobra.Command, input string, opts pipeline.Options, interval time.Duration, exitAtEnd bool) error {
	ctx := cmd.Context()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	g, err := loadGraph(ctx, cmd, input)
	if err != nil {
		return err
	}

	model, err := newAnimation(tree.NewEngine(g, opts.Less(g)), opts.TreeOrder(), interval)
	if err != nil {
		return err
	}
	model.ExitAtEnd = exitAtEnd

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("animate: %w", err)
	}
	return nil
}

// newAnimation threads the engine's tree for order, records the threaded walk
// and its threads, and returns a model replaying them.
func newAnimation(engine *tree.Engine, order tree.Order, interval time.Duration) (TraversalModel, error) {
	t, err := engine.Tree()
	if err != nil {
		return TraversalModel{}, errs.FromTree(err)
	}

	var (
		seq     []string
		threads []tree.Thread
	)
	err = engine.WithThreads(order, func(t *tree.Tree) error {
		threads = t.Threads()
		seq = tree.Collect(t.TraverseWithThread(order))
		return nil
	})
	if err != nil {
		return TraversalModel{}, errs.FromTree(err)
	}

	title := fmt.Sprintf("Threaded %s-order traversal", order)
	return NewTraversalModel(t, title, seq, threads, interval), nil
}
