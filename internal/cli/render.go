package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadtree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file (single format) or base path
	formats  []string // output formats: "svg", "png", "pdf", "dot"
	threads  bool     // draw thread edges for the order
	leaves   bool     // highlight leaves
	numbered bool     // label nodes with their traversal position
	noCache  bool
	refresh  bool
}

// renderCommand draws the binary tree with Graphviz.
//
// Default settings:
//   - format: svg
//   - order: in (only used for --threads and --numbered)
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the binary tree and its threads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], pipeline.Options{
				Order:           c.orderFlag(cmd, "order"),
				OrderBy:         c.orderFlag(cmd, "order-by"),
				Formats:         opts.formats,
				Threads:         opts.threads,
				HighlightLeaves: opts.leaves,
				Numbered:        opts.numbered,
				Refresh:         opts.refresh,
			}, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot (comma-separated)")
	cmd.Flags().String("order", pipeline.DefaultOrder, "traversal order for threads and numbering: pre, in, post")
	cmd.Flags().String("order-by", pipeline.DefaultOrderBy, "sibling ordering: id, id-desc, x, x-desc")
	cmd.Flags().BoolVar(&opts.threads, "threads", false, "draw thread edges")
	cmd.Flags().BoolVar(&opts.leaves, "leaves", false, "highlight leaves")
	cmd.Flags().BoolVar(&opts.numbered, "numbered", false, "label nodes with their traversal position")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, popts pipeline.Options, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	g, err := loadGraph(ctx, cmd, input)
	if err != nil {
		return err
	}
	r, err := c.newRunner(ctx, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer r.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Rendering "+strings.Join(popts.Formats, ", "))
	spinner.Start()
	artifacts, cached, err := r.Render(ctx, g, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	out := cmd.OutOrStdout()
	base := basePath(opts.output, input)
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := writeOutput(path, artifacts[format]); err != nil {
			return err
		}
		logger.Debugf("Generated %s: %d bytes", format, len(artifacts[format]))
		printFile(out, path)
	}
	printStats(out, g.NodeCount(), 0, cached)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return outputBase(input)
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
