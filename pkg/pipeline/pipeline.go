// Package pipeline runs the build → thread → traverse → render pipeline
// shared by the CLI and the HTTP API.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Traverse(ctx, g, pipeline.Options{Order: "post", Threaded: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Sequence)
//
//	artifacts, hit, err := runner.Render(ctx, g, pipeline.Options{
//	    Order:   "in",
//	    Threads: true,
//	    Formats: []string{"svg", "dot"},
//	})
//
// Results are cached by a content hash of the input graph together with the
// options that affect the output.
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/threadtree/pkg/cache"
	"github.com/matzehuels/threadtree/pkg/digraph"
	"github.com/matzehuels/threadtree/pkg/errors"
	"github.com/matzehuels/threadtree/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultOrder is the traversal order used when none is given.
	DefaultOrder = "in"

	// DefaultOrderBy is the sibling ordering used when none is given.
	DefaultOrderBy = OrderByID
)

// Sibling orderings. The "-desc" variants reverse the comparison.
const (
	OrderByID     = "id"
	OrderByIDDesc = "id-desc"
	OrderByX      = "x"
	OrderByXDesc  = "x-desc"
)

// ValidOrderings is the set of supported sibling orderings.
var ValidOrderings = map[string]bool{
	OrderByID:     true,
	OrderByIDDesc: true,
	OrderByX:      true,
	OrderByXDesc:  true,
}

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Order is the traversal order: pre, in or post.
	Order string `json:"order,omitempty"`
	// Threaded walks the threaded tree instead of recursing.
	Threaded bool `json:"threaded,omitempty"`
	// OrderBy picks which of two siblings becomes the left child.
	OrderBy string `json:"order_by,omitempty"`

	// Render options
	Formats         []string `json:"formats,omitempty"`
	Threads         bool     `json:"threads,omitempty"` // draw thread edges for Order
	HighlightLeaves bool     `json:"highlight_leaves,omitempty"`
	Numbered        bool     `json:"numbered,omitempty"` // label nodes with their traversal position

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	order     tree.Order
	validated bool
}

// Result contains the outcome of a traversal.
type Result struct {
	GraphHash string   `json:"graph_hash"`
	Root      string   `json:"root"`
	Order     string   `json:"order"`
	Threaded  bool     `json:"threaded"`
	Sequence  []string `json:"sequence"`
	Leaves    []string `json:"leaves"`
	// Threads lists the thread references present during a threaded walk.
	Threads []Thread `json:"threads,omitempty"`

	Stats    Stats `json:"stats"`
	CacheHit bool  `json:"cache_hit"`
}

// Thread is the serialisable form of a [tree.Thread].
type Thread struct {
	From string `json:"from"`
	To   string `json:"to"`
	Side string `json:"side"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int           `json:"node_count"`
	BuildTime    time.Duration `json:"build_time"`
	TraverseTime time.Duration `json:"traverse_time"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrderBy checks that a sibling ordering is valid.
func ValidateOrderBy(orderBy string) error {
	if !ValidOrderings[orderBy] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid order_by: %q (must be one of: id, id-desc, x, x-desc)", orderBy)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Order == "" {
		o.Order = DefaultOrder
	}
	ord, err := tree.ParseOrder(o.Order)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, err, "invalid order")
	}
	o.order = ord
	o.Order = ord.String()

	if o.OrderBy == "" {
		o.OrderBy = DefaultOrderBy
	}
	o.OrderBy = strings.ToLower(o.OrderBy)
	if err := ValidateOrderBy(o.OrderBy); err != nil {
		return err
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateForRender validates the options and the requested formats.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(f)
	}
	return ValidateFormats(o.Formats)
}

// TreeOrder returns the parsed traversal order. Call ValidateAndSetDefaults
// first.
func (o *Options) TreeOrder() tree.Order { return o.order }

// Less returns the sibling ordering for g.
func (o *Options) Less(g *digraph.Graph) tree.OrderFunc {
	switch o.OrderBy {
	case OrderByIDDesc:
		return tree.Reverse(tree.ByID)
	case OrderByX:
		return byPosition(g)
	case OrderByXDesc:
		return tree.Reverse(byPosition(g))
	}
	return tree.ByID
}

// byPosition orders siblings by their x metadata. A node without a position
// counts as x=0; equal positions compare as zero, which puts the second
// sibling on the left.
func byPosition(g *digraph.Graph) tree.OrderFunc {
	return tree.ByKey(func(id string) float64 {
		x, _ := g.Position(id)
		return x
	})
}

// TraversalKeyOpts returns cache key options for a traversal.
func (o *Options) TraversalKeyOpts() cache.TraversalKeyOpts {
	return cache.TraversalKeyOpts{
		Order:    o.Order,
		Threaded: o.Threaded,
		OrderBy:  o.OrderBy,
	}
}

// ArtifactKeyOpts returns cache key options for a rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:          format,
		Order:           o.Order,
		OrderBy:         o.OrderBy,
		Threads:         o.Threads,
		HighlightLeaves: o.HighlightLeaves,
		Numbered:        o.Numbered,
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, build %s, traverse %s", s.NodeCount, s.BuildTime, s.TraverseTime)
}
