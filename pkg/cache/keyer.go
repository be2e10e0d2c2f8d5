package cache

import "strings"

// Keyer builds cache keys for the pipeline's cached outputs.
type Keyer interface {
	// TraversalKey identifies a node sequence produced from a graph.
	TraversalKey(graphHash string, opts TraversalKeyOpts) string
	// ArtifactKey identifies a rendered diagram of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// TraversalKeyOpts lists the options that change a traversal result.
type TraversalKeyOpts struct {
	Order    string `json:"order"`
	Threaded bool   `json:"threaded"`
	OrderBy  string `json:"order_by"`
}

// ArtifactKeyOpts lists the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format          string `json:"format"`
	Order           string `json:"order"`
	OrderBy         string `json:"order_by"`
	Threads         bool   `json:"threads"`
	HighlightLeaves bool   `json:"highlight_leaves"`
	Numbered        bool   `json:"numbered"`
}

// DefaultKeyer hashes the graph hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TraversalKey implements Keyer.
func (DefaultKeyer) TraversalKey(graphHash string, opts TraversalKeyOpts) string {
	opts.Order = strings.ToLower(opts.Order)
	return hashKey("traversal", graphHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	opts.Format = strings.ToLower(opts.Format)
	opts.Order = strings.ToLower(opts.Order)
	return hashKey("artifact", graphHash, opts)
}
