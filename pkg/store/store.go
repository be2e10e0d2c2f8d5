// Package store persists named graphs for the HTTP API.
//
// Two backends implement [Store]:
//   - [MemoryStore]: in-process storage for development and tests
//   - [MongoStore]: MongoDB-backed storage shared by several API instances
//
// Graphs are stored in their JSON file form (see package io) and receive a
// random UUID on [Store.Put].
//
// # Usage
//
//	st := store.NewMemoryStore()
//	rec, err := st.Put(ctx, "sample", g)
//	if err != nil {
//	    return err
//	}
//	rec, err = st.Get(ctx, rec.ID)
package store

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/threadtree/pkg/digraph"
	graphio "github.com/matzehuels/threadtree/pkg/io"
)

// ErrNotFound is returned when no graph has the requested ID.
var ErrNotFound = errors.New("graph not found")

// Record is a stored graph with its metadata.
type Record struct {
	ID        string
	Name      string
	CreatedAt time.Time
	NodeCount int
	EdgeCount int
	// Graph is nil in listings.
	Graph *digraph.Graph
}

// Store is the interface for graph storage backends.
type Store interface {
	// Put stores g under a new ID.
	Put(ctx context.Context, name string, g *digraph.Graph) (*Record, error)

	// Get retrieves a graph by ID. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns all records, newest first, without their graphs.
	List(ctx context.Context) ([]*Record, error)

	// Delete removes a graph. Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewID returns a fresh record ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id has the form returned by NewID.
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

func encodeGraph(g *digraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := graphio.WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGraph(data []byte) (*digraph.Graph, error) {
	return graphio.ReadJSON(bytes.NewReader(data))
}
