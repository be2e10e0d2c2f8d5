package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/threadtree/pkg/digraph"
)

func testGraph(t *testing.T) *digraph.Graph {
	t.Helper()
	g := digraph.New(nil)
	g.AddNode(digraph.Node{ID: "A"})
	g.AddNode(digraph.Node{ID: "B"})
	if err := g.AddEdge(digraph.Edge{From: "A", To: "B"}); err != nil {
		t.Fatal(err)
	}
	return g
}

// exerciseStore runs the shared Store contract against st.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	first, err := st.Put(ctx, "first", testGraph(t))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !ValidID(first.ID) {
		t.Errorf("Put returned invalid ID %q", first.ID)
	}
	if first.NodeCount != 2 || first.EdgeCount != 1 {
		t.Errorf("counts = %d nodes, %d edges", first.NodeCount, first.EdgeCount)
	}

	time.Sleep(2 * time.Millisecond)
	second, err := st.Put(ctx, "second", testGraph(t))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := st.Get(ctx, first.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "first" || got.Graph == nil {
		t.Fatalf("Get = %+v", got)
	}
	if children := got.Graph.Children("A"); len(children) != 1 || children[0] != "B" {
		t.Errorf("stored graph children = %v", children)
	}

	list, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("List order = %v", ids(list))
	}
	for _, r := range list {
		if r.Graph != nil {
			t.Error("List should not load graphs")
		}
	}

	if err := st.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
	if err := st.Delete(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func ids(records []*Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	defer st.Close(context.Background())
	exerciseStore(t, st)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := testGraph(t)
	rec, err := st.Put(ctx, "g", g)
	if err != nil {
		t.Fatal(err)
	}
	g.AddNode(digraph.Node{ID: "C"})

	got, err := st.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Graph.NodeCount() != 2 {
		t.Errorf("stored graph changed with caller's graph: %d nodes", got.Graph.NodeCount())
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("THREADTREE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("THREADTREE_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	st, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "threadtree_test",
		Collection: "graphs_" + NewID()[:8],
	})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = st.coll.Drop(ctx)
		_ = st.Close(ctx)
	}()
	exerciseStore(t, st)
}

func TestValidID(t *testing.T) {
	if !ValidID(NewID()) {
		t.Error("NewID should be valid")
	}
	if ValidID("not-an-id") {
		t.Error("ValidID accepted garbage")
	}
}
