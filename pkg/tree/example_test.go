package tree_test

import (
	"errors"
	"fmt"

	"github.com/matzehuels/threadtree/pkg/digraph"
	"github.com/matzehuels/threadtree/pkg/tree"
)

func sample() *digraph.Graph {
	g := digraph.New(nil)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		_ = g.AddNode(digraph.Node{ID: id})
	}
	_ = g.AddEdge(digraph.Edge{From: "A", To: "B"})
	_ = g.AddEdge(digraph.Edge{From: "A", To: "C"})
	_ = g.AddEdge(digraph.Edge{From: "B", To: "D"})
	_ = g.AddEdge(digraph.Edge{From: "B", To: "E"})
	return g
}

func ExampleBuild() {
	t, err := tree.Build(sample(), tree.ByID)
	if err != nil {
		panic(err)
	}
	for _, order := range tree.Orders {
		fmt.Println(order, tree.Collect(t.Traverse(order)))
	}
	// Output:
	// pre [A B D E C]
	// in [D B E A C]
	// post [D E B C A]
}

func ExampleTree_TraverseWithThread() {
	t, _ := tree.Build(sample(), tree.ByID)
	t.Threadify(tree.InOrder)
	defer t.Unthreadify()

	for _, th := range t.Threads() {
		fmt.Printf("%s -%s-> %s\n", th.From, th.Side, th.To)
	}
	fmt.Println(tree.Collect(t.TraverseWithThread(tree.InOrder)))
	// Output:
	// C -left-> A
	// D -right-> B
	// E -left-> B
	// E -right-> A
	// [D B E A C]
}

func ExampleRoot() {
	g := sample()
	_ = g.AddEdge(digraph.Edge{From: "C", To: "E"})

	_, err := tree.Root(g)
	var ne *tree.NodeError
	if errors.As(err, &ne) {
		fmt.Println(errors.Is(err, tree.ErrMultipleParents), ne.Node)
	}
	// Output:
	// true E
}
