package tree

import (
	"fmt"
	"strings"
)

// Order selects where a node is visited relative to its subtrees.
type Order uint8

const (
	// PreOrder visits a node before both of its subtrees.
	PreOrder Order = iota
	// InOrder visits a node between its left and right subtrees.
	InOrder
	// PostOrder visits a node after both of its subtrees.
	PostOrder
)

// Orders lists every traversal order.
var Orders = []Order{PreOrder, InOrder, PostOrder}

// String returns the lowercase name of the order ("pre", "in", "post").
func (o Order) String() string {
	switch o {
	case PreOrder:
		return "pre"
	case InOrder:
		return "in"
	case PostOrder:
		return "post"
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}

// ParseOrder accepts "pre", "in", "post" and their "*order" spellings,
// case-insensitively.
func ParseOrder(s string) (Order, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "order")
	switch strings.TrimRight(name, "-_") {
	case "pre":
		return PreOrder, nil
	case "in":
		return InOrder, nil
	case "post":
		return PostOrder, nil
	}
	return 0, fmt.Errorf("unknown traversal order %q (must be 'pre', 'in' or 'post')", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Order) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Order) UnmarshalText(b []byte) error {
	v, err := ParseOrder(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
