package syntax

import "context"

// Visitor is called once per node during a walk. ancestors lists the chain
// from the root down to the node's parent; the slice is reused between
// calls and must not be retained. Returning false skips the node's
// children.
type Visitor func(n *Node, ancestors []*Node) bool

// Walk traverses the tree top-down depth-first, invoking fn once per node.
// Cancellation is checked at every node visit; a cancelled context stops
// the walk and returns the context's error. Diagnostics produced before
// the stop remain valid.
func Walk(ctx context.Context, root *Node, fn Visitor) error {
	var ancestors []*Node
	return walk(ctx, root, &ancestors, fn)
}

func walk(ctx context.Context, n *Node, ancestors *[]*Node, fn Visitor) error {
	if n == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !fn(n, *ancestors) {
		return nil
	}
	*ancestors = append(*ancestors, n)
	for _, c := range n.children {
		if err := walk(ctx, c, ancestors, fn); err != nil {
			return err
		}
	}
	*ancestors = (*ancestors)[:len(*ancestors)-1]
	return nil
}
