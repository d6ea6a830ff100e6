package render

// Walk visits n and its descendants depth first, back to front. Returning
// false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if g, ok := n.(Group); ok {
		for _, c := range g.Children {
			Walk(c, fn)
		}
	}
}

// Find returns the first node with the given ID.
func Find(n Node, id string) (Node, bool) {
	var found Node
	Walk(n, func(c Node) bool {
		if found != nil {
			return false
		}
		if c.common().ID == id {
			found = c
			return false
		}
		return true
	})
	return found, found != nil
}

// Count returns how many nodes of kind k the tree holds.
func Count(n Node, k Kind) int {
	total := 0
	Walk(n, func(c Node) bool {
		if c.Kind() == k {
			total++
		}
		return true
	})
	return total
}

// Placement returns the common fields of any node.
func Placement(n Node) Common {
	return n.common()
}
