package ast

// Equal reports whether two trees are structurally identical: same kinds,
// texts, constant values and children. Spans are ignored. Specialized nodes
// are equal when their originals and retained children are.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.kind != b.kind || a.text != b.text || len(a.children) != len(b.children) {
		return false
	}

	switch a.kind {
	case KindConstant:
		if !a.value.Type().Equal(b.value.Type()) || a.value.Interface() != b.value.Interface() {
			return false
		}
	case KindSpecialized:
		if !Equal(a.original, b.original) {
			return false
		}
	}

	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes reachable through children.
func Count(n *Node) int {
	total := 1
	for _, c := range n.children {
		total += Count(c)
	}
	return total
}
