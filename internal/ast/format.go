package ast

import (
	"fmt"
	"io"
	"strings"
)

// Format renders the tree one node per line, indented by depth.
func Format(n *Node) string {
	var sb strings.Builder
	_ = Fprint(&sb, n)
	return sb.String()
}

// Fprint writes the tree to w in the Format layout.
func Fprint(w io.Writer, n *Node) error {
	return fprint(w, n, 0)
}

func fprint(w io.Writer, n *Node, depth int) error {
	line := n.String()
	if n.span.Start.IsValid() {
		line += " @" + n.span.Start.String()
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), line); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := fprint(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}
