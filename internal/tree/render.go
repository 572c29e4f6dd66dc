package tree

import "strings"

// Render draws the subtree rooted at n with box-drawing guides:
//
//	root
//	  ├─ data
//	  │  └─ a
//	  └─ notes
func (n *Node) Render() string {
	var b strings.Builder
	b.WriteString(n.Name)
	b.WriteString("\n")
	for i, c := range n.Children {
		c.render(&b, "  ", i == len(n.Children)-1)
	}
	return b.String()
}

func (n *Node) render(b *strings.Builder, indent string, last bool) {
	b.WriteString(indent)
	if last {
		b.WriteString("└─ ")
	} else {
		b.WriteString("├─ ")
	}
	b.WriteString(n.Name)
	b.WriteString("\n")

	childIndent := indent + "│  "
	if last {
		childIndent = indent + "   "
	}
	for i, c := range n.Children {
		c.render(b, childIndent, i == len(n.Children)-1)
	}
}
