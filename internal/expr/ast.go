package expr

import (
	"strconv"
	"strings"
)

// NodeType represents the kind of a syntax tree node.
type NodeType int

const (
	NodeNumber NodeType = iota
	NodeIdent
	NodeUnary
	NodeBinary
	NodeCall
)

// Node is a node of the expression syntax tree.
type Node struct {
	Type     NodeType
	Num      float64
	Name     string // identifier or function name
	Operator string
	Children []*Node
}

// String renders the node in fully parenthesized form.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)

	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	switch n.Type {
	case NodeNumber:
		b.WriteString(strconv.FormatFloat(n.Num, 'g', -1, 64))
	case NodeIdent:
		b.WriteString(n.Name)
	case NodeUnary:
		b.WriteString("(")
		b.WriteString(n.Operator)
		n.Children[0].write(b)
		b.WriteString(")")
	case NodeBinary:
		b.WriteString("(")
		n.Children[0].write(b)
		b.WriteString(" " + n.Operator + " ")
		n.Children[1].write(b)
		b.WriteString(")")
	case NodeCall:
		b.WriteString(n.Name)
		b.WriteString("(")

		for i, c := range n.Children {
			if i > 0 {
				b.WriteString(", ")
			}

			c.write(b)
		}

		b.WriteString(")")
	}
}

// walk calls fn for n and every descendant, parents first.
func (n *Node) walk(fn func(*Node)) {
	fn(n)

	for _, c := range n.Children {
		c.walk(fn)
	}
}
