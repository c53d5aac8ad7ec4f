// Package plan defines the relational algebra nodes consumed by the
// translator. Trees are produced by an external optimizer and are assumed
// optimized, type-correct and cycle-free.
package plan

import (
	"github.com/relsql/rel2sql/sql"
)

// UnaryNode is a node with one input.
type UnaryNode struct {
	Child sql.Node
}

// Schema implements the Node interface.
func (n UnaryNode) Schema() sql.Schema { return n.Child.Schema() }

// Children implements the Node interface.
func (n UnaryNode) Children() []sql.Node { return []sql.Node{n.Child} }

// BinaryNode is a node with two inputs.
type BinaryNode struct {
	Left  sql.Node
	Right sql.Node
}

// Children implements the Node interface.
func (n BinaryNode) Children() []sql.Node { return []sql.Node{n.Left, n.Right} }
