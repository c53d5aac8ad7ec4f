// Package sql holds the definitions shared by the algebra tree, the scalar
// expression tree and the translator: semantic types, row types and the
// error kinds of the module.
package sql

import "fmt"

// Node is a node of the relational algebra tree produced by an external
// optimizer. Nodes are immutable and cycle-free; the translator only reads
// them.
type Node interface {
	fmt.Stringer
	// Schema is the row type of the node, in output column order.
	Schema() Schema
	// Children returns the inputs of the node, left to right.
	Children() []Node
}

// Expression is a scalar expression appearing inside an algebra node.
type Expression interface {
	fmt.Stringer
	// Type is the semantic type of the expression.
	Type() Type
	// Children returns the operands of the expression.
	Children() []Expression
}

// CorrelationID identifies a correlation variable introduced by a correlated
// subquery. IDs are small integers assigned by the optimizer.
type CorrelationID int

func (id CorrelationID) String() string {
	return fmt.Sprintf("$cor%d", int(id))
}

// Tableable is implemented by nodes that read from a named table.
type Tableable interface {
	// TableName returns the name of the underlying table.
	TableName() string
}
