package plan

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// JoinType is the algebra-level join kind.
type JoinType byte

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "InnerJoin"
	case LeftJoin:
		return "LeftJoin"
	case RightJoin:
		return "RightJoin"
	case FullJoin:
		return "FullJoin"
	case CrossJoin:
		return "CrossJoin"
	default:
		return "Join"
	}
}

// Join combines two inputs. Its row type is the concatenation of the left
// row type then the right row type; the condition's field ordinals index
// into that concatenation.
type Join struct {
	BinaryNode
	JoinType  JoinType
	Condition sql.Expression
}

var _ sql.Node = (*Join)(nil)

// NewJoin creates a join node. Condition is nil for cross joins.
func NewJoin(left, right sql.Node, joinType JoinType, condition sql.Expression) *Join {
	return &Join{
		BinaryNode: BinaryNode{Left: left, Right: right},
		JoinType:   joinType,
		Condition:  condition,
	}
}

// Schema implements the Node interface.
func (j *Join) Schema() sql.Schema {
	left := j.Left.Schema()
	right := j.Right.Schema()
	schema := make(sql.Schema, 0, len(left)+len(right))
	schema = append(schema, left...)
	schema = append(schema, right...)
	return schema
}

func (j *Join) String() string {
	if j.Condition == nil {
		return fmt.Sprintf("%s(%s, %s)", j.JoinType, j.Left, j.Right)
	}
	return fmt.Sprintf("%s(%s, %s, on: %s)", j.JoinType, j.Left, j.Right, j.Condition)
}
