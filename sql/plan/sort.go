package plan

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
)

// SortField is one ordering key of a Sort node: an output ordinal plus
// direction and null placement.
type SortField struct {
	Ordinal      int
	Direction    expression.SortDirection
	NullOrdering expression.NullOrdering
}

func (f SortField) String() string {
	return fmt.Sprintf("$%d %s", f.Ordinal, f.Direction)
}

// Sort orders the input rows. Fetch and Offset carry an optional row limit,
// which optimizers fold into the sort node.
type Sort struct {
	UnaryNode
	SortFields []SortField
	Offset     sql.Expression
	Fetch      sql.Expression
}

var _ sql.Node = (*Sort)(nil)

// NewSort creates a sort node without a limit.
func NewSort(sortFields []SortField, child sql.Node) *Sort {
	return &Sort{UnaryNode: UnaryNode{Child: child}, SortFields: sortFields}
}

// NewSortWithLimit creates a sort node with optional offset and fetch.
func NewSortWithLimit(sortFields []SortField, offset, fetch sql.Expression, child sql.Node) *Sort {
	return &Sort{
		UnaryNode:  UnaryNode{Child: child},
		SortFields: sortFields,
		Offset:     offset,
		Fetch:      fetch,
	}
}

func (s *Sort) String() string {
	fields := make([]string, len(s.SortFields))
	for i, f := range s.SortFields {
		fields[i] = f.String()
	}
	return fmt.Sprintf("Sort(%s)", strings.Join(fields, ", "))
}
