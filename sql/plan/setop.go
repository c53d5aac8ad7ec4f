package plan

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
)

// SetOpKind tags a set operation.
type SetOpKind byte

const (
	Union SetOpKind = iota
	Intersect
	Except
)

func (k SetOpKind) String() string {
	switch k {
	case Union:
		return "Union"
	case Intersect:
		return "Intersect"
	default:
		return "Except"
	}
}

// SetOp combines two or more inputs with UNION, INTERSECT or EXCEPT. All
// retains duplicates. Inputs share a row type; the node's schema is the
// first input's.
type SetOp struct {
	Kind   SetOpKind
	All    bool
	inputs []sql.Node
}

var _ sql.Node = (*SetOp)(nil)

// NewSetOp creates a set operation over the inputs.
func NewSetOp(kind SetOpKind, all bool, inputs ...sql.Node) *SetOp {
	return &SetOp{Kind: kind, All: all, inputs: inputs}
}

// Schema implements the Node interface.
func (s *SetOp) Schema() sql.Schema { return s.inputs[0].Schema() }

// Children implements the Node interface.
func (s *SetOp) Children() []sql.Node { return s.inputs }

func (s *SetOp) String() string {
	parts := make([]string, len(s.inputs))
	for i, in := range s.inputs {
		parts[i] = in.String()
	}
	kind := s.Kind.String()
	if s.All {
		kind += "All"
	}
	return fmt.Sprintf("%s(%s)", kind, strings.Join(parts, ", "))
}
