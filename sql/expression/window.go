package expression

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// SortDirection is the order direction of a collation key.
type SortDirection byte

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// NullOrdering places nulls relative to other values in a collation key.
type NullOrdering byte

const (
	// NullsDefault leaves null placement to the dialect default.
	NullsDefault NullOrdering = iota
	NullsFirst
	NullsLast
)

// FieldCollation is one ordering key of a window or within-group clause: an
// expression plus direction and null placement.
type FieldCollation struct {
	Expr         sql.Expression
	Direction    SortDirection
	NullOrdering NullOrdering
}

// BoundType tags a window frame bound.
type BoundType byte

const (
	CurrentRow BoundType = iota
	UnboundedPreceding
	UnboundedFollowing
	Preceding
	Following
)

// WindowBound is one frame bound of a window specification.
type WindowBound struct {
	Type BoundType
	// Offset is the bound offset expression for Preceding and Following.
	Offset sql.Expression
}

// WindowDef is a window specification: partition keys, order keys and an
// optional frame.
type WindowDef struct {
	PartitionBy []sql.Expression
	OrderBy     []FieldCollation
	IsRows      bool
	Lower       *WindowBound
	Upper       *WindowBound
}

// Over is a windowed aggregate call: "agg(args) OVER (window)".
type Over struct {
	agg      *Call
	distinct bool
	window   *WindowDef
}

var _ sql.Expression = (*Over)(nil)

// NewOver creates a windowed call.
func NewOver(agg *Call, distinct bool, window *WindowDef) *Over {
	return &Over{agg: agg, distinct: distinct, window: window}
}

// Agg returns the aggregate call under the OVER.
func (o *Over) Agg() *Call { return o.agg }

// Distinct reports whether the call has the DISTINCT quantifier.
func (o *Over) Distinct() bool { return o.distinct }

// Window returns the window specification.
func (o *Over) Window() *WindowDef { return o.window }

// Type implements the Expression interface.
func (o *Over) Type() sql.Type { return o.agg.Type() }

// Children implements the Expression interface.
func (o *Over) Children() []sql.Expression { return []sql.Expression{o.agg} }

func (o *Over) String() string {
	return fmt.Sprintf("%s OVER (...)", o.agg)
}
