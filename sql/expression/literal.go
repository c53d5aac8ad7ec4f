package expression

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// Literal is a typed constant. The value held depends on the type family:
// string for character, date, time and timestamp values (canonical text),
// decimal.Decimal or an integer type for exact numerics, float64 for
// approximate numerics, bool for booleans, IntervalValue for intervals,
// string for symbols, []*Literal for rows, *Sarg for range sets, and nil for
// NULL.
type Literal struct {
	value interface{}
	typ   sql.Type
}

var _ sql.Expression = (*Literal)(nil)

// NewLiteral creates a literal expression.
func NewLiteral(value interface{}, typ sql.Type) *Literal {
	return &Literal{value: value, typ: typ}
}

// NewNullLiteral creates a NULL literal.
func NewNullLiteral() *Literal {
	return &Literal{typ: sql.NewType(sql.Null)}
}

// Value returns the literal value.
func (l *Literal) Value() interface{} { return l.value }

// Type implements the Expression interface.
func (l *Literal) Type() sql.Type { return l.typ }

// Children implements the Expression interface.
func (*Literal) Children() []sql.Expression { return nil }

func (l *Literal) String() string {
	if l.value == nil {
		return "NULL"
	}
	if l.typ.Family() == sql.CharacterFamily {
		return fmt.Sprintf("%q", l.value)
	}
	return fmt.Sprint(l.value)
}

// IntervalValue is the payload of an interval literal: a sign and the
// canonical string of the interval value. The qualifier lives on the type.
type IntervalValue struct {
	Negative bool
	Value    string
}

func (v IntervalValue) String() string {
	sign := ""
	if v.Negative {
		sign = "-"
	}
	return sign + v.Value
}
