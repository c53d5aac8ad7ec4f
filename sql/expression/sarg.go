package expression

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/relsql/rel2sql/sql"
)

// Range is one interval of a range set. A nil Lower or Upper bound is
// unbounded on that side. Open flags exclude the endpoint.
type Range struct {
	Lower     interface{}
	Upper     interface{}
	LowerOpen bool
	UpperOpen bool
}

// IsPoint reports whether the range holds exactly one value.
func (r Range) IsPoint() bool {
	return r.Lower != nil && r.Upper != nil &&
		!r.LowerOpen && !r.UpperOpen && ValuesEqual(r.Lower, r.Upper)
}

// IsAll reports whether the range is unbounded on both sides.
func (r Range) IsAll() bool {
	return r.Lower == nil && r.Upper == nil
}

func (r Range) String() string {
	lb, ub := "[", "]"
	if r.LowerOpen {
		lb = "("
	}
	if r.UpperOpen {
		ub = ")"
	}
	lower, upper := "-inf", "+inf"
	if r.Lower != nil {
		lower = fmt.Sprint(r.Lower)
	}
	if r.Upper != nil {
		upper = fmt.Sprint(r.Upper)
	}
	return lb + lower + ".." + upper + ub
}

// Point returns a single-value range.
func Point(v interface{}) Range {
	return Range{Lower: v, Upper: v}
}

// Sarg is a searchable argument: a union of disjoint, ordered intervals over
// one column, possibly including the null marker. It appears only as the
// second operand of a SEARCH call.
type Sarg struct {
	Ranges       []Range
	ContainsNull bool
}

// IsPoints reports whether every range holds exactly one value.
func (s *Sarg) IsPoints() bool {
	for _, r := range s.Ranges {
		if !r.IsPoint() {
			return false
		}
	}
	return len(s.Ranges) > 0
}

// PointValues returns the values of a points-only range set.
func (s *Sarg) PointValues() []interface{} {
	values := make([]interface{}, len(s.Ranges))
	for i, r := range s.Ranges {
		values[i] = r.Lower
	}
	return values
}

func (s *Sarg) String() string {
	parts := make([]string, 0, len(s.Ranges)+1)
	for _, r := range s.Ranges {
		parts = append(parts, r.String())
	}
	if s.ContainsNull {
		parts = append(parts, "null")
	}
	return "Sarg{" + strings.Join(parts, ", ") + "}"
}

// ValuesEqual compares two literal values, accounting for decimals, which
// are not comparable with ==.
func ValuesEqual(a, b interface{}) bool {
	if da, ok := a.(decimal.Decimal); ok {
		db, ok := b.(decimal.Decimal)
		return ok && da.Equal(db)
	}
	return a == b
}

// Search is a range predicate: "SEARCH(operand, sarg)". It is decomposed
// into comparisons during translation; a Sarg never renders as a literal.
type Search struct {
	operand sql.Expression
	litType sql.Type
	sarg    *Sarg
}

var _ sql.Expression = (*Search)(nil)

// NewSearch creates a range predicate over operand.
func NewSearch(operand sql.Expression, litType sql.Type, sarg *Sarg) *Search {
	return &Search{operand: operand, litType: litType, sarg: sarg}
}

// Operand returns the searched expression.
func (s *Search) Operand() sql.Expression { return s.operand }

// LiteralType returns the type used to render the range endpoints.
func (s *Search) LiteralType() sql.Type { return s.litType }

// Sarg returns the range set.
func (s *Search) Sarg() *Sarg { return s.sarg }

// Type implements the Expression interface.
func (s *Search) Type() sql.Type { return sql.NewType(sql.Boolean) }

// Children implements the Expression interface.
func (s *Search) Children() []sql.Expression { return []sql.Expression{s.operand} }

func (s *Search) String() string {
	return fmt.Sprintf("SEARCH(%s, %s)", s.operand, s.sarg)
}
