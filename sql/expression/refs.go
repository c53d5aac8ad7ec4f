package expression

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// DynamicParam is a "?" parameter marker with a 0-based index.
type DynamicParam struct {
	index int
	typ   sql.Type
}

var _ sql.Expression = (*DynamicParam)(nil)

// NewDynamicParam creates a dynamic parameter expression.
func NewDynamicParam(index int, typ sql.Type) *DynamicParam {
	return &DynamicParam{index: index, typ: typ}
}

// Index returns the parameter index.
func (p *DynamicParam) Index() int { return p.index }

// Type implements the Expression interface.
func (p *DynamicParam) Type() sql.Type { return p.typ }

// Children implements the Expression interface.
func (*DynamicParam) Children() []sql.Expression { return nil }

func (p *DynamicParam) String() string { return fmt.Sprintf("?%d", p.index) }

// PatternFieldRef is a field reference inside a row-pattern clause,
// qualified by the alternation label it refers to.
type PatternFieldRef struct {
	index int
	alpha string
	typ   sql.Type
}

var _ sql.Expression = (*PatternFieldRef)(nil)

// NewPatternFieldRef creates a pattern field reference.
func NewPatternFieldRef(index int, alpha string, typ sql.Type) *PatternFieldRef {
	return &PatternFieldRef{index: index, alpha: alpha, typ: typ}
}

// Index returns the field ordinal.
func (p *PatternFieldRef) Index() int { return p.index }

// Alpha returns the alternation label.
func (p *PatternFieldRef) Alpha() string { return p.alpha }

// Type implements the Expression interface.
func (p *PatternFieldRef) Type() sql.Type { return p.typ }

// Children implements the Expression interface.
func (*PatternFieldRef) Children() []sql.Expression { return nil }

func (p *PatternFieldRef) String() string {
	return fmt.Sprintf("%s.$%d", p.alpha, p.index)
}

// LocalRef is an index into a shared expression list, carried together with
// that list so the reference can be resolved without extra context.
type LocalRef struct {
	index int
	exprs []sql.Expression
}

var _ sql.Expression = (*LocalRef)(nil)

// NewLocalRef creates a local reference into exprs.
func NewLocalRef(index int, exprs []sql.Expression) *LocalRef {
	return &LocalRef{index: index, exprs: exprs}
}

// Index returns the index into the shared list.
func (r *LocalRef) Index() int { return r.index }

// Resolve returns the referenced expression.
func (r *LocalRef) Resolve() (sql.Expression, error) {
	if r.exprs == nil || r.index < 0 || r.index >= len(r.exprs) {
		return nil, sql.ErrLocalRefWithoutProgram.New(r.index)
	}
	return r.exprs[r.index], nil
}

// Type implements the Expression interface.
func (r *LocalRef) Type() sql.Type {
	if r.exprs != nil && r.index >= 0 && r.index < len(r.exprs) {
		return r.exprs[r.index].Type()
	}
	return sql.NewType(sql.Any)
}

// Children implements the Expression interface.
func (*LocalRef) Children() []sql.Expression { return nil }

func (r *LocalRef) String() string { return fmt.Sprintf("$t%d", r.index) }
