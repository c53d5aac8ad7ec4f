package expression

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// Call applies an operator from the external catalog to operands. CASE is a
// call like any other; the translator reconstructs its syntactic form.
type Call struct {
	op   *sqlast.Operator
	args []sql.Expression
	typ  sql.Type
}

var _ sql.Expression = (*Call)(nil)

// NewCall creates a call expression.
func NewCall(op *sqlast.Operator, typ sql.Type, args ...sql.Expression) *Call {
	return &Call{op: op, args: args, typ: typ}
}

// Op returns the operator of the call.
func (c *Call) Op() *sqlast.Operator { return c.op }

// Kind returns the operator kind of the call.
func (c *Call) Kind() sqlast.Kind { return c.op.Kind }

// Type implements the Expression interface.
func (c *Call) Type() sql.Type { return c.typ }

// Children implements the Expression interface.
func (c *Call) Children() []sql.Expression { return c.args }

func (c *Call) String() string {
	args := make([]string, len(c.args))
	for i, a := range c.args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.op.Name, strings.Join(args, ", "))
}

// IsAnalytical reports whether an expression contains a windowed call
// anywhere in its tree.
func IsAnalytical(e sql.Expression) bool {
	if _, ok := e.(*Over); ok {
		return true
	}
	for _, child := range e.Children() {
		if IsAnalytical(child) {
			return true
		}
	}
	return false
}

// InputRefs returns every field ordinal referenced anywhere in the tree of
// the expression, in traversal order.
func InputRefs(e sql.Expression) []int {
	var refs []int
	if f, ok := e.(*GetField); ok {
		refs = append(refs, f.Index())
	}
	for _, child := range e.Children() {
		refs = append(refs, InputRefs(child)...)
	}
	return refs
}
