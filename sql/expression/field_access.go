package expression

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// FieldAccess reads a named field of a record-valued expression, such as the
// "b" in "a.b.c". Chains of accesses nest through the Ref expression.
type FieldAccess struct {
	ref   sql.Expression
	field string
	// fieldIndex is the ordinal of the field in the referenced row type,
	// used when the root is a correlation variable.
	fieldIndex int
	typ        sql.Type
}

var _ sql.Expression = (*FieldAccess)(nil)

// NewFieldAccess creates a field access expression.
func NewFieldAccess(ref sql.Expression, field string, fieldIndex int, typ sql.Type) *FieldAccess {
	return &FieldAccess{ref: ref, field: field, fieldIndex: fieldIndex, typ: typ}
}

// Ref returns the expression whose field is accessed.
func (f *FieldAccess) Ref() sql.Expression { return f.ref }

// Field returns the accessed field name.
func (f *FieldAccess) Field() string { return f.field }

// FieldIndex returns the ordinal of the accessed field.
func (f *FieldAccess) FieldIndex() int { return f.fieldIndex }

// Type implements the Expression interface.
func (f *FieldAccess) Type() sql.Type { return f.typ }

// Children implements the Expression interface.
func (f *FieldAccess) Children() []sql.Expression { return []sql.Expression{f.ref} }

func (f *FieldAccess) String() string {
	return fmt.Sprintf("%s.%s", f.ref, f.field)
}

// CorrelVar is a reference to the row of an enclosing query, introduced by a
// correlated subquery and resolved through the translator's correlation
// table.
type CorrelVar struct {
	id     sql.CorrelationID
	schema sql.Schema
}

var _ sql.Expression = (*CorrelVar)(nil)

// NewCorrelVar creates a correlation variable.
func NewCorrelVar(id sql.CorrelationID, schema sql.Schema) *CorrelVar {
	return &CorrelVar{id: id, schema: schema}
}

// ID returns the correlation id.
func (v *CorrelVar) ID() sql.CorrelationID { return v.id }

// Schema returns the row type the variable ranges over.
func (v *CorrelVar) Schema() sql.Schema { return v.schema }

// Type implements the Expression interface.
func (v *CorrelVar) Type() sql.Type { return sql.NewType(sql.Row) }

// Children implements the Expression interface.
func (*CorrelVar) Children() []sql.Expression { return nil }

func (v *CorrelVar) String() string { return v.id.String() }
