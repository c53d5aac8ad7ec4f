// Package expression defines the scalar expression nodes that appear inside
// algebra nodes. Expressions are immutable inputs to translation.
package expression

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// GetField is a reference to a field of the input row by 0-based ordinal.
type GetField struct {
	fieldIndex int
	fieldType  sql.Type
	name       string
}

var _ sql.Expression = (*GetField)(nil)

// NewGetField creates a GetField expression.
func NewGetField(index int, fieldType sql.Type, fieldName string) *GetField {
	return &GetField{
		fieldIndex: index,
		fieldType:  fieldType,
		name:       fieldName,
	}
}

// Index returns the field ordinal in the input row type.
func (p *GetField) Index() int { return p.fieldIndex }

// Name returns the field name, when known.
func (p *GetField) Name() string { return p.name }

// Type implements the Expression interface.
func (p *GetField) Type() sql.Type { return p.fieldType }

// Children implements the Expression interface.
func (*GetField) Children() []sql.Expression { return nil }

func (p *GetField) String() string {
	if p.name == "" {
		return fmt.Sprintf("$%d", p.fieldIndex)
	}
	return p.name
}
