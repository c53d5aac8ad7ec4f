package rel2sql

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// Context resolves a 0-based output-column ordinal of an algebra node to a
// SQL expression valid in the SELECT under construction. Contexts are
// read-only views; they are never mutated after construction.
type Context interface {
	// Field returns the SQL expression for the given ordinal. An ordinal
	// outside the row type is a bug in the layer producing the tree.
	Field(ordinal int) (sqlast.Node, error)
	// FieldCount returns the number of fields the context resolves.
	FieldCount() int
}

// aliasEntry is one FROM item: the alias it is known by and its row type.
// Entries are kept in FROM order; the order is significant.
type aliasEntry struct {
	alias  string
	schema sql.Schema
}

// AliasContext qualifies field references with the table alias they belong
// to, scanning the FROM items in order and subtracting field counts until
// the owning alias is found.
type AliasContext struct {
	conv      *Converter
	entries   []aliasEntry
	qualified bool
}

var _ Context = (*AliasContext)(nil)

// NewAliasContext creates a context over the given FROM entries. When
// qualified is set, or more than one entry is present, fields render as
// "alias.name".
func NewAliasContext(conv *Converter, entries []aliasEntry, qualified bool) *AliasContext {
	return &AliasContext{conv: conv, entries: entries, qualified: qualified}
}

// Field implements the Context interface.
func (c *AliasContext) Field(ordinal int) (sqlast.Node, error) {
	i := ordinal
	for _, entry := range c.entries {
		if i < len(entry.schema) {
			name := entry.schema[i].Name
			if mapped, ok := c.conv.fieldMap[strings.ToLower(name)]; ok {
				return mapped, nil
			}
			if c.qualified || len(c.entries) > 1 {
				return sqlast.NewIdentifier(entry.alias, name), nil
			}
			return sqlast.NewIdentifier(name), nil
		}
		i -= len(entry.schema)
	}
	return nil, sql.ErrFieldOrdinalOutOfRange.New(ordinal, c.describe())
}

// FieldCount implements the Context interface.
func (c *AliasContext) FieldCount() int {
	count := 0
	for _, entry := range c.entries {
		count += len(entry.schema)
	}
	return count
}

func (c *AliasContext) describe() string {
	aliases := make([]string, len(c.entries))
	for i, e := range c.entries {
		aliases[i] = fmt.Sprintf("%s(%d)", e.alias, len(e.schema))
	}
	return "[" + strings.Join(aliases, ", ") + "]"
}

// JoinContext resolves fields of a join condition: ordinals below the left
// field count resolve through the left context, the rest through the right
// context with the left field count subtracted. This models the convention
// that a join's row type is the left row type followed by the right one.
type JoinContext struct {
	left  Context
	right Context
}

var _ Context = (*JoinContext)(nil)

// NewJoinContext creates a join condition context.
func NewJoinContext(left, right Context) *JoinContext {
	return &JoinContext{left: left, right: right}
}

// Field implements the Context interface.
func (c *JoinContext) Field(ordinal int) (sqlast.Node, error) {
	if ordinal < c.left.FieldCount() {
		return c.left.Field(ordinal)
	}
	return c.right.Field(ordinal - c.left.FieldCount())
}

// FieldCount implements the Context interface.
func (c *JoinContext) FieldCount() int {
	return c.left.FieldCount() + c.right.FieldCount()
}

// TableFunctionScanContext resolves fields positionally into the SQL nodes
// already produced for the inputs of a table function.
type TableFunctionScanContext struct {
	inputs []sqlast.Node
}

var _ Context = (*TableFunctionScanContext)(nil)

// NewTableFunctionScanContext creates a positional context.
func NewTableFunctionScanContext(inputs []sqlast.Node) *TableFunctionScanContext {
	return &TableFunctionScanContext{inputs: inputs}
}

// Field implements the Context interface.
func (c *TableFunctionScanContext) Field(ordinal int) (sqlast.Node, error) {
	if ordinal < 0 || ordinal >= len(c.inputs) {
		return nil, sql.ErrFieldOrdinalOutOfRange.New(ordinal, len(c.inputs))
	}
	return c.inputs[ordinal], nil
}

// FieldCount implements the Context interface.
func (c *TableFunctionScanContext) FieldCount() int { return len(c.inputs) }

// MatchRecognizeContext resolves fields like an AliasContext, but character
// literals reaching the expression translator under it become pattern
// variable identifiers instead of string literals.
type MatchRecognizeContext struct {
	*AliasContext
}

var _ Context = (*MatchRecognizeContext)(nil)

// NewMatchRecognizeContext wraps an alias context for row-pattern clauses.
func NewMatchRecognizeContext(inner *AliasContext) *MatchRecognizeContext {
	return &MatchRecognizeContext{AliasContext: inner}
}

// selectListContext resolves fields through the select list of the SELECT
// under construction, used once a select list has been fixed and a later
// clause (ORDER BY, HAVING, GROUP BY) needs to reference its columns.
type selectListContext struct {
	sel *sqlast.Select
	// aliasRef makes "expr AS alias" items resolve to the alias rather
	// than the expression, for dialects whose HAVING or ORDER BY resolves
	// select-list aliases.
	aliasRef bool
}

var _ Context = (*selectListContext)(nil)

// Field implements the Context interface.
func (c *selectListContext) Field(ordinal int) (sqlast.Node, error) {
	if ordinal < 0 || ordinal >= len(c.sel.SelectList) {
		return nil, sql.ErrFieldOrdinalOutOfRange.New(ordinal, len(c.sel.SelectList))
	}
	item := c.sel.SelectList[ordinal]
	if call, ok := item.(*sqlast.Call); ok && call.Op == sqlast.OpAs {
		if c.aliasRef {
			return call.Operands[1], nil
		}
		return call.Operands[0], nil
	}
	return item, nil
}

// FieldCount implements the Context interface.
func (c *selectListContext) FieldCount() int { return len(c.sel.SelectList) }

// orderField resolves an ORDER BY reference. When the natural identifier
// would collide with a different select item's alias, it falls back to a
// 1-based ordinal so the ordering stays unambiguous.
func (c *selectListContext) orderField(ordinal int) (sqlast.Node, error) {
	node, err := c.Field(ordinal)
	if err != nil {
		return nil, err
	}
	id, ok := node.(*sqlast.Identifier)
	if !ok || !id.IsSimple() {
		return node, nil
	}
	name := id.Simple()
	for i, item := range c.sel.SelectList {
		if i == ordinal {
			continue
		}
		if strings.EqualFold(name, sqlast.GetAlias(item)) {
			return sqlast.NewExactNumeric(fmt.Sprintf("%d", ordinal+1)), nil
		}
	}
	return node, nil
}
