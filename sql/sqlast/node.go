// Package sqlast defines the SQL abstract syntax tree produced by
// translation. It is structurally close to SQL grammar and deliberately
// independent of any SQL parser: translation builds these nodes fresh and a
// writer or formatter serializes them.
package sqlast

// Node is a node of the output SQL tree.
type Node interface {
	sqlNode()
}

// Identifier is a possibly-qualified name, such as "t.c" or "*".
type Identifier struct {
	Names []string
}

// NewIdentifier creates an identifier from its name parts.
func NewIdentifier(names ...string) *Identifier {
	return &Identifier{Names: names}
}

// StarIdentifier is the "*" select item.
func StarIdentifier() *Identifier {
	return &Identifier{Names: []string{"*"}}
}

// IsSimple reports whether the identifier has a single name part.
func (i *Identifier) IsSimple() bool { return len(i.Names) == 1 }

// Simple returns the only name part of a simple identifier.
func (i *Identifier) Simple() string { return i.Names[0] }

// IsStar reports whether the identifier is "*".
func (i *Identifier) IsStar() bool {
	return len(i.Names) == 1 && i.Names[0] == "*"
}

// LiteralKind tags a SQL literal.
type LiteralKind byte

const (
	CharString LiteralKind = iota
	ExactNumeric
	ApproxNumeric
	BooleanLiteral
	NullLiteral
	IntervalLiteral
	DateLiteral
	TimeLiteral
	TimestampLiteral
	SymbolLiteral
)

// Literal is a SQL literal. Text carries the canonical rendering of the
// value; numeric literals keep their exact decimal text rather than a float
// round-trip.
type Literal struct {
	Kind LiteralKind
	Text string
	// Negative is the sign of an interval literal.
	Negative bool
	// Qualifier is the interval qualifier, such as "DAY TO SECOND".
	Qualifier string
	// Precision of time and timestamp literals; negative when unset.
	Precision int
}

// NewCharString creates a character string literal.
func NewCharString(s string) *Literal {
	return &Literal{Kind: CharString, Text: s, Precision: -1}
}

// NewExactNumeric creates an exact numeric literal from canonical decimal
// text.
func NewExactNumeric(text string) *Literal {
	return &Literal{Kind: ExactNumeric, Text: text, Precision: -1}
}

// NewApproxNumeric creates an approximate numeric literal.
func NewApproxNumeric(text string) *Literal {
	return &Literal{Kind: ApproxNumeric, Text: text, Precision: -1}
}

// NewBoolean creates a boolean literal.
func NewBoolean(b bool) *Literal {
	text := "FALSE"
	if b {
		text = "TRUE"
	}
	return &Literal{Kind: BooleanLiteral, Text: text, Precision: -1}
}

// NewNull creates a NULL literal.
func NewNull() *Literal {
	return &Literal{Kind: NullLiteral, Text: "NULL", Precision: -1}
}

// NewInterval creates an interval literal with an explicit sign.
func NewInterval(negative bool, value, qualifier string) *Literal {
	return &Literal{Kind: IntervalLiteral, Text: value, Negative: negative, Qualifier: qualifier, Precision: -1}
}

// NewDate creates a DATE literal from canonical "yyyy-MM-dd" text.
func NewDate(text string) *Literal {
	return &Literal{Kind: DateLiteral, Text: text, Precision: -1}
}

// NewTime creates a TIME literal.
func NewTime(text string, precision int) *Literal {
	return &Literal{Kind: TimeLiteral, Text: text, Precision: precision}
}

// NewTimestamp creates a TIMESTAMP literal.
func NewTimestamp(text string, precision int) *Literal {
	return &Literal{Kind: TimestampLiteral, Text: text, Precision: precision}
}

// NewSymbol creates a symbol literal, echoed as-is.
func NewSymbol(text string) *Literal {
	return &Literal{Kind: SymbolLiteral, Text: text, Precision: -1}
}

// Call is an application of an operator to operands. Distinct marks the
// DISTINCT set quantifier of an aggregate call.
type Call struct {
	Op       *Operator
	Operands []Node
	Distinct bool
}

// NewCall creates a call node.
func NewCall(op *Operator, operands ...Node) *Call {
	return &Call{Op: op, Operands: operands}
}

// Operand returns the i-th operand.
func (c *Call) Operand(i int) Node { return c.Operands[i] }

// NodeList is an ordered list of nodes, used for select lists, IN lists and
// row constructors.
type NodeList []Node

// Select is a SELECT statement under construction. Clause slots are mutated
// in place by the translator's builder and read by the writer.
type Select struct {
	Distinct   bool
	SelectList NodeList
	From       Node
	Where      Node
	GroupBy    NodeList
	Having     Node
	Qualify    Node
	OrderBy    NodeList
	Offset     Node
	Fetch      Node
}

// JoinType is the SQL join keyword.
type JoinType byte

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
	CommaJoin
)

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER JOIN"
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case FullJoin:
		return "FULL JOIN"
	case CrossJoin:
		return "CROSS JOIN"
	case CommaJoin:
		return ","
	default:
		return "JOIN"
	}
}

// Join is a join between two FROM items.
type Join struct {
	Left  Node
	Type  JoinType
	Right Node
	// On is the join condition; nil for CROSS and comma joins.
	On Node
}

// Case is a CASE expression. Value is nil for the boolean-WHEN form.
type Case struct {
	Value Node
	Whens NodeList
	Thens NodeList
	Else  Node
}

// BoundKind tags a window frame bound.
type BoundKind byte

const (
	CurrentRow BoundKind = iota
	UnboundedPreceding
	UnboundedFollowing
	Preceding
	Following
)

// Bound is a window frame bound.
type Bound struct {
	Kind BoundKind
	// Offset is the bound offset for Preceding and Following.
	Offset Node
}

// Window is an in-line window specification for an OVER clause.
type Window struct {
	PartitionBy NodeList
	OrderBy     NodeList
	IsRows      bool
	Lower       *Bound
	Upper       *Bound
}

// DynamicParam is a "?" parameter marker.
type DynamicParam struct {
	Index int
}

func (*Identifier) sqlNode()   {}
func (*Literal) sqlNode()      {}
func (*Call) sqlNode()         {}
func (NodeList) sqlNode()      {}
func (*Select) sqlNode()       {}
func (*Join) sqlNode()         {}
func (*Case) sqlNode()         {}
func (*Window) sqlNode()       {}
func (*Bound) sqlNode()        {}
func (*DynamicParam) sqlNode() {}

// As wraps a node in "node AS alias", or "node AS alias (c1, c2, ...)" when
// field names are given.
func As(node Node, alias string, fieldNames ...string) *Call {
	operands := []Node{node, NewIdentifier(alias)}
	for _, name := range fieldNames {
		operands = append(operands, NewIdentifier(name))
	}
	return NewCall(OpAs, operands...)
}

// GetAlias returns the name a node exposes when used as a FROM item or
// select item: the alias of an AS call, the last part of an identifier, or
// "" when the node has no natural name.
func GetAlias(node Node) string {
	switch n := node.(type) {
	case *Call:
		if n.Op == OpAs && len(n.Operands) >= 2 {
			if id, ok := n.Operands[1].(*Identifier); ok && id.IsSimple() {
				return id.Simple()
			}
		}
	case *Identifier:
		if len(n.Names) > 0 {
			return n.Names[len(n.Names)-1]
		}
	}
	return ""
}
