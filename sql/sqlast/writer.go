package sqlast

import (
	"strings"
)

// Writer produces a canonical single-line SQL string for a node. It is a
// deterministic default serialization; dialect-aware pretty-printing is the
// job of an external formatter.
type Writer struct {
	// Quote is the identifier quote character; 0 quotes with double
	// quotes when quoting is needed.
	Quote byte
	// AlwaysQuote forces quoting of every identifier part.
	AlwaysQuote bool

	sb strings.Builder
}

// WriteSQL renders a node with default settings.
func WriteSQL(node Node) string {
	w := &Writer{}
	return w.Write(node)
}

// Write renders a node to SQL text.
func (w *Writer) Write(node Node) string {
	w.sb.Reset()
	w.node(node)
	return w.sb.String()
}

func (w *Writer) write(parts ...string) {
	for _, p := range parts {
		w.sb.WriteString(p)
	}
}

func (w *Writer) node(node Node) {
	switch n := node.(type) {
	case *Identifier:
		w.identifier(n)
	case *Literal:
		w.literal(n)
	case *Call:
		w.call(n)
	case NodeList:
		w.list(n, ", ")
	case *Select:
		w.selectStmt(n)
	case *Join:
		w.join(n)
	case *Case:
		w.caseExpr(n)
	case *Window:
		w.window(n)
	case *Bound:
		w.bound(n)
	case *DynamicParam:
		w.write("?")
	case nil:
	default:
		w.write("<unknown>")
	}
}

func (w *Writer) identifier(id *Identifier) {
	for i, name := range id.Names {
		if i > 0 {
			w.write(".")
		}
		w.identPart(name)
	}
}

func (w *Writer) identPart(name string) {
	if name == "*" || (!w.AlwaysQuote && isPlainIdent(name)) {
		w.write(name)
		return
	}
	q := w.Quote
	if q == 0 {
		q = '"'
	}
	w.sb.WriteByte(q)
	for i := 0; i < len(name); i++ {
		if name[i] == q {
			w.sb.WriteByte(q)
		}
		w.sb.WriteByte(name[i])
	}
	w.sb.WriteByte(q)
}

func isPlainIdent(name string) bool {
	if name == "" {
		return false
	}
	if _, reserved := reservedWords[strings.ToUpper(name)]; reserved {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == '$':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// reservedWords are keywords an identifier part must be quoted to spell.
var reservedWords = map[string]struct{}{}

func init() {
	words := []string{
		"ALL", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST",
		"CHECK", "COLUMN", "CREATE", "CROSS", "CURRENT", "DEFAULT", "DELETE",
		"DESC", "DISTINCT", "DROP", "ELSE", "END", "EXCEPT", "EXISTS",
		"FALSE", "FETCH", "FILTER", "FOR", "FROM", "FULL", "GROUP", "HAVING",
		"IN", "INNER", "INSERT", "INTERSECT", "INTERVAL", "INTO", "IS",
		"JOIN", "LATERAL", "LEFT", "LIKE", "LIMIT", "NATURAL", "NOT", "NULL",
		"OFFSET", "ON", "OR", "ORDER", "OUTER", "OVER", "PARTITION",
		"PRIMARY", "QUALIFY", "RIGHT", "ROW", "ROWS", "SELECT", "SET",
		"TABLE", "THEN", "TRUE", "UNION", "UNIQUE", "UPDATE", "USING",
		"VALUES", "WHEN", "WHERE", "WINDOW", "WITH",
	}
	for _, word := range words {
		reservedWords[word] = struct{}{}
	}
}

func (w *Writer) literal(l *Literal) {
	switch l.Kind {
	case CharString:
		w.write("'", strings.ReplaceAll(l.Text, "'", "''"), "'")
	case ExactNumeric, ApproxNumeric, BooleanLiteral, NullLiteral, SymbolLiteral:
		w.write(l.Text)
	case IntervalLiteral:
		w.write("INTERVAL ")
		if l.Negative {
			w.write("-")
		}
		w.write("'", l.Text, "' ", l.Qualifier)
	case DateLiteral:
		w.write("DATE '", l.Text, "'")
	case TimeLiteral:
		w.write("TIME '", l.Text, "'")
	case TimestampLiteral:
		w.write("TIMESTAMP '", l.Text, "'")
	}
}

func (w *Writer) list(nodes []Node, sep string) {
	for i, n := range nodes {
		if i > 0 {
			w.write(sep)
		}
		w.node(n)
	}
}

// operand renders a call operand, parenthesizing sub-selects and calls that
// bind more loosely than the parent.
func (w *Writer) operand(node Node, parentPrec int) {
	switch n := node.(type) {
	case *Select:
		w.write("(")
		w.selectStmt(n)
		w.write(")")
		return
	case *Call:
		if n.Op.Syntax == SyntaxBinary && n.Op.Prec < parentPrec {
			w.write("(")
			w.call(n)
			w.write(")")
			return
		}
	}
	w.node(node)
}

func (w *Writer) call(c *Call) {
	op := c.Op
	switch op.Kind {
	case KindAs:
		w.fromItem(c.Operands[0])
		w.write(" AS ")
		w.node(c.Operands[1])
		if len(c.Operands) > 2 {
			w.write(" (")
			w.list(c.Operands[2:], ", ")
			w.write(")")
		}
		return
	case KindCast:
		w.write("CAST(")
		w.node(c.Operands[0])
		w.write(" AS ")
		w.node(c.Operands[1])
		w.write(")")
		return
	case KindIn, KindNotIn:
		w.operand(c.Operands[0], op.Prec)
		w.write(" ", op.Name, " (")
		w.node(c.Operands[1])
		w.write(")")
		return
	case KindScalarQuery:
		w.write("(")
		w.node(c.Operands[0])
		w.write(")")
		return
	case KindExists:
		w.write("EXISTS (")
		w.node(c.Operands[0])
		w.write(")")
		return
	case KindOver:
		w.operand(c.Operands[0], op.Prec)
		w.write(" OVER (")
		w.node(c.Operands[1])
		w.write(")")
		return
	case KindFilter:
		w.operand(c.Operands[0], op.Prec)
		w.write(" FILTER (WHERE ")
		w.node(c.Operands[1])
		w.write(")")
		return
	case KindWithinGroup:
		w.operand(c.Operands[0], op.Prec)
		w.write(" WITHIN GROUP (ORDER BY ")
		w.node(c.Operands[1])
		w.write(")")
		return
	case KindRow:
		w.write("(")
		w.list(c.Operands, ", ")
		w.write(")")
		return
	case KindValues:
		w.write("VALUES ")
		w.list(c.Operands, ", ")
		return
	case KindTableFunction:
		w.write("TABLE(")
		w.list(c.Operands, ", ")
		w.write(")")
		return
	}

	switch op.Syntax {
	case SyntaxBinary:
		for i, operand := range c.Operands {
			if i > 0 {
				w.write(" ", op.Name, " ")
			}
			if op.IsSetOp() {
				w.setOpOperand(operand, op)
			} else {
				w.operand(operand, op.Prec)
			}
		}
	case SyntaxPrefix:
		w.write(op.Name, " ")
		w.operand(c.Operands[0], op.Prec)
	case SyntaxPostfix:
		w.operand(c.Operands[0], op.Prec)
		w.write(" ", op.Name)
	default:
		w.write(op.Name, "(")
		if c.Distinct {
			w.write("DISTINCT ")
		}
		w.list(c.Operands, ", ")
		w.write(")")
	}
}

// setOpOperand renders one arm of a set operation; nested set operations of
// a different operator are parenthesized.
func (w *Writer) setOpOperand(node Node, parent *Operator) {
	if c, ok := node.(*Call); ok && c.Op.IsSetOp() && c.Op != parent {
		w.write("(")
		w.node(node)
		w.write(")")
		return
	}
	w.node(node)
}

// fromItem renders a node in FROM position, parenthesizing sub-queries.
func (w *Writer) fromItem(node Node) {
	switch n := node.(type) {
	case *Select:
		w.write("(")
		w.selectStmt(n)
		w.write(")")
	case *Call:
		if n.Op.IsSetOp() || n.Op.Kind == KindValues {
			w.write("(")
			w.call(n)
			w.write(")")
			return
		}
		w.call(n)
	default:
		w.node(node)
	}
}

func (w *Writer) selectStmt(s *Select) {
	w.write("SELECT ")
	if s.Distinct {
		w.write("DISTINCT ")
	}
	if len(s.SelectList) == 0 {
		w.write("*")
	} else {
		w.list(s.SelectList, ", ")
	}
	if s.From != nil {
		w.write(" FROM ")
		w.fromItem(s.From)
	}
	if s.Where != nil {
		w.write(" WHERE ")
		w.node(s.Where)
	}
	if len(s.GroupBy) > 0 {
		w.write(" GROUP BY ")
		w.list(s.GroupBy, ", ")
	}
	if s.Having != nil {
		w.write(" HAVING ")
		w.node(s.Having)
	}
	if s.Qualify != nil {
		w.write(" QUALIFY ")
		w.node(s.Qualify)
	}
	if len(s.OrderBy) > 0 {
		w.write(" ORDER BY ")
		w.list(s.OrderBy, ", ")
	}
	if s.Offset != nil {
		w.write(" OFFSET ")
		w.node(s.Offset)
		w.write(" ROWS")
	}
	if s.Fetch != nil {
		w.write(" FETCH NEXT ")
		w.node(s.Fetch)
		w.write(" ROWS ONLY")
	}
}

func (w *Writer) join(j *Join) {
	w.fromItem(j.Left)
	if j.Type == CommaJoin {
		w.write(", ")
	} else {
		w.write(" ", j.Type.String(), " ")
	}
	w.fromItem(j.Right)
	if j.On != nil {
		w.write(" ON ")
		w.node(j.On)
	}
}

func (w *Writer) caseExpr(c *Case) {
	w.write("CASE")
	if c.Value != nil {
		w.write(" ")
		w.node(c.Value)
	}
	for i := range c.Whens {
		w.write(" WHEN ")
		w.node(c.Whens[i])
		w.write(" THEN ")
		w.node(c.Thens[i])
	}
	if c.Else != nil {
		w.write(" ELSE ")
		w.node(c.Else)
	}
	w.write(" END")
}

func (w *Writer) window(win *Window) {
	var sections []string
	if len(win.PartitionBy) > 0 {
		sections = append(sections, "PARTITION BY "+w.renderList(win.PartitionBy))
	}
	if len(win.OrderBy) > 0 {
		sections = append(sections, "ORDER BY "+w.renderList(win.OrderBy))
	}
	if win.Lower != nil || win.Upper != nil {
		frame := "RANGE"
		if win.IsRows {
			frame = "ROWS"
		}
		switch {
		case win.Lower != nil && win.Upper != nil:
			sections = append(sections,
				frame+" BETWEEN "+w.renderNode(win.Lower)+" AND "+w.renderNode(win.Upper))
		case win.Lower != nil:
			sections = append(sections, frame+" "+w.renderNode(win.Lower))
		default:
			sections = append(sections, frame+" "+w.renderNode(win.Upper))
		}
	}
	w.write(strings.Join(sections, " "))
}

func (w *Writer) bound(b *Bound) {
	switch b.Kind {
	case CurrentRow:
		w.write("CURRENT ROW")
	case UnboundedPreceding:
		w.write("UNBOUNDED PRECEDING")
	case UnboundedFollowing:
		w.write("UNBOUNDED FOLLOWING")
	case Preceding:
		w.node(b.Offset)
		w.write(" PRECEDING")
	case Following:
		w.node(b.Offset)
		w.write(" FOLLOWING")
	}
}

// renderList renders a list into a fresh buffer, for use inside composed
// sections.
func (w *Writer) renderList(nodes []Node) string {
	sub := &Writer{Quote: w.Quote, AlwaysQuote: w.AlwaysQuote}
	sub.list(nodes, ", ")
	return sub.sb.String()
}

func (w *Writer) renderNode(node Node) string {
	sub := &Writer{Quote: w.Quote, AlwaysQuote: w.AlwaysQuote}
	sub.node(node)
	return sub.sb.String()
}
