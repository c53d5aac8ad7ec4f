package sqlast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteLiterals(t *testing.T) {
	tests := []struct {
		node Node
		sql  string
	}{
		{NewCharString("it's"), "'it''s'"},
		{NewExactNumeric("42"), "42"},
		{NewApproxNumeric("3.14"), "3.14"},
		{NewBoolean(true), "TRUE"},
		{NewBoolean(false), "FALSE"},
		{NewNull(), "NULL"},
		{NewInterval(false, "3", "DAY"), "INTERVAL '3' DAY"},
		{NewInterval(true, "1:30", "HOUR TO MINUTE"), "INTERVAL -'1:30' HOUR TO MINUTE"},
		{NewDate("2024-01-15"), "DATE '2024-01-15'"},
		{NewTime("12:00:00", 0), "TIME '12:00:00'"},
		{NewTimestamp("2024-01-15 12:00:00", 0), "TIMESTAMP '2024-01-15 12:00:00'"},
		{NewSymbol("YEAR"), "YEAR"},
		{&DynamicParam{}, "?"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.sql, WriteSQL(tt.node))
	}
}

func TestWriteIdentifierQuoting(t *testing.T) {
	require.Equal(t, "emp.deptno", WriteSQL(NewIdentifier("emp", "deptno")))
	require.Equal(t, `"select"."my col"`, WriteSQL(NewIdentifier("select", "my col")))
	require.Equal(t, `"order"`, WriteSQL(NewIdentifier("order")))
	require.Equal(t, "deptno", WriteSQL(NewIdentifier("deptno")))

	w := &Writer{Quote: '`'}
	require.Equal(t, "`my col`", w.Write(NewIdentifier("my col")))
	require.Equal(t, "`it``s`", w.Write(NewIdentifier("it`s")))

	always := &Writer{AlwaysQuote: true}
	require.Equal(t, `"emp"."deptno"`, always.Write(NewIdentifier("emp", "deptno")))
	require.Equal(t, "*", WriteSQL(StarIdentifier()))
}

func TestWritePrecedence(t *testing.T) {
	// (a + b) * c keeps its parentheses; a + b * c needs none.
	sum := NewCall(OpPlus, NewIdentifier("a"), NewIdentifier("b"))
	require.Equal(t, "(a + b) * c",
		WriteSQL(NewCall(OpTimes, sum, NewIdentifier("c"))))

	product := NewCall(OpTimes, NewIdentifier("b"), NewIdentifier("c"))
	require.Equal(t, "a + b * c",
		WriteSQL(NewCall(OpPlus, NewIdentifier("a"), product)))

	or := NewCall(OpOr, NewIdentifier("p"), NewIdentifier("q"))
	require.Equal(t, "(p OR q) AND r",
		WriteSQL(NewCall(OpAnd, or, NewIdentifier("r"))))
}

func TestWriteSpecialCalls(t *testing.T) {
	col := NewIdentifier("deptno")

	in := NewCall(OpIn, col, NodeList{NewExactNumeric("1"), NewExactNumeric("2")})
	require.Equal(t, "deptno IN (1, 2)", WriteSQL(in))

	cast := NewCall(OpCast, NewCharString("10"), NewSymbol("INTEGER"))
	require.Equal(t, "CAST('10' AS INTEGER)", WriteSQL(cast))

	count := NewCall(OpCount, StarIdentifier())
	filter := NewCall(OpFilter, count, NewIdentifier("big"))
	require.Equal(t, "COUNT(*) FILTER (WHERE big)", WriteSQL(filter))

	within := NewCall(OpWithinGroup, NewCall(Func("PERCENTILE_CONT"), NewApproxNumeric("0.5")),
		NodeList{NewIdentifier("sal")})
	require.Equal(t, "PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY sal)", WriteSQL(within))

	distinct := NewCall(OpCount, col)
	distinct.Distinct = true
	require.Equal(t, "COUNT(DISTINCT deptno)", WriteSQL(distinct))
}

func TestWriteSelect(t *testing.T) {
	sel := &Select{
		SelectList: NodeList{
			NewIdentifier("deptno"),
			As(NewCall(OpSum, NewIdentifier("sal")), "total"),
		},
		From:    NewIdentifier("emp"),
		Where:   NewCall(OpGreaterThan, NewIdentifier("empno"), NewExactNumeric("10")),
		GroupBy: NodeList{NewIdentifier("deptno")},
		Having:  NewCall(OpGreaterThan, NewCall(OpSum, NewIdentifier("sal")), NewExactNumeric("100")),
		OrderBy: NodeList{NewCall(OpDescending, NewIdentifier("total"))},
		Offset:  NewExactNumeric("5"),
		Fetch:   NewExactNumeric("10"),
	}
	require.Equal(t,
		"SELECT deptno, SUM(sal) AS total FROM emp WHERE empno > 10 "+
			"GROUP BY deptno HAVING SUM(sal) > 100 ORDER BY total DESC "+
			"OFFSET 5 ROWS FETCH NEXT 10 ROWS ONLY",
		WriteSQL(sel))
}

func TestWriteEmptySelectListIsStar(t *testing.T) {
	require.Equal(t, "SELECT * FROM emp",
		WriteSQL(&Select{From: NewIdentifier("emp")}))
}

func TestWriteJoins(t *testing.T) {
	join := &Join{
		Left:  NewIdentifier("emp"),
		Type:  LeftJoin,
		Right: NewIdentifier("dept"),
		On:    NewCall(OpEquals, NewIdentifier("emp", "deptno"), NewIdentifier("dept", "deptno")),
	}
	require.Equal(t, "emp LEFT JOIN dept ON emp.deptno = dept.deptno", WriteSQL(join))

	comma := &Join{Left: NewIdentifier("a"), Type: CommaJoin, Right: NewIdentifier("b")}
	require.Equal(t, "a, b", WriteSQL(comma))
}

func TestWriteCase(t *testing.T) {
	boolean := &Case{
		Whens: NodeList{NewCall(OpEquals, NewIdentifier("deptno"), NewExactNumeric("10"))},
		Thens: NodeList{NewCharString("sales")},
		Else:  NewCharString("other"),
	}
	require.Equal(t, "CASE WHEN deptno = 10 THEN 'sales' ELSE 'other' END", WriteSQL(boolean))

	switched := &Case{
		Value: NewIdentifier("deptno"),
		Whens: NodeList{NewExactNumeric("10")},
		Thens: NodeList{NewCharString("sales")},
	}
	require.Equal(t, "CASE deptno WHEN 10 THEN 'sales' END", WriteSQL(switched))
}

func TestWriteWindow(t *testing.T) {
	win := &Window{
		PartitionBy: NodeList{NewIdentifier("deptno")},
		OrderBy:     NodeList{NewIdentifier("empno")},
		IsRows:      true,
		Lower:       &Bound{Kind: Preceding, Offset: NewExactNumeric("3")},
		Upper:       &Bound{Kind: CurrentRow},
	}
	require.Equal(t,
		"PARTITION BY deptno ORDER BY empno ROWS BETWEEN 3 PRECEDING AND CURRENT ROW",
		WriteSQL(win))

	over := NewCall(OpOver, NewCall(OpSum, NewIdentifier("sal")), &Window{})
	require.Equal(t, "SUM(sal) OVER ()", WriteSQL(over))
}

func TestWriteSetOpGrouping(t *testing.T) {
	a := &Select{From: NewIdentifier("a")}
	b := &Select{From: NewIdentifier("b")}
	c := &Select{From: NewIdentifier("c")}

	union := NewCall(OpUnion, a, b)
	require.Equal(t, "SELECT * FROM a UNION SELECT * FROM b", WriteSQL(union))

	// A nested set operation of a different kind is parenthesized.
	mixed := NewCall(OpIntersect, NewCall(OpUnion, a, b), c)
	require.Equal(t,
		"(SELECT * FROM a UNION SELECT * FROM b) INTERSECT SELECT * FROM c",
		WriteSQL(mixed))
}

func TestWriteFromItemParenthesizes(t *testing.T) {
	inner := &Select{From: NewIdentifier("emp")}
	outer := &Select{From: As(inner, "t")}
	require.Equal(t, "SELECT * FROM (SELECT * FROM emp) AS t", WriteSQL(outer))

	values := NewCall(OpValues, NewCall(OpRow, NewExactNumeric("1")))
	withAlias := &Select{From: As(values, "v", "a")}
	require.Equal(t, "SELECT * FROM (VALUES (1)) AS v (a)", WriteSQL(withAlias))
}

func TestGetAlias(t *testing.T) {
	require.Equal(t, "t", GetAlias(As(NewIdentifier("emp"), "t")))
	require.Equal(t, "deptno", GetAlias(NewIdentifier("emp", "deptno")))
	require.Equal(t, "", GetAlias(NewExactNumeric("1")))
}

func TestStripTrivialAliases(t *testing.T) {
	sel := &Select{
		SelectList: NodeList{
			As(NewCall(OpPlus, NewIdentifier("a"), NewExactNumeric("1")), "expr$0"),
			As(NewIdentifier("b"), "total"),
		},
		From: NewIdentifier("t"),
	}
	StripTrivialAliases(sel)
	require.Equal(t, "SELECT a + 1, b AS total FROM t", WriteSQL(sel))

	union := NewCall(OpUnionAll,
		&Select{SelectList: NodeList{As(NewIdentifier("a"), "EXPR$0")}, From: NewIdentifier("t")},
		&Select{SelectList: NodeList{As(NewIdentifier("b"), "expr$0")}, From: NewIdentifier("u")},
	)
	StripTrivialAliases(union)
	require.Equal(t, "SELECT a FROM t UNION ALL SELECT b FROM u", WriteSQL(union))
}
