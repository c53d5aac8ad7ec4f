package rel2sql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/dialect"
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/plan"
	"github.com/relsql/rel2sql/sql/sqlast"
)

var (
	intType     = sql.NewType(sql.Integer)
	varcharType = sql.NewType(sql.VarChar)
	boolType    = sql.NewType(sql.Boolean)
)

var empSchema = sql.Schema{
	{Name: "empno", Type: intType},
	{Name: "ename", Type: varcharType},
	{Name: "deptno", Type: intType},
}

var deptSchema = sql.Schema{
	{Name: "deptno", Type: intType},
	{Name: "dname", Type: varcharType},
}

func emp() *plan.Scan  { return plan.NewScan("emp", empSchema) }
func dept() *plan.Scan { return plan.NewScan("dept", deptSchema) }

func field(i int, name string, typ sql.Type) *expression.GetField {
	return expression.NewGetField(i, typ, name)
}

func intLit(text string) *expression.Literal {
	return expression.NewLiteral(text, intType)
}

func eq(left, right sql.Expression) *expression.Call {
	return expression.NewCall(sqlast.OpEquals, boolType, left, right)
}

func translate(t *testing.T, d *dialect.Dialect, node sql.Node) string {
	t.Helper()
	stmt, err := NewConverter(d).TranslateStatement(node)
	require.NoError(t, err)
	return sqlast.WriteSQL(stmt)
}

func TestTranslateScan(t *testing.T) {
	require.Equal(t, "SELECT * FROM emp", translate(t, dialect.Default(), emp()))
}

func TestTranslateFilter(t *testing.T) {
	node := plan.NewFilter(eq(field(0, "empno", intType), intLit("1")), emp())
	require.Equal(t, "SELECT * FROM emp WHERE empno = 1",
		translate(t, dialect.Default(), node))
}

func TestTranslateProject(t *testing.T) {
	node := plan.NewProject(
		[]sql.Expression{field(0, "empno", intType), field(1, "ename", varcharType)},
		nil,
		plan.NewFilter(eq(field(0, "empno", intType), intLit("1")), emp()),
	)
	require.Equal(t, "SELECT empno, ename FROM emp WHERE empno = 1",
		translate(t, dialect.Default(), node))
}

func TestTranslateStarProjectCollapses(t *testing.T) {
	node := plan.NewProject(
		[]sql.Expression{
			field(0, "empno", intType),
			field(1, "ename", varcharType),
			field(2, "deptno", intType),
		},
		nil, emp(),
	)
	require.Equal(t, "SELECT * FROM emp", translate(t, dialect.Default(), node))
}

func TestTranslateAggregate(t *testing.T) {
	node := plan.NewAggregate(
		[]int{2},
		[]plan.AggCall{{Op: sqlast.OpSum, Args: []int{0}, FilterArg: -1, Name: "s", Type: intType}},
		emp(),
	)
	require.Equal(t, "SELECT deptno, SUM(empno) AS s FROM emp GROUP BY deptno",
		translate(t, dialect.Default(), node))
}

func TestTranslateGrandTotal(t *testing.T) {
	node := plan.NewAggregate(
		nil,
		[]plan.AggCall{{Op: sqlast.OpCount, FilterArg: -1, Name: "c", Type: intType}},
		emp(),
	)
	require.Equal(t, "SELECT COUNT(*) AS c FROM emp",
		translate(t, dialect.Default(), node))
}

func TestTranslateHaving(t *testing.T) {
	agg := plan.NewAggregate(
		[]int{2},
		[]plan.AggCall{{Op: sqlast.OpCount, FilterArg: -1, Name: "c", Type: intType}},
		emp(),
	)
	node := plan.NewFilter(
		expression.NewCall(sqlast.OpGreaterThan, boolType, field(1, "c", intType), intLit("5")),
		agg,
	)
	require.Equal(t,
		"SELECT deptno, COUNT(*) AS c FROM emp GROUP BY deptno HAVING COUNT(*) > 5",
		translate(t, dialect.Default(), node))
}

func TestTranslateSort(t *testing.T) {
	node := plan.NewSort([]plan.SortField{{Ordinal: 0}}, emp())
	require.Equal(t, "SELECT * FROM emp ORDER BY empno",
		translate(t, dialect.Default(), node))
}

func TestTranslateSortWithLimit(t *testing.T) {
	node := plan.NewSortWithLimit(
		[]plan.SortField{{Ordinal: 0, Direction: expression.Descending}},
		intLit("1"), intLit("10"), emp(),
	)
	require.Equal(t,
		"SELECT * FROM emp ORDER BY empno DESC OFFSET 1 ROWS FETCH NEXT 10 ROWS ONLY",
		translate(t, dialect.Default(), node))
}

func TestTranslateSortOverAggregate(t *testing.T) {
	agg := plan.NewAggregate(
		[]int{2},
		[]plan.AggCall{{Op: sqlast.OpSum, Args: []int{0}, FilterArg: -1, Name: "s", Type: intType}},
		emp(),
	)
	node := plan.NewSort(
		[]plan.SortField{{Ordinal: 1, Direction: expression.Descending}}, agg)

	// Without alias-resolving ORDER BY the sort key repeats the aggregate
	// expression.
	require.Equal(t,
		"SELECT deptno, SUM(empno) AS s FROM emp GROUP BY deptno ORDER BY SUM(empno) DESC",
		translate(t, dialect.Default(), node))

	require.Equal(t,
		"SELECT deptno, SUM(empno) AS s FROM emp GROUP BY deptno ORDER BY s DESC",
		translate(t, dialect.Snowflake(), node))
}

func TestTranslateProjectAfterSortWraps(t *testing.T) {
	node := plan.NewProject(
		[]sql.Expression{field(0, "empno", intType)},
		nil,
		plan.NewSort([]plan.SortField{{Ordinal: 0}}, emp()),
	)
	require.Equal(t,
		"SELECT empno FROM (SELECT * FROM emp ORDER BY empno) AS t",
		translate(t, dialect.Default(), node))
}

func TestTranslateFilterAfterProjectWraps(t *testing.T) {
	node := plan.NewFilter(
		eq(field(0, "empno", intType), intLit("1")),
		plan.NewProject(
			[]sql.Expression{field(0, "empno", intType)}, nil, emp()),
	)
	// WHERE sorts before SELECT, so the projection must be wrapped away.
	require.Equal(t,
		"SELECT * FROM (SELECT empno FROM emp) AS emp0 WHERE empno = 1",
		translate(t, dialect.Default(), node))
}

func TestTranslateJoin(t *testing.T) {
	node := plan.NewJoin(emp(), dept(), plan.InnerJoin,
		eq(field(2, "deptno", intType), field(3, "deptno", intType)))
	require.Equal(t,
		"SELECT * FROM emp INNER JOIN dept ON emp.deptno = dept.deptno",
		translate(t, dialect.Default(), node))
}

func TestTranslateJoinReversedCondition(t *testing.T) {
	node := plan.NewJoin(emp(), dept(), plan.InnerJoin,
		eq(field(3, "deptno", intType), field(2, "deptno", intType)))
	require.Equal(t,
		"SELECT * FROM emp INNER JOIN dept ON emp.deptno = dept.deptno",
		translate(t, dialect.Default(), node))
}

func TestTranslateLeftJoin(t *testing.T) {
	node := plan.NewJoin(emp(), dept(), plan.LeftJoin,
		expression.NewCall(sqlast.OpLessThan, boolType,
			field(2, "deptno", intType), field(3, "deptno", intType)))
	require.Equal(t,
		"SELECT * FROM emp LEFT JOIN dept ON emp.deptno < dept.deptno",
		translate(t, dialect.Default(), node))
}

func TestTranslateCrossJoin(t *testing.T) {
	node := plan.NewJoin(emp(), dept(), plan.CrossJoin, nil)
	require.Equal(t, "SELECT * FROM emp CROSS JOIN dept",
		translate(t, dialect.Default(), node))
}

func TestTranslateSelfJoinAliases(t *testing.T) {
	node := plan.NewJoin(emp(), emp(), plan.InnerJoin,
		eq(field(2, "deptno", intType), field(5, "deptno", intType)))
	require.Equal(t,
		"SELECT * FROM emp INNER JOIN emp AS emp0 ON emp.deptno = emp0.deptno",
		translate(t, dialect.Default(), node))
}

func TestTranslateSetOps(t *testing.T) {
	tests := []struct {
		kind plan.SetOpKind
		all  bool
		sql  string
	}{
		{plan.Union, false, "SELECT * FROM emp UNION SELECT * FROM dept"},
		{plan.Union, true, "SELECT * FROM emp UNION ALL SELECT * FROM dept"},
		{plan.Intersect, false, "SELECT * FROM emp INTERSECT SELECT * FROM dept"},
		{plan.Except, true, "SELECT * FROM emp EXCEPT ALL SELECT * FROM dept"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			node := plan.NewSetOp(tt.kind, tt.all, emp(), dept())
			require.Equal(t, tt.sql, translate(t, dialect.Default(), node))
		})
	}
}

func TestTranslateSortOverIntersectWraps(t *testing.T) {
	setOp := plan.NewSetOp(plan.Intersect, false, emp(), dept())
	node := plan.NewSort([]plan.SortField{{Ordinal: 0}}, setOp)
	require.Equal(t,
		"SELECT * FROM (SELECT * FROM emp INTERSECT SELECT * FROM dept) AS t ORDER BY empno",
		translate(t, dialect.Default(), node))
}

func TestTranslateValues(t *testing.T) {
	schema := sql.Schema{{Name: "a", Type: intType}, {Name: "b", Type: varcharType}}
	node := plan.NewValues(schema, [][]*expression.Literal{
		{intLit("1"), expression.NewLiteral("x", varcharType)},
		{intLit("2"), expression.NewLiteral("y", varcharType)},
	})
	require.Equal(t,
		"SELECT * FROM (VALUES (1, 'x'), (2, 'y')) AS t (a, b)",
		translate(t, dialect.Default(), node))
}

func TestTranslateEmptyValues(t *testing.T) {
	schema := sql.Schema{{Name: "a", Type: intType}, {Name: "b", Type: varcharType}}
	node := plan.NewValues(schema, nil)
	require.Equal(t, "SELECT NULL AS a, NULL AS b WHERE 1 = 0",
		translate(t, dialect.Default(), node))
}

func TestTranslateAggregateFilter(t *testing.T) {
	schema := sql.Schema{
		{Name: "deptno", Type: intType},
		{Name: "big", Type: boolType},
	}
	node := plan.NewAggregate(
		[]int{0},
		[]plan.AggCall{{Op: sqlast.OpCount, FilterArg: 1, Name: "c", Type: intType}},
		plan.NewScan("t", schema),
	)

	require.Equal(t,
		"SELECT deptno, COUNT(*) FILTER (WHERE big) AS c FROM t GROUP BY deptno",
		translate(t, dialect.Postgres(), node))

	// MySQL has no FILTER clause; the filter folds into the argument.
	require.Equal(t,
		"SELECT deptno, COUNT(CASE WHEN big THEN 1 END) AS c FROM t GROUP BY deptno",
		translate(t, dialect.MySQL(), node))
}

func TestTranslateQualify(t *testing.T) {
	over := expression.NewOver(
		expression.NewCall(sqlast.RankFunc("ROW_NUMBER"), intType),
		false,
		&expression.WindowDef{
			PartitionBy: []sql.Expression{field(2, "deptno", intType)},
			OrderBy: []expression.FieldCollation{
				{Expr: field(0, "empno", intType)},
			},
		},
	)
	project := plan.NewProject(
		[]sql.Expression{field(2, "deptno", intType), over},
		[]string{"deptno", "rn"}, emp(),
	)
	node := plan.NewFilter(
		expression.NewCall(sqlast.OpLessThanOrEqual, boolType,
			field(1, "rn", intType), intLit("3")),
		project,
	)

	require.Equal(t,
		"SELECT deptno, ROW_NUMBER() OVER (PARTITION BY deptno ORDER BY empno) AS rn "+
			"FROM emp QUALIFY ROW_NUMBER() OVER (PARTITION BY deptno ORDER BY empno) <= 3",
		translate(t, dialect.BigQuery(), node))

	// Without QUALIFY the filter wraps the projection instead.
	require.Equal(t,
		"SELECT * FROM (SELECT deptno, ROW_NUMBER() OVER (PARTITION BY deptno ORDER BY empno) AS rn "+
			"FROM emp) AS emp0 WHERE rn <= 3",
		translate(t, dialect.Default(), node))
}

func TestTranslateWindowNode(t *testing.T) {
	over := expression.NewOver(
		expression.NewCall(sqlast.OpSum, intType, field(0, "empno", intType)),
		false,
		&expression.WindowDef{
			PartitionBy: []sql.Expression{field(2, "deptno", intType)},
			IsRows:      true,
			Lower:       &expression.WindowBound{Type: expression.UnboundedPreceding},
			Upper:       &expression.WindowBound{Type: expression.CurrentRow},
		},
	)
	node := plan.NewWindow(
		[]sql.Expression{field(0, "empno", intType), over},
		[]string{"empno", "total"}, emp(),
	)
	require.Equal(t,
		"SELECT empno, SUM(empno) OVER (PARTITION BY deptno "+
			"ROWS BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW) AS total FROM emp",
		translate(t, dialect.Default(), node))
}

func TestTranslateExistsSubquery(t *testing.T) {
	node := plan.NewFilter(
		expression.NewSubquery(expression.ExistsSubquery, dept(), boolType),
		emp(),
	)
	require.Equal(t, "SELECT * FROM emp WHERE EXISTS (SELECT * FROM dept)",
		translate(t, dialect.Default(), node))
}

func TestTranslateInSubquery(t *testing.T) {
	inner := plan.NewProject(
		[]sql.Expression{field(0, "deptno", intType)}, nil, dept())
	node := plan.NewFilter(
		expression.NewSubquery(expression.InSubquery, inner, boolType,
			field(2, "deptno", intType)),
		emp(),
	)
	require.Equal(t,
		"SELECT * FROM emp WHERE deptno IN (SELECT deptno FROM dept)",
		translate(t, dialect.Default(), node))
}

func TestTranslateCorrelatedSubquery(t *testing.T) {
	id := sql.CorrelationID(0)
	inner := plan.NewFilter(
		eq(
			field(0, "deptno", intType),
			expression.NewFieldAccess(
				expression.NewCorrelVar(id, empSchema), "deptno", 2, intType),
		),
		dept(),
	)
	node := plan.NewFilter(
		expression.NewSubquery(expression.ExistsSubquery, inner, boolType),
		emp(),
	)
	require.Equal(t,
		"SELECT * FROM emp WHERE EXISTS (SELECT * FROM dept WHERE deptno = emp.deptno)",
		translate(t, dialect.Default(), node))
}

func TestTranslateTableFunctionScan(t *testing.T) {
	schema := sql.Schema{{Name: "n", Type: intType}}
	call := expression.NewCall(sqlast.Func("GENERATE_SERIES"), intType,
		expression.NewLiteral("1", intType), expression.NewLiteral("10", intType))
	node := plan.NewTableFunctionScan(call, schema)
	require.Equal(t, "SELECT * FROM TABLE(GENERATE_SERIES(1, 10))",
		translate(t, dialect.Default(), node))
}

func TestTranslateUnsupportedWindowFunctions(t *testing.T) {
	d := &dialect.Dialect{Name: "nowindow", HasImplicitTableAlias: true}
	over := expression.NewOver(
		expression.NewCall(sqlast.OpSum, intType, field(0, "empno", intType)),
		false, &expression.WindowDef{})
	node := plan.NewProject([]sql.Expression{over}, []string{"s"}, emp())

	_, err := NewConverter(d).Translate(node)
	require.Error(t, err)
	require.True(t, sql.ErrUnsupportedConstruct.Is(err))
}

func TestTranslateAnonymousStripsSyntheticAliases(t *testing.T) {
	node := plan.NewProject(
		[]sql.Expression{
			expression.NewCall(sqlast.OpPlus, intType,
				field(0, "empno", intType), intLit("1")),
		},
		nil, emp(),
	)
	require.Equal(t, "SELECT empno + 1 AS expr$0 FROM emp",
		translate(t, dialect.Default(), node))

	stmt, err := NewConverter(dialect.Default(), Anonymous()).TranslateStatement(node)
	require.NoError(t, err)
	require.Equal(t, "SELECT empno + 1 FROM emp", sqlast.WriteSQL(stmt))
}

func TestTranslateNestedCorrelatedSubquery(t *testing.T) {
	id := sql.CorrelationID(0)
	bonusSchema := sql.Schema{{Name: "amount", Type: intType}}
	innermost := plan.NewFilter(
		eq(
			field(0, "amount", intType),
			expression.NewFieldAccess(
				expression.NewCorrelVar(id, empSchema), "deptno", 2, intType),
		),
		plan.NewScan("bonus", bonusSchema),
	)
	middle := plan.NewFilter(
		expression.NewSubquery(expression.ExistsSubquery, innermost, boolType),
		dept(),
	)
	node := plan.NewFilter(
		expression.NewSubquery(expression.ExistsSubquery, middle, boolType),
		emp(),
	)

	// The variable binds to the row of the query that introduced the
	// subquery, not to any scope in between.
	require.Equal(t,
		"SELECT * FROM emp WHERE EXISTS (SELECT * FROM dept WHERE EXISTS "+
			"(SELECT * FROM bonus WHERE amount = emp.deptno))",
		translate(t, dialect.Default(), node))
}

func TestTranslateDistinctAggregate(t *testing.T) {
	node := plan.NewAggregate([]int{0, 1, 2}, nil, emp())
	require.Equal(t, "SELECT DISTINCT empno, ename, deptno FROM emp",
		translate(t, dialect.Default(), node))
}

func TestTranslateTableFunctionScanWithInput(t *testing.T) {
	schema := sql.Schema{{Name: "empno", Type: intType}}
	call := expression.NewCall(sqlast.Func("DEDUP"), intType,
		field(0, "", intType))
	node := plan.NewTableFunctionScan(call, schema, emp())
	require.Equal(t,
		"SELECT * FROM TABLE(DEDUP(CURSOR(SELECT * FROM emp)))",
		translate(t, dialect.Default(), node))
}

func TestTranslateTableColumnClash(t *testing.T) {
	d := dialect.Default()
	d.SupportsIdenticalTableAndColumnName = false
	clashSchema := sql.Schema{
		{Name: "emp", Type: intType},
		{Name: "deptno", Type: intType},
	}
	node := plan.NewFilter(
		eq(field(0, "emp", intType), intLit("1")),
		plan.NewScan("emp", clashSchema),
	)
	require.Equal(t, "SELECT * FROM emp AS emp WHERE emp = 1",
		translate(t, d, node))
}

func TestTranslateTableColumnClashIsPerResult(t *testing.T) {
	clashSchema := sql.Schema{
		{Name: "emp", Type: intType},
		{Name: "deptno", Type: intType},
	}
	clash := func() *plan.Scan { return plan.NewScan("emp", clashSchema) }

	d := dialect.Default()
	d.SupportsIdenticalTableAndColumnName = false
	require.Equal(t, "SELECT * FROM emp AS emp CROSS JOIN dept",
		translate(t, d, plan.NewJoin(clash(), dept(), plan.CrossJoin, nil)))

	// Visiting the clash-free arm afterwards must not lose the alias of
	// the clashing one, and the other way round.
	d = dialect.Default()
	d.SupportsIdenticalTableAndColumnName = false
	require.Equal(t, "SELECT * FROM dept CROSS JOIN emp AS emp",
		translate(t, d, plan.NewJoin(dept(), clash(), plan.CrossJoin, nil)))
}
