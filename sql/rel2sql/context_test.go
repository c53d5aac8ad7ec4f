package rel2sql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/dialect"
	"github.com/relsql/rel2sql/sql/sqlast"
)

func TestAliasContextResolution(t *testing.T) {
	require := require.New(t)
	conv := NewConverter(dialect.Default())
	ctx := NewAliasContext(conv, []aliasEntry{
		{alias: "e", schema: empSchema},
		{alias: "d", schema: deptSchema},
	}, false)

	require.Equal(5, ctx.FieldCount())

	// More than one entry forces qualification even when not requested.
	node, err := ctx.Field(0)
	require.NoError(err)
	require.Equal("e.empno", sqlast.WriteSQL(node))

	node, err = ctx.Field(3)
	require.NoError(err)
	require.Equal("d.deptno", sqlast.WriteSQL(node))

	node, err = ctx.Field(4)
	require.NoError(err)
	require.Equal("d.dname", sqlast.WriteSQL(node))

	_, err = ctx.Field(5)
	require.Error(err)
	require.True(sql.ErrFieldOrdinalOutOfRange.Is(err))
}

func TestAliasContextUnqualifiedSingleEntry(t *testing.T) {
	conv := NewConverter(dialect.Default())
	ctx := NewAliasContext(conv, []aliasEntry{{alias: "emp", schema: empSchema}}, false)

	node, err := ctx.Field(1)
	require.NoError(t, err)
	require.Equal(t, "ename", sqlast.WriteSQL(node))
}

func TestAliasContextFieldMapOverride(t *testing.T) {
	conv := NewConverter(dialect.Default())
	conv.MapField("ENAME", sqlast.NewIdentifier("x", "renamed"))
	ctx := NewAliasContext(conv, []aliasEntry{{alias: "emp", schema: empSchema}}, false)

	node, err := ctx.Field(1)
	require.NoError(t, err)
	require.Equal(t, "x.renamed", sqlast.WriteSQL(node))
}

func TestJoinContextSplit(t *testing.T) {
	require := require.New(t)
	conv := NewConverter(dialect.Default())
	left := NewAliasContext(conv, []aliasEntry{{alias: "e", schema: empSchema}}, true)
	right := NewAliasContext(conv, []aliasEntry{{alias: "d", schema: deptSchema}}, true)
	ctx := NewJoinContext(left, right)

	require.Equal(5, ctx.FieldCount())

	node, err := ctx.Field(2)
	require.NoError(err)
	require.Equal("e.deptno", sqlast.WriteSQL(node))

	node, err = ctx.Field(3)
	require.NoError(err)
	require.Equal("d.deptno", sqlast.WriteSQL(node))
}

func TestSelectListContextAliasRef(t *testing.T) {
	sel := &sqlast.Select{SelectList: sqlast.NodeList{
		sqlast.NewIdentifier("deptno"),
		sqlast.As(sqlast.NewCall(sqlast.OpSum, sqlast.NewIdentifier("sal")), "total"),
	}}

	byExpr := &selectListContext{sel: sel}
	node, err := byExpr.Field(1)
	require.NoError(t, err)
	require.Equal(t, "SUM(sal)", sqlast.WriteSQL(node))

	byAlias := &selectListContext{sel: sel, aliasRef: true}
	node, err = byAlias.Field(1)
	require.NoError(t, err)
	require.Equal(t, "total", sqlast.WriteSQL(node))
}

func TestSelectListContextOrderFieldCollision(t *testing.T) {
	// Ordering by the plain column "deptno" would resolve against the
	// unrelated alias of the first item, so the ordinal wins.
	sel := &sqlast.Select{SelectList: sqlast.NodeList{
		sqlast.As(sqlast.NewIdentifier("empno"), "deptno"),
		sqlast.NewIdentifier("deptno"),
	}}
	ctx := &selectListContext{sel: sel}

	node, err := ctx.orderField(1)
	require.NoError(t, err)
	require.Equal(t, "2", sqlast.WriteSQL(node))

	node, err = ctx.orderField(0)
	require.NoError(t, err)
	require.Equal(t, "empno", sqlast.WriteSQL(node))
}

func TestClauseSetMax(t *testing.T) {
	s := newClauseSet(ClauseFrom, ClauseWhere, ClauseGroupBy)
	require.Equal(t, ClauseGroupBy, s.max())
	require.True(t, s.has(ClauseWhere))
	require.False(t, s.has(ClauseOrderBy))
	require.Equal(t, "{FROM, WHERE, GROUP BY}", s.String())
	require.True(t, newClauseSet().isEmpty())
}
