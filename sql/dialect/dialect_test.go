package dialect

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/sqlast"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"default", "mysql", "postgres", "bigquery", "snowflake"} {
		d, err := ByName(name)
		require.NoError(t, err)
		require.Equal(t, name, d.Name)
	}

	_, err := ByName("oracle12c")
	require.Error(t, err)
	require.True(t, ErrUnknownDialect.Is(err))
}

func TestDefaultNullDirection(t *testing.T) {
	tests := []struct {
		collation NullCollation
		desc      bool
		want      expression.NullOrdering
	}{
		{NullsHigh, false, expression.NullsLast},
		{NullsHigh, true, expression.NullsFirst},
		{NullsLow, false, expression.NullsFirst},
		{NullsLow, true, expression.NullsLast},
		{NullsAlwaysFirst, true, expression.NullsFirst},
		{NullsAlwaysLast, false, expression.NullsLast},
	}
	for _, tt := range tests {
		d := &Dialect{NullCollation: tt.collation}
		require.Equal(t, tt.want, d.DefaultNullDirection(tt.desc))
	}
}

func TestEmulateNullDirection(t *testing.T) {
	require := require.New(t)
	col := sqlast.NewIdentifier("c")

	// Engines with the clause need no emulation.
	require.Nil(Postgres().EmulateNullDirection(col, true, false))

	mysql := MySQL()

	// MySQL sorts nulls low, so ascending NULLS FIRST is the default.
	require.Nil(mysql.EmulateNullDirection(col, true, false))

	node := mysql.EmulateNullDirection(col, false, false)
	require.NotNil(node)
	require.Equal("c IS NULL DESC", sqlast.WriteSQL(node))

	node = mysql.EmulateNullDirection(col, true, true)
	require.NotNil(node)
	require.Equal("c IS NULL", sqlast.WriteSQL(node))
}

func TestSubstituteOperator(t *testing.T) {
	mysql := MySQL()

	trunc := sqlast.Func("TRUNC")
	require.Equal(t, "TRUNCATE", mysql.SubstituteOperator(trunc).Name)

	upper := sqlast.Func("UPPER")
	require.Same(t, upper, mysql.SubstituteOperator(upper))

	require.Same(t, sqlast.OpSum, mysql.SubstituteOperator(sqlast.OpSum))
}

func TestDialectLiteralFallbacks(t *testing.T) {
	d := Default()
	require.Equal(t, "DATE '2024-01-15'", sqlast.WriteSQL(d.DateLiteral("2024-01-15")))
	require.Equal(t, "TIME '12:30:00'", sqlast.WriteSQL(d.TimeLiteral("12:30:00", 0)))
	require.Equal(t, "TIMESTAMP '2024-01-15 12:30:00'",
		sqlast.WriteSQL(d.TimestampLiteral("2024-01-15 12:30:00", 0)))
}

func TestFromYAML(t *testing.T) {
	require := require.New(t)

	d, err := FromYAML([]byte(`
name: warehouse
base: snowflake
quote: "'"
qualify: false
sort_by_alias: false
null_collation: low
`))
	require.NoError(err)
	require.Equal("warehouse", d.Name)
	require.Equal(byte('\''), d.QuoteChar)
	require.False(d.SupportsQualifyClause)
	require.False(d.SortByAlias)
	// Inherited from the snowflake base.
	require.True(d.SupportsNullOrderingClause)
	require.Equal(NullsLow, d.NullCollation)
}

func TestFromYAMLDefaultBase(t *testing.T) {
	d, err := FromYAML([]byte("name: custom"))
	require.NoError(t, err)
	require.Equal(t, "custom", d.Name)
	require.True(t, d.SupportsWindowFunctions)
}

func TestFromYAMLErrors(t *testing.T) {
	_, err := FromYAML([]byte("base: oracle12c"))
	require.Error(t, err)
	require.True(t, ErrInvalidDescriptor.Is(err))

	_, err = FromYAML([]byte("frobnicate: true"))
	require.Error(t, err)
	require.True(t, ErrInvalidDescriptor.Is(err))

	_, err = FromYAML([]byte("null_collation: sideways"))
	require.Error(t, err)
	require.True(t, ErrInvalidDescriptor.Is(err))

	_, err = FromYAML([]byte("name: [unclosed"))
	require.Error(t, err)
}
