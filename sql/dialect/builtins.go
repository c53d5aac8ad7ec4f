package dialect

import (
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/relsql/rel2sql/sql/sqlast"
)

// ErrUnknownDialect is returned when no builtin dialect has the given name.
var ErrUnknownDialect = errors.NewKind("unknown dialect %q")

// Default is a permissive ANSI dialect. It accepts every construct the
// translator can produce, so output stays closest to the input plan shape.
func Default() *Dialect {
	return &Dialect{
		Name:                                  "default",
		SupportsNestedAggregations:            true,
		SupportsNestedAnalyticalFunctions:     true,
		SupportsAggInGroupBy:                  true,
		SupportsAnalyticalFunctionInAggregate: true,
		SupportsAggregateFunctionFilter:       true,
		SupportsImplicitTypeCoercion:          true,
		SupportsWindowFunctions:               true,
		SupportsNullOrderingClause:            true,
		SupportsIdenticalTableAndColumnName:   true,
		HasImplicitTableAlias:                 true,
		NullCollation:                         NullsHigh,
	}
}

// MySQL targets MySQL 8. It has no FILTER, QUALIFY or NULLS FIRST/LAST and
// sorts nulls low, but its clauses may reference select-list aliases.
func MySQL() *Dialect {
	return &Dialect{
		Name:                         "mysql",
		QuoteChar:                    '`',
		SupportsImplicitTypeCoercion: true,
		SupportsWindowFunctions:      true,
		HasImplicitTableAlias:        true,
		GroupByAlias:                 true,
		HavingAlias:                  true,
		SortByAlias:                  true,
		NullCollation:                NullsLow,
		FuncSubstitutions: map[string]*sqlast.Operator{
			"TRUNC": sqlast.Func("TRUNCATE"),
		},
	}
}

// Postgres targets PostgreSQL.
func Postgres() *Dialect {
	return &Dialect{
		Name:                                "postgres",
		SupportsAggregateFunctionFilter:     true,
		SupportsWindowFunctions:             true,
		SupportsNullOrderingClause:          true,
		SupportsIdenticalTableAndColumnName: true,
		HasImplicitTableAlias:               true,
		NullCollation:                       NullsHigh,
	}
}

// BigQuery targets Google BigQuery, which supports QUALIFY and alias
// references but rejects a table and column sharing a name.
func BigQuery() *Dialect {
	return &Dialect{
		Name:                       "bigquery",
		QuoteChar:                  '`',
		SupportsQualifyClause:      true,
		SupportsWindowFunctions:    true,
		SupportsNullOrderingClause: true,
		HasImplicitTableAlias:      true,
		GroupByAlias:               true,
		HavingAlias:                true,
		SortByAlias:                true,
		NullCollation:              NullsLow,
		FuncSubstitutions: map[string]*sqlast.Operator{
			"SUBSTRING": sqlast.Func("SUBSTR"),
		},
	}
}

// Snowflake targets Snowflake.
func Snowflake() *Dialect {
	return &Dialect{
		Name:                       "snowflake",
		SupportsQualifyClause:      true,
		SupportsWindowFunctions:    true,
		SupportsNullOrderingClause: true,
		HasImplicitTableAlias:      true,
		SortByAlias:                true,
		NullCollation:              NullsHigh,
	}
}

var builtins = map[string]func() *Dialect{
	"default":   Default,
	"mysql":     MySQL,
	"postgres":  Postgres,
	"bigquery":  BigQuery,
	"snowflake": Snowflake,
}

// ByName returns a fresh copy of a builtin dialect.
func ByName(name string) (*Dialect, error) {
	f, ok := builtins[name]
	if !ok {
		return nil, ErrUnknownDialect.New(name)
	}
	return f(), nil
}
