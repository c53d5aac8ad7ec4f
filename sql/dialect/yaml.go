package dialect

import (
	"github.com/spf13/cast"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// ErrInvalidDescriptor is returned when a YAML dialect descriptor cannot be
// decoded.
var ErrInvalidDescriptor = errors.NewKind("invalid dialect descriptor: %s")

// FromYAML builds a dialect from a YAML descriptor. The descriptor starts
// from a builtin base (the "base" key, "default" when absent) and overrides
// individual capabilities. Values are coerced leniently, so quoted booleans
// and yes/no spellings work.
//
//	name: warehouse
//	base: snowflake
//	quote: '"'
//	qualify: false
//	sort_by_alias: true
func FromYAML(data []byte) (*Dialect, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ErrInvalidDescriptor.New(err)
	}

	base := "default"
	if v, ok := raw["base"]; ok {
		base = cast.ToString(v)
	}
	d, err := ByName(base)
	if err != nil {
		return nil, ErrInvalidDescriptor.New(err)
	}

	for key, v := range raw {
		switch key {
		case "base":
		case "name":
			d.Name = cast.ToString(v)
		case "quote":
			if s := cast.ToString(v); s != "" {
				d.QuoteChar = s[0]
			}
		case "qualify":
			d.SupportsQualifyClause = cast.ToBool(v)
		case "nested_aggregations":
			d.SupportsNestedAggregations = cast.ToBool(v)
		case "nested_analytics":
			d.SupportsNestedAnalyticalFunctions = cast.ToBool(v)
		case "agg_in_group_by":
			d.SupportsAggInGroupBy = cast.ToBool(v)
		case "analytics_in_aggregate":
			d.SupportsAnalyticalFunctionInAggregate = cast.ToBool(v)
		case "aggregate_filter":
			d.SupportsAggregateFunctionFilter = cast.ToBool(v)
		case "implicit_coercion":
			d.SupportsImplicitTypeCoercion = cast.ToBool(v)
		case "window_functions":
			d.SupportsWindowFunctions = cast.ToBool(v)
		case "null_ordering_clause":
			d.SupportsNullOrderingClause = cast.ToBool(v)
		case "identical_table_and_column":
			d.SupportsIdenticalTableAndColumnName = cast.ToBool(v)
		case "implicit_table_alias":
			d.HasImplicitTableAlias = cast.ToBool(v)
		case "requires_from_alias":
			d.RequiresAliasForFromItems = cast.ToBool(v)
		case "group_by_alias":
			d.GroupByAlias = cast.ToBool(v)
		case "having_alias":
			d.HavingAlias = cast.ToBool(v)
		case "sort_by_alias":
			d.SortByAlias = cast.ToBool(v)
		case "null_collation":
			switch cast.ToString(v) {
			case "high":
				d.NullCollation = NullsHigh
			case "low":
				d.NullCollation = NullsLow
			case "first":
				d.NullCollation = NullsAlwaysFirst
			case "last":
				d.NullCollation = NullsAlwaysLast
			default:
				return nil, ErrInvalidDescriptor.New("null_collation must be high, low, first or last")
			}
		default:
			return nil, ErrInvalidDescriptor.New("unknown key " + key)
		}
	}
	return d, nil
}
