package plan

import (
	"fmt"
	"strings"

	"github.com/relsql/rel2sql/sql"
	"github.com/relsql/rel2sql/sql/expression"
	"github.com/relsql/rel2sql/sql/sqlast"
)

// AggCall is one aggregate invocation of an Aggregate node. Arguments and
// the optional filter predicate are ordinals into the input row type, the
// convention of the optimizers this package consumes.
type AggCall struct {
	Op       *sqlast.Operator
	Distinct bool
	Args     []int
	// FilterArg is the ordinal of a boolean input column gating the
	// aggregate ("FILTER (WHERE ...)"), or -1.
	FilterArg int
	// WithinGroup orders the input of ordered-set aggregates.
	WithinGroup []SortField
	// Name is the output column name of the call.
	Name string
	Type sql.Type
}

// Aggregate groups the input by the key ordinals and computes aggregate
// calls per group. Its row type is the group keys, in key order, followed by
// one column per call.
type Aggregate struct {
	UnaryNode
	GroupKeys []int
	Aggs      []AggCall
	schema    sql.Schema
}

var _ sql.Node = (*Aggregate)(nil)

// NewAggregate creates an aggregation node.
func NewAggregate(groupKeys []int, aggs []AggCall, child sql.Node) *Aggregate {
	childSchema := child.Schema()
	schema := make(sql.Schema, 0, len(groupKeys)+len(aggs))
	for _, key := range groupKeys {
		schema = append(schema, childSchema[key])
	}
	for i, agg := range aggs {
		name := agg.Name
		if name == "" {
			name = fmt.Sprintf("expr$%d", len(groupKeys)+i)
		}
		schema = append(schema, sql.Column{Name: name, Type: agg.Type})
	}
	return &Aggregate{
		UnaryNode: UnaryNode{Child: child},
		GroupKeys: groupKeys,
		Aggs:      aggs,
		schema:    schema,
	}
}

// Schema implements the Node interface.
func (a *Aggregate) Schema() sql.Schema { return a.schema }

// IsGrandTotal reports whether the aggregate has no grouping keys.
func (a *Aggregate) IsGrandTotal() bool { return len(a.GroupKeys) == 0 }

// ArgOrdinals returns the set of input ordinals referenced by any aggregate
// argument.
func (a *Aggregate) ArgOrdinals() map[int]struct{} {
	ordinals := make(map[int]struct{})
	for _, agg := range a.Aggs {
		for _, arg := range agg.Args {
			ordinals[arg] = struct{}{}
		}
	}
	return ordinals
}

// GroupKeyReferencesOver reports whether the input is a projection and any
// grouping key lands on a windowed projection expression.
func (a *Aggregate) GroupKeyReferencesOver() bool {
	project, ok := a.Child.(*Project)
	if !ok {
		return false
	}
	for _, key := range a.GroupKeys {
		if key < len(project.Projections) && expression.IsAnalytical(project.Projections[key]) {
			return true
		}
	}
	return false
}

func (a *Aggregate) String() string {
	keys := make([]string, len(a.GroupKeys))
	for i, k := range a.GroupKeys {
		keys[i] = fmt.Sprintf("$%d", k)
	}
	aggs := make([]string, len(a.Aggs))
	for i, agg := range a.Aggs {
		aggs[i] = agg.Op.Name
	}
	return fmt.Sprintf("Aggregate(group: %s, aggs: %s)",
		strings.Join(keys, ", "), strings.Join(aggs, ", "))
}
