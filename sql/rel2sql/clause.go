// Package rel2sql turns a relational algebra tree back into a SQL syntax
// tree for a target dialect. Translation walks the tree bottom-up: every
// node asks its input's Result for a Builder, declares the clauses it wants
// to add, and either extends the input's SELECT in place or wraps it in a
// sub-query when clause ordering or a dialect limit forbids merging.
package rel2sql

import "strings"

// Clause is one syntactic section of a SELECT statement. The order of the
// constants is the evaluation order; a clause can only be added to a SELECT
// whose highest used clause comes no later.
type Clause byte

const (
	ClauseFrom Clause = iota
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseQualify
	// ClauseSelect is set only for a non-trivial select list.
	ClauseSelect
	ClauseSetOp
	ClauseOrderBy
	ClauseFetch
	ClauseOffset
)

func (c Clause) String() string {
	switch c {
	case ClauseFrom:
		return "FROM"
	case ClauseWhere:
		return "WHERE"
	case ClauseGroupBy:
		return "GROUP BY"
	case ClauseHaving:
		return "HAVING"
	case ClauseQualify:
		return "QUALIFY"
	case ClauseSelect:
		return "SELECT"
	case ClauseSetOp:
		return "SET OP"
	case ClauseOrderBy:
		return "ORDER BY"
	case ClauseFetch:
		return "FETCH"
	case ClauseOffset:
		return "OFFSET"
	default:
		return "UNKNOWN"
	}
}

// mergeable reports whether a clause may repeat on the same SELECT without
// forcing a sub-query.
func (c Clause) mergeable() bool { return c == ClauseSelect }

// clauseSet is a small set of clauses.
type clauseSet uint16

func newClauseSet(clauses ...Clause) clauseSet {
	var s clauseSet
	for _, c := range clauses {
		s |= 1 << c
	}
	return s
}

func (s clauseSet) has(c Clause) bool { return s&(1<<c) != 0 }

func (s clauseSet) isEmpty() bool { return s == 0 }

func (s clauseSet) union(other clauseSet) clauseSet { return s | other }

// max returns the highest clause in the set. The set must not be empty.
func (s clauseSet) max() Clause {
	max := ClauseFrom
	for c := ClauseFrom; c <= ClauseOffset; c++ {
		if s.has(c) {
			max = c
		}
	}
	return max
}

func (s clauseSet) String() string {
	var parts []string
	for c := ClauseFrom; c <= ClauseOffset; c++ {
		if s.has(c) {
			parts = append(parts, c.String())
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
