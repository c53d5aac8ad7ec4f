package sqlast

// Kind classifies an operator for the translator's rewrites. It mirrors the
// sliver of the external operator catalog that translation needs: a display
// name, a syntax and, for a few operators, a registered inverse.
type Kind byte

const (
	KindOtherFunction Kind = iota
	KindAnd
	KindOr
	KindNot
	KindEquals
	KindNotEquals
	KindLessThan
	KindLessThanOrEqual
	KindGreaterThan
	KindGreaterThanOrEqual
	KindPlus
	KindMinus
	KindTimes
	KindDivide
	KindIn
	KindNotIn
	KindLike
	KindNotLike
	KindSimilar
	KindNotSimilar
	KindBetween
	KindIsNull
	KindIsNotNull
	KindIsTrue
	KindIsNotTrue
	KindIsFalse
	KindIsNotFalse
	KindIsDistinctFrom
	KindIsNotDistinctFrom
	KindExists
	KindScalarQuery
	KindCast
	KindAs
	KindOver
	KindFilter
	KindWithinGroup
	KindRow
	KindValues
	KindUnion
	KindUnionAll
	KindIntersect
	KindIntersectAll
	KindExcept
	KindExceptAll
	KindCase
	KindCursor
	KindDescending
	KindNullsFirst
	KindNullsLast
	KindSum
	KindSum0
	KindCount
	KindMin
	KindMax
	KindAvg
	KindCoalesce
	KindTableFunction
	KindConcat
)

// Syntax is how a call to the operator is written.
type Syntax byte

const (
	SyntaxFunction Syntax = iota
	SyntaxBinary
	SyntaxPrefix
	SyntaxPostfix
	SyntaxSpecial
)

// Operator is the unit of the operator surface the translator consumes: a
// SQL name, a syntax, a precedence for the writer, and classification flags.
type Operator struct {
	Name   string
	Kind   Kind
	Syntax Syntax
	// Prec is the binding precedence; higher binds tighter.
	Prec int
	// Aggregate marks aggregate functions.
	Aggregate bool
	// AllowsFraming marks window functions that accept a frame clause.
	AllowsFraming bool
}

// IsSetOp reports whether the operator is UNION, INTERSECT or EXCEPT.
func (o *Operator) IsSetOp() bool {
	switch o.Kind {
	case KindUnion, KindUnionAll, KindIntersect, KindIntersectAll, KindExcept, KindExceptAll:
		return true
	}
	return false
}

// IsComparison reports whether the operator is a binary comparison.
func (o *Operator) IsComparison() bool {
	switch o.Kind {
	case KindEquals, KindNotEquals, KindLessThan, KindLessThanOrEqual,
		KindGreaterThan, KindGreaterThanOrEqual, KindIsDistinctFrom, KindIsNotDistinctFrom:
		return true
	}
	return false
}

var (
	OpAnd = &Operator{Name: "AND", Kind: KindAnd, Syntax: SyntaxBinary, Prec: 6}
	OpOr  = &Operator{Name: "OR", Kind: KindOr, Syntax: SyntaxBinary, Prec: 4}
	OpNot = &Operator{Name: "NOT", Kind: KindNot, Syntax: SyntaxPrefix, Prec: 8}

	OpEquals             = &Operator{Name: "=", Kind: KindEquals, Syntax: SyntaxBinary, Prec: 10}
	OpNotEquals          = &Operator{Name: "<>", Kind: KindNotEquals, Syntax: SyntaxBinary, Prec: 10}
	OpLessThan           = &Operator{Name: "<", Kind: KindLessThan, Syntax: SyntaxBinary, Prec: 10}
	OpLessThanOrEqual    = &Operator{Name: "<=", Kind: KindLessThanOrEqual, Syntax: SyntaxBinary, Prec: 10}
	OpGreaterThan        = &Operator{Name: ">", Kind: KindGreaterThan, Syntax: SyntaxBinary, Prec: 10}
	OpGreaterThanOrEqual = &Operator{Name: ">=", Kind: KindGreaterThanOrEqual, Syntax: SyntaxBinary, Prec: 10}
	OpIsDistinctFrom     = &Operator{Name: "IS DISTINCT FROM", Kind: KindIsDistinctFrom, Syntax: SyntaxBinary, Prec: 10}
	OpIsNotDistinctFrom  = &Operator{Name: "IS NOT DISTINCT FROM", Kind: KindIsNotDistinctFrom, Syntax: SyntaxBinary, Prec: 10}

	OpPlus   = &Operator{Name: "+", Kind: KindPlus, Syntax: SyntaxBinary, Prec: 12}
	OpMinus  = &Operator{Name: "-", Kind: KindMinus, Syntax: SyntaxBinary, Prec: 12}
	OpTimes  = &Operator{Name: "*", Kind: KindTimes, Syntax: SyntaxBinary, Prec: 14}
	OpDivide = &Operator{Name: "/", Kind: KindDivide, Syntax: SyntaxBinary, Prec: 14}
	OpConcat = &Operator{Name: "||", Kind: KindConcat, Syntax: SyntaxBinary, Prec: 12}

	OpIn         = &Operator{Name: "IN", Kind: KindIn, Syntax: SyntaxSpecial, Prec: 10}
	OpNotIn      = &Operator{Name: "NOT IN", Kind: KindNotIn, Syntax: SyntaxSpecial, Prec: 10}
	OpLike       = &Operator{Name: "LIKE", Kind: KindLike, Syntax: SyntaxBinary, Prec: 10}
	OpNotLike    = &Operator{Name: "NOT LIKE", Kind: KindNotLike, Syntax: SyntaxBinary, Prec: 10}
	OpSimilar    = &Operator{Name: "SIMILAR TO", Kind: KindSimilar, Syntax: SyntaxBinary, Prec: 10}
	OpNotSimilar = &Operator{Name: "NOT SIMILAR TO", Kind: KindNotSimilar, Syntax: SyntaxBinary, Prec: 10}

	OpIsNull     = &Operator{Name: "IS NULL", Kind: KindIsNull, Syntax: SyntaxPostfix, Prec: 10}
	OpIsNotNull  = &Operator{Name: "IS NOT NULL", Kind: KindIsNotNull, Syntax: SyntaxPostfix, Prec: 10}
	OpIsTrue     = &Operator{Name: "IS TRUE", Kind: KindIsTrue, Syntax: SyntaxPostfix, Prec: 10}
	OpIsNotTrue  = &Operator{Name: "IS NOT TRUE", Kind: KindIsNotTrue, Syntax: SyntaxPostfix, Prec: 10}
	OpIsFalse    = &Operator{Name: "IS FALSE", Kind: KindIsFalse, Syntax: SyntaxPostfix, Prec: 10}
	OpIsNotFalse = &Operator{Name: "IS NOT FALSE", Kind: KindIsNotFalse, Syntax: SyntaxPostfix, Prec: 10}

	OpExists      = &Operator{Name: "EXISTS", Kind: KindExists, Syntax: SyntaxPrefix, Prec: 20}
	OpScalarQuery = &Operator{Name: "$SCALAR_QUERY", Kind: KindScalarQuery, Syntax: SyntaxSpecial, Prec: 20}

	OpCast        = &Operator{Name: "CAST", Kind: KindCast, Syntax: SyntaxSpecial, Prec: 20}
	OpAs          = &Operator{Name: "AS", Kind: KindAs, Syntax: SyntaxSpecial, Prec: 2}
	OpOver        = &Operator{Name: "OVER", Kind: KindOver, Syntax: SyntaxSpecial, Prec: 18}
	OpFilter      = &Operator{Name: "FILTER", Kind: KindFilter, Syntax: SyntaxSpecial, Prec: 18}
	OpWithinGroup = &Operator{Name: "WITHIN GROUP", Kind: KindWithinGroup, Syntax: SyntaxSpecial, Prec: 18}

	OpRow           = &Operator{Name: "ROW", Kind: KindRow, Syntax: SyntaxSpecial, Prec: 20}
	OpValues        = &Operator{Name: "VALUES", Kind: KindValues, Syntax: SyntaxSpecial, Prec: 2}
	OpTableFunction = &Operator{Name: "TABLE", Kind: KindTableFunction, Syntax: SyntaxSpecial, Prec: 20}

	OpUnion        = &Operator{Name: "UNION", Kind: KindUnion, Syntax: SyntaxBinary, Prec: 2}
	OpUnionAll     = &Operator{Name: "UNION ALL", Kind: KindUnionAll, Syntax: SyntaxBinary, Prec: 2}
	OpIntersect    = &Operator{Name: "INTERSECT", Kind: KindIntersect, Syntax: SyntaxBinary, Prec: 3}
	OpIntersectAll = &Operator{Name: "INTERSECT ALL", Kind: KindIntersectAll, Syntax: SyntaxBinary, Prec: 3}
	OpExcept       = &Operator{Name: "EXCEPT", Kind: KindExcept, Syntax: SyntaxBinary, Prec: 2}
	OpExceptAll    = &Operator{Name: "EXCEPT ALL", Kind: KindExceptAll, Syntax: SyntaxBinary, Prec: 2}

	OpCursor     = &Operator{Name: "CURSOR", Kind: KindCursor, Syntax: SyntaxFunction, Prec: 20}
	OpDescending = &Operator{Name: "DESC", Kind: KindDescending, Syntax: SyntaxPostfix, Prec: 2}
	OpNullsFirst = &Operator{Name: "NULLS FIRST", Kind: KindNullsFirst, Syntax: SyntaxPostfix, Prec: 2}
	OpNullsLast  = &Operator{Name: "NULLS LAST", Kind: KindNullsLast, Syntax: SyntaxPostfix, Prec: 2}

	OpSum      = &Operator{Name: "SUM", Kind: KindSum, Syntax: SyntaxFunction, Prec: 20, Aggregate: true, AllowsFraming: true}
	OpSum0     = &Operator{Name: "$SUM0", Kind: KindSum0, Syntax: SyntaxFunction, Prec: 20, Aggregate: true, AllowsFraming: true}
	OpCount    = &Operator{Name: "COUNT", Kind: KindCount, Syntax: SyntaxFunction, Prec: 20, Aggregate: true, AllowsFraming: true}
	OpMin      = &Operator{Name: "MIN", Kind: KindMin, Syntax: SyntaxFunction, Prec: 20, Aggregate: true, AllowsFraming: true}
	OpMax      = &Operator{Name: "MAX", Kind: KindMax, Syntax: SyntaxFunction, Prec: 20, Aggregate: true, AllowsFraming: true}
	OpAvg      = &Operator{Name: "AVG", Kind: KindAvg, Syntax: SyntaxFunction, Prec: 20, Aggregate: true, AllowsFraming: true}
	OpCoalesce = &Operator{Name: "COALESCE", Kind: KindCoalesce, Syntax: SyntaxFunction, Prec: 20}
)

// Func returns a plain function-call operator for a name that has no
// registered behavior, such as UPPER or ROW_NUMBER.
func Func(name string) *Operator {
	return &Operator{Name: name, Kind: KindOtherFunction, Syntax: SyntaxFunction, Prec: 20}
}

// AggFunc returns an aggregate function operator for the given name.
func AggFunc(name string) *Operator {
	return &Operator{Name: name, Kind: KindOtherFunction, Syntax: SyntaxFunction, Prec: 20, Aggregate: true, AllowsFraming: true}
}

// RankFunc returns a window-only function operator that rejects framing,
// such as ROW_NUMBER or RANK.
func RankFunc(name string) *Operator {
	return &Operator{Name: name, Kind: KindOtherFunction, Syntax: SyntaxFunction, Prec: 20, Aggregate: true}
}

// notInverses maps an operator kind to the operator that implements NOT
// applied to that kind.
var notInverses = map[Kind]*Operator{
	KindIn:         OpNotIn,
	KindNotIn:      OpIn,
	KindLike:       OpNotLike,
	KindNotLike:    OpLike,
	KindSimilar:    OpNotSimilar,
	KindNotSimilar: OpSimilar,
}

// NotInverse returns the registered logical inverse of an operator kind, if
// one exists. "NOT (x IN (...))" is rendered as "x NOT IN (...)" through this
// table.
func NotInverse(kind Kind) (*Operator, bool) {
	op, ok := notInverses[kind]
	return op, ok
}
