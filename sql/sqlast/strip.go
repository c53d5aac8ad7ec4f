package sqlast

import "strings"

// TrivialAliasPrefix is the prefix of synthetic column aliases generated by
// optimizers for unnamed expressions, such as "expr$0".
const TrivialAliasPrefix = "expr$"

// IsTrivialAlias reports whether a name is a synthetic column alias.
func IsTrivialAlias(name string) bool {
	return strings.HasPrefix(strings.ToLower(name), TrivialAliasPrefix)
}

// StripTrivialAliases removes "AS expr$N" aliases from the select lists of a
// finished statement, recursing through set operations. Statements that do
// not care about field names, such as the arms of an INSERT source query,
// read better without them. It is a post-pass over the finished tree: the
// node is mutated in place.
func StripTrivialAliases(node Node) {
	switch n := node.(type) {
	case *Select:
		for i, item := range n.SelectList {
			call, ok := item.(*Call)
			if !ok || call.Op != OpAs || len(call.Operands) < 2 {
				continue
			}
			id, ok := call.Operands[1].(*Identifier)
			if ok && id.IsSimple() && IsTrivialAlias(id.Simple()) {
				n.SelectList[i] = call.Operands[0]
			}
		}
	case *Call:
		if n.Op.IsSetOp() {
			for _, operand := range n.Operands {
				StripTrivialAliases(operand)
			}
		}
	}
}
