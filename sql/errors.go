package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrFieldOrdinalOutOfRange is returned when a field ordinal does not
	// fall inside the row type it is resolved against. This error is
	// indicative of a bug in the layer producing the tree.
	ErrFieldOrdinalOutOfRange = errors.NewKind("field ordinal %d out of range %v")

	// ErrClauseNotDeclared is returned when a builder clause is mutated
	// without having been declared as expected. This error is indicative
	// of a bug in the caller.
	ErrClauseNotDeclared = errors.NewKind("clause %s was not declared when the builder was created")

	// ErrUnsupportedExpression is returned when the translator hits an
	// expression kind it does not recognize.
	ErrUnsupportedExpression = errors.NewKind("unsupported expression: %s")

	// ErrUnsupportedNode is returned when the translator hits an algebra
	// node kind it does not recognize.
	ErrUnsupportedNode = errors.NewKind("unsupported node: %T")

	// ErrUnsupportedConstruct is returned when the input tree uses a
	// construct the target dialect cannot express and no rewrite exists.
	ErrUnsupportedConstruct = errors.NewKind("construct %s is not supported by dialect %s")

	// ErrSargAsLiteral is returned when a range-set literal reaches the
	// literal translator directly. Range sets are only legal as the second
	// operand of a SEARCH call.
	ErrSargAsLiteral = errors.NewKind("range set %s must be handled as part of a predicate, not as a literal")

	// ErrCorrelationNotFound is returned when a correlation variable has
	// no registered context.
	ErrCorrelationNotFound = errors.NewKind("correlation variable %s is not in scope")

	// ErrInvalidChildrenNumber is returned when a node has an unexpected
	// number of inputs. This error is indicative of a bug.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrLocalRefWithoutProgram is returned when a local reference is
	// translated without its shared expression list.
	ErrLocalRefWithoutProgram = errors.NewKind("local reference %d has no expression list")
)
