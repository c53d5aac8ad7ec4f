package sql

// TypeID is the tag of a semantic type.
type TypeID byte

const (
	// Unknown is the zero TypeID.
	Unknown TypeID = iota
	Boolean
	Integer
	BigInt
	Decimal
	Float
	Double
	Char
	VarChar
	Date
	Time
	Timestamp
	// TimestampTZ is TIMESTAMP WITH LOCAL TIME ZONE.
	TimestampTZ
	IntervalYearMonth
	IntervalDayTime
	Null
	Any
	// Cursor only appears as the target type of a CAST over a column
	// reference.
	Cursor
	// Symbol is an opaque enum value, echoed as-is.
	Symbol
	Row
	// Sarg types a range-set literal. It is only legal as the second
	// operand of a SEARCH call.
	Sarg
)

// TypeFamily groups TypeIDs by literal rendering rules.
type TypeFamily byte

const (
	UnknownFamily TypeFamily = iota
	CharacterFamily
	ExactNumericFamily
	ApproxNumericFamily
	BooleanFamily
	IntervalFamily
	DateFamily
	TimeFamily
	TimestampFamily
	NullFamily
	AnyFamily
	SymbolFamily
	RowFamily
	SargFamily
	CursorFamily
)

// Type is the semantic type of a column or expression. It is a small value
// type; the full type system lives with the external catalog.
type Type struct {
	ID TypeID
	// Precision of time and timestamp types, in fractional seconds.
	Precision int
	// IntervalQualifier is the SQL qualifier of interval types, such as
	// "DAY TO SECOND".
	IntervalQualifier string
}

// NewType returns a Type with the given tag and no qualifiers.
func NewType(id TypeID) Type {
	return Type{ID: id}
}

// Family returns the rendering family of the type.
func (t Type) Family() TypeFamily {
	switch t.ID {
	case Char, VarChar:
		return CharacterFamily
	case Integer, BigInt, Decimal:
		return ExactNumericFamily
	case Float, Double:
		return ApproxNumericFamily
	case Boolean:
		return BooleanFamily
	case IntervalYearMonth, IntervalDayTime:
		return IntervalFamily
	case Date:
		return DateFamily
	case Time:
		return TimeFamily
	case Timestamp, TimestampTZ:
		return TimestampFamily
	case Null:
		return NullFamily
	case Any:
		return AnyFamily
	case Symbol:
		return SymbolFamily
	case Row:
		return RowFamily
	case Sarg:
		return SargFamily
	case Cursor:
		return CursorFamily
	default:
		return UnknownFamily
	}
}

func (t Type) String() string {
	switch t.ID {
	case Boolean:
		return "BOOLEAN"
	case Integer:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Decimal:
		return "DECIMAL"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Char:
		return "CHAR"
	case VarChar:
		return "VARCHAR"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	case TimestampTZ:
		return "TIMESTAMP WITH LOCAL TIME ZONE"
	case IntervalYearMonth:
		return "INTERVAL " + t.IntervalQualifier
	case IntervalDayTime:
		return "INTERVAL " + t.IntervalQualifier
	case Null:
		return "NULL"
	case Any:
		return "ANY"
	case Cursor:
		return "CURSOR"
	case Symbol:
		return "SYMBOL"
	case Row:
		return "ROW"
	case Sarg:
		return "SARG"
	default:
		return "UNKNOWN"
	}
}
