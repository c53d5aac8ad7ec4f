package sql

// Column is one field of a row type.
type Column struct {
	// Name of the column.
	Name string
	// Type of the column.
	Type Type
}

// Schema is the ordered row type of a node: a list of columns.
type Schema []Column

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// Contains reports whether the schema has a column with the given name.
func (s Schema) Contains(name string) bool {
	return s.IndexOf(name) >= 0
}

// IndexOf returns the ordinal of the column with the given name, or -1.
func (s Schema) IndexOf(name string) int {
	for i, c := range s {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Equals reports whether both schemas have the same columns in the same
// order.
func (s Schema) Equals(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
