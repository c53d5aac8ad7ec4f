package plan

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// Scan reads all rows of a named table.
type Scan struct {
	name   string
	schema sql.Schema
}

var _ sql.Node = (*Scan)(nil)
var _ sql.Tableable = (*Scan)(nil)

// NewScan creates a table scan node.
func NewScan(name string, schema sql.Schema) *Scan {
	return &Scan{name: name, schema: schema}
}

// TableName implements the Tableable interface.
func (s *Scan) TableName() string { return s.name }

// Schema implements the Node interface.
func (s *Scan) Schema() sql.Schema { return s.schema }

// Children implements the Node interface.
func (*Scan) Children() []sql.Node { return nil }

func (s *Scan) String() string { return fmt.Sprintf("Scan(%s)", s.name) }
