package plan

import (
	"fmt"

	"github.com/relsql/rel2sql/sql"
)

// TableFunctionScan produces rows by invoking a table-valued function,
// possibly over the rows of input nodes.
type TableFunctionScan struct {
	Call   sql.Expression
	inputs []sql.Node
	schema sql.Schema
}

var _ sql.Node = (*TableFunctionScan)(nil)

// NewTableFunctionScan creates a table function scan.
func NewTableFunctionScan(call sql.Expression, schema sql.Schema, inputs ...sql.Node) *TableFunctionScan {
	return &TableFunctionScan{Call: call, inputs: inputs, schema: schema}
}

// Schema implements the Node interface.
func (t *TableFunctionScan) Schema() sql.Schema { return t.schema }

// Children implements the Node interface.
func (t *TableFunctionScan) Children() []sql.Node { return t.inputs }

func (t *TableFunctionScan) String() string {
	return fmt.Sprintf("TableFunctionScan(%s)", t.Call)
}
