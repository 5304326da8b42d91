package refschema

import "github.com/ringwatch/gostatus/internal/livestatus"

// columnRow is one entry of the self-describing "columns" meta-table: the
// name, type, and description of a column belonging to some other table.
type columnRow struct {
	table       string
	name        string
	description string
	colType     string
}

// columnsTable backs the "columns" table, enumerating every column of every
// other table in the registry. It is built once, at registry assembly time,
// from a snapshot of the other tables — it never mutates afterward, since
// the schema itself doesn't change at runtime.
type columnsTable struct {
	rows    []livestatus.Row
	columns map[string]livestatus.Column
}

func newColumnsTable(reg livestatus.Registry) *columnsTable {
	t := &columnsTable{columns: buildColumnsColumns()}
	for tableName, table := range reg {
		for _, col := range table.Columns() {
			t.rows = append(t.rows, &columnRow{
				table:       tableName,
				name:        col.Name(),
				description: col.Description(),
				colType:     col.Type().String(),
			})
		}
	}
	return t
}

func (t *columnsTable) Name() string                          { return "columns" }
func (t *columnsTable) Columns() map[string]livestatus.Column { return t.columns }
func (t *columnsTable) Rows() []livestatus.Row                { return t.rows }

func (t *columnsTable) IsAuthorized(principal string, row livestatus.Row) bool { return true }

func (t *columnsTable) FindObject(spec string) (livestatus.Row, bool) { return nil, false }

func buildColumnsColumns() map[string]livestatus.Column {
	row := func(r livestatus.Row) *columnRow { return r.(*columnRow) }
	return map[string]livestatus.Column{
		"table":       newColumn("table", "Name of the table", livestatus.TypeString, func(r livestatus.Row) interface{} { return row(r).table }),
		"name":        newColumn("name", "Name of the column within the table", livestatus.TypeString, func(r livestatus.Row) interface{} { return row(r).name }),
		"description": newColumn("description", "Description of the column", livestatus.TypeString, func(r livestatus.Row) interface{} { return row(r).description }),
		"type":        newColumn("type", "Data type of the column", livestatus.TypeString, func(r livestatus.Row) interface{} { return row(r).colType }),
	}
}
