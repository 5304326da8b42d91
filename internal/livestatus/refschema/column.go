// Package refschema is the reference Table/Column implementation the
// engine in internal/livestatus consumes: hosts, services, contacts,
// comments, downtimes, status, and the self-describing columns table, all
// backed by internal/objects and internal/downtime.
package refschema

import "github.com/ringwatch/gostatus/internal/livestatus"

// funcColumn is a Column built from a plain extraction closure — every
// concrete column in this package is one of these, differing only in
// name/type/extractor. NewFilter compiles its predicate through the
// engine's shared, type-dispatching filter compiler.
type funcColumn struct {
	name    string
	desc    string
	typ     livestatus.ColumnType
	extract func(livestatus.Row) interface{}
}

func newColumn(name, desc string, typ livestatus.ColumnType, extract func(livestatus.Row) interface{}) *funcColumn {
	return &funcColumn{name: name, desc: desc, typ: typ, extract: extract}
}

func (c *funcColumn) Name() string            { return c.name }
func (c *funcColumn) Description() string     { return c.desc }
func (c *funcColumn) Type() livestatus.ColumnType { return c.typ }

func (c *funcColumn) ExtractValue(row livestatus.Row) interface{} {
	return c.extract(row)
}

func (c *funcColumn) ValueAsString(row livestatus.Row) string {
	return livestatus.ValueAsString(c.extract(row))
}

func (c *funcColumn) NewFilter(op livestatus.RelOp, literal string) (livestatus.ColumnFilter, error) {
	return livestatus.NewTypedFilter(c.typ, op, literal, c.extract)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
