package livestatus

import "fmt"

// dummyColumn stands in for a name requested in Columns: that the target
// table's catalog doesn't recognize. It always renders null/empty rather
// than aborting the query — spec calls for a logged warning, not a hard
// error, since livestatus clients routinely probe for columns across
// server versions.
type dummyColumn struct{ name string }

func (c *dummyColumn) Name() string                              { return c.name }
func (c *dummyColumn) Description() string                       { return "unknown column" }
func (c *dummyColumn) Type() ColumnType                           { return TypeString }
func (c *dummyColumn) ExtractValue(Row) interface{}               { return nil }
func (c *dummyColumn) ValueAsString(Row) string                   { return "" }
func (c *dummyColumn) NewFilter(RelOp, string) (ColumnFilter, error) {
	return nil, fmt.Errorf("column %s does not exist", c.name)
}

// resolveColumns maps requested names to the table's real columns,
// substituting a dummyColumn (and recording a warning) for any name the
// catalog doesn't recognize. If names is empty, every catalog column is
// returned in an unspecified order (it follows map iteration, which can
// differ from one call to the next, so callers needing determinism should request
// columns explicitly — matching real livestatus, where the "no Columns:"
// default column order is likewise implementation-defined).
func resolveColumns(table Table, names []string) (cols []Column, warnings []string) {
	catalog := table.Columns()
	if len(names) == 0 {
		for _, c := range catalog {
			cols = append(cols, c)
			names = append(names, c.Name())
		}
		return cols, nil
	}
	cols = make([]Column, len(names))
	for i, n := range names {
		if c, ok := catalog[n]; ok {
			cols[i] = c
			continue
		}
		cols[i] = &dummyColumn{name: n}
		warnings = append(warnings, fmt.Sprintf("unknown column %q in table %q, rendering as null", n, table.Name()))
	}
	return cols, warnings
}

// resolveFilterTree walks a parsed (shape-only) Filter tree, binding each
// leaf's compiled predicate against the table's column catalog. The first
// resolution error is returned immediately — Execute turns it into the
// same 400 error response a parse error produces, rather than a panic
// deep in Accepts.
func resolveFilterTree(f *Filter, catalog map[string]Column) error {
	if f == nil {
		return nil
	}
	switch f.kind {
	case filterLeaf:
		col, ok := catalog[f.ColumnName]
		if !ok {
			return fmt.Errorf("unknown filter column %q", f.ColumnName)
		}
		pred, err := col.NewFilter(f.Op, f.Literal)
		if err != nil {
			return fmt.Errorf("column %q: %w", f.ColumnName, err)
		}
		f.pred = pred
	case filterNegate:
		return resolveFilterTree(f.children[0], catalog)
	case filterVariadic:
		for _, c := range f.children {
			if err := resolveFilterTree(c, catalog); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveStats binds every StatsSpec's filter tree (count-kind) or column
// reference (agg-kind) against the table's catalog.
func resolveStats(specs []*StatsSpec, catalog map[string]Column) error {
	for _, s := range specs {
		if s.IsAgg {
			col, ok := catalog[s.Column.Name()]
			if !ok {
				return fmt.Errorf("unknown stats column %q", s.Column.Name())
			}
			s.Column = col
			continue
		}
		if err := resolveFilterTree(s.Filter, catalog); err != nil {
			return err
		}
	}
	return nil
}

// resolveGroupBy maps StatsGroupBy: names to catalog columns.
func resolveGroupBy(names []string, catalog map[string]Column) ([]Column, error) {
	cols := make([]Column, len(names))
	for i, n := range names {
		c, ok := catalog[n]
		if !ok {
			return nil, fmt.Errorf("unknown StatsGroupBy column %q", n)
		}
		cols[i] = c
	}
	return cols, nil
}
