package livestatus

import "testing"

func testCatalog() map[string]Column {
	return map[string]Column{
		"name":    &constColumn{name: "name"},
		"latency": &constColumn{name: "latency"},
	}
}

type fakeTable struct {
	cols map[string]Column
	rows []Row
}

func (t *fakeTable) Name() string                          { return "fake" }
func (t *fakeTable) Columns() map[string]Column             { return t.cols }
func (t *fakeTable) Rows() []Row                            { return t.rows }
func (t *fakeTable) IsAuthorized(principal string, r Row) bool { return true }
func (t *fakeTable) FindObject(spec string) (Row, bool)     { return nil, false }

func TestResolveColumns_Explicit(t *testing.T) {
	tbl := &fakeTable{cols: testCatalog()}
	cols, warnings := resolveColumns(tbl, []string{"name", "latency"})
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if len(cols) != 2 || cols[0].Name() != "name" || cols[1].Name() != "latency" {
		t.Errorf("unexpected resolved columns: %v", cols)
	}
}

func TestResolveColumns_UnknownBecomesDummy(t *testing.T) {
	tbl := &fakeTable{cols: testCatalog()}
	cols, warnings := resolveColumns(tbl, []string{"name", "bogus"})
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if cols[1].Name() != "bogus" {
		t.Errorf("dummy column should keep the requested name")
	}
	if cols[1].ExtractValue(nil) != nil {
		t.Errorf("dummy column should always extract nil")
	}
	if _, err := cols[1].NewFilter(OpEqual, "x"); err == nil {
		t.Errorf("dummy column's NewFilter should always error")
	}
}

func TestResolveColumns_EmptyNamesReturnsFullCatalog(t *testing.T) {
	tbl := &fakeTable{cols: testCatalog()}
	cols, warnings := resolveColumns(tbl, nil)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for the default column set, got %v", warnings)
	}
	if len(cols) != len(testCatalog()) {
		t.Errorf("expected every catalog column when none were requested, got %d", len(cols))
	}
}

func TestResolveFilterTree_Leaf(t *testing.T) {
	f := &Filter{ColumnName: "name", Op: OpEqual, Literal: "web1", kind: filterLeaf}
	if err := resolveFilterTree(f, testCatalog()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.pred == nil {
		t.Errorf("expected leaf's pred to be bound after resolution")
	}
}

func TestResolveFilterTree_UnknownColumn(t *testing.T) {
	f := &Filter{ColumnName: "bogus", Op: OpEqual, Literal: "x", kind: filterLeaf}
	if err := resolveFilterTree(f, testCatalog()); err == nil {
		t.Errorf("expected error resolving an unknown filter column")
	}
}

func TestResolveFilterTree_NilIsNoop(t *testing.T) {
	if err := resolveFilterTree(nil, testCatalog()); err != nil {
		t.Errorf("resolving a nil filter tree should never error: %v", err)
	}
}

func TestResolveFilterTree_DescendsVariadicAndNegate(t *testing.T) {
	inner := &Filter{ColumnName: "name", Op: OpEqual, Literal: "web1", kind: filterLeaf}
	neg := &Filter{kind: filterNegate, children: []*Filter{inner}}
	and := &Filter{kind: filterVariadic, variadic: variadicAnd, children: []*Filter{neg}}
	if err := resolveFilterTree(and, testCatalog()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.pred == nil {
		t.Errorf("expected the nested leaf to have its pred bound")
	}
}

func TestResolveStats_CountKind(t *testing.T) {
	specs := []*StatsSpec{{Filter: &Filter{ColumnName: "name", Op: OpEqual, Literal: "web1", kind: filterLeaf}}}
	if err := resolveStats(specs, testCatalog()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if specs[0].Filter.pred == nil {
		t.Errorf("expected count-kind stats filter to be resolved")
	}
}

func TestResolveStats_AggKind(t *testing.T) {
	specs := []*StatsSpec{{IsAgg: true, Agg: AggSum, Column: &unresolvedColumn{name: "latency"}}}
	if err := resolveStats(specs, testCatalog()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if specs[0].Column.Name() != "latency" {
		t.Errorf("expected agg column to resolve to the real catalog column")
	}
	if _, ok := specs[0].Column.(*unresolvedColumn); ok {
		t.Errorf("agg column should no longer be the unresolved placeholder after resolution")
	}
}

func TestResolveStats_UnknownAggColumn(t *testing.T) {
	specs := []*StatsSpec{{IsAgg: true, Agg: AggSum, Column: &unresolvedColumn{name: "bogus"}}}
	if err := resolveStats(specs, testCatalog()); err == nil {
		t.Errorf("expected error resolving an unknown stats aggregation column")
	}
}

func TestResolveGroupBy(t *testing.T) {
	cols, err := resolveGroupBy([]string{"name"}, testCatalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != 1 || cols[0].Name() != "name" {
		t.Errorf("unexpected group-by columns: %v", cols)
	}
}

func TestResolveGroupBy_UnknownColumn(t *testing.T) {
	_, err := resolveGroupBy([]string{"bogus"}, testCatalog())
	if err == nil {
		t.Errorf("expected error for an unknown StatsGroupBy column")
	}
}
