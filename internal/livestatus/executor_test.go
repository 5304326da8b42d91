package livestatus

import (
	"context"
	"strings"
	"testing"
)

// wiredColumn is a Column whose NewFilter actually compiles a working
// predicate via NewTypedFilter, for tests that exercise Execute end to end
// (constColumn's NewFilter is a string-only stub, unsuitable here since
// resolveFilterTree always rebinds through the catalog column, not through
// whatever predicate a test pre-built).
type wiredColumn struct {
	name string
	typ  ColumnType
}

func (c *wiredColumn) Name() string        { return c.name }
func (c *wiredColumn) Description() string { return "" }
func (c *wiredColumn) Type() ColumnType    { return c.typ }
func (c *wiredColumn) ExtractValue(row Row) interface{} {
	return row.(stubRow)[c.name]
}
func (c *wiredColumn) ValueAsString(row Row) string {
	v := c.ExtractValue(row)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
func (c *wiredColumn) NewFilter(op RelOp, literal string) (ColumnFilter, error) {
	return NewTypedFilter(c.typ, op, literal, func(r Row) interface{} { return c.ExtractValue(r) })
}

func executorCatalog() map[string]Column {
	return map[string]Column{
		"name":  &wiredColumn{name: "name", typ: TypeString},
		"state": &wiredColumn{name: "state", typ: TypeInt},
	}
}

func executorRows() []Row {
	return []Row{
		stubRow{"name": "web1", "state": 0},
		stubRow{"name": "web2", "state": 2},
		stubRow{"name": "db1", "state": 0},
	}
}

func TestExecute_InvalidHeaderShortCircuits(t *testing.T) {
	q := &Query{Table: "hosts", InvalidHeader: "bad stuff", OutputFormat: "csv", Limit: -1}
	tbl := &fakeTable{cols: executorCatalog(), rows: executorRows()}
	out := Execute(context.Background(), q, tbl, nil, nil)
	if !strings.Contains(out, "bad stuff") {
		t.Errorf("expected the invalid-header message in the response, got %q", out)
	}
}

func TestExecute_FiltersRows(t *testing.T) {
	q, err := ParseQuery("GET hosts\nColumns: name\nFilter: state = 0\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	tbl := &fakeTable{cols: executorCatalog(), rows: executorRows()}
	out := Execute(context.Background(), q, tbl, nil, nil)
	if !strings.Contains(out, "web1") || !strings.Contains(out, "db1") {
		t.Errorf("expected web1 and db1 (state=0) in output, got %q", out)
	}
	if strings.Contains(out, "web2") {
		t.Errorf("expected web2 (state=2) to be filtered out, got %q", out)
	}
}

func TestExecute_UnknownFilterColumnErrors(t *testing.T) {
	q, err := ParseQuery("GET hosts\nFilter: bogus = 0\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	tbl := &fakeTable{cols: executorCatalog(), rows: executorRows()}
	out := Execute(context.Background(), q, tbl, nil, nil)
	if !strings.Contains(out, "bogus") {
		t.Errorf("expected an error mentioning the unknown column, got %q", out)
	}
}

func TestExecute_LimitAndOffset(t *testing.T) {
	q, err := ParseQuery("GET hosts\nColumns: name\nLimit: 1\nOffset: 1\nSort: name\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	tbl := &fakeTable{cols: executorCatalog(), rows: executorRows()}
	out := Execute(context.Background(), q, tbl, nil, nil)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly 1 row with Limit: 1, got %d: %q", len(lines), out)
	}
	if lines[0] != "web1" {
		t.Errorf("expected web1 (second alphabetically after the Offset:1), got %q", lines[0])
	}
}

func TestExecute_Stats(t *testing.T) {
	q, err := ParseQuery("GET hosts\nStats: state = 0\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	tbl := &fakeTable{cols: executorCatalog(), rows: executorRows()}
	out := Execute(context.Background(), q, tbl, nil, nil)
	if !strings.Contains(strings.TrimRight(out, "\n"), "2") {
		t.Errorf("expected a count of 2 (web1, db1 have state=0), got %q", out)
	}
}

func TestExecute_ResponseHeaderFixed16(t *testing.T) {
	q, err := ParseQuery("GET hosts\nColumns: name\nResponseHeader: fixed16\nFilter: state = 0\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	tbl := &fakeTable{cols: executorCatalog(), rows: executorRows()}
	out := Execute(context.Background(), q, tbl, nil, nil)
	if len(out) < 16 {
		t.Fatalf("expected at least a 16-byte framing header, got %q", out)
	}
	header := out[:16]
	if !strings.HasPrefix(header, "200") {
		t.Errorf("expected a 200 status in the fixed16 header, got %q", header)
	}
}

func TestExecute_AuthUserFiltersUnauthorizedRows(t *testing.T) {
	q, err := ParseQuery("GET hosts\nColumns: name\nAuthUser: someone\n")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	tbl := &authFakeTable{fakeTable: fakeTable{cols: executorCatalog(), rows: executorRows()}, allowed: "web1"}
	out := Execute(context.Background(), q, tbl, nil, nil)
	if !strings.Contains(out, "web1") {
		t.Errorf("expected web1 to remain visible, got %q", out)
	}
	if strings.Contains(out, "web2") || strings.Contains(out, "db1") {
		t.Errorf("expected only the authorized row, got %q", out)
	}
}

type authFakeTable struct {
	fakeTable
	allowed string
}

func (t *authFakeTable) IsAuthorized(principal string, row Row) bool {
	return row.(stubRow)["name"] == t.allowed
}
