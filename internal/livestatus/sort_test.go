package livestatus

import (
	"testing"
	"time"
)

func TestCompareValues_Int(t *testing.T) {
	if compareValues(1, 2) != -1 {
		t.Errorf("compareValues(1, 2) should be -1")
	}
	if compareValues(2, 1) != 1 {
		t.Errorf("compareValues(2, 1) should be 1")
	}
	if compareValues(1, 1) != 0 {
		t.Errorf("compareValues(1, 1) should be 0")
	}
}

func TestCompareValues_String(t *testing.T) {
	if compareValues("a", "b") != -1 {
		t.Errorf(`compareValues("a", "b") should be -1`)
	}
}

func TestCompareValues_Time(t *testing.T) {
	early := time.Unix(100, 0)
	late := time.Unix(200, 0)
	if compareValues(early, late) != -1 {
		t.Errorf("compareValues(early, late) should be -1")
	}
	if compareValues(late, early) != 1 {
		t.Errorf("compareValues(late, early) should be 1")
	}
	if compareValues(early, early) != 0 {
		t.Errorf("compareValues(early, early) should be 0")
	}
}

func TestCompareValues_MismatchedTypesFallBackToString(t *testing.T) {
	// "10" < "2" lexically, even though 10 > 2 numerically — confirms the
	// string fallback path is actually taken for mismatched runtime types.
	if compareValues(10, "2") != -1 {
		t.Errorf("mismatched-type compare should fall back to string comparison")
	}
}

func TestSortRows_NoSpecsIsNoop(t *testing.T) {
	rows := []Row{stubRow{"n": 2}, stubRow{"n": 1}}
	sortRows(rows, nil, nil)
	if rows[0].(stubRow)["n"] != 2 {
		t.Errorf("sortRows with no specs should leave row order untouched")
	}
}

func TestSortRows_SingleColumnAscending(t *testing.T) {
	rows := []Row{stubRow{"n": 3}, stubRow{"n": 1}, stubRow{"n": 2}}
	cols := map[string]Column{"n": &constColumn{name: "n"}}
	sortRows(rows, []SortSpec{{Column: "n"}}, cols)
	got := []int{}
	for _, r := range rows {
		got = append(got, r.(stubRow)["n"].(int))
	}
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestSortRows_Descending(t *testing.T) {
	rows := []Row{stubRow{"n": 1}, stubRow{"n": 3}, stubRow{"n": 2}}
	cols := map[string]Column{"n": &constColumn{name: "n"}}
	sortRows(rows, []SortSpec{{Column: "n", Desc: true}}, cols)
	got := []int{}
	for _, r := range rows {
		got = append(got, r.(stubRow)["n"].(int))
	}
	want := []int{3, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestSortRows_UnresolvedColumnSkipped(t *testing.T) {
	rows := []Row{stubRow{"n": 2}, stubRow{"n": 1}}
	cols := map[string]Column{}
	// No panic, no reorder — an unresolved sort column is simply ignored.
	sortRows(rows, []SortSpec{{Column: "missing"}}, cols)
	if rows[0].(stubRow)["n"] != 2 {
		t.Errorf("rows should be unchanged when the sort column can't resolve")
	}
}

func TestSortRows_TieBreaker(t *testing.T) {
	rows := []Row{
		stubRow{"a": 1, "b": 2},
		stubRow{"a": 1, "b": 1},
	}
	cols := map[string]Column{"a": &constColumn{name: "a"}, "b": &constColumn{name: "b"}}
	sortRows(rows, []SortSpec{{Column: "a"}, {Column: "b"}}, cols)
	if rows[0].(stubRow)["b"] != 1 {
		t.Errorf("expected row with b=1 to sort first as tie-breaker, got %v", rows)
	}
}
