package livestatus

import (
	"fmt"
	"sort"
	"time"
)

// sortRows orders rows in place per the query's Sort: directives, applied
// left to right as tie-breakers. Columns that failed to resolve are
// skipped rather than aborting the sort.
func sortRows(rows []Row, specs []SortSpec, cols map[string]Column) {
	if len(specs) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, s := range specs {
			col := cols[s.Column]
			if col == nil {
				continue
			}
			cmp := compareValues(col.ExtractValue(rows[i]), col.ExtractValue(rows[j]))
			if cmp == 0 {
				continue
			}
			if s.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
}

// compareValues returns -1, 0, or 1 comparing two column values of the
// same runtime type. Mismatched types and unordered types (lists, dicts)
// fall back to their string representation.
func compareValues(a, b interface{}) int {
	switch va := a.(type) {
	case int:
		vb, ok := b.(int)
		if !ok {
			break
		}
		return cmpOrdered(va, vb)
	case int64:
		vb, ok := b.(int64)
		if !ok {
			break
		}
		return cmpOrdered(va, vb)
	case float64:
		vb, ok := b.(float64)
		if !ok {
			break
		}
		return cmpOrdered(va, vb)
	case string:
		vb, ok := b.(string)
		if !ok {
			break
		}
		return cmpOrdered(va, vb)
	case time.Time:
		vb, ok := b.(time.Time)
		if !ok {
			break
		}
		switch {
		case va.Before(vb):
			return -1
		case va.After(vb):
			return 1
		default:
			return 0
		}
	}
	sa := fmt.Sprintf("%v", a)
	sb := fmt.Sprintf("%v", b)
	return cmpOrdered(sa, sb)
}

func cmpOrdered[T int | int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
