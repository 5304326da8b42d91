package livestatus

import (
	"fmt"
	"math"
	"strings"
)

// AggFunc names one of the numeric aggregation operators a Stats: line may
// request, distinct from the plain count-stat (a bare Filter-shaped Stats:
// line with no aggregation keyword).
type AggFunc string

const (
	AggSum      AggFunc = "sum"
	AggMin      AggFunc = "min"
	AggMax      AggFunc = "max"
	AggAvg      AggFunc = "avg"
	AggStd      AggFunc = "std"
	AggSumInv   AggFunc = "suminv"
	AggAvgInv   AggFunc = "avginv"
	AggPerfdata AggFunc = "perfdata"
)

// ParseAggFunc resolves a Stats: line's leading keyword to an AggFunc. ok is
// false when tok is not an aggregation keyword — the caller then treats the
// line as a plain count-stat (relational-operator form).
func ParseAggFunc(tok string) (AggFunc, bool) {
	switch AggFunc(tok) {
	case AggSum, AggMin, AggMax, AggAvg, AggStd, AggSumInv, AggAvgInv, AggPerfdata:
		return AggFunc(tok), true
	default:
		return "", false
	}
}

// aggregator accumulates one numeric (or perfdata) aggregation across rows
// belonging to a single group.
type aggregator interface {
	add(v float64)
	addPerfdata(m map[string]float64)
	result() interface{}
}

func newAggregator(fn AggFunc) aggregator {
	switch fn {
	case AggSum:
		return &sumAgg{}
	case AggMin:
		return &minMaxAgg{isMin: true}
	case AggMax:
		return &minMaxAgg{isMin: false}
	case AggAvg:
		return &avgAgg{}
	case AggStd:
		return &stdAgg{}
	case AggSumInv:
		return &sumInvAgg{}
	case AggAvgInv:
		return &avgInvAgg{}
	case AggPerfdata:
		return &perfdataAgg{sums: make(map[string]float64), counts: make(map[string]int)}
	default:
		return &sumAgg{}
	}
}

type sumAgg struct{ total float64 }

func (a *sumAgg) add(v float64)                  { a.total += v }
func (a *sumAgg) addPerfdata(map[string]float64) {}
func (a *sumAgg) result() interface{}             { return a.total }

type minMaxAgg struct {
	isMin bool
	val   float64
	seen  bool
}

func (a *minMaxAgg) add(v float64) {
	if !a.seen || (a.isMin && v < a.val) || (!a.isMin && v > a.val) {
		a.val, a.seen = v, true
	}
}
func (a *minMaxAgg) addPerfdata(map[string]float64) {}
func (a *minMaxAgg) result() interface{}            { return a.val }

type avgAgg struct {
	total float64
	count int
}

func (a *avgAgg) add(v float64) { a.total += v; a.count++ }
func (a *avgAgg) addPerfdata(map[string]float64) {}
func (a *avgAgg) result() interface{} {
	if a.count == 0 {
		return 0.0
	}
	return a.total / float64(a.count)
}

// stdAgg computes the standard deviation of the values seen with the n-1
// (sample) divisor: sqrt(max(0, (sum(v^2) - sum(v)^2/n) / (n-1))).
type stdAgg struct {
	sum   float64
	sumSq float64
	count int
}

func (a *stdAgg) add(v float64) {
	a.sum += v
	a.sumSq += v * v
	a.count++
}
func (a *stdAgg) addPerfdata(map[string]float64) {}
func (a *stdAgg) result() interface{} {
	if a.count < 2 {
		return 0.0
	}
	n := float64(a.count)
	variance := (a.sumSq - a.sum*a.sum/n) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

type sumInvAgg struct{ total float64 }

func (a *sumInvAgg) add(v float64) {
	if v != 0 {
		a.total += 1 / v
	}
}
func (a *sumInvAgg) addPerfdata(map[string]float64) {}
func (a *sumInvAgg) result() interface{}            { return a.total }

type avgInvAgg struct {
	total float64
	count int
}

func (a *avgInvAgg) add(v float64) {
	if v != 0 {
		a.total += 1 / v
		a.count++
	}
}
func (a *avgInvAgg) addPerfdata(map[string]float64) {}
func (a *avgInvAgg) result() interface{} {
	if a.count == 0 {
		return 0.0
	}
	return a.total / float64(a.count)
}

// perfdataAgg sums each distinct variable name found across every row's
// perfdata string, independent of the others (spec: "aggregates per
// variable name like sum").
type perfdataAgg struct {
	sums   map[string]float64
	counts map[string]int
}

func (a *perfdataAgg) add(float64) {}
func (a *perfdataAgg) addPerfdata(m map[string]float64) {
	for name, v := range m {
		a.sums[name] += v
		a.counts[name]++
	}
}
func (a *perfdataAgg) result() interface{} {
	out := make(map[string]float64, len(a.sums))
	for name, total := range a.sums {
		out[name] = total
	}
	return out
}

// toFloat coerces a Column.ExtractValue result to a float64 for numeric
// aggregation, following the same widening rules the renderer uses for
// int/int64/float64/bool.
func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// StatsSpec is one parsed Stats:/StatsAnd:/StatsOr:/StatsNegate: entry. A
// count-kind spec wraps a Filter-shaped predicate (any relational operator
// against a column) and counts matching rows. An agg-kind spec applies a
// numeric AggFunc to one column's extracted value across all rows, ignoring
// the row/column filter entirely — StatsAnd/Or/Negate never combine these,
// only count-kind specs.
type StatsSpec struct {
	IsAgg  bool
	Filter *Filter // count-kind
	Agg    AggFunc // agg-kind
	Column Column  // agg-kind
}

// Header renders the spec's wire-format column header as it appears in
// ColumnHeaders: output: "<agg>_<column>" for agg-kind specs (e.g.
// "sum_custom_time"), "stats_<index+1>" for count-kind specs.
func (s *StatsSpec) Header(index int) string {
	if s.IsAgg {
		return fmt.Sprintf("%s_%s", s.Agg, s.Column.Name())
	}
	return fmt.Sprintf("stats_%d", index+1)
}

// newAccumulator creates a fresh per-group accumulator for this spec: a
// running count for count-kind specs, a numeric aggregator for agg-kind
// ones.
func (s *StatsSpec) newAccumulator() *statsAccumulator {
	acc := &statsAccumulator{spec: s}
	if s.IsAgg {
		acc.agg = newAggregator(s.Agg)
	}
	return acc
}

type statsAccumulator struct {
	spec  *StatsSpec
	count int64
	agg   aggregator
}

// process feeds one row through the accumulator: count-kind specs test the
// filter and bump a counter; agg-kind specs extract, coerce, and fold the
// value (perfdata specs fold the whole parsed token map instead).
func (a *statsAccumulator) process(row Row) {
	if !a.spec.IsAgg {
		if a.spec.Filter == nil || a.spec.Filter.Accepts(row) {
			a.count++
		}
		return
	}
	if a.spec.Agg == AggPerfdata {
		s, _ := a.spec.Column.ExtractValue(row).(string)
		a.agg.addPerfdata(parsePerfdata(s))
		return
	}
	v, ok := toFloat(a.spec.Column.ExtractValue(row))
	if !ok {
		return
	}
	a.agg.add(v)
}

func (a *statsAccumulator) result() interface{} {
	if !a.spec.IsAgg {
		return a.count
	}
	return a.agg.result()
}

// GroupKey is the element-wise string representation of one row's
// group-by column values, used as the map key that collates rows into
// StatsGroupBy groups.
func GroupKey(cols []Column, row Row) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c.ValueAsString(row)
	}
	return strings.Join(parts, "\x01")
}

// GroupValues splits a GroupKey back into its component column values, in
// the same order the group-by columns were given.
func GroupValues(key string) []string {
	return strings.Split(key, "\x01")
}

// groupEntry holds one group's materialized group-by values alongside its
// per-spec accumulators. The values are kept directly rather than recovered
// by splitting the group key string, since GroupKey/GroupValues can't
// round-trip an ungrouped (zero-column) query's single implicit group.
type groupEntry struct {
	values []string
	accs   []*statsAccumulator
}

// GroupTable accumulates StatsGroupBy results: one row of accumulators per
// distinct group-by key, created lazily in first-seen order so output is
// deterministic for a single-threaded scan.
type GroupTable struct {
	groupCols []Column
	specs     []*StatsSpec
	order     []string
	rows      map[string]*groupEntry
}

// NewGroupTable creates a table grouping by groupCols (empty for an
// ungrouped Stats: query, which always has exactly one implicit group) and
// tracking one accumulator per spec within each group.
func NewGroupTable(groupCols []Column, specs []*StatsSpec) *GroupTable {
	g := &GroupTable{
		groupCols: groupCols,
		specs:     specs,
		rows:      make(map[string]*groupEntry),
	}
	if len(groupCols) == 0 {
		accs := make([]*statsAccumulator, len(specs))
		for i, s := range specs {
			accs[i] = s.newAccumulator()
		}
		g.rows[""] = &groupEntry{values: []string{}, accs: accs}
		g.order = append(g.order, "")
	}
	return g
}

// Process feeds one already filter-accepted row into its group.
func (g *GroupTable) Process(row Row) {
	key := GroupKey(g.groupCols, row)
	entry, ok := g.rows[key]
	if !ok {
		values := make([]string, len(g.groupCols))
		for i, c := range g.groupCols {
			values[i] = c.ValueAsString(row)
		}
		accs := make([]*statsAccumulator, len(g.specs))
		for i, s := range g.specs {
			accs[i] = s.newAccumulator()
		}
		entry = &groupEntry{values: values, accs: accs}
		g.rows[key] = entry
		g.order = append(g.order, key)
	}
	for _, a := range entry.accs {
		a.process(row)
	}
}

// GroupResult is one finished StatsGroupBy row: the group-by column values
// followed by each stat's aggregated result, in declaration order.
type GroupResult struct {
	GroupValues []string
	StatValues  []interface{}
}

// Results returns one GroupResult per distinct group seen, in first-seen
// order.
func (g *GroupTable) Results() []GroupResult {
	out := make([]GroupResult, 0, len(g.order))
	for _, key := range g.order {
		entry := g.rows[key]
		vals := make([]interface{}, len(entry.accs))
		for i, a := range entry.accs {
			vals[i] = a.result()
		}
		out = append(out, GroupResult{GroupValues: entry.values, StatValues: vals})
	}
	return out
}
