package livestatus

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Query is a fully parsed LQL (Live Status Query Language) request: a
// GET <table> line followed by zero or more colon-delimited header lines.
//
// Parsing never returns an error for a malformed header. Instead the first
// bad header's message is captured in InvalidHeader and parsing of further
// headers stops there — the Query is still returned so the caller can run
// it through the normal execution and rendering path, which is where the
// sticky error actually gets emitted (spec: a parse error must never
// propagate eagerly, only as the query's own output).
type Query struct {
	Table string

	RawColumns    []string // as requested, before dummy-column substitution
	ColumnHeaders bool
	columnHeadersSet bool

	Filter  *Filter
	filterStack []*Filter

	GroupBy    []string
	Stats      []*StatsSpec
	statsStack []*StatsSpec

	Sort []SortSpec

	Limit     int // -1 means unlimited
	Offset    int
	Timelimit time.Duration

	OutputFormat   string // csv, json, python, wrapped_json
	ResponseHeader string // "", "fixed16"
	KeepAlive      bool

	Separators  [4]string // dataset, field, list, list-item
	LocaltimeOffsetSeconds int64
	localtimeSet bool

	AuthUser string

	WaitCondition  *Filter
	waitStack      []*Filter
	WaitTrigger    string
	WaitObjectSpec string
	WaitTimeout    time.Duration

	InvalidHeader string
}

// SortSpec describes a single Sort: directive.
type SortSpec struct {
	Column string
	Desc   bool
}

const (
	defaultDatasetSep = "\n"
	defaultFieldSep   = ";"
	defaultListSep    = ","
	defaultListItemSep = "|"
)

// ParseQuery parses a full LQL request (the GET line plus every header
// line up to the terminating blank line, already split from the
// connection framing). It never fails outright — see Query.InvalidHeader.
func ParseQuery(request string) (*Query, error) {
	lines := strings.Split(strings.TrimRight(request, "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("empty query")
	}

	first := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(first, "GET ") {
		return nil, fmt.Errorf("query must start with GET, got: %s", first)
	}

	q := &Query{
		Table:        strings.TrimSpace(first[len("GET "):]),
		OutputFormat: "csv",
		Limit:        -1,
		Separators:   [4]string{defaultDatasetSep, defaultFieldSep, defaultListSep, defaultListItemSep},
	}

	for _, line := range lines[1:] {
		if q.InvalidHeader != "" {
			break
		}
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			q.InvalidHeader = fmt.Sprintf("invalid header line: %s", line)
			break
		}
		header := line[:idx]
		value := strings.TrimSpace(line[idx+1:])

		if err := q.applyHeader(header, value); err != nil {
			q.InvalidHeader = err.Error()
		}
	}

	q.Filter = collapseStack(q.filterStack)
	q.WaitCondition = collapseStack(q.waitStack)
	q.Stats = q.statsStack

	if !q.columnHeadersSet && len(q.RawColumns) == 0 && len(q.Stats) == 0 {
		// spec: absent Columns: with no aggregation forces headers on so the
		// client can discover the default column set.
		q.ColumnHeaders = true
	}

	return q, nil
}

func collapseStack(stack []*Filter) *Filter {
	if len(stack) == 0 {
		return nil
	}
	if len(stack) == 1 {
		return stack[0]
	}
	return NewAndFilter(stack...)
}

func (q *Query) applyHeader(header, value string) error {
	switch header {
	case "Columns":
		q.RawColumns = strings.Fields(value)

	case "ColumnHeaders":
		q.ColumnHeaders = value == "on"
		q.columnHeadersSet = true

	case "Filter":
		return q.pushFilter(value)
	case "And":
		return q.combineFilterStack(value, variadicAnd)
	case "Or":
		return q.combineFilterStack(value, variadicOr)
	case "Negate":
		return q.negateFilterStack()

	case "Stats":
		return q.pushStats(value)
	case "StatsAnd":
		return q.combineStatsStack(value, variadicAnd)
	case "StatsOr":
		return q.combineStatsStack(value, variadicOr)
	case "StatsNegate":
		return q.negateStatsStack()
	case "StatsGroupBy":
		q.GroupBy = append(q.GroupBy, strings.Fields(value)...)

	case "Sort":
		parts := strings.Fields(value)
		if len(parts) < 1 {
			return fmt.Errorf("invalid Sort: %s", value)
		}
		ss := SortSpec{Column: parts[0]}
		if len(parts) >= 2 && strings.EqualFold(parts[1], "desc") {
			ss.Desc = true
		}
		q.Sort = append(q.Sort, ss)

	case "Limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid Limit: %w", err)
		}
		q.Limit = n

	case "Offset":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid Offset: %w", err)
		}
		q.Offset = n

	case "Timelimit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid Timelimit: %w", err)
		}
		q.Timelimit = time.Duration(n) * time.Second

	case "OutputFormat":
		switch value {
		case "csv", "json", "python", "wrapped_json":
			q.OutputFormat = value
		default:
			return fmt.Errorf("unknown OutputFormat: %s", value)
		}

	case "ResponseHeader":
		if value != "" && value != "fixed16" {
			return fmt.Errorf("unknown ResponseHeader: %s", value)
		}
		q.ResponseHeader = value

	case "KeepAlive":
		q.KeepAlive = value == "on"

	case "Separators":
		parts := strings.Fields(value)
		if len(parts) != 4 {
			return fmt.Errorf("Separators needs 4 ordinals, got %d", len(parts))
		}
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return fmt.Errorf("invalid Separators ordinal %q: %w", p, err)
			}
			q.Separators[i] = string(rune(n))
		}

	case "Localtime":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid Localtime: %w", err)
		}
		offset, err := LocaltimeOffset(n, time.Now().Unix())
		if err != nil {
			return err
		}
		q.LocaltimeOffsetSeconds = offset
		q.localtimeSet = true

	case "AuthUser":
		q.AuthUser = value

	case "WaitCondition":
		return q.pushWait(value)
	case "WaitConditionAnd":
		return q.combineWaitStack(value, variadicAnd)
	case "WaitConditionOr":
		return q.combineWaitStack(value, variadicOr)
	case "WaitConditionNegate":
		return q.negateWaitStack()
	case "WaitTrigger":
		q.WaitTrigger = value
	case "WaitObject":
		q.WaitObjectSpec = value
	case "WaitTimeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WaitTimeout: %w", err)
		}
		q.WaitTimeout = time.Duration(n) * time.Millisecond

	default:
		// Unknown headers are ignored for forward compatibility, matching
		// the wire protocol's tolerance for client/server version skew.
	}
	return nil
}

// parseFilterLine splits a Filter:/WaitCondition: value into its
// column/operator/literal parts. The literal is optional (e.g. unary
// presence tests) and may itself contain spaces.
func parseFilterLine(s string) (column string, op RelOp, literal string, err error) {
	parts := strings.SplitN(s, " ", 3)
	if len(parts) < 2 {
		return "", "", "", fmt.Errorf("filter needs at least column and operator: %s", s)
	}
	op, err = ParseRelOp(parts[1])
	if err != nil {
		return "", "", "", err
	}
	lit := ""
	if len(parts) == 3 {
		lit = parts[2]
	}
	return parts[0], op, lit, nil
}

func (q *Query) pushFilter(value string) error {
	col, op, lit, err := parseFilterLine(value)
	if err != nil {
		return fmt.Errorf("invalid Filter: %w", err)
	}
	// The predicate itself is bound later once the table's column catalog
	// is known (see resolveFilterTree in resolve.go); here we only record shape.
	q.filterStack = append(q.filterStack, &Filter{ColumnName: col, Op: op, Literal: lit, kind: filterLeaf})
	return nil
}

func (q *Query) combineFilterStack(value string, kind VariadicKind) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid And/Or count: %w", err)
	}
	if n < 0 || len(q.filterStack) < n {
		return fmt.Errorf("And/Or: %d requires %d filters, only %d available", n, n, len(q.filterStack))
	}
	start := len(q.filterStack) - n
	sub := append([]*Filter(nil), q.filterStack[start:]...)
	q.filterStack = q.filterStack[:start]
	q.filterStack = append(q.filterStack, &Filter{kind: filterVariadic, variadic: kind, children: sub})
	return nil
}

func (q *Query) negateFilterStack() error {
	if len(q.filterStack) == 0 {
		return fmt.Errorf("Negate: no filter to negate")
	}
	last := q.filterStack[len(q.filterStack)-1]
	q.filterStack[len(q.filterStack)-1] = &Filter{kind: filterNegate, children: []*Filter{last}}
	return nil
}

func (q *Query) pushWait(value string) error {
	col, op, lit, err := parseFilterLine(value)
	if err != nil {
		return fmt.Errorf("invalid WaitCondition: %w", err)
	}
	q.waitStack = append(q.waitStack, &Filter{ColumnName: col, Op: op, Literal: lit, kind: filterLeaf})
	return nil
}

func (q *Query) combineWaitStack(value string, kind VariadicKind) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid WaitConditionAnd/Or count: %w", err)
	}
	if n < 0 || len(q.waitStack) < n {
		return fmt.Errorf("WaitConditionAnd/Or: %d requires %d conditions, only %d available", n, n, len(q.waitStack))
	}
	start := len(q.waitStack) - n
	sub := append([]*Filter(nil), q.waitStack[start:]...)
	q.waitStack = q.waitStack[:start]
	q.waitStack = append(q.waitStack, &Filter{kind: filterVariadic, variadic: kind, children: sub})
	return nil
}

func (q *Query) negateWaitStack() error {
	if len(q.waitStack) == 0 {
		return fmt.Errorf("WaitConditionNegate: no condition to negate")
	}
	last := q.waitStack[len(q.waitStack)-1]
	q.waitStack[len(q.waitStack)-1] = &Filter{kind: filterNegate, children: []*Filter{last}}
	return nil
}

func (q *Query) pushStats(value string) error {
	parts := strings.SplitN(value, " ", 3)
	if len(parts) < 2 {
		return fmt.Errorf("invalid Stats: %s", value)
	}
	if fn, ok := ParseAggFunc(parts[0]); ok {
		q.statsStack = append(q.statsStack, &StatsSpec{IsAgg: true, Agg: fn, Column: &unresolvedColumn{name: parts[1]}})
		return nil
	}
	col, op, lit, err := parseFilterLine(value)
	if err != nil {
		return fmt.Errorf("invalid Stats: %w", err)
	}
	q.statsStack = append(q.statsStack, &StatsSpec{
		Filter: &Filter{ColumnName: col, Op: op, Literal: lit, kind: filterLeaf},
	})
	return nil
}

func (q *Query) combineStatsStack(value string, kind VariadicKind) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid StatsAnd/Or count: %w", err)
	}
	if n < 0 || len(q.statsStack) < n {
		return fmt.Errorf("StatsAnd/Or: %d requires %d stats, only %d available", n, n, len(q.statsStack))
	}
	start := len(q.statsStack) - n
	sub := make([]*Filter, n)
	for i, s := range q.statsStack[start:] {
		if s.IsAgg {
			return fmt.Errorf("StatsAnd/Or cannot combine an aggregation stat")
		}
		sub[i] = s.Filter
	}
	q.statsStack = q.statsStack[:start]
	q.statsStack = append(q.statsStack, &StatsSpec{Filter: &Filter{kind: filterVariadic, variadic: kind, children: sub}})
	return nil
}

func (q *Query) negateStatsStack() error {
	if len(q.statsStack) == 0 {
		return fmt.Errorf("StatsNegate: no stat to negate")
	}
	last := q.statsStack[len(q.statsStack)-1]
	if last.IsAgg {
		return fmt.Errorf("StatsNegate cannot negate an aggregation stat")
	}
	q.statsStack[len(q.statsStack)-1] = &StatsSpec{Filter: &Filter{kind: filterNegate, children: []*Filter{last.Filter}}}
	return nil
}

// unresolvedColumn is a placeholder Column carrying only a name, used
// between parsing (which knows only column names) and execution (which
// resolves names against the target table's catalog).
type unresolvedColumn struct{ name string }

func (c *unresolvedColumn) Name() string                                   { return c.name }
func (c *unresolvedColumn) Description() string                            { return "" }
func (c *unresolvedColumn) Type() ColumnType                                { return TypeString }
func (c *unresolvedColumn) ExtractValue(Row) interface{}                   { return nil }
func (c *unresolvedColumn) ValueAsString(Row) string                       { return "" }
func (c *unresolvedColumn) NewFilter(RelOp, string) (ColumnFilter, error) { return nil, fmt.Errorf("unresolved column %s", c.name) }
