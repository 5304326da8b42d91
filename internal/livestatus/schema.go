// Package livestatus implements the live-status query execution engine: a
// line-oriented request parser, a composable filter tree, an aggregation
// engine, a blocking wait coordinator, and a multi-format streaming renderer.
//
// The engine never touches a concrete table implementation directly — every
// table and column it queries is consumed through the Table/Column contracts
// in this file. Concrete schemas (hosts, services, ...) live in
// internal/livestatus/refschema and are wired in by whatever binds a
// Registry together (see cmd/livestatusd).
package livestatus

import "fmt"

// Row is an opaque handle to one source record. Columns know how to pull
// values out of it; the engine never inspects it directly.
type Row interface{}

// ColumnType tags a column's declared value shape, used by the
// self-describing "columns" table and by the bitmask/int-range optimizer
// hooks. It does not gate rendering: the renderer dispatches on the runtime
// type returned by ExtractValue.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInt
	TypeInt64
	TypeCounter
	TypeDouble
	TypeTime
	TypeList
	TypeDict
	TypeBlob
)

func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeInt64:
		return "int64"
	case TypeCounter:
		return "counter"
	case TypeDouble:
		return "double"
	case TypeTime:
		return "time"
	case TypeList:
		return "list"
	case TypeDict:
		return "dict"
	case TypeBlob:
		return "blob"
	default:
		return "string"
	}
}

// RelOp is one member of the closed set of relational operator tokens
// recognized by Filter:/Stats: lines. The full enumeration and their textual
// spellings are part of the external wire interface (spec §6); this is the
// single source of truth for parsing them.
type RelOp string

const (
	OpEqual          RelOp = "="
	OpNotEqual       RelOp = "!="
	OpRegexMatch     RelOp = "~"
	OpNotRegexMatch  RelOp = "!~"
	OpSubstringCI    RelOp = "~~"
	OpNotSubstringCI RelOp = "!~~"
	OpLess           RelOp = "<"
	OpGreater        RelOp = ">"
	OpLessEqual      RelOp = "<="
	OpGreaterEqual   RelOp = ">="
	OpEqualCI        RelOp = "=~"
	OpNotEqualCI     RelOp = "!=~"
)

// relOpName maps every accepted token to its RelOp; the source of truth for
// the taxonomy that a real column catalog's relationalOperatorForName would
// own (spec §6). List-typed columns reuse >= and < as membership and
// non-membership tests instead of ordering; <= and > on a list column
// match no row. The distinction is made by the column's NewFilter
// implementation, not here.
var relOpName = map[string]RelOp{
	"=":   OpEqual,
	"!=":  OpNotEqual,
	"~":   OpRegexMatch,
	"!~":  OpNotRegexMatch,
	"~~":  OpSubstringCI,
	"!~~": OpNotSubstringCI,
	"<":   OpLess,
	">":   OpGreater,
	"<=":  OpLessEqual,
	">=":  OpGreaterEqual,
	"=~":  OpEqualCI,
	"!=~": OpNotEqualCI,
}

// ParseRelOp resolves a wire token to a RelOp, failing for anything outside
// the closed set.
func ParseRelOp(token string) (RelOp, error) {
	op, ok := relOpName[token]
	if !ok {
		return "", fmt.Errorf("unknown relational operator %q", token)
	}
	return op, nil
}

// Negated returns the RelOp's logical negation where the wire protocol
// defines one explicitly; ordering operators report false.
func (op RelOp) Negated() (RelOp, bool) {
	switch op {
	case OpEqual:
		return OpNotEqual, true
	case OpNotEqual:
		return OpEqual, true
	case OpRegexMatch:
		return OpNotRegexMatch, true
	case OpNotRegexMatch:
		return OpRegexMatch, true
	case OpSubstringCI:
		return OpNotSubstringCI, true
	case OpNotSubstringCI:
		return OpSubstringCI, true
	case OpEqualCI:
		return OpNotEqualCI, true
	case OpNotEqualCI:
		return OpEqualCI, true
	default:
		return "", false
	}
}

// ColumnFilter is the compiled predicate a Column hands back for one
// (operator, literal) pair. It is the leaf of a Filter tree.
type ColumnFilter interface {
	Accepts(row Row) bool
}

// Column resolves a name to a value extractor and a filter factory; it
// carries no authorization data (Table.IsAuthorized decides per row). It
// is supplied by the table implementation — the
// engine only ever calls through this interface.
type Column interface {
	Name() string
	Description() string
	Type() ColumnType

	// ExtractValue returns the column's value for row, typed as one of
	// int, int64, float64, bool, time.Time, string, []byte, []string,
	// map[string]float64, or nil. The renderer and aggregators dispatch on
	// this runtime type.
	ExtractValue(row Row) interface{}

	// ValueAsString renders the value as the group-spec representation:
	// group-by keys are compared by element-wise string equality.
	ValueAsString(row Row) string

	// NewFilter builds the predicate for a (relOp, literal) pair. An error
	// here is returned by Execute as a 400 error response and the filter
	// is not installed (spec §7).
	NewFilter(op RelOp, literal string) (ColumnFilter, error)
}

// BitmaskColumn is an optional extension a bitfield-typed Column may
// implement to support the optimizeBitmask push-down hint.
type BitmaskColumn interface {
	Column
	BitsForLiteral(literal string) (mask uint64, ok bool)
}

// IntColumn is an optional extension an integer-typed Column may implement
// to support the findIntLimits push-down hint without re-parsing literals
// through ExtractValue.
type IntColumn interface {
	Column
	IntLiteral(literal string) (int64, bool)
}

// Table supplies a row enumerator, a column catalog, an authorization
// predicate, and object lookup by key for one named table.
type Table interface {
	Name() string
	Columns() map[string]Column
	Rows() []Row

	// IsAuthorized reports whether principal may see row. The engine calls
	// this only when AuthUser: was set on the query.
	IsAuthorized(principal string, row Row) bool

	// FindObject resolves a WaitObject: spec to a row, used only by the
	// wait coordinator. ok is false when the spec does not resolve.
	FindObject(spec string) (row Row, ok bool)
}

// Registry maps table names to their schema. Concrete schemas are
// registered by whatever wires the engine together (see
// internal/livestatus/refschema and cmd/livestatusd); the engine itself
// never constructs a Table.
type Registry map[string]Table
