package livestatus

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/cases"
)

// foldCase is the Unicode-correct case folder backing the ~~/!~~/=~/!=~
// case-insensitive operators — a plain strings.ToLower/EqualFold pair
// mishandles several scripts' casing rules (Turkish dotless i, German
// ß, ...) that cases.Fold gets right.
var foldCase = cases.Fold()

func foldString(s string) string { return foldCase.String(s) }

// typedFilter is the general-purpose ColumnFilter every refschema funcColumn
// shares: it extracts a value, widens it, and applies op/literal using the
// semantics appropriate to typ.
type typedFilter struct {
	extract func(Row) interface{}
	typ     ColumnType
	op      RelOp
	literal string

	numLiteral float64
	hasNum     bool
	re         *regexp2.Regexp // ~ !~ (case-sensitive, .NET-flavored regex)
}

// NewTypedFilter compiles a ColumnFilter for a (typ, op, literal) triple.
// It is the shared implementation behind every concrete refschema column's
// Column.NewFilter — regex compilation happens once here, not per row.
func NewTypedFilter(typ ColumnType, op RelOp, literal string, extract func(Row) interface{}) (ColumnFilter, error) {
	f := &typedFilter{extract: extract, typ: typ, op: op, literal: literal}
	if n, err := strconv.ParseFloat(literal, 64); err == nil {
		f.numLiteral, f.hasNum = n, true
	}
	if op == OpRegexMatch || op == OpNotRegexMatch {
		re, err := regexp2.Compile(literal, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", literal, err)
		}
		f.re = re
	}
	return f, nil
}

func (f *typedFilter) Accepts(row Row) bool {
	v := f.extract(row)
	switch f.typ {
	case TypeList:
		return f.acceptsList(v)
	case TypeDict:
		return f.acceptsDict(v)
	case TypeInt, TypeInt64, TypeCounter, TypeDouble:
		return f.acceptsNumeric(v)
	case TypeTime:
		return f.acceptsTime(v)
	default:
		return f.acceptsString(v)
	}
}

func (f *typedFilter) acceptsString(v interface{}) bool {
	s, _ := v.(string)
	switch f.op {
	case OpEqual:
		return s == f.literal
	case OpNotEqual:
		return s != f.literal
	case OpEqualCI:
		return foldString(s) == foldString(f.literal)
	case OpNotEqualCI:
		return foldString(s) != foldString(f.literal)
	case OpSubstringCI:
		return strings.Contains(foldString(s), foldString(f.literal))
	case OpNotSubstringCI:
		return !strings.Contains(foldString(s), foldString(f.literal))
	case OpRegexMatch:
		matched, _ := f.re.MatchString(s)
		return matched
	case OpNotRegexMatch:
		matched, _ := f.re.MatchString(s)
		return !matched
	case OpLess:
		return s < f.literal
	case OpGreater:
		return s > f.literal
	case OpLessEqual:
		return s <= f.literal
	case OpGreaterEqual:
		return s >= f.literal
	default:
		return false
	}
}

func (f *typedFilter) acceptsNumeric(v interface{}) bool {
	n, ok := toFloat(v)
	if !ok || !f.hasNum {
		return false
	}
	switch f.op {
	case OpEqual:
		return n == f.numLiteral
	case OpNotEqual:
		return n != f.numLiteral
	case OpLess:
		return n < f.numLiteral
	case OpGreater:
		return n > f.numLiteral
	case OpLessEqual:
		return n <= f.numLiteral
	case OpGreaterEqual:
		return n >= f.numLiteral
	default:
		return false
	}
}

func (f *typedFilter) acceptsTime(v interface{}) bool {
	t, ok := v.(time.Time)
	if !ok {
		return false
	}
	return f.acceptsNumeric(float64(t.Unix()))
}

// acceptsList implements the livestatus list-column convention: "="
// compares the whole list (joined) to the literal, ">=" / "<" test
// membership (and its negation) rather than ordering.
func (f *typedFilter) acceptsList(v interface{}) bool {
	list, _ := v.([]string)
	switch f.op {
	case OpEqual:
		return strings.Join(list, ",") == f.literal
	case OpNotEqual:
		return strings.Join(list, ",") != f.literal
	case OpGreaterEqual:
		return containsString(list, f.literal)
	case OpLess:
		return !containsString(list, f.literal)
	case OpRegexMatch:
		for _, item := range list {
			if matched, _ := f.re.MatchString(item); matched {
				return true
			}
		}
		return false
	case OpNotRegexMatch:
		for _, item := range list {
			if matched, _ := f.re.MatchString(item); matched {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (f *typedFilter) acceptsDict(v interface{}) bool {
	m, _ := v.(map[string]float64)
	_, ok := m[f.literal]
	switch f.op {
	case OpGreaterEqual:
		return ok
	case OpLess:
		return !ok
	default:
		return false
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
