package livestatus

// VariadicKind tags an And/Or compound node.
type VariadicKind int

const (
	variadicNone VariadicKind = iota
	variadicAnd
	variadicOr
)

// Filter is the tagged-variant filter tree: a leaf bound to one column's
// compiled predicate, a negation of a single child, or a variadic And/Or
// over any number of children. It carries enough of its own shape
// (ColumnName/Op/Literal) for the optimizer hooks below to inspect it
// without unwinding the compiled predicate.
type Filter struct {
	// Leaf fields, valid when Kind == filterLeaf.
	ColumnName string
	Op         RelOp
	Literal    string
	pred       ColumnFilter

	kind     filterKind
	variadic VariadicKind
	children []*Filter
}

type filterKind int

const (
	filterLeaf filterKind = iota
	filterNegate
	filterVariadic
)

// NewLeafFilter builds a Column-bound leaf. table.Columns()[columnName] must
// already have produced pred via Column.NewFilter.
func NewLeafFilter(columnName string, op RelOp, literal string, pred ColumnFilter) *Filter {
	return &Filter{
		ColumnName: columnName,
		Op:         op,
		Literal:    literal,
		pred:       pred,
		kind:       filterLeaf,
	}
}

// NewNegateFilter wraps child in a logical negation.
func NewNegateFilter(child *Filter) *Filter {
	return &Filter{kind: filterNegate, children: []*Filter{child}}
}

// NewAndFilter combines children with logical AND. An empty And is the
// identity filter (accepts everything), matching an omitted Filter: header.
func NewAndFilter(children ...*Filter) *Filter {
	return &Filter{kind: filterVariadic, variadic: variadicAnd, children: children}
}

// NewOrFilter combines children with logical OR. An empty Or accepts
// nothing.
func NewOrFilter(children ...*Filter) *Filter {
	return &Filter{kind: filterVariadic, variadic: variadicOr, children: children}
}

// Accepts evaluates the tree against row. This is the only path the
// executor trusts for correctness — the findValueForIndexing/findIntLimits/
// optimizeBitmask hooks below are best-effort speedups and never replace
// this call.
func (f *Filter) Accepts(row Row) bool {
	if f == nil {
		return true
	}
	switch f.kind {
	case filterLeaf:
		if f.pred == nil {
			return true
		}
		return f.pred.Accepts(row)
	case filterNegate:
		return !f.children[0].Accepts(row)
	case filterVariadic:
		switch f.variadic {
		case variadicAnd:
			for _, c := range f.children {
				if !c.Accepts(row) {
					return false
				}
			}
			return true
		case variadicOr:
			for _, c := range f.children {
				if c.Accepts(row) {
					return true
				}
			}
			return false // empty Or accepts nothing
		}
	}
	return true
}

// FindValueForIndexing returns the literal of an equality predicate on
// columnName, provided it is not reachable through an Or or a Negate and
// does not conflict with another equality predicate on the same column.
// Tables use this to short-circuit Rows() to a single object when a query
// filters "name = X" (spec's optimizer hook family).
func (f *Filter) FindValueForIndexing(columnName string) (string, bool) {
	found := ""
	ok := false
	conflict := false
	f.collectEquality(columnName, &found, &ok, &conflict)
	if conflict {
		return "", false
	}
	return found, ok
}

func (f *Filter) collectEquality(columnName string, found *string, ok, conflict *bool) {
	if f == nil || *conflict {
		return
	}
	switch f.kind {
	case filterLeaf:
		if f.ColumnName != columnName || f.Op != OpEqual {
			return
		}
		if *ok && *found != f.Literal {
			*conflict = true
			return
		}
		*found = f.Literal
		*ok = true
	case filterVariadic:
		if f.variadic != variadicAnd {
			return // inside Or: not usable, per contract
		}
		for _, c := range f.children {
			c.collectEquality(columnName, found, ok, conflict)
		}
	case filterNegate:
		return // inside Negate: not usable, per contract
	}
}

// IntLimits bounds an integer column's feasible range as derived from
// AND-only comparisons in the tree. HasLow/HasHigh report whether either
// bound was actually narrowed from the open range.
type IntLimits struct {
	Low, High       int64
	HasLow, HasHigh bool
}

// FindIntLimits narrows lim using every <, <=, >, >=, = comparison found on
// columnName that is reachable only through AND nodes, consulting col (an
// IntColumn) to parse each literal. It is a best-effort range hint for
// index or partition pruning.
func (f *Filter) FindIntLimits(columnName string, col IntColumn) IntLimits {
	lim := IntLimits{}
	f.narrowIntLimits(columnName, col, &lim)
	return lim
}

func (f *Filter) narrowIntLimits(columnName string, col IntColumn, lim *IntLimits) {
	if f == nil {
		return
	}
	switch f.kind {
	case filterLeaf:
		if f.ColumnName != columnName {
			return
		}
		v, ok := col.IntLiteral(f.Literal)
		if !ok {
			return
		}
		switch f.Op {
		case OpEqual:
			narrowLow(lim, v)
			narrowHigh(lim, v)
		case OpGreaterEqual:
			narrowLow(lim, v)
		case OpGreater:
			narrowLow(lim, v+1)
		case OpLessEqual:
			narrowHigh(lim, v)
		case OpLess:
			narrowHigh(lim, v-1)
		}
	case filterVariadic:
		if f.variadic != variadicAnd {
			return
		}
		for _, c := range f.children {
			c.narrowIntLimits(columnName, col, lim)
		}
	case filterNegate:
		return
	}
}

func narrowLow(lim *IntLimits, v int64) {
	if !lim.HasLow || v > lim.Low {
		lim.Low, lim.HasLow = v, true
	}
}

func narrowHigh(lim *IntLimits, v int64) {
	if !lim.HasHigh || v < lim.High {
		lim.High, lim.HasHigh = v, true
	}
}

// OptimizeBitmask intersects mask (initially all-bits-set by convention)
// with every AND-reachable equality/list-membership comparison on
// columnName, consulting col to translate each literal to its bit pattern.
// Returns the narrowed mask and whether anything actually narrowed it.
func (f *Filter) OptimizeBitmask(columnName string, col BitmaskColumn, mask uint64) (uint64, bool) {
	narrowed := false
	f.narrowBitmask(columnName, col, &mask, &narrowed)
	return mask, narrowed
}

func (f *Filter) narrowBitmask(columnName string, col BitmaskColumn, mask *uint64, narrowed *bool) {
	if f == nil {
		return
	}
	switch f.kind {
	case filterLeaf:
		if f.ColumnName != columnName {
			return
		}
		switch f.Op {
		case OpEqual, OpRegexMatch:
			if bits, ok := col.BitsForLiteral(f.Literal); ok {
				*mask &= bits
				*narrowed = true
			}
		}
	case filterVariadic:
		if f.variadic != variadicAnd {
			return
		}
		for _, c := range f.children {
			c.narrowBitmask(columnName, col, mask, narrowed)
		}
	case filterNegate:
		return
	}
}
