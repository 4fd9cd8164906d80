package search

// Plan is the compiled, backend-neutral form of a query: a predicate tree
// plus ordered sort keys. A nil Predicate matches every live record in the
// tenant; empty SortKeys imply most-recently-created first.
type Plan struct {
	Predicate Predicate
	SortKeys  []SortKey
}

// SortKey is a resolved ordering specification over a storage column.
type SortKey struct {
	Column string
	Desc   bool
}

// Op enumerates comparison operators at the plan level.
type Op int

const (
	OpEQ Op = iota
	OpNEQ
	OpGT
	OpLT
	OpGTE
	OpLTE
)

// String returns the SQL-like operator symbol.
func (op Op) String() string {
	switch op {
	case OpEQ:
		return "="
	case OpNEQ:
		return "!="
	case OpGT:
		return ">"
	case OpLT:
		return "<"
	case OpGTE:
		return ">="
	case OpLTE:
		return "<="
	default:
		return "?"
	}
}

// Predicate is a node in the backend-neutral boolean expression tree. The
// set of implementations is closed; the store renders each exhaustively.
type Predicate interface {
	predicate()
}

// Compare matches a scalar or time column against a literal value.
type Compare struct {
	Column string
	Op     Op
	Value  any
}

// RelationMatch matches when the related record's natural key equals any of
// Values (case-insensitively). Query literals are human-readable names, so
// relation fields never compare against internal identifiers.
type RelationMatch struct {
	Relation Relation
	Values   []string
}

// TextContains matches when Term appears case-insensitively as a substring
// of any of Columns. Produced by the fallback planner.
type TextContains struct {
	Columns []string
	Term    string
}

// And is the conjunction of its children.
type And struct {
	Preds []Predicate
}

// Or is the disjunction of its children.
type Or struct {
	Preds []Predicate
}

// Not negates its child.
type Not struct {
	Pred Predicate
}

func (Compare) predicate()       {}
func (RelationMatch) predicate() {}
func (TextContains) predicate()  {}
func (And) predicate()           {}
func (Or) predicate()            {}
func (Not) predicate()           {}
