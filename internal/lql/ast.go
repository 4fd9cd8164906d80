package lql

// Query is the root of a parsed LQL query: a predicate expression plus an
// optional ordering clause. Expr is nil for an empty query.
type Query struct {
	Expr    Expr
	OrderBy []OrderItem
}

// OrderItem is a single ordering specification.
type OrderItem struct {
	Field string
	Desc  bool
}

// Expr is implemented by all predicate expression nodes.
type Expr interface {
	Pos() int // byte offset in source
	exprNode()
}

// LogicOp is AND or OR.
type LogicOp int

const (
	LogicAnd LogicOp = iota
	LogicOr
)

// BinaryExpr represents "expr and expr" or "expr or expr".
type BinaryExpr struct {
	TokenPos int
	Op       LogicOp
	Left     Expr
	Right    Expr
}

func (e *BinaryExpr) Pos() int  { return e.TokenPos }
func (e *BinaryExpr) exprNode() {}

// NotExpr represents "not expr".
type NotExpr struct {
	TokenPos int
	Expr     Expr
}

func (e *NotExpr) Pos() int  { return e.TokenPos }
func (e *NotExpr) exprNode() {}

// CompareExpr represents "field op literal".
type CompareExpr struct {
	TokenPos int
	Field    string
	Op       CompOp
	Value    Literal
}

func (e *CompareExpr) Pos() int  { return e.TokenPos }
func (e *CompareExpr) exprNode() {}

// InExpr represents "field in [v1, v2, ...]".
type InExpr struct {
	TokenPos int
	Field    string
	Values   []Literal
}

func (e *InExpr) Pos() int  { return e.TokenPos }
func (e *InExpr) exprNode() {}

// CompOp is a comparison operator.
type CompOp int

const (
	CompEQ CompOp = iota
	CompNEQ
	CompGT
	CompLT
	CompGTE
	CompLTE
)

// String returns the LQL operator symbol.
func (op CompOp) String() string {
	switch op {
	case CompEQ:
		return "="
	case CompNEQ:
		return "!="
	case CompGT:
		return ">"
	case CompLT:
		return "<"
	case CompGTE:
		return ">="
	case CompLTE:
		return "<="
	default:
		return "?"
	}
}

// LiteralType classifies a literal value.
type LiteralType int

const (
	LitString LiteralType = iota
	LitInt
	LitFloat
)

// Literal represents a constant value. Quoted strings and bare identifiers
// both carry LitString; the distinction is not observable downstream.
type Literal struct {
	TokenPos int
	Type     LiteralType
	Raw      string
}
