// internal/expr/ast.go
package expr

// Node is one node of a parsed predicate. The tree is immutable after
// parsing and safe to share read-only across concurrent evaluations.
type Node interface {
	node()
}

// Or is a short-circuiting boolean disjunction (left evaluated first).
type Or struct {
	Left, Right Node
}

// And is a short-circuiting boolean conjunction (left evaluated first).
type And struct {
	Left, Right Node
}

// Not negates the following unary expression.
type Not struct {
	Expr Node
}

// CompareOp enumerates the binary comparison operators.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNeq
	CmpLt
	CmpLte
	CmpGt
	CmpGte
)

// Compare is a binary comparison between two operands.
type Compare struct {
	Left  Operand
	Op    CompareOp
	Right Operand
}

// In tests membership of the left operand in a literal list.
type In struct {
	Left   Operand
	Values []Operand
}

// Between tests inclusive range membership.
type Between struct {
	Left   Operand
	Lo, Hi Operand
}

// Like matches the left operand against a SQL-style pattern
// (% multi-character wildcard, _ single-character).
type Like struct {
	Left    Operand
	Pattern string
}

// NullCheck implements IS NULL / IS NOT NULL.
type NullCheck struct {
	Left   Operand
	Negate bool // true for IS NOT NULL
}

func (Or) node()        {}
func (And) node()       {}
func (Not) node()       {}
func (Compare) node()   {}
func (In) node()        {}
func (Between) node()   {}
func (Like) node()      {}
func (NullCheck) node() {}

// OperandKind distinguishes field references from literals.
type OperandKind int

const (
	OperandField OperandKind = iota
	OperandString
	OperandNumber
)

// Operand is a leaf of a comparison: a bare identifier resolved against the
// record, a quoted string literal, or a bare numeric literal.
type Operand struct {
	Kind  OperandKind
	Field string  // valid when Kind == OperandField
	Str   string  // literal text; for numbers, the source literal
	Num   float64 // valid when Kind == OperandNumber
}
