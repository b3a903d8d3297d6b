package expr

import (
	"errors"
	"strings"
	"testing"

	"github.com/pkanduri1/fabric-transform/internal/types"
)

func TestParse_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		check     func(t *testing.T, n Node)
	}{
		{
			name:      "simple equality",
			predicate: `status == 'ACTIVE'`,
			check: func(t *testing.T, n Node) {
				c, ok := n.(Compare)
				if !ok {
					t.Fatalf("node = %T, want Compare", n)
				}
				if c.Op != CmpEq {
					t.Errorf("Op = %v, want CmpEq", c.Op)
				}
				if c.Left.Kind != OperandField || c.Left.Field != "status" {
					t.Errorf("Left = %+v, want field status", c.Left)
				}
				if c.Right.Kind != OperandString || c.Right.Str != "ACTIVE" {
					t.Errorf("Right = %+v, want string ACTIVE", c.Right)
				}
			},
		},
		{
			name:      "or of ands keeps precedence",
			predicate: `a == 1 && b == 2 || c == 3`,
			check: func(t *testing.T, n Node) {
				or, ok := n.(Or)
				if !ok {
					t.Fatalf("node = %T, want Or", n)
				}
				if _, ok := or.Left.(And); !ok {
					t.Errorf("Or.Left = %T, want And", or.Left)
				}
				if _, ok := or.Right.(Compare); !ok {
					t.Errorf("Or.Right = %T, want Compare", or.Right)
				}
			},
		},
		{
			name:      "not binds to following comparison",
			predicate: `!a == 'x' && b == 'y'`,
			check: func(t *testing.T, n Node) {
				and, ok := n.(And)
				if !ok {
					t.Fatalf("node = %T, want And", n)
				}
				if _, ok := and.Left.(Not); !ok {
					t.Errorf("And.Left = %T, want Not", and.Left)
				}
			},
		},
		{
			name:      "in list",
			predicate: `state IN ('CA', 'NY', 'TX')`,
			check: func(t *testing.T, n Node) {
				in, ok := n.(In)
				if !ok {
					t.Fatalf("node = %T, want In", n)
				}
				if len(in.Values) != 3 {
					t.Fatalf("len(Values) = %d, want 3", len(in.Values))
				}
				if in.Values[1].Str != "NY" {
					t.Errorf("Values[1] = %q, want NY", in.Values[1].Str)
				}
			},
		},
		{
			name:      "between keyword case-insensitive",
			predicate: `amount between 100 and 200`,
			check: func(t *testing.T, n Node) {
				b, ok := n.(Between)
				if !ok {
					t.Fatalf("node = %T, want Between", n)
				}
				if b.Lo.Num != 100 || b.Hi.Num != 200 {
					t.Errorf("bounds = %v..%v, want 100..200", b.Lo.Num, b.Hi.Num)
				}
			},
		},
		{
			name:      "like pattern",
			predicate: `name LIKE 'J%n_'`,
			check: func(t *testing.T, n Node) {
				l, ok := n.(Like)
				if !ok {
					t.Fatalf("node = %T, want Like", n)
				}
				if l.Pattern != "J%n_" {
					t.Errorf("Pattern = %q, want J%%n_", l.Pattern)
				}
			},
		},
		{
			name:      "is null",
			predicate: `middle_name IS NULL`,
			check: func(t *testing.T, n Node) {
				nc, ok := n.(NullCheck)
				if !ok {
					t.Fatalf("node = %T, want NullCheck", n)
				}
				if nc.Negate {
					t.Errorf("Negate = true, want false")
				}
			},
		},
		{
			name:      "is not null",
			predicate: `middle_name IS NOT NULL`,
			check: func(t *testing.T, n Node) {
				nc, ok := n.(NullCheck)
				if !ok {
					t.Fatalf("node = %T, want NullCheck", n)
				}
				if !nc.Negate {
					t.Errorf("Negate = false, want true")
				}
			},
		},
		{
			name:      "negative literal",
			predicate: `balance < -100.5`,
			check: func(t *testing.T, n Node) {
				c, ok := n.(Compare)
				if !ok {
					t.Fatalf("node = %T, want Compare", n)
				}
				if c.Right.Num != -100.5 {
					t.Errorf("Right.Num = %v, want -100.5", c.Right.Num)
				}
			},
		},
		{
			name:      "parenthesized group",
			predicate: `a == 1 && (b == 2 || c == 3)`,
			check: func(t *testing.T, n Node) {
				and, ok := n.(And)
				if !ok {
					t.Fatalf("node = %T, want And", n)
				}
				if _, ok := and.Right.(Or); !ok {
					t.Errorf("And.Right = %T, want Or", and.Right)
				}
			},
		},
		{
			name:      "double-quoted literal",
			predicate: `status == "OPEN"`,
			check: func(t *testing.T, n Node) {
				c := n.(Compare)
				if c.Right.Str != "OPEN" {
					t.Errorf("Right.Str = %q, want OPEN", c.Right.Str)
				}
			},
		},
		{
			name:      "field to field comparison",
			predicate: `principal >= interest`,
			check: func(t *testing.T, n Node) {
				c := n.(Compare)
				if c.Right.Kind != OperandField || c.Right.Field != "interest" {
					t.Errorf("Right = %+v, want field interest", c.Right)
				}
			},
		},
		{
			name:      "field named null",
			predicate: `null IS NULL`,
			check: func(t *testing.T, n Node) {
				nc, ok := n.(NullCheck)
				if !ok {
					t.Fatalf("node = %T, want NullCheck", n)
				}
				if nc.Left.Kind != OperandField || nc.Left.Field != "null" {
					t.Errorf("Left = %+v, want field null", nc.Left)
				}
			},
		},
		{
			name:      "keyword-spelled fields keep their spelling",
			predicate: `In == Like`,
			check: func(t *testing.T, n Node) {
				c, ok := n.(Compare)
				if !ok {
					t.Fatalf("node = %T, want Compare", n)
				}
				if c.Left.Field != "In" || c.Right.Field != "Like" {
					t.Errorf("fields = %q, %q, want In, Like", c.Left.Field, c.Right.Field)
				}
			},
		},
		{
			name:      "field named between in an in-list",
			predicate: `between IN ('a', 'b')`,
			check: func(t *testing.T, n Node) {
				in, ok := n.(In)
				if !ok {
					t.Fatalf("node = %T, want In", n)
				}
				if in.Left.Field != "between" {
					t.Errorf("Left.Field = %q, want between", in.Left.Field)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Parse(tt.predicate)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v, want nil", tt.predicate, err)
			}
			tt.check(t, n)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
	}{
		{name: "empty input", predicate: ``},
		{name: "dangling operator", predicate: `a ==`},
		{name: "missing operator", predicate: `a 'x'`},
		{name: "single equals", predicate: `a = 'x'`},
		{name: "lone ampersand", predicate: `a == 1 & b == 2`},
		{name: "unterminated string", predicate: `a == 'open`},
		{name: "unterminated in list", predicate: `a IN ('x', 'y'`},
		{name: "between without and", predicate: `a BETWEEN 1 2`},
		{name: "is without null", predicate: `a IS`},
		{name: "trailing garbage", predicate: `a == 1 b`},
		{name: "field in in-list", predicate: `a IN (b)`},
		{name: "unclosed paren", predicate: `(a == 1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.predicate); err == nil {
				t.Errorf("Parse(%q) error = nil, want error", tt.predicate)
			}
		})
	}
}

func TestParse_InListLimit(t *testing.T) {
	elems := make([]string, types.MaxInValues+1)
	for i := range elems {
		elems[i] = "1"
	}

	if _, err := Parse("a IN (" + strings.Join(elems[:types.MaxInValues], ", ") + ")"); err != nil {
		t.Fatalf("Parse() at limit error = %v, want nil", err)
	}

	_, err := Parse("a IN (" + strings.Join(elems, ", ") + ")")
	if !errors.Is(err, types.ErrTooManyInValues) {
		t.Errorf("Parse() over limit error = %v, want ErrTooManyInValues", err)
	}
}

// Distinct predicates parse to independent trees; the same string parses
// deterministically.
func TestParse_Deterministic(t *testing.T) {
	const pred = `amount BETWEEN 100000 AND 1000000 || status == 'ACTIVE'`
	a, err := Parse(pred)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	b, err := Parse(pred)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := a.(Or); !ok {
		t.Fatalf("node = %T, want Or", a)
	}
	if _, ok := b.(Or); !ok {
		t.Fatalf("node = %T, want Or", b)
	}
}
