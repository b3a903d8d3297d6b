// internal/expr/eval.go
package expr

import (
	"github.com/pkanduri1/fabric-transform/internal/types"
)

/*
 * Predicate evaluation.
 *
 * Walks a parsed AST against one record, producing a boolean. The walk is
 * read-only and allocation-free on the hot path; a frozen AST is safe for
 * concurrent evaluation across batch partitions.
 *
 * Coercion semantics:
 *   - Both operands numeric: compare as float64
 *   - Otherwise: case-sensitive string comparison, absent fields as ""
 *   - Ordering operators (< <= > >=) against an absent field: always false
 *   - IN/BETWEEN: numeric comparison first, string fallback per element
 *   - LIKE: always a string/pattern match (% multi-char, _ single-char)
 *   - IS NULL: true iff the field is absent or nil
 *
 * Short-circuit: && and || evaluate left-to-right and skip the right side
 * when the left side decides the result. ! binds to the following unary-expr.
 */

// Eval walks the AST against a record. Total: never panics, never errors;
// structurally valid trees always produce a boolean.
func Eval(n Node, rec types.Record) bool {
	switch e := n.(type) {
	case Or:
		return Eval(e.Left, rec) || Eval(e.Right, rec)
	case And:
		return Eval(e.Left, rec) && Eval(e.Right, rec)
	case Not:
		return !Eval(e.Expr, rec)
	case Compare:
		return evalCompare(e, rec)
	case In:
		return evalIn(e, rec)
	case Between:
		return evalBetween(e, rec)
	case Like:
		return matchLike(resolve(e.Left, rec).str, e.Pattern)
	case NullCheck:
		missing := resolve(e.Left, rec).missing
		if e.Negate {
			return !missing
		}
		return missing
	default:
		return false
	}
}

// operandValue is the resolved view of one operand against one record.
type operandValue struct {
	str     string
	num     float64
	isNum   bool
	missing bool // field reference absent or nil; literals are never missing
}

func resolve(op Operand, rec types.Record) operandValue {
	switch op.Kind {
	case OperandNumber:
		return operandValue{str: op.Str, num: op.Num, isNum: true}
	case OperandString:
		n, ok := types.NumericValue(op.Str)
		return operandValue{str: op.Str, num: n, isNum: ok}
	default:
		v, ok := rec[op.Field]
		if !ok || v == nil {
			return operandValue{missing: true}
		}
		n, isNum := types.NumericValue(v)
		return operandValue{str: types.RenderValue(v), num: n, isNum: isNum}
	}
}

func evalCompare(c Compare, rec types.Record) bool {
	l := resolve(c.Left, rec)
	r := resolve(c.Right, rec)

	if l.isNum && r.isNum {
		switch c.Op {
		case CmpEq:
			return l.num == r.num
		case CmpNeq:
			return l.num != r.num
		case CmpLt:
			return l.num < r.num
		case CmpLte:
			return l.num <= r.num
		case CmpGt:
			return l.num > r.num
		case CmpGte:
			return l.num >= r.num
		}
		return false
	}

	switch c.Op {
	case CmpEq:
		return l.str == r.str
	case CmpNeq:
		return l.str != r.str
	}

	// Ordering against an absent field is always false; an absent value has
	// no position in either the numeric or lexicographic order.
	if l.missing || r.missing {
		return false
	}

	switch c.Op {
	case CmpLt:
		return l.str < r.str
	case CmpLte:
		return l.str <= r.str
	case CmpGt:
		return l.str > r.str
	case CmpGte:
		return l.str >= r.str
	}
	return false
}

// evalIn tests membership: numeric equality when the value and the element
// both coerce to numbers (quoted elements included), string equality
// otherwise, decided per element.
func evalIn(e In, rec types.Record) bool {
	l := resolve(e.Left, rec)
	for _, v := range e.Values {
		el := resolve(v, rec)
		if l.isNum && el.isNum {
			if l.num == el.num {
				return true
			}
			continue
		}
		if l.str == el.str {
			return true
		}
	}
	return false
}

// evalBetween tests inclusive range membership: numeric when the value and
// both bounds are numeric, lexicographic string comparison otherwise.
// An absent field is outside every numeric range.
func evalBetween(e Between, rec types.Record) bool {
	l := resolve(e.Left, rec)
	lo := resolve(e.Lo, rec)
	hi := resolve(e.Hi, rec)

	if l.isNum && lo.isNum && hi.isNum {
		return l.num >= lo.num && l.num <= hi.num
	}
	if l.missing {
		return false
	}
	return l.str >= lo.str && l.str <= hi.str
}

// matchLike matches a string against a SQL LIKE pattern.
// % matches zero or more characters, _ matches exactly one. Matching is
// rune-wise so _ consumes one character regardless of its encoded width.
// Iterative backtracking, no regexp compilation.
func matchLike(str, pattern string) bool {
	s := []rune(str)
	p := []rune(pattern)
	sIdx, pIdx := 0, 0
	star := -1
	match := 0

	for sIdx < len(s) {
		if pIdx < len(p) {
			pChar := p[pIdx]
			if pChar == '%' {
				star = pIdx
				match = sIdx
				pIdx++
				continue
			}
			if pChar == '_' || s[sIdx] == pChar {
				sIdx++
				pIdx++
				continue
			}
		}

		// No match at this position, backtrack to the last %
		if star != -1 {
			pIdx = star + 1
			match++
			sIdx = match
			continue
		}
		return false
	}

	for pIdx < len(p) && p[pIdx] == '%' {
		pIdx++
	}
	return pIdx == len(p)
}
