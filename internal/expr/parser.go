// internal/expr/parser.go
package expr

import (
	"fmt"

	"github.com/pkanduri1/fabric-transform/internal/types"
)

/*
 * Recursive descent parser for conditional predicates.
 *
 * Grammar, precedence lowest to highest:
 *
 *   or-expr    := and-expr ('||' and-expr)*
 *   and-expr   := unary-expr ('&&' unary-expr)*
 *   unary-expr := '!' unary-expr | '(' or-expr ')' | comparison
 *   comparison := operand cmp-op operand
 *              |  operand 'IN' '(' literal (',' literal)* ')'
 *              |  operand 'BETWEEN' literal 'AND' literal
 *              |  operand 'LIKE' literal
 *              |  operand 'IS' ['NOT'] 'NULL'
 *   operand    := identifier | string-literal | ['-'] number-literal
 *
 * Keywords are recognized only in operator position. A keyword-spelled word
 * in operand position (a field literally named "null" or "in") is an
 * ordinary field reference with its source spelling.
 *
 * The parenthesized or-expr production is a superset of the minimal grammar;
 * it costs nothing and avoids surprising authors coming from SQL.
 *
 * Parse produces an immutable AST once per distinct predicate string,
 * evaluated per record. Errors carry byte offsets for diagnostics; parsing
 * never panics.
 */

type parser struct {
	lex *lexer
}

// Parse tokenizes and parses a predicate string into an AST.
func Parse(predicate string) (Node, error) {
	p := &parser{lex: newLexer(predicate)}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	tok, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind != TokEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d", tok.Val, tok.Pos)
	}
	return n, nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokOp || tok.Val != "||" {
			return left, nil
		}
		p.lex.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokOp || tok.Val != "&&" {
			return left, nil
		}
		p.lex.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
}

func (p *parser) parseUnary() (Node, error) {
	tok, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if tok.Kind == TokOp && tok.Val == "!" {
		p.lex.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Expr: inner}, nil
	}
	if tok.Kind == TokLParen {
		p.lex.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(TokRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Node, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Kind == TokOp:
		op, ok := compareOps[tok.Val]
		if !ok {
			return nil, fmt.Errorf("unknown operator %q at offset %d", tok.Val, tok.Pos)
		}
		right, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		return Compare{Left: left, Op: op, Right: right}, nil

	case tok.Kind == TokKeyword && tok.Val == "IN":
		return p.parseIn(left)

	case tok.Kind == TokKeyword && tok.Val == "BETWEEN":
		lo, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("AND"); err != nil {
			return nil, err
		}
		hi, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return Between{Left: left, Lo: lo, Hi: hi}, nil

	case tok.Kind == TokKeyword && tok.Val == "LIKE":
		pat, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return Like{Left: left, Pattern: pat.Str}, nil

	case tok.Kind == TokKeyword && tok.Val == "IS":
		return p.parseNullCheck(left)

	default:
		return nil, fmt.Errorf("expected comparison operator at offset %d", tok.Pos)
	}
}

var compareOps = map[string]CompareOp{
	"==": CmpEq,
	"!=": CmpNeq,
	"<":  CmpLt,
	"<=": CmpLte,
	">":  CmpGt,
	">=": CmpGte,
}

func (p *parser) parseIn(left Operand) (Node, error) {
	if err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var values []Operand
	for {
		lit, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		values = append(values, lit)
		if len(values) > types.MaxInValues {
			return nil, fmt.Errorf("%w: limit is %d", types.ErrTooManyInValues, types.MaxInValues)
		}
		tok, err := p.lex.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == TokComma {
			continue
		}
		if tok.Kind == TokRParen {
			return In{Left: left, Values: values}, nil
		}
		return nil, fmt.Errorf("expected , or ) at offset %d", tok.Pos)
	}
}

func (p *parser) parseNullCheck(left Operand) (Node, error) {
	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	negate := false
	if tok.Kind == TokKeyword && tok.Val == "NOT" {
		negate = true
		tok, err = p.lex.next()
		if err != nil {
			return nil, err
		}
	}
	if tok.Kind != TokKeyword || tok.Val != "NULL" {
		return nil, fmt.Errorf("expected NULL at offset %d", tok.Pos)
	}
	return NullCheck{Left: left, Negate: negate}, nil
}

// parseOperand accepts an identifier, a quoted string, or a numeric literal
// with optional leading minus. Keyword-spelled words are field references
// here; keywords only act as operators after an operand.
func (p *parser) parseOperand() (Operand, error) {
	tok, err := p.lex.next()
	if err != nil {
		return Operand{}, err
	}
	switch tok.Kind {
	case TokIdent, TokKeyword:
		return Operand{Kind: OperandField, Field: tok.Word, Str: tok.Word}, nil
	case TokString:
		return Operand{Kind: OperandString, Str: tok.Val}, nil
	case TokNumber:
		return Operand{Kind: OperandNumber, Str: tok.Val, Num: tok.Num}, nil
	case TokOp:
		if tok.Val == "-" {
			num, err := p.lex.next()
			if err != nil {
				return Operand{}, err
			}
			if num.Kind != TokNumber {
				return Operand{}, fmt.Errorf("expected number after - at offset %d", num.Pos)
			}
			return Operand{Kind: OperandNumber, Str: "-" + num.Val, Num: -num.Num}, nil
		}
	}
	return Operand{}, fmt.Errorf("expected operand at offset %d", tok.Pos)
}

// parseLiteral accepts a quoted string or numeric literal with optional
// leading minus (IN lists, BETWEEN bounds, LIKE patterns).
func (p *parser) parseLiteral() (Operand, error) {
	tok, err := p.lex.next()
	if err != nil {
		return Operand{}, err
	}
	if tok.Kind == TokOp && tok.Val == "-" {
		num, err := p.lex.next()
		if err != nil {
			return Operand{}, err
		}
		if num.Kind != TokNumber {
			return Operand{}, fmt.Errorf("expected number after - at offset %d", num.Pos)
		}
		return Operand{Kind: OperandNumber, Str: "-" + num.Val, Num: -num.Num}, nil
	}
	switch tok.Kind {
	case TokString:
		return Operand{Kind: OperandString, Str: tok.Val}, nil
	case TokNumber:
		return Operand{Kind: OperandNumber, Str: tok.Val, Num: tok.Num}, nil
	default:
		return Operand{}, fmt.Errorf("expected literal at offset %d", tok.Pos)
	}
}

func (p *parser) expect(kind TokenKind, what string) error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	if tok.Kind != kind {
		return fmt.Errorf("expected %s at offset %d", what, tok.Pos)
	}
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	if tok.Kind != TokKeyword || tok.Val != kw {
		return fmt.Errorf("expected %s at offset %d", kw, tok.Pos)
	}
	return nil
}
