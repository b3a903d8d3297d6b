// internal/expr/lexer.go
package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

/*
 * Predicate tokenizer.
 *
 * Splits a conditional expression string into tokens for the recursive
 * descent parser. One-token lookahead via a peek buffer.
 *
 * Token classes:
 *   - Identifiers: bare field names ([A-Za-z_][A-Za-z0-9_.]*)
 *   - Keywords: IN, BETWEEN, AND, LIKE, IS, NOT, NULL (case-insensitive,
 *     recognized out of the identifier scan; the source spelling is kept on
 *     the token so the parser can treat a keyword-spelled word in operand
 *     position as a plain field name)
 *   - Strings: single or double quoted, backslash escapes
 *   - Numbers: optional sign handled by the parser; literal digits with
 *     optional fraction and exponent
 *   - Operators: == != < > <= >= && || ! ( ) ,
 *
 * Errors: unterminated strings, lone & or |, and unexpected characters are
 * reported with their byte offset. The lexer never panics; a malformed
 * predicate must degrade to a non-matching condition upstream.
 */

// TokenKind classifies lexer output.
type TokenKind int

const (
	TokEOF TokenKind = iota
	TokIdent
	TokKeyword
	TokString
	TokNumber
	TokOp
	TokLParen
	TokRParen
	TokComma
)

// Token is one lexical unit of a predicate.
type Token struct {
	Kind TokenKind
	Val  string  // identifier/operator text or decoded string literal; canonical upper-case for keywords
	Word string  // source spelling, set for identifiers and keywords
	Num  float64 // valid when Kind == TokNumber
	Pos  int     // byte offset in the source predicate
}

// Keywords recognized case-insensitively. Stored upper-case; Token.Val for
// TokKeyword is always the canonical upper-case form.
var keywords = map[string]bool{
	"IN":      true,
	"BETWEEN": true,
	"AND":     true,
	"LIKE":    true,
	"IS":      true,
	"NOT":     true,
	"NULL":    true,
}

type lexer struct {
	text string
	pos  int
	buf  *Token
}

func newLexer(text string) *lexer {
	return &lexer{text: text}
}

// peek returns the next token without consuming it.
func (l *lexer) peek() (Token, error) {
	if l.buf == nil {
		tok, err := l.scan()
		if err != nil {
			return Token{}, err
		}
		l.buf = &tok
	}
	return *l.buf, nil
}

// next consumes and returns the next token.
func (l *lexer) next() (Token, error) {
	if l.buf != nil {
		tok := *l.buf
		l.buf = nil
		return tok, nil
	}
	return l.scan()
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.text) && unicode.IsSpace(rune(l.text[l.pos])) {
		l.pos++
	}
}

func (l *lexer) scan() (Token, error) {
	l.skipSpace()
	if l.pos >= len(l.text) {
		return Token{Kind: TokEOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.text[l.pos]

	switch ch {
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Val: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Val: ")", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokComma, Val: ",", Pos: start}, nil
	case '&', '|':
		if l.pos+1 < len(l.text) && l.text[l.pos+1] == ch {
			l.pos += 2
			return Token{Kind: TokOp, Val: l.text[start:l.pos], Pos: start}, nil
		}
		return Token{}, fmt.Errorf("expected %c%c at offset %d", ch, ch, start)
	case '=':
		if l.pos+1 < len(l.text) && l.text[l.pos+1] == '=' {
			l.pos += 2
			return Token{Kind: TokOp, Val: "==", Pos: start}, nil
		}
		return Token{}, fmt.Errorf("expected == at offset %d", start)
	case '-':
		l.pos++
		return Token{Kind: TokOp, Val: "-", Pos: start}, nil
	case '!', '<', '>':
		l.pos++
		if l.pos < len(l.text) && l.text[l.pos] == '=' {
			l.pos++
		}
		return Token{Kind: TokOp, Val: l.text[start:l.pos], Pos: start}, nil
	case '\'', '"':
		return l.scanString(ch)
	}

	if ch >= '0' && ch <= '9' || ch == '.' && l.pos+1 < len(l.text) && isDigit(l.text[l.pos+1]) {
		return l.scanNumber()
	}

	if isIdentStart(ch) {
		for l.pos < len(l.text) && isIdentPart(l.text[l.pos]) {
			l.pos++
		}
		word := l.text[start:l.pos]
		upper := strings.ToUpper(word)
		if keywords[upper] {
			return Token{Kind: TokKeyword, Val: upper, Word: word, Pos: start}, nil
		}
		return Token{Kind: TokIdent, Val: word, Word: word, Pos: start}, nil
	}

	return Token{}, fmt.Errorf("unexpected character %q at offset %d", ch, start)
}

// scanString decodes a quoted literal with backslash escapes.
func (l *lexer) scanString(quote byte) (Token, error) {
	start := l.pos
	l.pos++
	var out strings.Builder
	for l.pos < len(l.text) {
		c := l.text[l.pos]
		if c == '\\' && l.pos+1 < len(l.text) {
			l.pos++
			esc := l.text[l.pos]
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			default:
				out.WriteByte(esc)
			}
			l.pos++
			continue
		}
		if c == quote {
			l.pos++
			return Token{Kind: TokString, Val: out.String(), Pos: start}, nil
		}
		out.WriteByte(c)
		l.pos++
	}
	return Token{}, fmt.Errorf("unterminated string literal at offset %d", start)
}

func (l *lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.text) && (isDigit(l.text[l.pos]) || l.text[l.pos] == '.') {
		l.pos++
	}
	// optional exponent
	if l.pos < len(l.text) && (l.text[l.pos] == 'e' || l.text[l.pos] == 'E') {
		mark := l.pos
		l.pos++
		if l.pos < len(l.text) && (l.text[l.pos] == '+' || l.text[l.pos] == '-') {
			l.pos++
		}
		if l.pos < len(l.text) && isDigit(l.text[l.pos]) {
			for l.pos < len(l.text) && isDigit(l.text[l.pos]) {
				l.pos++
			}
		} else {
			l.pos = mark
		}
	}
	lit := l.text[start:l.pos]
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Token{}, fmt.Errorf("malformed number %q at offset %d", lit, start)
	}
	return Token{Kind: TokNumber, Val: lit, Num: f, Pos: start}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}
