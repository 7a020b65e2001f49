// Package filter compiles the edge-selection expressions used in the corpus
// config, e.g.
//
//	sender endswith "@enron.com" AND NOT recipient contains "all."
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Expr is a compiled boolean expression.
type Expr interface {
	exprNode()
}

// BinaryExpr is AND / OR.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// NotExpr negates its operand.
type NotExpr struct {
	Expr Expr
}

func (*NotExpr) exprNode() {}

// ComparisonExpr is <operand> <operator> <operand>.
type ComparisonExpr struct {
	Left  Operand
	Op    Operator
	Right Operand
	re    *regexp.Regexp // set for "matches" against a literal pattern
}

func (*ComparisonExpr) exprNode() {}

// LiteralExpr is a bare true / false.
type LiteralExpr struct {
	Value bool
}

func (*LiteralExpr) exprNode() {}

// Operand is a literal or a field path.
type Operand interface {
	operandNode()
}

// LiteralOperand holds a string or bool constant.
type LiteralOperand struct {
	Value interface{}
}

func (*LiteralOperand) operandNode() {}

// FieldOperand is a dotted path such as message.subject.
type FieldOperand struct {
	Path []string
}

func (*FieldOperand) operandNode() {}

type tokenKind int

const (
	tokWord tokenKind = iota
	tokOp
	tokString
	tokBool
	tokLParen
	tokRParen
	tokEOF
)

type token struct {
	kind tokenKind
	val  string
	pos  int
}

func isWordRune(r byte) bool {
	return r == '_' || r == '.' || r == '-' || r == '@' ||
		unicode.IsLetter(rune(r)) || unicode.IsDigit(rune(r))
}

func tokenize(src string) ([]token, error) {
	var out []token
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case unicode.IsSpace(rune(ch)):
			i++
		case ch == '(':
			out = append(out, token{tokLParen, "(", i})
			i++
		case ch == ')':
			out = append(out, token{tokRParen, ")", i})
			i++
		case ch == '=' || ch == '!':
			if i+1 >= len(src) || src[i+1] != '=' {
				return nil, fmt.Errorf("unexpected %q at position %d", ch, i)
			}
			out = append(out, token{tokOp, src[i : i+2], i})
			i += 2
		case ch == '"' || ch == '\'':
			var sb strings.Builder
			j := i + 1
			for ; j < len(src) && src[j] != ch; j++ {
				if src[j] == '\\' && j+1 < len(src) {
					j++
				}
				sb.WriteByte(src[j])
			}
			if j >= len(src) {
				return nil, fmt.Errorf("unterminated string starting at position %d", i)
			}
			out = append(out, token{tokString, sb.String(), i})
			i = j + 1
		case isWordRune(ch):
			j := i
			for j < len(src) && isWordRune(src[j]) {
				j++
			}
			word := src[i:j]
			if w := strings.ToLower(word); w == "true" || w == "false" {
				out = append(out, token{tokBool, w, i})
			} else {
				out = append(out, token{tokWord, word, i})
			}
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", ch, i)
		}
	}
	return append(out, token{tokEOF, "", len(src)}), nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) keyword(kw string) bool {
	t := p.peek()
	return t.kind == tokWord && strings.EqualFold(t.val, kw)
}

// Parse compiles src. An empty (or all-blank) expression matches everything.
func Parse(src string) (Expr, error) {
	if strings.TrimSpace(src) == "" {
		return &LiteralExpr{Value: true}, nil
	}
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", t.val, t.pos)
	}
	return e, nil
}

// or = and ( OR and )*
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.keyword("OR") {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

// and = unary ( AND unary )*
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.keyword("AND") {
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

// unary = NOT unary | "(" or ")" | bool | comparison
func (p *parser) parseUnary() (Expr, error) {
	switch t := p.peek(); {
	case p.keyword("NOT"):
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: inner}, nil
	case t.kind == tokLParen:
		p.next()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.kind != tokRParen {
			return nil, fmt.Errorf("expected \")\" at position %d, got %q", c.pos, c.val)
		}
		return inner, nil
	case t.kind == tokBool && !p.isOperator(p.pos+1):
		p.next()
		return &LiteralExpr{Value: t.val == "true"}, nil
	}
	return p.parseComparison()
}

func (p *parser) isOperator(i int) bool {
	if i >= len(p.tokens) {
		return false
	}
	t := p.tokens[i]
	if t.kind == tokOp {
		return true
	}
	_, ok := wordOperators[strings.ToLower(t.val)]
	return t.kind == tokWord && ok
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	t := p.next()
	var op Operator
	switch t.kind {
	case tokOp:
		op = Operator(t.val)
	case tokWord:
		wop, ok := wordOperators[strings.ToLower(t.val)]
		if !ok {
			return nil, fmt.Errorf("expected comparison operator at position %d, got %q", t.pos, t.val)
		}
		op = wop
	default:
		return nil, fmt.Errorf("expected comparison operator at position %d, got %q", t.pos, t.val)
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	c := &ComparisonExpr{Left: left, Op: op, Right: right}
	if op == OpMatches {
		if lit, ok := right.(*LiteralOperand); ok {
			pattern, _ := lit.Value.(string)
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("matches: invalid regex %q: %w", pattern, err)
			}
			c.re = re
		}
	}
	return c, nil
}

func (p *parser) parseOperand() (Operand, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return &LiteralOperand{Value: t.val}, nil
	case tokBool:
		return &LiteralOperand{Value: t.val == "true"}, nil
	case tokWord:
		return &FieldOperand{Path: strings.Split(t.val, ".")}, nil
	default:
		return nil, fmt.Errorf("expected operand at position %d, got %q", t.pos, t.val)
	}
}
