// Package filter extracts user action names from SLO filter expressions
// such as `useraction.name in("Login", "Checkout")`.
//
//	expr     := clause { ("and" | "or") clause }
//	clause   := [selector] op "(" string { "," string } ")"
//	op       := "in" | "equals" | "contains"
//	string   := '"' { char | '\"' | '\\' } '"'
package filter

import (
	"fmt"
	"strings"
)

type Operator string

const (
	OperatorIn       Operator = "in"
	OperatorEquals   Operator = "equals"
	OperatorContains Operator = "contains"
)

type Clause struct {
	Selector string
	Operator Operator
	Values   []string
}

type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filter expression at position %d: %s", e.Position, e.Message)
}

type parser struct {
	input string
	pos   int
}

func (p *parser) fail(format string, args ...any) error {
	return &ParseError{Position: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) skipSpaces() {
	for !p.eof() {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isIdentChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '.' || c == '-'
}

func (p *parser) ident() string {
	p.skipSpaces()
	start := p.pos
	for !p.eof() && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) quoted() (string, error) {
	p.skipSpaces()
	if p.peek() != '"' {
		return "", p.fail("expected a quoted string")
	}
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.input[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.input) {
				p.pos++
				return "", p.fail("unterminated escape sequence")
			}
			next := p.input[p.pos+1]
			if next != '"' && next != '\\' {
				return "", p.fail("unsupported escape sequence \\%c", next)
			}
			b.WriteByte(next)
			p.pos += 2
		case '"':
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.fail("unterminated string")
}

func (p *parser) clause() (Clause, error) {
	var clause Clause
	first := p.ident()
	if first == "" {
		return clause, p.fail("expected a selector or an operator")
	}
	p.skipSpaces()
	op := first
	if p.peek() != '(' {
		clause.Selector = first
		op = p.ident()
		if op == "" {
			return clause, p.fail("expected an operator after selector %s", first)
		}
	}
	switch Operator(op) {
	case OperatorIn, OperatorEquals, OperatorContains:
		clause.Operator = Operator(op)
	default:
		return clause, p.fail("unknown operator %s", op)
	}
	p.skipSpaces()
	if p.peek() != '(' {
		return clause, p.fail("expected ( after %s", op)
	}
	p.pos++
	for {
		value, err := p.quoted()
		if err != nil {
			return clause, err
		}
		clause.Values = append(clause.Values, value)
		p.skipSpaces()
		switch p.peek() {
		case ',':
			p.pos++
			continue
		case ')':
			p.pos++
		default:
			return clause, p.fail("expected , or )")
		}
		break
	}
	if clause.Operator != OperatorIn && len(clause.Values) != 1 {
		return clause, p.fail("%s expects exactly one argument, got %d", clause.Operator, len(clause.Values))
	}
	return clause, nil
}

// ParseClauses parses expr into its clauses.
func ParseClauses(expr string) ([]Clause, error) {
	p := &parser{input: expr}
	p.skipSpaces()
	if p.eof() {
		return nil, p.fail("empty expression")
	}
	clauses := []Clause{}
	for {
		clause, err := p.clause()
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
		p.skipSpaces()
		if p.eof() {
			return clauses, nil
		}
		keyword := p.ident()
		switch strings.ToLower(keyword) {
		case "and", "or":
		case "":
			return nil, p.fail("unexpected character %q", p.peek())
		default:
			return nil, p.fail("expected and/or, got %s", keyword)
		}
	}
}

// Parse returns the user action names referenced by expr, in order of
// appearance and without duplicates.
func Parse(expr string) ([]string, error) {
	clauses, err := ParseClauses(expr)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	result := []string{}
	for _, clause := range clauses {
		for _, value := range clause.Values {
			if seen[value] {
				continue
			}
			seen[value] = true
			result = append(result, value)
		}
	}
	return result, nil
}
