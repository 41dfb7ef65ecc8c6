// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package expr

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrParse is wrapped by every error returned from Parse.
var ErrParse = errors.New("expression parse error")

// ParseError gives the byte offset of a parse failure.
type ParseError struct {
	Text string
	Pos  int
	Msg  string
}

func (p *ParseError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d in %q", ErrParse, p.Msg, p.Pos, p.Text)
}

func (p *ParseError) Unwrap() error {
	return ErrParse
}

// Parse reads the text of an expression.
//
//	or    = and { "|" and }
//	and   = unary { "&" unary }
//	unary = "~" unary | atom
//	atom  = "(" or ")" | "Q" digits | "0" | "1"
//
// Parse keeps the structure of the text: it does not fold constants or
// double negations, so a parsed expression has one node per operator in
// the text.
func Parse(s string) (*Expr, error) {
	p := &parser{src: s}
	p.skip()
	if p.eof() {
		return nil, p.fail("empty expression")
	}
	e, err := p.or()
	if err != nil {
		return nil, err
	}
	p.skip()
	if !p.eof() {
		return nil, p.fail(fmt.Sprintf("unexpected %q", p.src[p.pos]))
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skip() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// accept consumes c if it is the next non blank byte.
func (p *parser) accept(c byte) bool {
	p.skip()
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) fail(msg string) error {
	return &ParseError{Text: p.src, Pos: p.pos, Msg: msg}
}

func (p *parser) or() (*Expr, error) {
	a, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept('|') {
		b, err := p.and()
		if err != nil {
			return nil, err
		}
		a = &Expr{op: OpOr, a: a, b: b}
	}
	return a, nil
}

func (p *parser) and() (*Expr, error) {
	a, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept('&') {
		b, err := p.unary()
		if err != nil {
			return nil, err
		}
		a = &Expr{op: OpAnd, a: a, b: b}
	}
	return a, nil
}

func (p *parser) unary() (*Expr, error) {
	if p.accept('~') {
		a, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Expr{op: OpNot, a: a}, nil
	}
	return p.atom()
}

func (p *parser) atom() (*Expr, error) {
	p.skip()
	if p.eof() {
		return nil, p.fail("unexpected end")
	}
	switch c := p.src[p.pos]; c {
	case '(':
		p.pos++
		e, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(')') {
			return nil, p.fail("missing )")
		}
		return e, nil
	case '0':
		p.pos++
		return False, nil
	case '1':
		p.pos++
		return True, nil
	case 'Q':
		p.pos++
		start := p.pos
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		if start == p.pos {
			return nil, p.fail("variable without index")
		}
		i, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil {
			p.pos = start
			return nil, p.fail("variable index out of range")
		}
		return Var(i), nil
	default:
		return nil, p.fail(fmt.Sprintf("unexpected %q", c))
	}
}
