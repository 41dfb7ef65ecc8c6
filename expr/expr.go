// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package expr

import (
	"strconv"
	"strings"
)

// Op is the operator at the root of an expression.
type Op uint8

const (
	OpFalse Op = iota
	OpTrue
	OpVar
	OpNot
	OpAnd
	OpOr
)

func (o Op) String() string {
	switch o {
	case OpFalse:
		return "0"
	case OpTrue:
		return "1"
	case OpVar:
		return "var"
	case OpNot:
		return "~"
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Expr is a Boolean expression.  And and or nodes have exactly two
// operands, not has one.  Expressions are never modified after
// construction and may be shared.
type Expr struct {
	op Op
	v  int
	a  *Expr
	b  *Expr
}

// The constant expressions.
var (
	False = &Expr{op: OpFalse}
	True  = &Expr{op: OpTrue}
)

// Var returns the present state variable Qi.
func Var(i int) *Expr {
	if i < 0 {
		panic("negative variable index")
	}
	return &Expr{op: OpVar, v: i}
}

// Const returns True if b, False otherwise.
func Const(b bool) *Expr {
	if b {
		return True
	}
	return False
}

// Not returns the negation of a, folding constants and double negation.
func Not(a *Expr) *Expr {
	switch a.op {
	case OpFalse:
		return True
	case OpTrue:
		return False
	case OpNot:
		return a.a
	}
	return &Expr{op: OpNot, a: a}
}

// And returns "a and b", folding constants.
func And(a, b *Expr) *Expr {
	if a.op == OpFalse || b.op == OpFalse {
		return False
	}
	if a.op == OpTrue {
		return b
	}
	if b.op == OpTrue {
		return a
	}
	return &Expr{op: OpAnd, a: a, b: b}
}

// Or returns "a or b", folding constants.
func Or(a, b *Expr) *Expr {
	if a.op == OpTrue || b.op == OpTrue {
		return True
	}
	if a.op == OpFalse {
		return b
	}
	if b.op == OpFalse {
		return a
	}
	return &Expr{op: OpOr, a: a, b: b}
}

// Ands constructs the conjunction of es, grouped to the left.
// If es is empty, Ands returns True.
func Ands(es ...*Expr) *Expr {
	a := True
	for _, e := range es {
		a = And(a, e)
	}
	return a
}

// Ors constructs the disjunction of es, grouped to the left.
// If es is empty, Ors returns False.
func Ors(es ...*Expr) *Expr {
	d := False
	for _, e := range es {
		d = Or(d, e)
	}
	return d
}

// Xor constructs "(a and not b) or (not a and b)".
func Xor(a, b *Expr) *Expr {
	return Or(And(a, Not(b)), And(Not(a), b))
}

// Op returns the root operator of e.
func (e *Expr) Op() Op {
	return e.op
}

// Index returns the variable index of a variable leaf and -1 otherwise.
func (e *Expr) Index() int {
	if e.op != OpVar {
		return -1
	}
	return e.v
}

// Ins returns the operands of e.
//
//	If e is a leaf, Ins returns nil, nil
//	If e is a not, Ins returns the operand and nil
//	If e is an and or an or, Ins returns both operands
func (e *Expr) Ins() (*Expr, *Expr) {
	return e.a, e.b
}

// IsConst returns whether e is one of the constants.
func (e *Expr) IsConst() bool {
	return e.op == OpFalse || e.op == OpTrue
}

// Eval evaluates e where variable Qi takes the value of bit i of code.
func (e *Expr) Eval(code uint) bool {
	switch e.op {
	case OpFalse:
		return false
	case OpTrue:
		return true
	case OpVar:
		return (code>>uint(e.v))&1 == 1
	case OpNot:
		return !e.a.Eval(code)
	case OpAnd:
		return e.a.Eval(code) && e.b.Eval(code)
	case OpOr:
		return e.a.Eval(code) || e.b.Eval(code)
	}
	panic("invalid op")
}

// Lits returns the number of variable occurrences in e.
func (e *Expr) Lits() int {
	switch e.op {
	case OpVar:
		return 1
	case OpNot:
		return e.a.Lits()
	case OpAnd, OpOr:
		return e.a.Lits() + e.b.Lits()
	}
	return 0
}

// MaxVar returns the largest variable index in e, or -1 if e has no
// variables.
func (e *Expr) MaxVar() int {
	switch e.op {
	case OpVar:
		return e.v
	case OpNot:
		return e.a.MaxVar()
	case OpAnd, OpOr:
		a, b := e.a.MaxVar(), e.b.MaxVar()
		if a > b {
			return a
		}
		return b
	}
	return -1
}

// prec gives binding strength, higher binds tighter.
func (e *Expr) prec() int {
	switch e.op {
	case OpOr:
		return 1
	case OpAnd:
		return 2
	case OpNot:
		return 3
	}
	return 4
}

// String returns the canonical text of e.
func (e *Expr) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch e.op {
	case OpFalse:
		sb.WriteByte('0')
	case OpTrue:
		sb.WriteByte('1')
	case OpVar:
		sb.WriteByte('Q')
		sb.WriteString(strconv.Itoa(e.v))
	case OpNot:
		sb.WriteByte('~')
		e.a.writeIn(sb, 3)
	case OpAnd:
		e.a.writeIn(sb, 2)
		sb.WriteByte('&')
		e.b.writeIn(sb, 2)
	case OpOr:
		e.a.writeIn(sb, 1)
		sb.WriteByte('|')
		e.b.writeIn(sb, 1)
	}
}

func (e *Expr) writeIn(sb *strings.Builder, ctx int) {
	if e.prec() < ctx {
		sb.WriteByte('(')
		e.write(sb)
		sb.WriteByte(')')
		return
	}
	e.write(sb)
}
