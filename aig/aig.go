// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package aig lowers expressions and synthesized counters to gini
// and-inverter graphs.
//
// A Counter is a sequential circuit with one latch per register bit,
// initialized to 0, whose next state is the flip-flop characteristic
// equation applied to the excitation equations.  Counters can be written
// in aiger format and simulated.
package aig

import (
	"fmt"
	"io"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/logic/aiger"
	"github.com/go-air/gini/z"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/expr"
)

// Builder constructs and gates; *logic.C and *logic.S are Builders.
type Builder interface {
	And(a, b z.Lit) z.Lit
	Or(a, b z.Lit) z.Lit
}

// Lower adds e to b, with variable Qi bound to ins[i] and the constant
// true bound to t.  It returns the literal computing e.
func Lower(b Builder, t z.Lit, e *expr.Expr, ins []z.Lit) z.Lit {
	l, r := e.Ins()
	switch e.Op() {
	case expr.OpFalse:
		return t.Not()
	case expr.OpTrue:
		return t
	case expr.OpVar:
		return ins[e.Index()]
	case expr.OpNot:
		return Lower(b, t, l, ins).Not()
	case expr.OpAnd:
		return b.And(Lower(b, t, l, ins), Lower(b, t, r, ins))
	case expr.OpOr:
		return b.Or(Lower(b, t, l, ins), Lower(b, t, r, ins))
	}
	panic(fmt.Sprintf("aig: invalid op %s", e.Op()))
}

// Counter is the sequential circuit of an excitation equation set.
type Counter struct {
	S       *logic.S
	Latches []z.Lit // Latches[i] holds q[i]
	Outputs []z.Lit // one per equation, in Set.Eqs order
	Set     *excite.Set

	index map[z.Var]int
}

// Build creates the counter of set.
func Build(set *excite.Set) (*Counter, error) {
	s := logic.NewS()
	c := &Counter{
		S:       s,
		Latches: make([]z.Lit, set.Bits),
		Set:     set,
		index:   make(map[z.Var]int, set.Bits)}
	for i := range c.Latches {
		m := s.Latch(s.F)
		c.Latches[i] = m
		c.index[m.Var()] = i
	}
	for i, m := range c.Latches {
		nx, err := excite.Characteristic(set.FlipFlop, expr.Var(i), set.Bit(i)...)
		if err != nil {
			return nil, err
		}
		s.SetNext(m, Lower(s, s.T, nx, c.Latches))
	}
	for _, e := range set.Eqs {
		c.Outputs = append(c.Outputs, Lower(s, s.T, e.Expr, c.Latches))
	}
	return c, nil
}

// Step returns the state following state.
func (c *Counter) Step(state uint) uint {
	memo := make(map[z.Var]bool)
	var next uint
	for i, m := range c.Latches {
		if c.eval(c.S.Next(m), state, memo) {
			next |= 1 << uint(i)
		}
	}
	return next
}

// Trace returns the first n states from reset.
func (c *Counter) Trace(n int) []uint {
	res := make([]uint, 0, n)
	var st uint
	for i := 0; i < n; i++ {
		res = append(res, st)
		st = c.Step(st)
	}
	return res
}

func (c *Counter) eval(m z.Lit, state uint, memo map[z.Var]bool) bool {
	v := m.Var()
	val, ok := memo[v]
	if !ok {
		if v == c.S.T.Var() {
			val = true
		} else if i, isLatch := c.index[v]; isLatch {
			val = (state>>uint(i))&1 == 1
		} else if c.S.Type(m) == logic.SAnd {
			a, b := c.S.Ins(m)
			val = c.eval(a, state, memo) && c.eval(b, state, memo)
		} else {
			panic(fmt.Sprintf("aig: free input %s in counter", m))
		}
		memo[v] = val
	}
	if !m.IsPos() {
		return !val
	}
	return val
}

// Aiger returns the aiger view of c with named latches and outputs.
func (c *Counter) Aiger() (*aiger.T, error) {
	a := aiger.MakeFor(c.S, c.Outputs...)
	for i := range c.Latches {
		if err := a.NameLatch(i, fmt.Sprintf("q[%d]", i)); err != nil {
			return nil, err
		}
	}
	for i, e := range c.Set.Eqs {
		if err := a.NameOutput(i, e.Signal); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// WriteAscii writes c in ascii aiger format.
func (c *Counter) WriteAscii(w io.Writer) error {
	a, err := c.Aiger()
	if err != nil {
		return err
	}
	return a.WriteAscii(w)
}

// WriteBinary writes c in binary aiger format.
func (c *Counter) WriteBinary(w io.Writer) error {
	a, err := c.Aiger()
	if err != nil {
		return err
	}
	return a.WriteBinary(w)
}
