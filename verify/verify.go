// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package verify checks synthesized equations with the gini SAT solver.
//
// Each check builds a miter circuit which is satisfiable exactly when the
// property fails, so a model is a counterexample.
package verify

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/go-air/seqsynth/aig"
	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/expr"
	"github.com/go-air/seqsynth/seq"
)

// Counterexample describes a failed check.
type Counterexample struct {
	Check  string // name of the failed check
	Signal string // signal or bit concerned, if any
	Code   uint   // present state witnessing the failure
	Depth  int    // cycles from reset, for Reset
}

func (c *Counterexample) Error() string {
	if c.Check == "reset" {
		return fmt.Sprintf("%s: state %d at cycle %d", c.Check, c.Code, c.Depth)
	}
	if c.Signal != "" {
		return fmt.Sprintf("%s %s: fails at code %d", c.Check, c.Signal, c.Code)
	}
	return fmt.Sprintf("%s: fails at code %d", c.Check, c.Code)
}

// miter is a combinational circuit over n state variables.
type miter struct {
	c   *logic.C
	ins []z.Lit
}

func newMiter(n int) *miter {
	c := logic.NewC()
	ins := make([]z.Lit, n)
	for i := range ins {
		ins[i] = c.Lit()
	}
	return &miter{c: c, ins: ins}
}

func (m *miter) lower(e *expr.Expr) z.Lit {
	return aig.Lower(m.c, m.c.T, e, m.ins)
}

// sat solves for m and returns whether it is satisfiable with a witness
// code.
func (m *miter) sat(root z.Lit) (bool, uint) {
	switch root {
	case m.c.F:
		return false, 0
	case m.c.T:
		return true, 0
	}
	g := gini.New()
	m.c.ToCnfFrom(g, root)
	g.Assume(root)
	if g.Solve() != 1 {
		return false, 0
	}
	var code uint
	for i, in := range m.ins {
		if g.Value(in) {
			code |= 1 << uint(i)
		}
	}
	return true, code
}

// Equivalent checks that a and b agree on every code over n variables.
func Equivalent(a, b *expr.Expr, n int) error {
	return EquivalentOn(a, b, expr.True, n)
}

// EquivalentOn checks that a and b agree on every code where care holds.
func EquivalentOn(a, b, care *expr.Expr, n int) error {
	m := newMiter(n)
	root := m.c.And(m.lower(care), m.c.Xor(m.lower(a), m.lower(b)))
	if ok, code := m.sat(root); ok {
		return &Counterexample{Check: "equivalence", Code: code}
	}
	return nil
}

// Exclusive checks that a and b are never true together.
func Exclusive(a, b *expr.Expr, n int) error {
	m := newMiter(n)
	if ok, code := m.sat(m.c.And(m.lower(a), m.lower(b))); ok {
		return &Counterexample{Check: "exclusion", Code: code}
	}
	return nil
}

// Minterm returns the product true only at code over n variables.
func Minterm(code uint, n int) *expr.Expr {
	lits := make([]*expr.Expr, n)
	for i := range lits {
		lits[i] = expr.Var(i)
		if !seq.Bit(code, i) {
			lits[i] = expr.Not(lits[i])
		}
	}
	return expr.Ands(lits...)
}

// Counter checks that at every specified code of t, the equations of set
// drive every flip-flop to its successor bit, and that set and reset
// style inputs are mutually exclusive.
func Counter(set *excite.Set, t *seq.Table) error {
	n := t.Bits()
	if set.Bits != n {
		return fmt.Errorf("equation set has %d bits, table %d", set.Bits, n)
	}
	var care []*expr.Expr
	for _, c := range t.Codes() {
		care = append(care, Minterm(c, n))
	}
	specified := expr.Ors(care...)
	for i := 0; i < n; i++ {
		var on []*expr.Expr
		for _, c := range t.Codes() {
			nx, _ := t.Next(c)
			if seq.Bit(nx, i) {
				on = append(on, Minterm(c, n))
			}
		}
		ins := set.Bit(i)
		got, err := excite.Characteristic(set.FlipFlop, expr.Var(i), ins...)
		if err != nil {
			return err
		}
		if err := EquivalentOn(got, expr.Ors(on...), specified, n); err != nil {
			ce := err.(*Counterexample)
			ce.Check, ce.Signal = "transition", fmt.Sprintf("q[%d]", i)
			return ce
		}
		if set.FlipFlop == excite.JK || set.FlipFlop == excite.SR {
			if err := Exclusive(ins[0], ins[1], n); err != nil {
				ce := err.(*Counterexample)
				ce.Signal = set.FlipFlop.Signals(n)[2*i] + "/" + set.FlipFlop.Signals(n)[2*i+1]
				return ce
			}
		}
	}
	return nil
}

// Reset checks, by bounded model checking of c unrolled depth cycles,
// that the counter leaves reset and walks the cycle of t through 0.  If
// the walk from 0 is not a cycle there is nothing to check.
func Reset(c *aig.Counter, t *seq.Table, depth int) error {
	path, ok := t.CycleFrom(0)
	if !ok {
		return nil
	}
	u := logic.NewRoll(c.S)
	var diffs []z.Lit
	for d := 0; d <= depth; d++ {
		exp := path[d%len(path)]
		for i, m := range c.Latches {
			b := u.C.F
			if seq.Bit(exp, i) {
				b = u.C.T
			}
			diffs = append(diffs, u.C.Xor(u.At(m, d), b))
		}
	}
	root := u.C.Ors(diffs...)
	if root == u.C.F {
		return nil
	}
	value := func(m z.Lit) bool { return m == u.C.T }
	if root != u.C.T {
		g := gini.New()
		u.C.ToCnfFrom(g, root)
		g.Assume(root)
		if g.Solve() != 1 {
			return nil
		}
		value = func(m z.Lit) bool {
			switch m {
			case u.C.T:
				return true
			case u.C.F:
				return false
			}
			return g.Value(m)
		}
	}
	for d := 0; d <= depth; d++ {
		var st uint
		for i, m := range c.Latches {
			if value(u.At(m, d)) {
				st |= 1 << uint(i)
			}
		}
		if st != path[d%len(path)] {
			return &Counterexample{Check: "reset", Code: st, Depth: d}
		}
	}
	return &Counterexample{Check: "reset", Depth: depth}
}
