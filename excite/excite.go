// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package excite derives flip-flop excitation equations from next state
// functions.
//
// For present state Q and next state N of one bit:
//
//	D:  D = N
//	T:  T = Q&~N | ~Q&N
//	JK: J = ~Q&N, K = Q&~N
//	SR: S = ~Q&N, R = Q&~N
//
// Each derived function is minimized again over its full truth table, so
// J and K (S and R) are never true at the same code.
package excite

import (
	"context"
	"fmt"

	"github.com/go-air/seqsynth/expr"
	"github.com/go-air/seqsynth/qm"
	"github.com/go-air/seqsynth/seq"
)

// Equation is the minimized function driving one flip-flop input.
type Equation struct {
	Signal string // eg "J1"
	Port   string // eg "J"
	Bit    int
	Expr   *expr.Expr
}

func (e Equation) String() string {
	return e.Signal + " = " + e.Expr.String()
}

// Set is the excitation equation set of a register.
type Set struct {
	FlipFlop FlipFlop
	Bits     int
	Next     []*expr.Expr // minimized next state function of each bit
	Eqs      []Equation   // in the order of FlipFlop.Signals(Bits)
}

// NewSet assembles a Set from per bit results.
func NewSet(ff FlipFlop, bits int, next []*expr.Expr, eqs [][]Equation) *Set {
	s := &Set{FlipFlop: ff, Bits: bits, Next: next}
	for _, bs := range eqs {
		s.Eqs = append(s.Eqs, bs...)
	}
	return s
}

// Map returns the canonical text of each equation by signal name.
func (s *Set) Map() map[string]string {
	res := make(map[string]string, len(s.Eqs))
	for _, e := range s.Eqs {
		res[e.Signal] = e.Expr.String()
	}
	return res
}

// Lookup finds the equation of signal sig.
func (s *Set) Lookup(sig string) (Equation, bool) {
	for _, e := range s.Eqs {
		if e.Signal == sig {
			return e, true
		}
	}
	return Equation{}, false
}

// Bit returns the equations of bit i in port order.
func (s *Set) Bit(i int) []*expr.Expr {
	var res []*expr.Expr
	for _, e := range s.Eqs {
		if e.Bit == i {
			res = append(res, e.Expr)
		}
	}
	return res
}

// Raw returns the unminimized excitation functions of bit with next
// state n, one per port of ff.
func Raw(ff FlipFlop, bit int, n *expr.Expr) ([]*expr.Expr, error) {
	q := expr.Var(bit)
	switch ff {
	case D:
		return []*expr.Expr{n}, nil
	case T:
		return []*expr.Expr{expr.Or(expr.And(q, expr.Not(n)), expr.And(expr.Not(q), n))}, nil
	case JK, SR:
		set := expr.And(expr.Not(q), n)
		reset := expr.And(q, expr.Not(n))
		return []*expr.Expr{set, reset}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFlipFlop, ff)
}

// Derive returns the minimized excitation equations of bit in a bits
// wide register, given its next state function n.
func Derive(ctx context.Context, ff FlipFlop, bit, bits int, n *expr.Expr, m qm.Minimizer) ([]Equation, error) {
	raws, err := Raw(ff, bit, n)
	if err != nil {
		return nil, err
	}
	ports := ff.Ports()
	res := make([]Equation, len(raws))
	for i, r := range raws {
		e, err := qm.MinimizeTable(ctx, m, expr.TableOf(r, bits))
		if err != nil {
			return nil, err
		}
		res[i] = Equation{
			Signal: fmt.Sprintf("%s%d", ports[i], bit),
			Port:   ports[i],
			Bit:    bit,
			Expr:   e}
	}
	return res, nil
}

// NextState minimizes the next state function of one bit.
func NextState(ctx context.Context, p seq.Partition, bits int, m qm.Minimizer) (*expr.Expr, error) {
	return m.Minimize(ctx, bits, p.On, p.DC)
}

// DeriveBit minimizes the next state function of partition p and derives
// its excitation equations.
func DeriveBit(ctx context.Context, ff FlipFlop, p seq.Partition, bits int, m qm.Minimizer) (*expr.Expr, []Equation, error) {
	n, err := NextState(ctx, p, bits, m)
	if err != nil {
		return nil, nil, err
	}
	eqs, err := Derive(ctx, ff, p.Bit, bits, n, m)
	if err != nil {
		return nil, nil, err
	}
	return n, eqs, nil
}

// DeriveAll derives the excitation equation set of a counter walking t.
func DeriveAll(ctx context.Context, ff FlipFlop, t *seq.Table, m qm.Minimizer) (*Set, error) {
	if _, err := Raw(ff, 0, expr.False); err != nil {
		return nil, err
	}
	ps := t.Partitions()
	next := make([]*expr.Expr, len(ps))
	eqs := make([][]Equation, len(ps))
	for i, p := range ps {
		n, bs, err := DeriveBit(ctx, ff, p, t.Bits(), m)
		if err != nil {
			return nil, err
		}
		next[i], eqs[i] = n, bs
	}
	return NewSet(ff, t.Bits(), next, eqs), nil
}

// Characteristic returns the next state of flip-flop state q driven by
// ins, one expression per port of ff.
func Characteristic(ff FlipFlop, q *expr.Expr, ins ...*expr.Expr) (*expr.Expr, error) {
	if len(ins) != len(ff.Ports()) {
		return nil, fmt.Errorf("%s flip-flop needs %d inputs, got %d", ff, len(ff.Ports()), len(ins))
	}
	switch ff {
	case D:
		return ins[0], nil
	case T:
		return expr.Xor(q, ins[0]), nil
	case JK:
		return expr.Or(expr.And(ins[0], expr.Not(q)), expr.And(expr.Not(ins[1]), q)), nil
	case SR:
		return expr.Or(ins[0], expr.And(expr.Not(ins[1]), q)), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFlipFlop, ff)
}
