// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package verify

import (
	"context"
	"errors"
	"testing"

	"github.com/go-air/seqsynth/aig"
	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/expr"
	"github.com/go-air/seqsynth/gen"
	"github.com/go-air/seqsynth/qm"
	"github.com/go-air/seqsynth/seq"
)

func derive(t *testing.T, codes []uint, ff excite.FlipFlop) (*seq.Table, *excite.Set) {
	t.Helper()
	tab, err := seq.FromSequence(codes, seq.Reject)
	if err != nil {
		t.Fatal(err)
	}
	set, err := excite.DeriveAll(context.Background(), ff, tab, qm.New())
	if err != nil {
		t.Fatal(err)
	}
	return tab, set
}

func parse(t *testing.T, s string) *expr.Expr {
	t.Helper()
	e, err := expr.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEquivalent(t *testing.T) {
	a := parse(t, "Q0&~Q1|~Q0&Q1")
	b := expr.Xor(expr.Var(0), expr.Var(1))
	if err := Equivalent(a, b, 2); err != nil {
		t.Errorf("xor forms differ: %v", err)
	}
	err := Equivalent(a, parse(t, "Q0|Q1"), 2)
	var ce *Counterexample
	if !errors.As(err, &ce) {
		t.Fatalf("expected counterexample, got %v", err)
	}
	if ce.Code != 3 {
		t.Errorf("expected witness 3, got %d", ce.Code)
	}
	if err := Equivalent(expr.True, expr.Not(expr.False), 0); err != nil {
		t.Errorf("constants: %v", err)
	}
}

func TestEquivalentOn(t *testing.T) {
	// Q0 and Q0|Q1 agree everywhere except code 2.
	a, b := expr.Var(0), parse(t, "Q0|Q1")
	if err := EquivalentOn(a, b, expr.Not(Minterm(2, 2)), 2); err != nil {
		t.Errorf("care set excludes 2: %v", err)
	}
	err := EquivalentOn(a, b, expr.True, 2)
	var ce *Counterexample
	if !errors.As(err, &ce) || ce.Code != 2 {
		t.Errorf("expected failure at 2, got %v", err)
	}
}

func TestExclusive(t *testing.T) {
	if err := Exclusive(parse(t, "~Q0&Q1"), parse(t, "Q0"), 2); err != nil {
		t.Errorf("disjoint: %v", err)
	}
	err := Exclusive(parse(t, "Q1"), parse(t, "Q0"), 2)
	var ce *Counterexample
	if !errors.As(err, &ce) || ce.Code != 3 {
		t.Errorf("expected overlap at 3, got %v", err)
	}
}

func TestMinterm(t *testing.T) {
	for code := uint(0); code < 8; code++ {
		m := Minterm(code, 3)
		for c := uint(0); c < 8; c++ {
			if m.Eval(c) != (c == code) {
				t.Errorf("minterm %d at %d", code, c)
			}
		}
	}
}

func TestCounter(t *testing.T) {
	seqs := [][]uint{{0, 1, 3, 2}, gen.Gray(3), gen.Johnson(3), gen.Down(3), {6, 3, 1, 4}, {0}, {5}}
	for _, ff := range []excite.FlipFlop{excite.D, excite.T, excite.JK, excite.SR} {
		for _, codes := range seqs {
			tab, set := derive(t, codes, ff)
			if err := Counter(set, tab); err != nil {
				t.Errorf("%s %v: %v", ff, codes, err)
			}
		}
	}
}

func TestCounterTampered(t *testing.T) {
	tab, set := derive(t, []uint{0, 1, 3, 2}, excite.D)
	set.Eqs[0].Expr = expr.Var(1)
	err := Counter(set, tab)
	var ce *Counterexample
	if !errors.As(err, &ce) {
		t.Fatalf("expected counterexample, got %v", err)
	}
	if ce.Check != "transition" || ce.Signal != "q[0]" {
		t.Errorf("unexpected %+v", ce)
	}
}

func TestCounterExclusion(t *testing.T) {
	// J=K=1 toggles, so the transitions still hold.
	tab, set := derive(t, []uint{0, 1}, excite.JK)
	set.Eqs[0].Expr = expr.True
	set.Eqs[1].Expr = expr.True
	err := Counter(set, tab)
	var ce *Counterexample
	if !errors.As(err, &ce) {
		t.Fatalf("expected counterexample, got %v", err)
	}
	if ce.Check != "exclusion" || ce.Signal != "J0/K0" {
		t.Errorf("unexpected %+v", ce)
	}
}

func TestCounterWidth(t *testing.T) {
	tab, _ := derive(t, []uint{0, 1, 3, 2}, excite.D)
	_, set := derive(t, []uint{0, 1}, excite.D)
	if err := Counter(set, tab); err == nil {
		t.Errorf("width mismatch accepted")
	}
}

func TestReset(t *testing.T) {
	for _, ff := range []excite.FlipFlop{excite.D, excite.T, excite.JK, excite.SR} {
		for _, codes := range [][]uint{{0, 1, 3, 2}, gen.Johnson(3), {2, 0, 3}} {
			tab, set := derive(t, codes, ff)
			c, err := aig.Build(set)
			if err != nil {
				t.Fatal(err)
			}
			if err := Reset(c, tab, 8); err != nil {
				t.Errorf("%s %v: %v", ff, codes, err)
			}
		}
	}
}

func TestResetNoCycle(t *testing.T) {
	tab, set := derive(t, []uint{1, 2}, excite.D)
	c, err := aig.Build(set)
	if err != nil {
		t.Fatal(err)
	}
	if err := Reset(c, tab, 4); err != nil {
		t.Errorf("nothing to check, got %v", err)
	}
}

func TestResetTampered(t *testing.T) {
	tab, set := derive(t, []uint{0, 1, 3, 2}, excite.D)
	set.Eqs[0].Expr = expr.Var(1)
	c, err := aig.Build(set)
	if err != nil {
		t.Fatal(err)
	}
	err = Reset(c, tab, 4)
	var ce *Counterexample
	if !errors.As(err, &ce) {
		t.Fatalf("expected counterexample, got %v", err)
	}
	if ce.Depth != 1 || ce.Code != 0 {
		t.Errorf("expected state 0 at cycle 1, got %+v", ce)
	}
}
