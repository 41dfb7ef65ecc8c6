// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package aig

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/logic/aiger"
	"github.com/go-air/gini/z"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/expr"
	"github.com/go-air/seqsynth/gen"
	"github.com/go-air/seqsynth/qm"
	"github.com/go-air/seqsynth/seq"
)

func counter(t *testing.T, codes []uint, ff excite.FlipFlop) (*seq.Table, *Counter) {
	t.Helper()
	tab, err := seq.FromSequence(codes, seq.Reject)
	if err != nil {
		t.Fatal(err)
	}
	set, err := excite.DeriveAll(context.Background(), ff, tab, qm.New())
	if err != nil {
		t.Fatal(err)
	}
	c, err := Build(set)
	if err != nil {
		t.Fatal(err)
	}
	return tab, c
}

func TestLower(t *testing.T) {
	c := logic.NewC()
	ins := []z.Lit{c.Lit(), c.Lit()}
	e, _ := expr.Parse("Q0&~Q1|~Q0&Q1")
	m := Lower(c, c.T, e, ins)
	for code := uint(0); code < 4; code++ {
		vs := make([]bool, c.Len())
		vs[ins[0].Var()] = code&1 == 1
		vs[ins[1].Var()] = code&2 == 2
		vs[c.T.Var()] = true
		c.Eval(vs)
		got := vs[m.Var()]
		if !m.IsPos() {
			got = !got
		}
		if got != e.Eval(code) {
			t.Errorf("lowered xor differs at %d", code)
		}
	}
	if Lower(c, c.T, expr.True, ins) != c.T || Lower(c, c.T, expr.False, ins) != c.F {
		t.Errorf("constants")
	}
}

func TestTrace(t *testing.T) {
	for _, ff := range []excite.FlipFlop{excite.D, excite.T, excite.JK, excite.SR} {
		for _, codes := range [][]uint{{0, 1, 3, 2}, gen.Gray(3), gen.Johnson(4), {0, 5, 2}, {0}} {
			tab, c := counter(t, codes, ff)
			exp, ok := tab.CycleFrom(0)
			if !ok {
				t.Fatalf("%v: no cycle from 0", codes)
			}
			got := c.Trace(2 * len(exp))
			for i, st := range got {
				if st != exp[i%len(exp)] {
					t.Errorf("%s %v: step %d expected %d got %d", ff, codes, i, exp[i%len(exp)], st)
					break
				}
			}
		}
	}
}

func TestStepSpecified(t *testing.T) {
	codes := []uint{6, 3, 1, 4}
	for _, ff := range []excite.FlipFlop{excite.D, excite.T, excite.JK, excite.SR} {
		tab, c := counter(t, codes, ff)
		for _, code := range tab.Codes() {
			n, _ := tab.Next(code)
			if got := c.Step(code); got != n {
				t.Errorf("%s: step(%d) expected %d got %d", ff, code, n, got)
			}
		}
	}
}

func TestWriteAscii(t *testing.T) {
	_, c := counter(t, []uint{0, 1, 3, 2}, excite.D)
	var buf bytes.Buffer
	if err := c.WriteAscii(&buf); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	hdr := strings.Fields(strings.SplitN(s, "\n", 2)[0])
	if len(hdr) < 5 || hdr[0] != "aag" || hdr[2] != "0" || hdr[3] != "2" || hdr[4] != "2" {
		t.Errorf("bad header %v", hdr)
	}
	for _, sym := range []string{"l0 q[0]\n", "l1 q[1]\n", "o0 D0\n", "o1 D1\n"} {
		if !strings.Contains(s, sym) {
			t.Errorf("missing symbol %q in\n%s", sym, s)
		}
	}
	a, err := aiger.ReadAscii(strings.NewReader(s))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Latches) != 2 || len(a.Outputs) != 2 {
		t.Errorf("read back %d latches %d outputs", len(a.Latches), len(a.Outputs))
	}
}

func TestWriteBinary(t *testing.T) {
	_, c := counter(t, []uint{0, 1}, excite.T)
	var buf bytes.Buffer
	if err := c.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "aig ") {
		t.Errorf("bad binary header: %q", buf.String())
	}
}
