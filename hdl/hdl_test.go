// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package hdl

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/qm"
	"github.com/go-air/seqsynth/seq"
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"))
}

func set(t *testing.T, codes []uint, ff excite.FlipFlop) (*seq.Table, *excite.Set) {
	t.Helper()
	tab, err := seq.FromSequence(codes, seq.Reject)
	require.NoError(t, err)
	s, err := excite.DeriveAll(context.Background(), ff, tab, qm.New())
	require.NoError(t, err)
	return tab, s
}

func TestRewrite(t *testing.T) {
	assert.Equal(t, "q[0]&~q[12]|q[3]", Rewrite("Q0&~Q12|Q3"))
	assert.Equal(t, "1'b0", Rewrite("0"))
	assert.Equal(t, "1'b1", Rewrite("1"))
}

func TestModuleD(t *testing.T) {
	_, s := set(t, []uint{0, 1, 3, 2}, excite.D)
	v, err := Module(s, Options{})
	require.NoError(t, err)
	golden(t).Assert(t, "module_d", []byte(v))
}

func TestModuleJK(t *testing.T) {
	_, s := set(t, []uint{0, 1, 3, 2}, excite.JK)
	v, err := Module(s, Options{})
	require.NoError(t, err)
	golden(t).Assert(t, "module_jk", []byte(v))
}

func TestModuleShapes(t *testing.T) {
	for _, ff := range []excite.FlipFlop{excite.T, excite.SR} {
		_, s := set(t, []uint{0, 3, 5}, ff)
		v, err := Module(s, Options{Module: "ctr"})
		require.NoError(t, err)
		assert.Contains(t, v, "module ctr(input wire clk, input wire reset, output reg [2:0] q);")
		assert.Contains(t, v, "q <= 3'b000;")
		for i := 0; i < 3; i++ {
			assert.Contains(t, v, "        q["+string(rune('0'+i))+"] <= ")
		}
		assert.NotRegexp(t, `Q\d`, strings.Join(strings.Split(v, "\n")[1+len(s.Eqs):], "\n"))
	}
}

func TestModuleMismatch(t *testing.T) {
	_, s := set(t, []uint{0, 1}, excite.JK)
	s.Eqs = s.Eqs[:1]
	_, err := Module(s, Options{})
	assert.Error(t, err)
}

func TestTestbenchCheck(t *testing.T) {
	tab, _ := set(t, []uint{3, 2, 0, 1}, excite.D)
	ex := Expect(tab)
	require.Equal(t, []uint{0, 1, 3, 2}, ex)
	golden(t).Assert(t, "testbench_check", []byte(Testbench(2, Options{Expect: ex})))
}

func TestTestbenchPlain(t *testing.T) {
	tab, _ := set(t, []uint{1, 5}, excite.D)
	ex := Expect(tab)
	assert.Empty(t, ex)
	golden(t).Assert(t, "testbench_plain", []byte(Testbench(3, Options{Expect: ex})))
}

func TestTestbenchCycles(t *testing.T) {
	tb := Testbench(1, Options{Module: "m", Cycles: 3})
	assert.Contains(t, tb, "module tb_m;")
	assert.Contains(t, tb, "m uut (")
	assert.Contains(t, tb, "#30 $finish;")
}
