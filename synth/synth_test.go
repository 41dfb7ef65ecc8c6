// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package synth

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/expr"
	"github.com/go-air/seqsynth/gen"
	"github.com/go-air/seqsynth/netlist"
	"github.com/go-air/seqsynth/seq"
)

func TestRunD(t *testing.T) {
	req, err := NewRequest("0 1 3 2", "D")
	require.NoError(t, err)
	res, err := Run(context.Background(), req, Options{Verify: true})
	require.NoError(t, err)

	exp := map[string]string{"D0": "~Q1", "D1": "Q0"}
	if diff := cmp.Diff(exp, res.Set.Map()); diff != "" {
		t.Errorf("equations (-want +got):\n%s", diff)
	}
	require.Len(t, res.Netlists, 2)
	assert.Equal(t, "D0", res.Netlists[0].Signal)
	assert.Equal(t, "D1", res.Netlists[1].Signal)
	assert.Empty(t, res.Fallbacks())
	assert.Contains(t, res.Module, "module fsm_auto(")
	assert.Contains(t, res.Testbench, "module tb_fsm_auto;")
	assert.Contains(t, res.Testbench, "expected[3] = 2'b10;")
	assert.True(t, res.Verified)
	assert.Equal(t, "D0 = ~Q1\nD1 = Q0\n", res.Equations())
}

func TestRunPresets(t *testing.T) {
	presets := []string{"binary:3", "gray:3", "johnson:3", "ring:3", "down:2", "mod:5"}
	for _, ff := range []excite.FlipFlop{excite.D, excite.T, excite.JK, excite.SR} {
		for _, p := range presets {
			codes, err := gen.Named(p)
			require.NoError(t, err)
			res, err := Run(context.Background(), Request{Sequence: codes, FlipFlop: ff}, Options{Verify: true})
			require.NoError(t, err, "%s %s", ff, p)
			sigs := ff.Signals(res.Table.Bits())
			require.Len(t, res.Netlists, len(sigs))
			for i, o := range res.Netlists {
				assert.Equal(t, sigs[i], o.Signal)
				assert.True(t, o.OK())
				assert.NoError(t, o.Netlist.Validate())
			}
		}
	}
}

func TestRunRequestErrors(t *testing.T) {
	ctx := context.Background()
	for name, req := range map[string]Request{
		"empty":    {FlipFlop: excite.D},
		"conflict": {Sequence: []uint{0, 1, 0, 2}, FlipFlop: excite.D},
		"ff":       {Sequence: []uint{0, 1}, FlipFlop: excite.FlipFlop(9)},
	} {
		res, err := Run(ctx, req, Options{})
		assert.Nil(t, res, name)
		assert.True(t, IsRequestError(err), "%s: %v", name, err)
	}

	_, err := NewRequest("0 x", "D")
	assert.ErrorIs(t, err, seq.ErrInvalidSequence)
	_, err = NewRequest("0 1", "XY")
	assert.ErrorIs(t, err, excite.ErrUnsupportedFlipFlop)
}

func TestRunLastWins(t *testing.T) {
	req := Request{Sequence: []uint{0, 1, 0, 2}, FlipFlop: excite.D, Duplicates: seq.LastWins}
	res, err := Run(context.Background(), req, Options{})
	require.NoError(t, err)
	n, _ := res.Table.Next(0)
	assert.Equal(t, uint(2), n)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Request{Sequence: []uint{0, 1, 3, 2}, FlipFlop: excite.JK}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, IsRequestError(err))
}

func TestRunDeadline(t *testing.T) {
	// 16 bits with nearly every code unspecified keeps the minimizer busy
	// far longer than the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err := Run(ctx, Request{Sequence: []uint{0, 65535}, FlipFlop: excite.D}, Options{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, IsRequestError(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestDrawFallback(t *testing.T) {
	sigs := []Signal{
		{Name: "J0", Text: "~Q0"},
		{Name: "K0", Text: "Q0&"},
		{Name: "J1", Text: "Q0&~Q1"},
		{Name: "K1", Text: "1"},
	}
	outs, err := Draw(context.Background(), sigs)
	require.NoError(t, err)
	require.Len(t, outs, len(sigs))
	for i, o := range outs {
		assert.Equal(t, sigs[i].Name, o.Signal)
	}

	assert.False(t, outs[1].OK())
	assert.ErrorIs(t, outs[1].Err(), expr.ErrParse)
	assert.Equal(t, "Q0&", outs[1].Fallback.Expr)

	for _, i := range []int{0, 2, 3} {
		o := outs[i]
		require.True(t, o.OK(), o.Signal)
		assert.NoError(t, o.Netlist.Validate())
		assert.Equal(t, sigs[i].Text, o.Netlist.Expr)
	}
	assert.Equal(t, 1, outs[0].Netlist.Count(netlist.Not))
	assert.Equal(t, 1, outs[2].Netlist.Count(netlist.And))
	assert.Equal(t, 1, outs[3].Netlist.Count(netlist.Input))
}

func TestRunLogs(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	_, err := Run(context.Background(), Request{Sequence: []uint{0, 1}, FlipFlop: excite.T}, Options{Log: log})
	require.NoError(t, err)
	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "synthesized", last.Message)
	assert.Equal(t, logrus.InfoLevel, last.Level)
	assert.Equal(t, "T", last.Data["ff"])
	assert.Equal(t, 1, last.Data["bits"])
}

func TestReport(t *testing.T) {
	res, err := Run(context.Background(), Request{Sequence: []uint{0, 1, 3, 2}, FlipFlop: excite.D}, Options{})
	require.NoError(t, err)
	rep := res.Report()
	assert.Equal(t, 2, rep.Bits)
	assert.Equal(t, "D", rep.FlipFlop)
	exp := []Transition{{"00", "01"}, {"01", "11"}, {"10", "00"}, {"11", "10"}}
	if diff := cmp.Diff(exp, rep.Table); diff != "" {
		t.Errorf("table (-want +got):\n%s", diff)
	}
	assert.False(t, rep.Verified)
}
