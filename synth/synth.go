// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package synth runs the whole pipeline: from a state sequence and a
// flip-flop type to equations, netlists, Verilog and an and-inverter
// graph of the counter.
package synth

import (
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/go-air/seqsynth/aig"
	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/expr"
	"github.com/go-air/seqsynth/hdl"
	"github.com/go-air/seqsynth/netlist"
	"github.com/go-air/seqsynth/qm"
	"github.com/go-air/seqsynth/seq"
	"github.com/go-air/seqsynth/verify"
)

// Request is the input of Run.
type Request struct {
	Sequence   []uint
	FlipFlop   excite.FlipFlop
	Duplicates seq.Duplicates
}

// NewRequest parses a sequence and a flip-flop name.
func NewRequest(sequence, ff string) (Request, error) {
	codes, err := seq.Parse(sequence)
	if err != nil {
		return Request{}, err
	}
	f, err := excite.ParseFlipFlop(ff)
	if err != nil {
		return Request{}, err
	}
	return Request{Sequence: codes, FlipFlop: f}, nil
}

// Options configure Run.  The zero value is usable.
type Options struct {
	Minimizer qm.Minimizer       // qm.New() if nil
	Log       logrus.FieldLogger // discarded if nil
	HDL       hdl.Options
	Verify    bool // run the SAT checks of package verify
	Depth     int  // reset check depth, twice the cycle length if 0
}

// Result holds every artifact of a request.
type Result struct {
	Table     *seq.Table
	Set       *excite.Set
	Netlists  []netlist.Outcome // in Set.Eqs order
	Module    string
	Testbench string
	Counter   *aig.Counter
	Verified  bool
}

// Fallbacks returns the outcomes which carry a label instead of a netlist.
func (r *Result) Fallbacks() []netlist.Outcome {
	var res []netlist.Outcome
	for _, o := range r.Netlists {
		if !o.OK() {
			res = append(res, o)
		}
	}
	return res
}

func discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// IsRequestError returns whether err is caused by an invalid request
// rather than by a failure of the pipeline.
func IsRequestError(err error) bool {
	return errors.Is(err, seq.ErrInvalidSequence) || errors.Is(err, excite.ErrUnsupportedFlipFlop)
}

// Run synthesizes req.  Errors of the request itself fail the whole run
// and satisfy IsRequestError; a signal whose netlist cannot be drawn gets
// a fallback label and does not fail the run.  Run returns the error of
// ctx once ctx is done, also from within minimization.
func Run(ctx context.Context, req Request, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = discard()
	}
	m := opts.Minimizer
	if m == nil {
		m = qm.New()
	}
	if _, err := excite.Raw(req.FlipFlop, 0, expr.False); err != nil {
		return nil, err
	}
	tab, err := seq.FromSequence(req.Sequence, req.Duplicates)
	if err != nil {
		return nil, errors.Wrap(err, "building transition table")
	}
	log = log.WithFields(logrus.Fields{"ff": req.FlipFlop.String(), "bits": tab.Bits()})
	log.WithField("codes", len(tab.Codes())).Debug("transition table built")

	set, err := derive(ctx, req.FlipFlop, tab, m)
	if err != nil {
		return nil, err
	}
	log.WithField("equations", len(set.Eqs)).Debug("equations derived")

	res := &Result{Table: tab, Set: set}
	sigs := make([]Signal, len(set.Eqs))
	for i, e := range set.Eqs {
		sigs[i] = Signal{Name: e.Signal, Text: e.Expr.String()}
	}
	res.Netlists, err = Draw(ctx, sigs)
	if err != nil {
		return nil, err
	}
	for _, o := range res.Fallbacks() {
		log.WithField("signal", o.Signal).WithError(o.Err()).Warn("netlist fallback")
	}

	ho := opts.HDL
	if ho.Expect == nil {
		ho.Expect = hdl.Expect(tab)
	}
	if res.Module, err = hdl.Module(set, ho); err != nil {
		return nil, errors.Wrap(err, "rendering module")
	}
	res.Testbench = hdl.Testbench(tab.Bits(), ho)
	if res.Counter, err = aig.Build(set); err != nil {
		return nil, errors.Wrap(err, "building counter")
	}

	if opts.Verify {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := check(res, opts.Depth); err != nil {
			log.WithError(err).Error("verification failed")
			return res, err
		}
		res.Verified = true
		log.Debug("verified")
	}
	log.Info("synthesized")
	return res, nil
}

// derive minimizes each bit concurrently.
func derive(ctx context.Context, ff excite.FlipFlop, tab *seq.Table, m qm.Minimizer) (*excite.Set, error) {
	ps := tab.Partitions()
	next := make([]*expr.Expr, len(ps))
	eqs := make([][]excite.Equation, len(ps))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range ps {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, bs, err := excite.DeriveBit(ctx, ff, p, tab.Bits(), m)
			if err != nil {
				return errors.Wrapf(err, "bit %d", p.Bit)
			}
			next[i], eqs[i] = n, bs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return excite.NewSet(ff, tab.Bits(), next, eqs), nil
}

// Signal names the canonical text of one equation.
type Signal struct {
	Name string
	Text string
}

// Draw synthesizes the netlist of each signal concurrently, in the order
// of sigs.  A signal whose text does not parse gets a fallback label; the
// others are unaffected.
func Draw(ctx context.Context, sigs []Signal) ([]netlist.Outcome, error) {
	res := make([]netlist.Outcome, len(sigs))
	g, ctx := errgroup.WithContext(ctx)
	for i, sg := range sigs {
		i, sg := i, sg
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res[i] = netlist.Synthesize(sg.Name, sg.Text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func check(res *Result, depth int) error {
	if err := verify.Counter(res.Set, res.Table); err != nil {
		return errors.Wrap(err, "checking transitions")
	}
	if depth <= 0 {
		depth = 2 * len(res.Table.Codes())
	}
	if err := verify.Reset(res.Counter, res.Table, depth); err != nil {
		return errors.Wrap(err, "checking reset")
	}
	return nil
}

// Equations returns the equations of r as "SIGNAL = expr" lines.
func (r *Result) Equations() string {
	var sb strings.Builder
	for _, e := range r.Set.Eqs {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
