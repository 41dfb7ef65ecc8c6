// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package synth

import (
	"github.com/go-air/seqsynth/netlist"
	"github.com/go-air/seqsynth/seq"
)

// Transition is one row of the transition table, codes formatted in
// binary.
type Transition struct {
	Present string `json:"present"`
	Next    string `json:"next"`
}

// Report is the serializable view of a Result.
type Report struct {
	Bits      int               `json:"bits"`
	FlipFlop  string            `json:"ff_type"`
	Table     []Transition      `json:"table"`
	Equations map[string]string `json:"equations"`
	Netlists  []netlist.Outcome `json:"netlists,omitempty"`
	Verilog   string            `json:"verilog,omitempty"`
	Testbench string            `json:"testbench,omitempty"`
	Verified  bool              `json:"verified,omitempty"`
}

// Report returns the view of r, with rows in ascending present code order.
func (r *Result) Report() *Report {
	n := r.Table.Bits()
	rep := &Report{
		Bits:      n,
		FlipFlop:  r.Set.FlipFlop.String(),
		Equations: r.Set.Map(),
		Netlists:  r.Netlists,
		Verilog:   r.Module,
		Testbench: r.Testbench,
		Verified:  r.Verified}
	for _, c := range r.Table.Codes() {
		nx, _ := r.Table.Next(c)
		rep.Table = append(rep.Table, Transition{Present: seq.Format(c, n), Next: seq.Format(nx, n)})
	}
	return rep
}
