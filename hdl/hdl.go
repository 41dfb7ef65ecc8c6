// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package hdl renders excitation equation sets as synthesizable Verilog
// and a self checking test bench.
package hdl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/seq"
)

// Defaults for Options.
const (
	DefaultModule = "fsm_auto"
	DefaultCycles = 20
	Period        = 10 // clock period of the test bench
)

// Options control the rendered text.
type Options struct {
	Module string // module name, DefaultModule if empty
	Cycles int    // bench run time in clock periods after reset, DefaultCycles if 0
	// Expect lists the states of q from reset, starting with 0.  If
	// non-empty, the bench compares q against it every cycle.
	Expect []uint
}

func (o Options) module() string {
	if o.Module == "" {
		return DefaultModule
	}
	return o.Module
}

func (o Options) cycles() int {
	if o.Cycles <= 0 {
		return DefaultCycles
	}
	return o.Cycles
}

var qRE = regexp.MustCompile(`Q(\d+)`)

// Rewrite turns the canonical text of an equation into a Verilog
// expression over the register bits: Qi becomes q[i] and the constants
// become 1 bit literals.
func Rewrite(text string) string {
	switch text {
	case "0":
		return "1'b0"
	case "1":
		return "1'b1"
	}
	return qRE.ReplaceAllString(text, "q[$1]")
}

// update returns the right hand side of the register update of bit i.
func update(ff excite.FlipFlop, i int, ins []string) (string, error) {
	if len(ins) != len(ff.Ports()) {
		return "", fmt.Errorf("bit %d: %s flip-flop needs %d equations, got %d", i, ff, len(ff.Ports()), len(ins))
	}
	q := fmt.Sprintf("q[%d]", i)
	switch ff {
	case excite.D:
		return ins[0], nil
	case excite.T:
		return fmt.Sprintf("%s ^ (%s)", q, ins[0]), nil
	case excite.JK:
		return fmt.Sprintf("((%s) & ~%s) | (~(%s) & %s)", ins[0], q, ins[1], q), nil
	case excite.SR:
		return fmt.Sprintf("(%s) | (~(%s) & %s)", ins[0], ins[1], q), nil
	}
	return "", fmt.Errorf("%w: %s", excite.ErrUnsupportedFlipFlop, ff)
}

// Module renders the register module of set: one clock, an active high
// asynchronous reset clearing every bit, and the register output q.
func Module(set *excite.Set, opts Options) (string, error) {
	n := set.Bits
	var sb strings.Builder
	fmt.Fprintf(&sb, "// Auto-generated FSM Counter (%s Flip-Flop)\n", set.FlipFlop)
	for _, e := range set.Eqs {
		fmt.Fprintf(&sb, "// %s\n", e)
	}
	fmt.Fprintf(&sb, "module %s(input wire clk, input wire reset, output reg [%d:0] q);\n", opts.module(), n-1)
	fmt.Fprintf(&sb, "always @(posedge clk or posedge reset) begin\n")
	fmt.Fprintf(&sb, "    if (reset)\n")
	fmt.Fprintf(&sb, "        q <= %d'b%s;\n", n, strings.Repeat("0", n))
	fmt.Fprintf(&sb, "    else begin\n")
	for i := 0; i < n; i++ {
		var ins []string
		for _, e := range set.Bit(i) {
			ins = append(ins, Rewrite(e.String()))
		}
		rhs, err := update(set.FlipFlop, i, ins)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&sb, "        q[%d] <= %s;\n", i, rhs)
	}
	fmt.Fprintf(&sb, "    end\n")
	fmt.Fprintf(&sb, "end\n")
	fmt.Fprintf(&sb, "endmodule\n")
	return sb.String(), nil
}

// Testbench renders tb_<module>: a free running clock, a reset pulse, a
// trace of q and, given opts.Expect, a per cycle comparison with a
// PASS or FAIL verdict.
func Testbench(bits int, opts Options) string {
	mod := opts.module()
	ex := opts.Expect
	var sb strings.Builder
	fmt.Fprintf(&sb, "`timescale 1ns / 1ps\n")
	fmt.Fprintf(&sb, "module tb_%s;\n", mod)
	fmt.Fprintf(&sb, "    reg clk, reset;\n")
	fmt.Fprintf(&sb, "    wire [%d:0] q;\n", bits-1)
	if len(ex) > 0 {
		fmt.Fprintf(&sb, "    reg [%d:0] expected [0:%d];\n", bits-1, len(ex)-1)
		fmt.Fprintf(&sb, "    integer idx, errors;\n")
		fmt.Fprintf(&sb, "    reg started;\n")
	}
	fmt.Fprintf(&sb, "\n")
	fmt.Fprintf(&sb, "    %s uut (.clk(clk), .reset(reset), .q(q));\n", mod)
	fmt.Fprintf(&sb, "\n")
	fmt.Fprintf(&sb, "    initial begin\n")
	fmt.Fprintf(&sb, "        clk = 0;\n")
	fmt.Fprintf(&sb, "        forever #%d clk = ~clk;\n", Period/2)
	fmt.Fprintf(&sb, "    end\n")
	fmt.Fprintf(&sb, "\n")
	fmt.Fprintf(&sb, "    initial begin\n")
	fmt.Fprintf(&sb, "        reset = 1;\n")
	fmt.Fprintf(&sb, "        #%d reset = 0;\n", Period)
	if len(ex) > 0 {
		fmt.Fprintf(&sb, "        #%d;\n", opts.cycles()*Period)
		fmt.Fprintf(&sb, "        if (errors == 0)\n")
		fmt.Fprintf(&sb, "            $display(\"PASS\");\n")
		fmt.Fprintf(&sb, "        else\n")
		fmt.Fprintf(&sb, "            $display(\"FAIL: %%0d mismatches\", errors);\n")
		fmt.Fprintf(&sb, "        $finish;\n")
	} else {
		fmt.Fprintf(&sb, "        #%d $finish;\n", opts.cycles()*Period)
	}
	fmt.Fprintf(&sb, "    end\n")
	fmt.Fprintf(&sb, "\n")
	fmt.Fprintf(&sb, "    initial begin\n")
	fmt.Fprintf(&sb, "        $monitor(\"Time=%%0t | q=%%b\", $time, q);\n")
	fmt.Fprintf(&sb, "    end\n")
	if len(ex) > 0 {
		fmt.Fprintf(&sb, "\n")
		fmt.Fprintf(&sb, "    initial begin\n")
		for i, c := range ex {
			fmt.Fprintf(&sb, "        expected[%d] = %d'b%s;\n", i, bits, seq.Format(c, bits))
		}
		fmt.Fprintf(&sb, "        idx = %d;\n", 1%len(ex))
		fmt.Fprintf(&sb, "        errors = 0;\n")
		fmt.Fprintf(&sb, "        started = 0;\n")
		fmt.Fprintf(&sb, "    end\n")
		fmt.Fprintf(&sb, "\n")
		fmt.Fprintf(&sb, "    always @(posedge clk) begin\n")
		fmt.Fprintf(&sb, "        if (!reset)\n")
		fmt.Fprintf(&sb, "            started <= 1;\n")
		fmt.Fprintf(&sb, "    end\n")
		fmt.Fprintf(&sb, "\n")
		fmt.Fprintf(&sb, "    always @(negedge clk) begin\n")
		fmt.Fprintf(&sb, "        if (started) begin\n")
		fmt.Fprintf(&sb, "            if (q !== expected[idx]) begin\n")
		fmt.Fprintf(&sb, "                errors = errors + 1;\n")
		fmt.Fprintf(&sb, "                $display(\"MISMATCH Time=%%0t q=%%b expected=%%b\", $time, q, expected[idx]);\n")
		fmt.Fprintf(&sb, "            end\n")
		fmt.Fprintf(&sb, "            idx = (idx + 1) %% %d;\n", len(ex))
		fmt.Fprintf(&sb, "        end\n")
		fmt.Fprintf(&sb, "    end\n")
	}
	fmt.Fprintf(&sb, "endmodule\n")
	return sb.String()
}

// Expect returns the states a counter walking t visits from reset, for
// Options.Expect.  It is empty unless the walk from 0 is a cycle.
func Expect(t *seq.Table) []uint {
	p, ok := t.CycleFrom(0)
	if !ok {
		return nil
	}
	return p
}
