// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package excite

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFlipFlop is returned for flip-flop types other than D, T,
// JK and SR.
var ErrUnsupportedFlipFlop = errors.New("unsupported flip-flop")

// FlipFlop is a flip-flop type.
type FlipFlop int

const (
	D FlipFlop = iota
	T
	JK
	SR
)

var ffNames = [...]string{D: "D", T: "T", JK: "JK", SR: "SR"}

// ParseFlipFlop reads a flip-flop type, ignoring case and surrounding
// white space.
func ParseFlipFlop(s string) (FlipFlop, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	for i, nm := range ffNames {
		if nm == u {
			return FlipFlop(i), nil
		}
	}
	return D, fmt.Errorf("%w: %q (want one of D, T, JK, SR)", ErrUnsupportedFlipFlop, s)
}

func (f FlipFlop) String() string {
	if f < 0 || int(f) >= len(ffNames) {
		return fmt.Sprintf("FlipFlop(%d)", int(f))
	}
	return ffNames[f]
}

// Set implements pflag.Value.
func (f *FlipFlop) Set(s string) error {
	g, e := ParseFlipFlop(s)
	if e != nil {
		return e
	}
	*f = g
	return nil
}

// Type implements pflag.Value.
func (f *FlipFlop) Type() string {
	return "flipflop"
}

// Ports returns the names of the control inputs of f, in order.
func (f FlipFlop) Ports() []string {
	switch f {
	case D:
		return []string{"D"}
	case T:
		return []string{"T"}
	case JK:
		return []string{"J", "K"}
	case SR:
		return []string{"S", "R"}
	}
	return nil
}

// Signals returns the excitation signal names of a bits wide register
// of f flip-flops, bit major: J0 K0 J1 K1 ...
func (f FlipFlop) Signals(bits int) []string {
	ps := f.Ports()
	res := make([]string, 0, bits*len(ps))
	for i := 0; i < bits; i++ {
		for _, p := range ps {
			res = append(res, fmt.Sprintf("%s%d", p, i))
		}
	}
	return res
}
