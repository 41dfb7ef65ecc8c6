// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"fmt"
	"strconv"
	"strings"
)

// Binary generates the up counter 0, 1, ..., 2^n-1.
func Binary(n int) []uint {
	sz := uint(1) << uint(n)
	res := make([]uint, sz)
	for i := range res {
		res[i] = uint(i)
	}
	return res
}

// Down generates the down counter 2^n-1, ..., 1, 0.
func Down(n int) []uint {
	res := Binary(n)
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res
}

// Gray generates the reflected gray code cycle over n bits.
func Gray(n int) []uint {
	res := Binary(n)
	for i, c := range res {
		res[i] = c ^ (c >> 1)
	}
	return res
}

// Johnson generates the 2n states of an n bit twisted ring counter
// starting at 0.
func Johnson(n int) []uint {
	res := make([]uint, 0, 2*n)
	var c uint
	mask := uint(1)<<uint(n) - 1
	for i := 0; i < 2*n; i++ {
		res = append(res, c)
		msb := (c >> uint(n-1)) & 1
		c = ((c << 1) | (msb ^ 1)) & mask
	}
	return res
}

// Ring generates the n one hot states 1, 2, 4, ...
func Ring(n int) []uint {
	res := make([]uint, n)
	for i := range res {
		res[i] = uint(1) << uint(i)
	}
	return res
}

// Mod generates the counter 0, 1, ..., m-1.
func Mod(m int) []uint {
	res := make([]uint, m)
	for i := range res {
		res[i] = uint(i)
	}
	return res
}

// Named returns the sequence named by s, which has the form kind:n with
// kind one of binary, down, gray, johnson, ring or mod.
func Named(s string) ([]uint, error) {
	kind, arg, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("generator %q: expected kind:n", s)
	}
	n, e := strconv.Atoi(arg)
	if e != nil || n < 1 {
		return nil, fmt.Errorf("generator %q: bad size %q", s, arg)
	}
	if kind != "mod" && n > 16 {
		return nil, fmt.Errorf("generator %q: at most 16 bits", s)
	}
	if kind == "mod" && n > 1<<16 {
		return nil, fmt.Errorf("generator %q: modulus too large", s)
	}
	switch kind {
	case "binary":
		return Binary(n), nil
	case "down":
		return Down(n), nil
	case "gray":
		return Gray(n), nil
	case "johnson":
		return Johnson(n), nil
	case "ring":
		return Ring(n), nil
	case "mod":
		return Mod(n), nil
	}
	return nil, fmt.Errorf("generator %q: unknown kind %q", s, kind)
}
