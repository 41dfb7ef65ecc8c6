// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package expr

// Table is the truth table of a function of n variables, one bit per
// input code.
type Table struct {
	n int
	w []uint64
}

// TableOf evaluates e on all 2^n codes.
func TableOf(e *Expr, n int) *Table {
	t := NewTable(n)
	sz := uint(1) << uint(n)
	for c := uint(0); c < sz; c++ {
		if e.Eval(c) {
			t.Set(c)
		}
	}
	return t
}

// NewTable creates the constant false table over n variables.
func NewTable(n int) *Table {
	sz := uint(1) << uint(n)
	return &Table{n: n, w: make([]uint64, (sz+63)/64)}
}

// N returns the number of variables.
func (t *Table) N() int {
	return t.n
}

// Set sets the value at code c to true.
func (t *Table) Set(c uint) {
	t.w[c/64] |= 1 << (c % 64)
}

// At returns the value at code c.
func (t *Table) At(c uint) bool {
	return t.w[c/64]&(1<<(c%64)) != 0
}

// Ones returns the codes with value true in ascending order.
func (t *Table) Ones() []uint {
	var res []uint
	sz := uint(1) << uint(t.n)
	for c := uint(0); c < sz; c++ {
		if t.At(c) {
			res = append(res, c)
		}
	}
	return res
}

// Equal returns whether t and o define the same function.
func (t *Table) Equal(o *Table) bool {
	if t.n != o.n {
		return false
	}
	for i := range t.w {
		if t.w[i] != o.w[i] {
			return false
		}
	}
	return true
}

// Equivalent returns whether a and b agree on all codes over n
// variables.
func Equivalent(a, b *Expr, n int) bool {
	return TableOf(a, n).Equal(TableOf(b, n))
}
