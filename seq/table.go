// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package seq

import (
	"fmt"
	"sort"
)

// Duplicates determines how a table treats a code which occurs more than
// once in a sequence.
type Duplicates int

const (
	// Reject fails when a repeated code has two different successors.
	// Repeats with the same successor collapse.
	Reject Duplicates = iota
	// LastWins keeps the successor of the last occurrence.
	LastWins
)

func (d Duplicates) String() string {
	switch d {
	case Reject:
		return "reject"
	case LastWins:
		return "last"
	default:
		return fmt.Sprintf("duplicates(%d)", int(d))
	}
}

// ParseDuplicates reads "reject" or "last".
func ParseDuplicates(s string) (Duplicates, error) {
	switch s {
	case "", "reject":
		return Reject, nil
	case "last", "last-wins":
		return LastWins, nil
	}
	return Reject, fmt.Errorf("unknown duplicate policy %q", s)
}

// Table is the cyclic present to next state relation of a sequence.
// A Table is immutable once built.
type Table struct {
	bits  int
	order []uint
	next  map[uint]uint
}

// NewTable builds the table of codes with the given register width,
// treating repeated codes according to dup.
func NewTable(codes []uint, bits int, dup Duplicates) (*Table, error) {
	if len(codes) < 1 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	if bits < 1 || bits > MaxBits {
		return nil, fmt.Errorf("%w: width %d out of range [1, %d]", ErrInvalidSequence, bits, MaxBits)
	}
	lim := uint(1) << uint(bits)
	t := &Table{
		bits:  bits,
		order: make([]uint, len(codes)),
		next:  make(map[uint]uint, len(codes))}
	copy(t.order, codes)
	for i, c := range codes {
		if c >= lim {
			return nil, fmt.Errorf("%w: code %d needs more than %d bits", ErrInvalidSequence, c, bits)
		}
		n := codes[(i+1)%len(codes)]
		if prev, ok := t.next[c]; ok && prev != n && dup == Reject {
			return nil, fmt.Errorf("%w: code %d steps to both %d and %d", ErrInvalidSequence, c, prev, n)
		}
		t.next[c] = n
	}
	return t, nil
}

// FromSequence resolves the width of codes and builds their table.
func FromSequence(codes []uint, dup Duplicates) (*Table, error) {
	n, e := Width(codes)
	if e != nil {
		return nil, e
	}
	return NewTable(codes, n, dup)
}

// Bits returns the register width.
func (t *Table) Bits() int {
	return t.bits
}

// Size returns 2^Bits(), the number of codes in the state space.
func (t *Table) Size() uint {
	return uint(1) << uint(t.bits)
}

// Next returns the successor of c and whether c is specified.
func (t *Table) Next(c uint) (uint, bool) {
	n, ok := t.next[c]
	return n, ok
}

// Specified returns whether c occurs in the sequence.
func (t *Table) Specified(c uint) bool {
	_, ok := t.next[c]
	return ok
}

// Codes returns the distinct specified codes in ascending order.
func (t *Table) Codes() []uint {
	res := make([]uint, 0, len(t.next))
	for c := range t.next {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// Order returns a copy of the sequence the table was built from.
func (t *Table) Order() []uint {
	res := make([]uint, len(t.order))
	copy(res, t.order)
	return res
}

// Map returns a copy of the present to next relation.
func (t *Table) Map() map[uint]uint {
	res := make(map[uint]uint, len(t.next))
	for k, v := range t.next {
		res[k] = v
	}
	return res
}

// Partition is the care set partition of the next state function of one
// bit.  Codes which are in neither On nor DC are in the off-set.
type Partition struct {
	Bit int
	On  []uint
	DC  []uint
}

// Partitions returns one Partition per bit, in bit order.  Every code of
// the state space is classified for every bit.
func (t *Table) Partitions() []Partition {
	ps := make([]Partition, t.bits)
	for i := range ps {
		ps[i].Bit = i
	}
	sz := t.Size()
	for c := uint(0); c < sz; c++ {
		n, ok := t.next[c]
		for i := range ps {
			p := &ps[i]
			switch {
			case !ok:
				p.DC = append(p.DC, c)
			case Bit(n, i):
				p.On = append(p.On, c)
			}
		}
	}
	return ps
}

// CycleFrom follows the relation from c and returns the codes visited
// until one repeats.  The result reports whether the walk returned to c,
// in which case the path is a cycle through c.
func (t *Table) CycleFrom(c uint) ([]uint, bool) {
	if !t.Specified(c) {
		return nil, false
	}
	seen := make(map[uint]bool)
	var path []uint
	cur := c
	for !seen[cur] {
		seen[cur] = true
		path = append(path, cur)
		n, ok := t.next[cur]
		if !ok {
			return path, false
		}
		cur = n
	}
	return path, cur == c
}
