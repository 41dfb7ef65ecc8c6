// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package qm implements two level minimization of Boolean functions given
// by an on-set and a don't care set.
//
// The reference Minimizer, QM, generates prime implicants with the
// Quine-McCluskey procedure, selects essential primes and covers the rest
// with Petrick's method, or greedily when Petrick's product expansion
// grows past a bound.
package qm

import (
	"context"
	"fmt"
	"math/bits"
	"sort"

	"github.com/go-air/seqsynth/expr"
)

// Minimizer reduces an on-set and a don't care set over n variables to a
// sum of products.  The result must be true on every code in on and false
// on every code in neither on nor dc.  Codes use bit i for variable Qi.
// Minimization stops with ctx.Err() once ctx is done.
type Minimizer interface {
	Minimize(ctx context.Context, n int, on, dc []uint) (*expr.Expr, error)
}

// DefaultMaxProducts bounds the number of products kept during Petrick
// expansion.
const DefaultMaxProducts = 1 << 12

// QM is a Quine-McCluskey minimizer.  The zero value is ready to use and
// a QM may be used concurrently.
type QM struct {
	// MaxProducts bounds Petrick's method; 0 means DefaultMaxProducts.
	MaxProducts int
}

// New returns a QM with default bounds.
func New() *QM {
	return &QM{MaxProducts: DefaultMaxProducts}
}

// Minimize implements Minimizer.
func (q *QM) Minimize(ctx context.Context, n int, on, dc []uint) (*expr.Expr, error) {
	if len(on) == 0 {
		return expr.False, nil
	}
	lim := uint(1) << uint(n)
	for _, c := range on {
		if c >= lim {
			panic(fmt.Sprintf("qm: code %d out of range for %d variables", c, n))
		}
	}
	ps, err := primes(ctx, n, on, dc)
	if err != nil {
		return nil, err
	}
	sel, err := q.cover(ctx, n, ps, on)
	if err != nil {
		return nil, err
	}
	return sop(n, sel), nil
}

// MinimizeTable minimizes the fully specified function t.
func MinimizeTable(ctx context.Context, m Minimizer, t *expr.Table) (*expr.Expr, error) {
	return m.Minimize(ctx, t.N(), t.Ones(), nil)
}

// cube is a product term: variable i is absent if bit i of dash is set,
// and otherwise has the polarity of bit i of val.
type cube struct {
	val  uint
	dash uint
}

func (c cube) covers(m uint) bool {
	return m&^c.dash == c.val
}

func (c cube) lits(n int) int {
	return n - bits.OnesCount(c.dash)
}

func (c cube) less(d cube, n int) bool {
	cl, dl := c.lits(n), d.lits(n)
	if cl != dl {
		return cl < dl
	}
	if c.val != d.val {
		return c.val < d.val
	}
	return c.dash < d.dash
}

type bucket struct {
	dash uint
	ones int
}

// primes returns the prime implicants of on+dc which cover at least one
// code in on, in a fixed order.  Levels are combined in any order, only
// the result is sorted.
func primes(ctx context.Context, n int, on, dc []uint) ([]cube, error) {
	seen := make(map[cube]bool, len(on)+len(dc))
	level := make([]cube, 0, len(on)+len(dc))
	for _, set := range [][]uint{on, dc} {
		for _, m := range set {
			c := cube{val: m}
			if !seen[c] {
				seen[c] = true
				level = append(level, c)
			}
		}
	}
	var res []cube
	for len(level) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bs := make(map[bucket][]cube)
		for _, c := range level {
			k := bucket{c.dash, bits.OnesCount(c.val)}
			bs[k] = append(bs[k], c)
		}
		used := make(map[cube]bool)
		next := make(map[cube]bool)
		for i, c := range level {
			if i&255 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}
			for _, d := range bs[bucket{c.dash, bits.OnesCount(c.val) + 1}] {
				diff := c.val ^ d.val
				if bits.OnesCount(diff) != 1 {
					continue
				}
				used[c], used[d] = true, true
				next[cube{val: c.val, dash: c.dash | diff}] = true
			}
		}
		for _, c := range level {
			if !used[c] {
				res = append(res, c)
			}
		}
		level = level[:0]
		for c := range next {
			level = append(level, c)
		}
	}
	useful := res[:0]
	for i, c := range res {
		if i&255 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, m := range on {
			if c.covers(m) {
				useful = append(useful, c)
				break
			}
		}
	}
	sortCubes(useful, n)
	return useful, nil
}

func sortCubes(cs []cube, n int) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].less(cs[j], n) })
}

// cover selects a minimum set of primes covering on.
func (q *QM) cover(ctx context.Context, n int, ps []cube, on []uint) ([]cube, error) {
	var sel []cube
	chosen := make([]bool, len(ps))
	covered := make(map[uint]bool, len(on))
	// essential primes
	for _, m := range on {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		k, cnt := -1, 0
		for i, p := range ps {
			if p.covers(m) {
				k = i
				cnt++
			}
		}
		if cnt == 1 && !chosen[k] {
			chosen[k] = true
			sel = append(sel, ps[k])
		}
	}
	markCovered(sel, on, covered)
	var rest []uint
	for _, m := range on {
		if !covered[m] {
			rest = append(rest, m)
			covered[m] = true
		}
	}
	if len(rest) == 0 {
		return sel, nil
	}
	var cands []cube
	for i, p := range ps {
		if i&255 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if chosen[i] {
			continue
		}
		for _, m := range rest {
			if p.covers(m) {
				cands = append(cands, p)
				break
			}
		}
	}
	max := q.MaxProducts
	if max == 0 {
		max = DefaultMaxProducts
	}
	pick, ok, err := petrick(ctx, n, cands, rest, max)
	if err != nil {
		return nil, err
	}
	if !ok {
		if pick, err = greedy(ctx, n, cands, rest); err != nil {
			return nil, err
		}
	}
	return append(sel, pick...), nil
}

func markCovered(sel []cube, on []uint, covered map[uint]bool) {
	for _, m := range on {
		for _, p := range sel {
			if p.covers(m) {
				covered[m] = true
				break
			}
		}
	}
}

// petrick expands the product of sums "for each code, some candidate
// covering it" into a sum of products over candidate indices and returns
// the cheapest product.  Products are bitsets, so at most 64 candidates
// are handled.
func petrick(ctx context.Context, n int, cands []cube, rest []uint, max int) ([]cube, bool, error) {
	if len(cands) > 64 {
		return nil, false, nil
	}
	prods := []uint64{0}
	for _, m := range rest {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		var clause uint64
		for i, c := range cands {
			if c.covers(m) {
				clause |= 1 << uint(i)
			}
		}
		var next []uint64
		for _, p := range prods {
			if p&clause != 0 {
				next = append(next, p)
				continue
			}
			for cl := clause; cl != 0; cl &= cl - 1 {
				next = append(next, p|(cl&-cl))
			}
		}
		prods = absorb(next)
		if len(prods) > max {
			return nil, false, nil
		}
	}
	cost := func(p uint64) (int, int) {
		lits := 0
		for b := p; b != 0; b &= b - 1 {
			lits += cands[bits.TrailingZeros64(b)].lits(n)
		}
		return bits.OnesCount64(p), lits
	}
	best := prods[0]
	bt, bl := cost(best)
	for _, p := range prods[1:] {
		pt, pl := cost(p)
		if pt < bt || (pt == bt && pl < bl) || (pt == bt && pl == bl && p < best) {
			best, bt, bl = p, pt, pl
		}
	}
	var res []cube
	for b := best; b != 0; b &= b - 1 {
		res = append(res, cands[bits.TrailingZeros64(b)])
	}
	return res, true, nil
}

// absorb removes duplicates and products which contain another product.
func absorb(ps []uint64) []uint64 {
	sort.Slice(ps, func(i, j int) bool {
		ci, cj := bits.OnesCount64(ps[i]), bits.OnesCount64(ps[j])
		if ci != cj {
			return ci < cj
		}
		return ps[i] < ps[j]
	})
	res := ps[:0]
	for _, p := range ps {
		keep := true
		for _, r := range res {
			if r&p == r {
				keep = false
				break
			}
		}
		if keep {
			res = append(res, p)
		}
	}
	return res
}

// greedy repeatedly takes the candidate covering the most uncovered
// codes, preferring fewer literals and then candidate order.
func greedy(ctx context.Context, n int, cands []cube, rest []uint) ([]cube, error) {
	left := make(map[uint]bool, len(rest))
	for _, m := range rest {
		left[m] = true
	}
	var res []cube
	taken := make([]bool, len(cands))
	for len(left) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bi, bc := -1, 0
		for i, c := range cands {
			if taken[i] {
				continue
			}
			cnt := 0
			for _, m := range rest {
				if left[m] && c.covers(m) {
					cnt++
				}
			}
			if cnt > bc || (cnt == bc && cnt > 0 && c.lits(n) < cands[bi].lits(n)) {
				bi, bc = i, cnt
			}
		}
		if bi < 0 {
			panic("qm: uncoverable code")
		}
		taken[bi] = true
		res = append(res, cands[bi])
		for _, m := range rest {
			if cands[bi].covers(m) {
				delete(left, m)
			}
		}
	}
	return res, nil
}

// sop builds the disjunction of the cubes in cs, terms ordered by code
// and literals by variable index.
func sop(n int, cs []cube) *expr.Expr {
	cs = append([]cube(nil), cs...)
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].val != cs[j].val {
			return cs[i].val < cs[j].val
		}
		return cs[i].dash < cs[j].dash
	})
	terms := make([]*expr.Expr, 0, len(cs))
	for _, c := range cs {
		if c.dash == (uint(1)<<uint(n))-1 {
			return expr.True
		}
		lits := make([]*expr.Expr, 0, n)
		for i := 0; i < n; i++ {
			if c.dash&(1<<uint(i)) != 0 {
				continue
			}
			v := expr.Var(i)
			if c.val&(1<<uint(i)) == 0 {
				v = expr.Not(v)
			}
			lits = append(lits, v)
		}
		terms = append(terms, expr.Ands(lits...))
	}
	return expr.Ors(terms...)
}
