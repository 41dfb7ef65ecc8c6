// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import "math/rand"

// RandCycle generates a cycle of k distinct codes drawn from an n bit
// register using rng.  If k exceeds 2^n, the cycle visits every code.
func RandCycle(rng *rand.Rand, n, k int) []uint {
	sz := 1 << uint(n)
	if k > sz {
		k = sz
	}
	perm := rng.Perm(sz)
	res := make([]uint, k)
	for i := range res {
		res[i] = uint(perm[i])
	}
	return res
}
