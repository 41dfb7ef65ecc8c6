// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package seq

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ErrInvalidSequence is returned for empty sequences, malformed
// sequence text, ambiguous transitions and width violations.
var ErrInvalidSequence = errors.New("invalid sequence")

// MaxBits bounds the register width.  The next state extraction
// enumerates all 2^bits codes per bit.
const MaxBits = 16

// Width returns the number of bits needed to represent every code in
// codes, and at least 1.
func Width(codes []uint) (int, error) {
	if len(codes) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	var max uint
	for _, c := range codes {
		if c > max {
			max = c
		}
	}
	n := bits.Len(max)
	if n == 0 {
		n = 1
	}
	return n, nil
}

// Parse reads a sequence of non-negative decimal integers separated by
// white space or commas.
func Parse(s string) ([]uint, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	res := make([]uint, 0, len(fields))
	for _, f := range fields {
		v, e := strconv.ParseUint(f, 10, 32)
		if e != nil {
			return nil, fmt.Errorf("%w: bad state code %q", ErrInvalidSequence, f)
		}
		res = append(res, uint(v))
	}
	return res, nil
}

// Bit returns the value of variable Qk in code c.
func Bit(c uint, k int) bool {
	return (c>>uint(k))&1 == 1
}

// Format renders c as a bits wide binary string, most significant bit
// first.
func Format(c uint, bits int) string {
	var sb strings.Builder
	for k := bits - 1; k >= 0; k-- {
		if Bit(c, k) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
