// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package seq builds present to next state transition tables from cyclic
// state sequences.
//
// A sequence such as 0 1 3 2 describes a counter which visits each code in
// order and wraps around.  The register width is the bit length of the
// largest code.  Every code in the 2^bits space which does not occur in the
// sequence is a don't care for the next state functions.
//
// Codes are read as bit vectors with bit k holding the value of the
// present state variable Qk, so Q0 is the least significant bit.
package seq
