// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gen contains generators for common kinds of cyclic state
// sequences.
//
// Package gen also supplies random cycles over a register, which are
// useful for testing the synthesis pipeline.
package gen
