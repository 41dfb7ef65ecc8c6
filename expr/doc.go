// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package expr implements immutable Boolean expressions over present state
// variables Q0, Q1, ...
//
// The canonical text of an expression uses ~ (not), & (and) and | (or)
// with not binding tightest and or loosest, no spaces and only those
// parentheses needed to preserve precedence.  The constants are "0" and
// "1".  Parse reads canonical text, and also tolerates white space and
// redundant parentheses.
package expr
