// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package netlist lays out Boolean expressions as positioned gate networks
// for schematic rendering.
//
// A netlist is a tree shaped DAG of input taps, NOT, AND and OR gates and
// a single output tap.  Positions are computed by a single post order
// pass, so a netlist can be drawn without further placement.  Rendering
// itself is left to the consumer; WriteDot gives a graphviz form.
package netlist
