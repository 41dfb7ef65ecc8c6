// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package netlist

import (
	"fmt"

	"github.com/go-air/seqsynth/expr"
)

// Kind is the type of a netlist node.
type Kind uint8

const (
	Input Kind = iota
	Not
	And
	Or
	Output
)

var kindNames = [...]string{Input: "INPUT", Not: "NOT", And: "AND", Or: "OR", Output: "OUTPUT"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes k by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, nm := range kindNames {
		if nm == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown node kind %q", b)
}

// Arity returns the number of input ports of a node of kind k.
func (k Kind) Arity() int {
	switch k {
	case Not, Output:
		return 1
	case And, Or:
		return 2
	}
	return 0
}

// Layout constants, in drawing units.
const (
	InputX    = 0.0 // horizontal position of input taps
	InputStep = 2.0 // vertical distance between successive input taps
	Spacing   = 3.0 // horizontal distance from a gate to its deepest input
)

// Edge connects the output port of node From to input port Port of the
// node holding the edge.
type Edge struct {
	From int `json:"from"`
	Port int `json:"port"`
}

// Node is a positioned gate or tap.
type Node struct {
	ID    int     `json:"id"`
	Kind  Kind    `json:"kind"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Ins   []Edge  `json:"ins,omitempty"`
}

// Netlist is a positioned gate network computing one signal.  Nodes are
// in topological order, every edge leads from a lower to a higher ID.
type Netlist struct {
	Name  string `json:"name"`
	Expr  string `json:"expr"`
	Nodes []Node `json:"nodes"`
	Out   int    `json:"out"`
}

// Count returns the number of nodes of kind k.
func (n *Netlist) Count(k Kind) int {
	c := 0
	for i := range n.Nodes {
		if n.Nodes[i].Kind == k {
			c++
		}
	}
	return c
}

// Output returns the output tap.
func (n *Netlist) Output() *Node {
	return &n.Nodes[n.Out]
}

// Driver returns the node whose output feeds port of node id.
func (n *Netlist) Driver(id, port int) (*Node, bool) {
	for _, e := range n.Nodes[id].Ins {
		if e.Port == port {
			return &n.Nodes[e.From], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants of n: ids match positions,
// edges respect topological order, gate arities hold and there is
// exactly one output tap.
func (n *Netlist) Validate() error {
	outs := 0
	for i := range n.Nodes {
		nd := &n.Nodes[i]
		if nd.ID != i {
			return fmt.Errorf("node %d has id %d", i, nd.ID)
		}
		if len(nd.Ins) != nd.Kind.Arity() {
			return fmt.Errorf("%s node %d has %d inputs, want %d", nd.Kind, i, len(nd.Ins), nd.Kind.Arity())
		}
		used := make([]bool, nd.Kind.Arity())
		for _, e := range nd.Ins {
			if e.From < 0 || e.From >= i {
				return fmt.Errorf("node %d: edge from %d breaks topological order", i, e.From)
			}
			if n.Nodes[e.From].Kind == Output {
				return fmt.Errorf("node %d: driven by output tap %d", i, e.From)
			}
			if e.Port < 0 || e.Port >= len(used) || used[e.Port] {
				return fmt.Errorf("node %d: bad port %d", i, e.Port)
			}
			used[e.Port] = true
		}
		if nd.Kind == Output {
			outs++
			if i != n.Out {
				return fmt.Errorf("output tap %d is not the marked output %d", i, n.Out)
			}
		}
	}
	if outs != 1 {
		return fmt.Errorf("%d output taps", outs)
	}
	return nil
}

// Build lays out e as a netlist computing signal name.
//
// Leaves become input taps at InputX, each InputStep below the previous
// one in post order.  A gate sits Spacing to the right of its rightmost
// input, at the mean height of its inputs.  A constant expression is a
// single tap wired straight to the output.
func Build(name string, e *expr.Expr) *Netlist {
	b := &builder{}
	var root int
	if e.IsConst() {
		root = b.add(Input, e.String(), InputX, 0)
	} else {
		root, _ = b.place(e, 0)
	}
	r := b.nodes[root]
	out := b.add(Output, name, r.X+Spacing, r.Y, Edge{From: root})
	return &Netlist{Name: name, Expr: e.String(), Nodes: b.nodes, Out: out}
}

// builder owns the nodes of one Build call.
type builder struct {
	nodes []Node
}

func (b *builder) add(k Kind, label string, x, y float64, ins ...Edge) int {
	id := len(b.nodes)
	b.nodes = append(b.nodes, Node{ID: id, Kind: k, Label: label, X: x, Y: y, Ins: ins})
	return id
}

// place lays out e with its first input tap at height y and returns the
// node computing e together with the height of the next free tap.
func (b *builder) place(e *expr.Expr, y float64) (int, float64) {
	l, r := e.Ins()
	switch e.Op() {
	case expr.OpNot:
		c, ny := b.place(l, y)
		cn := b.nodes[c]
		return b.add(Not, "", cn.X+Spacing, cn.Y, Edge{From: c}), ny
	case expr.OpAnd, expr.OpOr:
		a, ny := b.place(l, y)
		c, ny := b.place(r, ny)
		an, cn := b.nodes[a], b.nodes[c]
		x := an.X
		if cn.X > x {
			x = cn.X
		}
		k := And
		if e.Op() == expr.OpOr {
			k = Or
		}
		return b.add(k, "", x+Spacing, (an.Y+cn.Y)/2, Edge{From: a, Port: 0}, Edge{From: c, Port: 1}), ny
	default:
		return b.add(Input, e.String(), InputX, y), y - InputStep
	}
}
