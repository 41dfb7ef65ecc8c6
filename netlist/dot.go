// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// WriteDot writes n as a graphviz digraph with pinned node positions,
// suitable for neato -n.
func (n *Netlist) WriteDot(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %s\n{\n", strconv.Quote(n.Name))
	fmt.Fprintf(bw, "  rankdir=LR;\n")
	fmt.Fprintf(bw, "  node\t[fontname=\"Helvetica\"];\n")
	for i := range n.Nodes {
		nd := &n.Nodes[i]
		shape, label := "box", nd.Kind.String()
		switch nd.Kind {
		case Input:
			shape, label = "plaintext", nd.Label
		case Output:
			shape, label = "doublecircle", nd.Label
		case Not:
			shape = "invtriangle"
		}
		fmt.Fprintf(bw, "  n%d\t[label=%s, shape=%s, pos=\"%g,%g!\"];\n",
			nd.ID, strconv.Quote(label), shape, nd.X, nd.Y)
	}
	for i := range n.Nodes {
		for _, e := range n.Nodes[i].Ins {
			fmt.Fprintf(bw, "  n%d -> n%d\t[headlabel=\"%d\"];\n", e.From, i, e.Port+1)
		}
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}
