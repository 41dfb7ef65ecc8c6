// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package netlist

import (
	"encoding/json"
	"fmt"

	"github.com/go-air/seqsynth/expr"
)

// Label is the text artifact standing in for a netlist which could not be
// synthesized.
type Label struct {
	Name string
	Expr string
	Err  error
}

func (l *Label) String() string {
	return fmt.Sprintf("%s = %s\n(draw error: %v)\n", l.Name, l.Expr, l.Err)
}

// MarshalJSON encodes the error as its message.
func (l *Label) MarshalJSON() ([]byte, error) {
	msg := ""
	if l.Err != nil {
		msg = l.Err.Error()
	}
	return json.Marshal(struct {
		Name  string `json:"name"`
		Expr  string `json:"expr"`
		Error string `json:"error"`
	}{l.Name, l.Expr, msg})
}

// Outcome is the result of synthesizing one signal: exactly one of
// Netlist and Fallback is set.
type Outcome struct {
	Signal   string   `json:"signal"`
	Netlist  *Netlist `json:"netlist,omitempty"`
	Fallback *Label   `json:"fallback,omitempty"`
}

// OK returns whether o holds a netlist.
func (o Outcome) OK() bool {
	return o.Netlist != nil
}

// Err returns the reason for a fallback, or nil.
func (o Outcome) Err() error {
	if o.Fallback == nil {
		return nil
	}
	return o.Fallback.Err
}

// Synthesize parses the canonical text of an expression and lays it out
// as a netlist computing signal name.  Text which does not parse yields a
// fallback label carrying the parse error.
func Synthesize(name, text string) Outcome {
	e, err := expr.Parse(text)
	if err != nil {
		return Outcome{Signal: name, Fallback: &Label{Name: name, Expr: text, Err: err}}
	}
	return Outcome{Signal: name, Netlist: Build(name, e)}
}
