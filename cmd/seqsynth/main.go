// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command seqsynth derives flip-flop excitation equations for a counter
// walking a cyclic state sequence, and renders them as gate netlists,
// Verilog and aiger.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/go-air/seqsynth/synth"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // pipeline or verification failure
	exitUsage   = 2 // invalid request or flags
)

// exitError carries the exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usage(err error) error {
	return &exitError{code: exitUsage, err: err}
}

func exitCode(err error) int {
	var ee *exitError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &ee):
		return ee.code
	case synth.IsRequestError(err):
		return exitUsage
	}
	return exitFailure
}

func run(args []string, out, errOut io.Writer) int {
	cmd := newRootCommand(out, errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(errOut, "seqsynth: %v\n", err)
	}
	return exitCode(err)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
