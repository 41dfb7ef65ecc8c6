// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/go-air/seqsynth/seq"
	"github.com/go-air/seqsynth/server"
	"github.com/go-air/seqsynth/synth"
)

func (a *app) synthesize(ctx context.Context, args []string, verify bool) (*synth.Result, error) {
	req, err := a.request(args)
	if err != nil {
		return nil, err
	}
	opts := a.cfg.Options(a.log)
	opts.Verify = opts.Verify || verify
	return synth.Run(ctx, req, opts)
}

func newDeriveCommand(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "derive [codes...]",
		Short: "Print the transition table and excitation equations",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.synthesize(cmd.Context(), args, false)
			if err != nil {
				return err
			}
			if asJSON {
				rep := res.Report()
				rep.Netlists, rep.Verilog, rep.Testbench = nil, "", ""
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}
			writeTable(a.out, res)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print json")
	return cmd
}

func writeTable(w io.Writer, res *synth.Result) {
	n := res.Table.Bits()
	fmt.Fprintf(w, "bits: %d\n", n)
	fmt.Fprintf(w, "flip-flop: %s\n", res.Set.FlipFlop)
	fmt.Fprintf(w, "\npresent -> next\n")
	for _, c := range res.Table.Codes() {
		nx, _ := res.Table.Next(c)
		fmt.Fprintf(w, "%s -> %s\n", seq.Format(c, n), seq.Format(nx, n))
	}
	fmt.Fprintf(w, "\n%s", res.Equations())
}

func newGenerateCommand(a *app) *cobra.Command {
	var output string
	var module string
	cmd := &cobra.Command{
		Use:   "generate [codes...]",
		Short: "Write Verilog, test bench, netlists, aiger and equations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("output") {
				a.cfg.Output = output
			}
			if cmd.Flags().Changed("module") {
				a.cfg.Module = module
			}
			res, err := a.synthesize(cmd.Context(), args, false)
			if err != nil {
				return err
			}
			paths, err := writeArtifacts(a.cfg.Output, a.cfg.Module, res)
			for _, p := range paths {
				fmt.Fprintln(a.out, p)
			}
			if err != nil {
				return err
			}
			a.log.WithField("dir", a.cfg.Output).WithField("files", len(paths)).Info("artifacts written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&module, "module", "fsm_auto", "Verilog module name")
	return cmd
}

// writeArtifacts writes the files of res to dir and returns their paths.
func writeArtifacts(dir, module string, res *synth.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}
	var paths []string
	write := func(name string, fill func(io.Writer) error) error {
		p := filepath.Join(dir, name)
		f, err := os.Create(p)
		if err != nil {
			return errors.Wrapf(err, "creating %s", name)
		}
		if err := fill(f); err != nil {
			f.Close()
			return errors.Wrapf(err, "writing %s", name)
		}
		if err := f.Close(); err != nil {
			return errors.Wrapf(err, "closing %s", name)
		}
		paths = append(paths, p)
		return nil
	}
	text := func(s string) func(io.Writer) error {
		return func(w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		}
	}
	if err := write(module+".v", text(res.Module)); err != nil {
		return paths, err
	}
	if err := write("tb_"+module+".v", text(res.Testbench)); err != nil {
		return paths, err
	}
	for _, o := range res.Netlists {
		var err error
		if o.OK() {
			err = write(o.Signal+".dot", o.Netlist.WriteDot)
		} else {
			err = write(o.Signal+".txt", text(o.Fallback.String()))
		}
		if err != nil {
			return paths, err
		}
	}
	if err := write(module+".aag", res.Counter.WriteAscii); err != nil {
		return paths, err
	}
	err := write("equations.json", func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Set.Map())
	})
	return paths, err
}

func newVerifyCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [codes...]",
		Short: "Check the equations of a sequence with a SAT solver",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.synthesize(cmd.Context(), args, true)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "ok: %d equations, %d states\n", len(res.Set.Eqs), len(res.Table.Codes()))
			return nil
		},
	}
}

func newServeCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			s := server.New(a.cfg.Options(a.log), a.log, server.WithTimeout(a.cfg.Timeout))
			return server.ListenAndServe(ctx, a.cfg.Addr, s, a.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
