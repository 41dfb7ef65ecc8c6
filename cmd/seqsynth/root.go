// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/gen"
	"github.com/go-air/seqsynth/internal/config"
	"github.com/go-air/seqsynth/seq"
	"github.com/go-air/seqsynth/synth"
)

// app holds the global flags and the state built from them before any
// subcommand runs.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	ff         excite.FlipFlop
	duplicates string
	preset     string
	verify     bool
	depth      int

	cfg    *config.Config
	log    *logrus.Logger
	out    io.Writer
	errOut io.Writer
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}
	cmd := &cobra.Command{
		Use:   "seqsynth",
		Short: "Synthesize counters from state sequences",
		Long: `seqsynth derives minimized flip-flop excitation equations for a counter
stepping through a cyclic sequence of state codes, given either as
arguments ("0 1 3 2") or as a preset (--gen gray:3).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Flags())
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usage(err)
	})

	fs := cmd.PersistentFlags()
	fs.StringVar(&a.configPath, "config", "", "yaml settings file")
	fs.StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&a.logFormat, "log-format", "text", "log format (text|json)")
	fs.Var(&a.ff, "ff", "flip-flop type (D, T, JK, SR)")
	fs.StringVar(&a.duplicates, "duplicates", "reject", "repeated codes with different successors: reject or last")
	fs.StringVar(&a.preset, "gen", "", "generate the sequence, eg binary:3, gray:3, johnson:4, ring:4, down:2, mod:10")
	fs.BoolVar(&a.verify, "verify", false, "check the equations with a SAT solver")
	fs.IntVar(&a.depth, "depth", 0, "reset check depth in cycles (0: twice the sequence length)")

	cmd.AddCommand(newDeriveCommand(a))
	cmd.AddCommand(newGenerateCommand(a))
	cmd.AddCommand(newVerifyCommand(a))
	cmd.AddCommand(newServeCommand(a))
	return cmd
}

// setup loads the settings file, applies the flags set on the command
// line over it and builds the logger.
func (a *app) setup(fs *pflag.FlagSet) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return usage(err)
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if fs.Changed("ff") {
		cfg.FlipFlop = a.ff.String()
	}
	if fs.Changed("duplicates") {
		cfg.Duplicates = a.duplicates
	}
	if fs.Changed("verify") {
		cfg.Verify = a.verify
	}
	if fs.Changed("depth") {
		cfg.Depth = a.depth
	}
	if err := cfg.Validate(); err != nil {
		return usage(err)
	}
	if a.log, err = cfg.Logger(a.errOut); err != nil {
		return usage(err)
	}
	a.cfg = cfg
	return nil
}

// codes returns the sequence from the positional arguments or the preset.
func (a *app) codes(args []string) ([]uint, error) {
	switch {
	case a.preset != "" && len(args) > 0:
		return nil, usage(errors.New("give either a sequence or --gen, not both"))
	case a.preset != "":
		codes, err := gen.Named(a.preset)
		if err != nil {
			return nil, usage(err)
		}
		return codes, nil
	case len(args) == 0:
		return nil, usage(errors.Wrap(seq.ErrInvalidSequence, "no sequence given"))
	}
	return seq.Parse(strings.Join(args, " "))
}

func (a *app) request(args []string) (synth.Request, error) {
	codes, err := a.codes(args)
	if err != nil {
		return synth.Request{}, err
	}
	return a.cfg.Request(codes)
}
