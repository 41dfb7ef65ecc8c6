// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config holds the settings of the seqsynth command, loaded from a
// yaml file and overridden by flags.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/hdl"
	"github.com/go-air/seqsynth/qm"
	"github.com/go-air/seqsynth/seq"
	"github.com/go-air/seqsynth/server"
	"github.com/go-air/seqsynth/synth"
)

// Config is the settings file.
type Config struct {
	FlipFlop    string        `yaml:"ff_type"`
	Duplicates  string        `yaml:"duplicates"`
	Output      string        `yaml:"output"`
	Module      string        `yaml:"module"`
	Cycles      int           `yaml:"cycles"`
	MaxProducts int           `yaml:"max_products"`
	Verify      bool          `yaml:"verify"`
	Depth       int           `yaml:"depth"`
	Addr        string        `yaml:"addr"`
	Timeout     time.Duration `yaml:"timeout"` // bounds each request of serve
	Log         Log           `yaml:"log"`
}

// Log configures logrus.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		FlipFlop:    "D",
		Duplicates:  "reject",
		Output:      ".",
		Module:      hdl.DefaultModule,
		Cycles:      hdl.DefaultCycles,
		MaxProducts: qm.DefaultMaxProducts,
		Addr:        ":8080",
		Timeout:     server.DefaultTimeout,
		Log:         Log{Level: "info", Format: "text"}}
}

// Load reads the file at path over the defaults.  An empty path gives the
// defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	if err := c.decode(data); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return err
	}
	return c.Validate()
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := excite.ParseFlipFlop(c.FlipFlop); err != nil {
		return err
	}
	if _, err := seq.ParseDuplicates(c.Duplicates); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Cycles < 0 || c.Depth < 0 || c.MaxProducts < 0 || c.Timeout < 0 {
		return errors.New("cycles, depth, max_products and timeout must not be negative")
	}
	return nil
}

// Logger returns a logger writing to w as configured.
func (c *Config) Logger(w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return l, nil
}

// Options returns the pipeline options of c.
func (c *Config) Options(log logrus.FieldLogger) synth.Options {
	m := qm.New()
	if c.MaxProducts > 0 {
		m.MaxProducts = c.MaxProducts
	}
	return synth.Options{
		Minimizer: m,
		Log:       log,
		HDL:       hdl.Options{Module: c.Module, Cycles: c.Cycles},
		Verify:    c.Verify,
		Depth:     c.Depth}
}

// Request builds a pipeline request for codes from the flip-flop and
// duplicate settings of c.
func (c *Config) Request(codes []uint) (synth.Request, error) {
	ff, err := excite.ParseFlipFlop(c.FlipFlop)
	if err != nil {
		return synth.Request{}, err
	}
	dup, err := seq.ParseDuplicates(c.Duplicates)
	if err != nil {
		return synth.Request{}, err
	}
	return synth.Request{Sequence: codes, FlipFlop: ff, Duplicates: dup}, nil
}
