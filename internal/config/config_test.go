// Copyright 2026 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-air/seqsynth/excite"
	"github.com/go-air/seqsynth/qm"
	"github.com/go-air/seqsynth/seq"
)

func TestDefault(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), c); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	assert.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	c, err := Load("testdata/seqsynth.yaml")
	require.NoError(t, err)
	exp := &Config{
		FlipFlop:    "JK",
		Duplicates:  "last",
		Output:      "out",
		Module:      "ctr",
		Cycles:      8,
		MaxProducts: qm.DefaultMaxProducts,
		Verify:      true,
		Depth:       12,
		Addr:        "127.0.0.1:9000",
		Timeout:     5 * time.Second,
		Log:         Log{Level: "debug", Format: "json"}}
	if diff := cmp.Diff(exp, c); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	req, err := c.Request([]uint{0, 1})
	require.NoError(t, err)
	assert.Equal(t, excite.JK, req.FlipFlop)
	assert.Equal(t, seq.LastWins, req.Duplicates)

	opts := c.Options(nil)
	assert.Equal(t, "ctr", opts.HDL.Module)
	assert.Equal(t, 8, opts.HDL.Cycles)
	assert.True(t, opts.Verify)
	assert.Equal(t, 12, opts.Depth)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("testdata/missing.yaml")
	assert.Error(t, err)
	_, err = Load("testdata/typo.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*Config){
		"ff":      func(c *Config) { c.FlipFlop = "JKL" },
		"dup":     func(c *Config) { c.Duplicates = "first" },
		"level":   func(c *Config) { c.Log.Level = "loud" },
		"format":  func(c *Config) { c.Log.Format = "xml" },
		"cycles":  func(c *Config) { c.Cycles = -1 },
		"timeout": func(c *Config) { c.Timeout = -time.Second },
	} {
		c := Default()
		mod(c)
		assert.Error(t, c.Validate(), name)
	}
}

func TestLogger(t *testing.T) {
	c := Default()
	c.Log = Log{Level: "warn", Format: "json"}
	var buf bytes.Buffer
	l, err := c.Logger(&buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	l.Info("hidden")
	l.WithField("signal", "D0").Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"signal":"D0"`)
}
