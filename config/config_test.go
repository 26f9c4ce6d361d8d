// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Models)
	assert.Equal(t, 0, cfg.TimeLimit)
	assert.Equal(t, DefaultMessageLimit, cfg.MessageLimit)
	assert.Empty(t, cfg.Const)
	assert.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestFlags(t *testing.T) {
	cfg, err := Parse([]string{"-n", "3", "--time-limit=2", "--message-limit", "5", "-c", "n=10", "-c", "m = f(1)"})
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Models)
	assert.Equal(t, 2*time.Second, cfg.Timeout())
	assert.Equal(t, 5, cfg.MessageLimit)
	assert.Equal(t, map[string]string{"n": "10", "m": " f(1)"}, cfg.Const)
}

func TestErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--bogus"},
		{"-n", "x"},
		{"-n", "-1"},
		{"--time-limit", "-3"},
		{"-c", "novalue"},
		{"-c", "=1"},
		{"file.lp"},
		{"--config", "/does/not/exist.yaml"},
	} {
		_, err := Parse(args)
		assert.Error(t, err, args)
	}
}

func TestLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gasp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models: 4\ntime_limit: 9\nmessage_limit: 7\nconst:\n  n: 3\n  k: a\n"), 0o644))

	cfg, err := Parse([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Models)
	assert.Equal(t, 9, cfg.TimeLimit)
	assert.Equal(t, 7, cfg.MessageLimit)
	assert.Equal(t, map[string]string{"n": "3", "k": "a"}, cfg.Const)

	t.Setenv("GASP_MODELS", "6")
	t.Setenv("GASP_CONST_N", "8")
	cfg, err = Parse([]string{"--config", path})
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Models)
	assert.Equal(t, map[string]string{"n": "8", "k": "a"}, cfg.Const)

	cfg, err = Parse([]string{"--config", path, "-n", "1", "-c", "n=2"})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Models)
	assert.Equal(t, 9, cfg.TimeLimit)
	assert.Equal(t, "2", cfg.Const["n"])
	assert.Equal(t, "a", cfg.Const["k"])
}

func TestUnsetFlagsKeepLowerLayers(t *testing.T) {
	t.Setenv("GASP_MESSAGE_LIMIT", "3")
	cfg, err := Load("", Flags("test"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MessageLimit)
}
