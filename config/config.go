// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package config loads solver options from defaults, a YAML file, GASP_
// environment variables and command line flags, in increasing priority.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes environment variables holding options.
// GASP_TIME_LIMIT sets time_limit, GASP_CONST_N sets const.n.
const EnvPrefix = "GASP_"

// DefaultMessageLimit bounds the warnings passed to the logger.
const DefaultMessageLimit = 20

// Config holds solver options.
type Config struct {
	// Models bounds the number of models computed, 0 means all.
	Models int `koanf:"models"`
	// TimeLimit bounds solving in seconds, 0 means none.
	TimeLimit int `koanf:"time_limit"`
	// MessageLimit bounds the warnings logged, negative means no bound.
	MessageLimit int `koanf:"message_limit"`
	// Const maps constant names to terms, overriding #const definitions.
	Const map[string]string `koanf:"const"`
}

// Timeout gives the time limit as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeLimit) * time.Second
}

func defaults() map[string]any {
	return map[string]any{
		"models":        0,
		"time_limit":    0,
		"message_limit": DefaultMessageLimit,
	}
}

// Flags returns a flag set with the options.  Its errors are returned,
// not printed.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntP("models", "n", 0, "compute at most `n` models, 0 for all")
	fs.Int("time-limit", 0, "stop solving after `seconds`, 0 for no limit")
	fs.Int("message-limit", DefaultMessageLimit, "log at most `n` warnings")
	fs.StringArrayP("const", "c", nil, "replace constant with term: `name=term`")
	fs.String("config", "", "read options from YAML `file`")
	return fs
}

// Load layers defaults, the YAML file cfgFile if not empty, the
// environment and the flags of fs which were set.
func Load(cfgFile string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var consts []string
	if fs != nil {
		err := k.Load(posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			switch f.Name {
			case "config":
				return "", nil
			case "const":
				consts, _ = fs.GetStringArray("const")
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(fs, f)
		}), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	for _, c := range consts {
		name, term, ok := strings.Cut(c, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid constant %q, want name=term", c)
		}
		if cfg.Const == nil {
			cfg.Const = make(map[string]string)
		}
		cfg.Const[name] = term
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps GASP_TIME_LIMIT to time_limit and GASP_CONST_N to const.n.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if name, ok := strings.CutPrefix(key, "const_"); ok {
		return "const." + name
	}
	return key
}

// Validate checks the ranges of the options.
func (c *Config) Validate() error {
	if c.Models < 0 {
		return fmt.Errorf("models must not be negative: %d", c.Models)
	}
	if c.TimeLimit < 0 {
		return fmt.Errorf("time_limit must not be negative: %d", c.TimeLimit)
	}
	return nil
}

// Parse parses command line style args, as in "-n 0 --time-limit=5", and
// loads the configuration they describe.
func Parse(args []string) (*Config, error) {
	fs := Flags("gasp")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	cfgFile, _ := fs.GetString("config")
	return Load(cfgFile, fs)
}
