// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Command gasp grounds and solves answer set programs.
//
//	gasp [flags] [files]
//
// Files ending in .gz or .bz2 are decompressed, "-" or no file at all reads
// standard input.  --text prints the ground program and --cnf its
// completion in dimacs format.  Answers are printed as
//
//	Answer: 1
//	a b
//	SATISFIABLE
//
// Options may also be given in a YAML file (--config) or GASP_ environment
// variables, see package config.
package main

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-air/gasp"
	"github.com/go-air/gasp/config"
	"github.com/go-air/gasp/parse"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	text    bool
	cnf     bool
	stats   bool
	satcomp bool
	verbose bool
	assume  []string
}

// run executes the command line args and returns the exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	code := 0
	cmd := &cobra.Command{
		Use:           "gasp [flags] [files]",
		Short:         "ground and solve answer set programs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, files []string) error {
			var err error
			code, err = solve(cmd.Flags(), files, &opts, stdin, stdout, stderr)
			return err
		},
	}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	fs := cmd.Flags()
	fs.AddFlagSet(config.Flags("gasp"))
	fs.BoolVar(&opts.text, "text", false, "print the ground program and exit")
	fs.BoolVar(&opts.cnf, "cnf", false, "print the completion in dimacs format and exit")
	fs.BoolVar(&opts.stats, "stats", false, "print statistics after solving")
	fs.BoolVar(&opts.satcomp, "satcomp", false, "exit 10 if satisfiable and 20 if unsatisfiable")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")
	fs.StringArrayVar(&opts.assume, "assume", nil, "assume `atom` true, or false if written \"not atom\"")
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "gasp: %v\n", err)
		return 1
	}
	return code
}

// controlArgs passes the config flags which were set on to gasp.New.
func controlArgs(fs *pflag.FlagSet) []string {
	var res []string
	config.Flags("gasp").VisitAll(func(cf *pflag.Flag) {
		f := fs.Lookup(cf.Name)
		if f == nil || !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			for _, v := range sv.GetSlice() {
				res = append(res, "--"+f.Name+"="+v)
			}
			return
		}
		res = append(res, "--"+f.Name+"="+f.Value.String())
	})
	return res
}

func assumptions(ss []string) ([]gasp.Literal, error) {
	var res []gasp.Literal
	for _, s := range ss {
		text, neg := strings.CutPrefix(strings.TrimSpace(s), "not ")
		atom, err := parse.Symbol(text)
		if err != nil {
			return nil, fmt.Errorf("invalid assumption %q: %w", s, err)
		}
		res = append(res, gasp.Literal{Atom: atom, Sign: neg})
	}
	return res, nil
}

func path2Reader(p string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if p == "-" {
		return stdin, io.NopCloser(nil), nil
	}
	f, e := os.Open(p)
	if e != nil {
		return nil, nil, e
	}
	if strings.HasSuffix(p, ".gz") {
		r, e := gzip.NewReader(f)
		if e != nil {
			f.Close()
			return nil, nil, e
		}
		return r, f, nil
	}
	if strings.HasSuffix(p, ".bz2") {
		return bzip2.NewReader(f), f, nil
	}
	return f, f, nil
}

func readSource(p string, stdin io.Reader) (string, error) {
	r, c, err := path2Reader(p, stdin)
	if err != nil {
		return "", err
	}
	defer c.Close()
	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p, err)
	}
	return string(text), nil
}

func solve(fs *pflag.FlagSet, files []string, opts *options, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	lits, err := assumptions(opts.assume)
	if err != nil {
		return 1, err
	}
	c, err := gasp.New(controlArgs(fs), logger)
	if err != nil {
		return 1, err
	}
	defer c.Close()

	if len(files) == 0 {
		files = []string{"-"}
	}
	start := time.Now()
	for _, p := range files {
		text, err := readSource(p, stdin)
		if err != nil {
			return 1, err
		}
		name := p
		if p == "-" {
			name = "<stdin>"
		}
		if err := c.AddSource(name, text); err != nil {
			return 1, err
		}
	}
	if err := c.Ground([]gasp.Part{{Name: "base"}}, nil); err != nil {
		return 1, err
	}
	if opts.text {
		text, err := c.GroundProgram()
		if err != nil {
			return 1, err
		}
		fmt.Fprint(stdout, text)
		return 0, nil
	}
	if opts.cnf {
		if err := c.WriteCNF(lits, stdout); err != nil {
			return 1, err
		}
		return 0, nil
	}
	res, err := c.Solve(lits, func(m *gasp.Model) (bool, error) {
		fmt.Fprintf(stdout, "Answer: %d\n%s\n", m.Number(), m)
		return true, nil
	})
	if err != nil {
		return 1, err
	}
	fmt.Fprintln(stdout, result(res))
	st, err := c.Statistics()
	if err != nil {
		return 1, err
	}
	if opts.stats {
		printStats(stdout, st, res, time.Since(start))
	}
	if !opts.satcomp {
		return 0, nil
	}
	switch {
	case res.IsSatisfiable():
		return 10, nil
	case res.IsExhausted():
		return 20, nil
	}
	return 0, nil
}

func result(r gasp.SolveResult) string {
	switch {
	case r.IsSatisfiable():
		return "SATISFIABLE"
	case r.IsExhausted():
		return "UNSATISFIABLE"
	}
	return "UNKNOWN"
}

func printStats(w io.Writer, st gasp.Statistics, res gasp.SolveResult, elapsed time.Duration) {
	models := fmt.Sprint(st.Models)
	if !res.IsExhausted() && res.IsSatisfiable() {
		models += "+"
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Statistic", "Value"})
	t.AppendRows([]table.Row{
		{"Models", models},
		{"Atoms", st.Atoms},
		{"Rules", st.Rules},
		{"Externals", st.Externals},
		{"Solve calls", st.Solves},
		{"Loop formulas", st.Loops},
		{"Variables", st.Vars},
		{"Interrupted", res.IsInterrupted()},
		{"Time", elapsed.Round(time.Millisecond)},
	})
	t.Render()
}
