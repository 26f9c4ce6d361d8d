// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gasp

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/config"
	"github.com/go-air/gasp/ground"
	"github.com/go-air/gasp/inter"
	"github.com/go-air/gasp/parse"
	"github.com/go-air/gasp/script"
	"github.com/go-air/gasp/search"
	"github.com/go-air/gasp/status"
	"github.com/go-air/gasp/sym"
)

// State is the phase of a Control.
type State int

const (
	Fresh State = iota
	Assembling
	Grounded
	Solving
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Assembling:
		return "assembling"
	case Grounded:
		return "grounded"
	case Solving:
		return "solving"
	}
	return "unknown"
}

// TruthValue is assigned to external atoms.
type TruthValue int

const (
	Free TruthValue = iota
	True
	False
	// Release removes the assignment.
	Release
)

// Part selects the program fragments with Name and as many parameters as
// there are Args.
type Part struct {
	Name string
	Args []sym.Symbol
}

// Literal is an assumption.  Like the sign of a function symbol, Sign set
// means negation: Literal{a, false} forces a to be true and
// Literal{a, true} forces it to be false.
type Literal struct {
	Atom sym.Symbol
	Sign bool
}

// Statistics holds counters of a Control.
type Statistics struct {
	Atoms     int
	Rules     int
	Externals int
	Solves    int
	Models    int
	Loops     int
	Vars      int
}

type fragment struct {
	name   string
	params []string
	stmts  []ast.Statement
}

// Control grounds and solves logic programs.
//
// Programs are added as text or syntax trees into named fragments,
// instantiated by Ground and solved by Solve or SolveIter.  A Control
// is not safe for concurrent use.
type Control struct {
	log      *slog.Logger
	cfg      *config.Config
	pr       *status.Printer
	frags    []*fragment
	consts   []*ast.Const
	override map[string]sym.Symbol
	included map[string]bool
	scripts  *script.Module
	gr       *ground.Grounder
	ext      map[sym.Symbol]search.Truth
	state    State
	iter     *SolveIter
	closed   bool
	stats    Statistics
}

// New creates a Control.  args are command line style options, see
// package config.  Options not given in args are taken from GASP_
// environment variables, so New(nil, nil) is affected by the environment
// too.  log receives warnings; nil drops them.
func New(args []string, log *slog.Logger) (c *Control, err error) {
	defer status.Guard(&err)
	cfg, err := config.Parse(args)
	if err != nil {
		return nil, status.Wrap(status.Runtime, err, "invalid arguments")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c = &Control{
		log:      log,
		cfg:      cfg,
		pr:       status.NewPrinter(log, cfg.MessageLimit),
		override: make(map[string]sym.Symbol, len(cfg.Const)),
		included: make(map[string]bool),
		scripts:  script.New(log),
		ext:      make(map[sym.Symbol]search.Truth)}
	c.gr = ground.New(c.pr)
	for name, text := range cfg.Const {
		t, err := parse.Term(text)
		if err != nil {
			return nil, status.Wrap(status.Runtime, err, "invalid constant %s", name)
		}
		v, err := ground.Eval(t, nil)
		if err != nil {
			return nil, status.Wrap(status.Runtime, err, "invalid constant %s", name)
		}
		c.override[name] = v
	}
	return c, nil
}

// Logger returns the logger of c.
func (c *Control) Logger() *slog.Logger {
	return c.log
}

// State returns the phase of c.
func (c *Control) State() State {
	return c.state
}

func (c *Control) check() error {
	if c.closed {
		return status.Errorf(status.Logic, "control is closed")
	}
	return nil
}

func (c *Control) checkIdle() error {
	if err := c.check(); err != nil {
		return err
	}
	if c.iter != nil {
		return status.Errorf(status.Logic, "a solve call is in progress")
	}
	return nil
}

// Add adds the program text to the fragment name with parameters params.
// #program directives in text switch to other fragments.  On error
// nothing is added.
func (c *Control) Add(name string, params []string, text string) (err error) {
	defer status.Guard(&err)
	if err := c.checkIdle(); err != nil {
		return err
	}
	b := c.newBatch()
	if err := b.source("", text, name, params); err != nil {
		return err
	}
	return c.commit(b)
}

// AddSource adds the program text of file to the base fragment.  #include
// directives are resolved relative to the directory of file.
func (c *Control) AddSource(file, text string) (err error) {
	defer status.Guard(&err)
	if err := c.checkIdle(); err != nil {
		return err
	}
	b := c.newBatch()
	if abs, err := filepath.Abs(file); err == nil {
		b.included[abs] = true
	}
	if err := b.source(file, text, "base", nil); err != nil {
		return err
	}
	return c.commit(b)
}

// Load adds the program in the file at path to the base fragment.
// Loading a file twice warns and adds nothing.
func (c *Control) Load(path string) (err error) {
	defer status.Guard(&err)
	if err := c.checkIdle(); err != nil {
		return err
	}
	b := c.newBatch()
	if err := b.include(ast.Location{File: "<cmdline>"}, path); err != nil {
		return err
	}
	return c.commit(b)
}

// Parse parses text and passes each statement to f without adding it.
// An error from f stops parsing and is returned wrapped.
func (c *Control) Parse(text string, f func(ast.Statement) error) (err error) {
	defer status.Guard(&err)
	if err := c.check(); err != nil {
		return err
	}
	var cbErr error
	err = parse.Statements("", text, func(s ast.Statement) error {
		if err := f(s); err != nil {
			cbErr = err
			return err
		}
		return nil
	})
	switch {
	case cbErr != nil:
		return status.Wrap(status.Runtime, cbErr, "statement callback failed")
	case err != nil:
		return status.Wrap(status.Runtime, err, "parsing failed")
	}
	return nil
}

// AddAST calls produce with a function adding statements to the program,
// starting in the base fragment.  If produce fails nothing is added.
func (c *Control) AddAST(produce func(add func(ast.Statement) error) error) (err error) {
	defer status.Guard(&err)
	if err := c.checkIdle(); err != nil {
		return err
	}
	b := c.newBatch()
	name, params := "base", []string(nil)
	add := func(s ast.Statement) error {
		if s == nil {
			return status.Errorf(status.Logic, "nil statement")
		}
		var err error
		name, params, err = b.statement("", s, name, params)
		return err
	}
	if err := produce(add); err != nil {
		var se *status.Error
		if errors.As(err, &se) {
			return err
		}
		return status.Wrap(status.Runtime, err, "statement producer failed")
	}
	return c.commit(b)
}

// batch collects statements to be added by one call.
type batch struct {
	c        *Control
	entries  []entry
	included map[string]bool
}

type entry struct {
	name   string
	params []string
	stmt   ast.Statement
}

func (c *Control) newBatch() *batch {
	return &batch{c: c, included: make(map[string]bool)}
}

func (b *batch) source(file, text, name string, params []string) error {
	ss, err := parse.Program(file, text)
	if err != nil {
		return status.Wrap(status.Runtime, err, "parsing failed")
	}
	for _, s := range ss {
		if name, params, err = b.statement(file, s, name, params); err != nil {
			return err
		}
	}
	return nil
}

// statement adds s and returns the fragment the next statement goes to.
func (b *batch) statement(file string, s ast.Statement, name string, params []string) (string, []string, error) {
	switch s := s.(type) {
	case *ast.Program:
		return s.Name, s.Params, nil
	case *ast.Include:
		path := s.Path
		if !filepath.IsAbs(path) && file != "" {
			path = filepath.Join(filepath.Dir(file), path)
		}
		return name, params, b.include(s.Location, path)
	case *ast.Script:
		if s.Lang != script.Lang {
			return name, params, status.Errorf(status.Runtime, "%s: unsupported script language: %s", s.Location, s.Lang)
		}
	}
	b.entries = append(b.entries, entry{name: name, params: params, stmt: s})
	return name, params, nil
}

func (b *batch) include(loc ast.Location, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return status.Wrap(status.Runtime, err, "%s: invalid path %s", loc, path)
	}
	if b.included[abs] || b.c.included[abs] {
		b.c.pr.Warn(status.FileIncluded, loc.String()+": warning: already included file: "+path)
		return nil
	}
	text, err := os.ReadFile(path)
	if err != nil {
		return status.Wrap(status.Runtime, err, "%s: file could not be opened", loc)
	}
	b.included[abs] = true
	return b.source(path, string(text), "base", nil)
}

// commit runs the scripts of b and then adds its statements.
func (c *Control) commit(b *batch) error {
	for _, e := range b.entries {
		if s, ok := e.stmt.(*ast.Script); ok {
			if err := c.scripts.Exec(s.Location, s.Code); err != nil {
				return err
			}
		}
	}
	for _, e := range b.entries {
		switch s := e.stmt.(type) {
		case *ast.Script:
			continue
		case *ast.Const:
			c.consts = append(c.consts, s)
			continue
		}
		f := c.fragment(e.name, e.params)
		f.stmts = append(f.stmts, e.stmt)
	}
	for abs := range b.included {
		c.included[abs] = true
	}
	if c.state == Fresh {
		c.state = Assembling
	}
	return nil
}

func (c *Control) fragment(name string, params []string) *fragment {
	for _, f := range c.frags {
		if f.name == name && slices.Equal(f.params, params) {
			return f
		}
	}
	f := &fragment{name: name, params: params}
	c.frags = append(c.frags, f)
	return f
}

// constants evaluates the #const definitions.  Command line constants
// take precedence.
func (c *Control) constants() (map[string]sym.Symbol, error) {
	res := make(map[string]sym.Symbol, len(c.consts)+len(c.override))
	for k, v := range c.override {
		res[k] = v
	}
	for _, d := range c.consts {
		if _, ok := c.override[d.Name]; ok {
			continue
		}
		v, err := ground.Eval(d.Value, res)
		if err != nil {
			return nil, err
		}
		res[d.Name] = v
	}
	return res, nil
}

// Ground instantiates the fragments selected by parts.  External calls
// are served by ctx and then by the functions of #script blocks.  On
// error the ground program is unchanged.
func (c *Control) Ground(parts []Part, ctx inter.Context) (err error) {
	defer status.Guard(&err)
	if err := c.checkIdle(); err != nil {
		return err
	}
	defer func() {
		if err != nil {
			c.state = Assembling
		}
	}()
	var insts []ground.Instance
	for _, p := range parts {
		found := p.Name == "base" && len(p.Args) == 0
		for _, f := range c.frags {
			if f.name != p.Name || len(f.params) != len(p.Args) {
				continue
			}
			found = true
			params := make(map[string]sym.Symbol, len(f.params))
			for i, name := range f.params {
				params[name] = p.Args[i]
			}
			insts = append(insts, ground.Instance{Stmts: f.stmts, Params: params})
		}
		if !found {
			return status.Errorf(status.Logic, "unknown program part: %s/%d", p.Name, len(p.Args))
		}
	}
	consts, err := c.constants()
	if err != nil {
		return err
	}
	if err := c.gr.Ground(insts, consts, inter.Chain(ctx, c.scripts)); err != nil {
		return err
	}
	c.state = Grounded
	return nil
}

// AssignExternal sets the truth value of the external atom.  Release
// removes the assignment; unassigned externals are false.
func (c *Control) AssignExternal(atom sym.Symbol, v TruthValue) (err error) {
	defer status.Guard(&err)
	if err := c.check(); err != nil {
		return err
	}
	if !c.gr.IsExternal(atom) {
		c.pr.Warn(status.AtomUndefined, "not an external atom: "+atom.String())
		return nil
	}
	switch v {
	case Free:
		c.ext[atom] = search.Free
	case True:
		c.ext[atom] = search.True
	case False:
		c.ext[atom] = search.False
	case Release:
		delete(c.ext, atom)
	default:
		return status.Errorf(status.Logic, "invalid truth value %d", v)
	}
	return nil
}

// ReleaseExternal removes the assignment of the external atom.
func (c *Control) ReleaseExternal(atom sym.Symbol) error {
	return c.AssignExternal(atom, Release)
}

// ModelHandler receives the models of Solve.  Returning false stops the
// search, a non-nil error aborts it.
type ModelHandler func(m *Model) (bool, error)

// Solve enumerates the models under the assumptions and passes them to
// onModel, which may be nil.
func (c *Control) Solve(assumptions []Literal, onModel ModelHandler) (res SolveResult, err error) {
	defer status.Guard(&err)
	it, err := c.SolveIter(assumptions)
	if err != nil {
		return 0, err
	}
	defer it.Close()
	for {
		m, err := it.Next()
		if err != nil {
			return 0, err
		}
		if m == nil {
			break
		}
		if onModel == nil {
			continue
		}
		more, err := onModel(m)
		if err != nil {
			return it.result(), status.Wrap(status.Runtime, err, "model handler failed")
		}
		if !more {
			break
		}
	}
	return it.Summary()
}

// SolveIter starts a search under the assumptions whose models the
// caller pulls.  The iterator must be closed before c is used for
// another solve call or grounding.
func (c *Control) SolveIter(assumptions []Literal) (it *SolveIter, err error) {
	defer status.Guard(&err)
	if err := c.checkIdle(); err != nil {
		return nil, err
	}
	s := search.New(c.gr.Program(), c.options(assumptions))
	it = &SolveIter{c: c, s: s, prev: c.state}
	c.iter = it
	c.state = Solving
	c.stats.Solves++
	c.log.Debug("solving", "atoms", s.Stats().Atoms, "rules", s.Stats().Rules, "assumptions", len(assumptions))
	return it, nil
}

func (c *Control) options(assumptions []Literal) search.Options {
	opts := search.Options{
		Externals: make(map[sym.Symbol]search.Truth, len(c.ext)),
		Models:    c.cfg.Models,
	}
	for a, v := range c.ext {
		opts.Externals[a] = v
	}
	for _, l := range assumptions {
		opts.Assumptions = append(opts.Assumptions, search.Assumption{Atom: l.Atom, Value: !l.Sign})
	}
	if d := c.cfg.Timeout(); d > 0 {
		opts.Deadline = time.Now().Add(d)
	}
	return opts
}

// WriteCNF writes the completion of the ground program under the
// assumptions and external values to w in DIMACS format.
func (c *Control) WriteCNF(assumptions []Literal, w io.Writer) (err error) {
	defer status.Guard(&err)
	if err := c.checkIdle(); err != nil {
		return err
	}
	s := search.New(c.gr.Program(), c.options(assumptions))
	if err := s.WriteCNF(w); err != nil {
		return status.Wrap(status.Runtime, err, "writing cnf failed")
	}
	return nil
}

// Statistics returns the counters of c.
func (c *Control) Statistics() (st Statistics, err error) {
	defer status.Guard(&err)
	if err := c.check(); err != nil {
		return Statistics{}, err
	}
	st = c.stats
	p := c.gr.Program()
	st.Atoms = c.gr.Atoms()
	st.Rules = len(p.Rules)
	st.Externals = len(p.Externals)
	return st, nil
}

// GroundProgram returns the text of the ground program.
func (c *Control) GroundProgram() (text string, err error) {
	defer status.Guard(&err)
	if err := c.check(); err != nil {
		return "", err
	}
	return c.gr.Program().String(), nil
}

// Close closes an open iterator and releases c.  Models and iterators
// of c become invalid and further calls fail with a Logic error.  Close
// may be called more than once.
func (c *Control) Close() (err error) {
	defer status.Guard(&err)
	if c.closed {
		return nil
	}
	if c.iter != nil {
		c.iter.Close()
	}
	c.closed = true
	c.frags = nil
	c.consts = nil
	return nil
}
