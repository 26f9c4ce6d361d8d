// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package search enumerates the stable models of ground programs.
//
// A program is translated into a logic.C circuit: the completion of every
// atom, choice bounds as sorting network cardinality constraints, and the
// exclusion of complementary classical literals.  The circuit is handed to
// a gini solver.  Each model the solver finds is checked for unfounded
// atoms.  If there are some, the loop formula of the unfounded set is added
// and solving resumes; otherwise the model is stable, reported, and
// excluded from further search by a blocking clause.
package search

import (
	"time"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/ground"
	"github.com/go-air/gasp/sym"
	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

// Truth is the value assigned to an external atom.
type Truth int

const (
	Free Truth = iota
	True
	False
)

// Assumption forces Atom to Value.
type Assumption struct {
	Atom  sym.Symbol
	Value bool
}

// Options configure a Search.
type Options struct {
	Assumptions []Assumption

	// Externals holds the values of external atoms.  Externals without
	// a value are false.
	Externals map[sym.Symbol]Truth

	// Models limits the number of models, 0 means all.
	Models int

	// Deadline, if not zero, bounds the time spent in solving.
	Deadline time.Time
}

// Answer is a stable model.
type Answer struct {
	// Number is the 1-based position of the answer in its search.
	Number int
	True   []sym.Symbol
	False  []sym.Symbol
	Shown  []sym.Symbol
	Terms  []sym.Symbol
}

// Result summarizes a search.
type Result struct {
	Satisfiable bool
	Exhausted   bool
	Interrupted bool
}

// Stats holds counters of a Search.
type Stats struct {
	Atoms   int
	Rules   int
	Vars    int
	Solves  int
	Loops   int
	Models  int
	Elapsed time.Duration
}

// Search enumerates the stable models of a program.
type Search struct {
	prog    *ground.Program
	opts    Options
	t       *translation
	g       *gini.Gini
	cnf     *cnf
	assume  []z.Lit
	unsat   bool
	done    bool
	result  Result
	stats   Stats
	started time.Time
}

// New creates a Search over p.
func New(p *ground.Program, opts Options) *Search {
	s := &Search{prog: p, opts: opts, started: time.Now()}
	free := func(a sym.Symbol) bool {
		v, ok := opts.Externals[a]
		return ok && v != False
	}
	s.t = translate(p, free)
	for _, e := range p.Externals {
		if v, ok := opts.Externals[e]; ok && v == True {
			s.assume = append(s.assume, s.t.atoms[e].lit)
		}
	}
	for _, a := range opts.Assumptions {
		info, ok := s.t.atoms[a.Atom]
		switch {
		case !ok && a.Value:
			s.unsat = true
		case !ok:
		case a.Value:
			s.assume = append(s.assume, info.lit)
		default:
			s.assume = append(s.assume, info.lit.Not())
		}
	}

	c := s.t.c
	top := c.Lit()
	s.cnf = &cnf{}
	c.ToCnf(s.cnf)
	s.cnf.Add(c.T)
	s.cnf.Add(z.LitNull)
	for _, r := range s.t.roots {
		s.cnf.Add(r)
		s.cnf.Add(z.LitNull)
	}
	s.cnf.Add(top)
	s.cnf.Add(z.LitNull)
	s.g = gini.New()
	for _, m := range s.cnf.lits {
		s.g.Add(m)
	}

	s.stats.Atoms = len(s.t.base)
	s.stats.Rules = len(p.Rules)
	s.stats.Vars = int(s.g.MaxVar())
	return s
}

// value reads the truth of circuit literal m in the last model.
func (s *Search) value(m z.Lit) bool {
	if m.Var() > s.g.MaxVar() {
		return false
	}
	return s.g.Value(m)
}

// solve runs the solver under the assumptions, honouring the deadline.
// It returns 1 for SAT, -1 for UNSAT and 0 when time ran out.
func (s *Search) solve() int {
	s.stats.Solves++
	s.g.Assume(s.assume...)
	if s.opts.Deadline.IsZero() {
		return s.g.Solve()
	}
	d := time.Until(s.opts.Deadline)
	if d <= 0 {
		return 0
	}
	return s.g.GoSolve().Try(d)
}

// Next returns the next stable model, or nil once there are no more
// models, the model limit is reached, or time ran out.  Result tells
// which.
func (s *Search) Next() *Answer {
	if s.done {
		return nil
	}
	defer func() { s.stats.Elapsed = time.Since(s.started) }()
	if s.unsat || (s.opts.Models > 0 && s.stats.Models >= s.opts.Models) {
		s.result.Exhausted = s.unsat
		s.done = true
		return nil
	}
	for {
		switch s.solve() {
		case 0:
			s.result.Interrupted = true
			s.done = true
			return nil
		case -1:
			s.result.Exhausted = true
			s.done = true
			return nil
		}
		val := make(map[sym.Symbol]bool, len(s.t.base))
		for _, a := range s.t.base {
			val[a] = s.value(s.t.atoms[a].lit)
		}
		if u := s.unfounded(val); len(u) > 0 {
			s.addLoops(u)
			continue
		}
		s.result.Satisfiable = true
		s.stats.Models++
		ans := s.answer(val)
		s.block(val)
		return ans
	}
}

// Result returns the summary of the search so far.
func (s *Search) Result() Result {
	return s.result
}

// Stats returns the counters of s.
func (s *Search) Stats() Stats {
	return s.stats
}

func holds(ls []ground.Lit, val map[sym.Symbol]bool) bool {
	for _, l := range ls {
		v := val[l.Atom]
		if l.Sign == ast.Negation {
			v = !v
		}
		if !v {
			return false
		}
	}
	return true
}

// unfounded returns the true atoms of val which cannot be derived from
// supports holding in val without circular positive dependencies.
func (s *Search) unfounded(val map[sym.Symbol]bool) []sym.Symbol {
	derived := make(map[sym.Symbol]bool, len(val))
	for changed := true; changed; {
		changed = false
		for _, a := range s.t.base {
			if !val[a] || derived[a] {
				continue
			}
			for _, sp := range s.t.atoms[a].supports {
				if !holds(sp.body, val) {
					continue
				}
				ok := true
				for _, b := range sp.pos {
					if !derived[b] {
						ok = false
						break
					}
				}
				if ok {
					derived[a] = true
					changed = true
					break
				}
			}
		}
	}
	var res []sym.Symbol
	for _, a := range s.t.base {
		if val[a] && !derived[a] {
			res = append(res, a)
		}
	}
	return res
}

// addLoops adds the loop formula of the unfounded set u: some atom of u
// being true needs a support of u which does not depend positively on u.
func (s *Search) addLoops(u []sym.Symbol) {
	inU := make(map[sym.Symbol]bool, len(u))
	for _, a := range u {
		inU[a] = true
	}
	var ext []z.Lit
	for _, a := range u {
	outer:
		for _, sp := range s.t.atoms[a].supports {
			for _, b := range sp.pos {
				if inU[b] {
					continue outer
				}
			}
			ext = append(ext, sp.gate)
		}
	}
	for _, a := range u {
		s.g.Add(s.t.atoms[a].lit.Not())
		for _, m := range ext {
			s.g.Add(m)
		}
		s.g.Add(z.LitNull)
	}
	s.stats.Loops++
}

// block excludes the model val from further search.
func (s *Search) block(val map[sym.Symbol]bool) {
	if len(s.t.base) == 0 {
		s.done = true
		s.result.Exhausted = true
		return
	}
	for _, a := range s.t.base {
		m := s.t.atoms[a].lit
		if val[a] {
			m = m.Not()
		}
		s.g.Add(m)
	}
	s.g.Add(z.LitNull)
}

func (s *Search) answer(val map[sym.Symbol]bool) *Answer {
	ans := &Answer{Number: s.stats.Models}
	for _, a := range s.t.base {
		if val[a] {
			ans.True = append(ans.True, a)
			if s.prog.Shown(a) {
				ans.Shown = append(ans.Shown, a)
			}
		} else {
			ans.False = append(ans.False, a)
		}
	}
	seen := make(map[sym.Symbol]bool)
	for _, t := range s.prog.Terms {
		if !seen[t.Term] && holds(t.Body, val) {
			seen[t.Term] = true
			ans.Terms = append(ans.Terms, t.Term)
		}
	}
	sym.Sort(ans.Terms)
	for _, t := range ans.Terms {
		if !s.prog.Shown(t) || !val[t] {
			ans.Shown = append(ans.Shown, t)
		}
	}
	sym.Sort(ans.Shown)
	return ans
}
