// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package ground instantiates logic programs.
//
// A Grounder accumulates a ground program over a sequence of Ground calls.
// Each call instantiates a batch of statements by naive fixpoint iteration
// against the atoms which may become true, consisting of the atoms derived
// by earlier calls and those derived in the batch.  A call either commits
// completely or leaves the Grounder unchanged.
package ground

import (
	"strconv"
	"strings"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/inter"
	"github.com/go-air/gasp/status"
	"github.com/go-air/gasp/sym"
)

// Instance is a list of statements together with values for the
// parameters of the fragment they come from.
type Instance struct {
	Stmts  []ast.Statement
	Params map[string]sym.Symbol
}

// Grounder instantiates programs incrementally.
type Grounder struct {
	pr *status.Printer
	st *state
}

type state struct {
	atoms []sym.Symbol
	index map[sym.Signature][]sym.Symbol
	known map[sym.Symbol]bool

	rules []Rule
	keys  map[string]int

	externals []sym.Symbol
	isExt     map[sym.Symbol]bool

	selective bool
	shows     []sym.Signature
	terms     []ShowTerm
	termKeys  map[string]bool

	nstmts int
}

func newState() *state {
	return &state{
		index:    make(map[sym.Signature][]sym.Symbol),
		known:    make(map[sym.Symbol]bool),
		keys:     make(map[string]int),
		isExt:    make(map[sym.Symbol]bool),
		termKeys: make(map[string]bool)}
}

func (s *state) clone() *state {
	res := &state{
		atoms:     append([]sym.Symbol(nil), s.atoms...),
		index:     make(map[sym.Signature][]sym.Symbol, len(s.index)),
		known:     make(map[sym.Symbol]bool, len(s.known)),
		rules:     append([]Rule(nil), s.rules...),
		keys:      make(map[string]int, len(s.keys)),
		externals: append([]sym.Symbol(nil), s.externals...),
		isExt:     make(map[sym.Symbol]bool, len(s.isExt)),
		selective: s.selective,
		shows:     append([]sym.Signature(nil), s.shows...),
		terms:     append([]ShowTerm(nil), s.terms...),
		termKeys:  make(map[string]bool, len(s.termKeys)),
		nstmts:    s.nstmts}
	for k, v := range s.index {
		res.index[k] = append([]sym.Symbol(nil), v...)
	}
	for k, v := range s.known {
		res.known[k] = v
	}
	for k, v := range s.keys {
		res.keys[k] = v
	}
	for k, v := range s.isExt {
		res.isExt[k] = v
	}
	for k, v := range s.termKeys {
		res.termKeys[k] = v
	}
	return res
}

func (s *state) addAtom(a sym.Symbol) {
	if s.known[a] {
		return
	}
	s.known[a] = true
	s.atoms = append(s.atoms, a)
	g, _ := a.Signature()
	s.index[g] = append(s.index[g], a)
}

func (s *state) addRule(key string, r Rule) {
	if i, ok := s.keys[key]; ok {
		s.rules[i] = r
		return
	}
	s.keys[key] = len(s.rules)
	s.rules = append(s.rules, r)
}

// New creates a Grounder passing warnings to pr.
func New(pr *status.Printer) *Grounder {
	return &Grounder{pr: pr, st: newState()}
}

// Atoms returns the number of atoms which may become true.
func (g *Grounder) Atoms() int {
	return len(g.st.atoms)
}

// IsExternal reports whether a has been declared external.
func (g *Grounder) IsExternal(a sym.Symbol) bool {
	return g.st.isExt[a]
}

// Program returns the ground program accumulated so far.  The result
// must not be modified.
func (g *Grounder) Program() *Program {
	return &Program{
		Rules:     g.st.rules,
		Externals: g.st.externals,
		Selective: g.st.selective,
		Shows:     g.st.shows,
		Terms:     g.st.terms}
}

type compiled struct {
	stmt     ast.Statement
	id       int
	params   map[string]sym.Symbol
	body     plan
	bodyVars []string
	head     ast.Term // normal head, external atom or shown term
	choice   *ast.Choice
	elems    []compiledElem
}

type compiledElem struct {
	atom ast.Term
	cond plan
}

// Ground instantiates insts, using consts for constant names and ctx
// for external calls.  ctx may be nil.
func (g *Grounder) Ground(insts []Instance, consts map[string]sym.Symbol, ctx inter.Context) error {
	st := g.st.clone()
	var cs []*compiled
	for _, inst := range insts {
		for _, s := range inst.Stmts {
			c, err := compile(s)
			if err != nil {
				return err
			}
			if c == nil {
				applyShow(st, s)
				continue
			}
			c.id = st.nstmts
			st.nstmts++
			c.params = inst.Params
			cs = append(cs, c)
		}
	}
	gr := &grounding{st: st, ev: newEvaluator(g.pr, consts, ctx)}
	for {
		n := len(st.atoms)
		for _, c := range cs {
			if err := gr.statement(c); err != nil {
				return err
			}
		}
		if len(st.atoms) == n {
			break
		}
	}
	gr.warnUndefined(cs)
	g.st = st
	return nil
}

func applyShow(st *state, s ast.Statement) {
	sig, ok := s.(*ast.ShowSignature)
	if !ok {
		return
	}
	st.selective = true
	if sig.Signature.Name == "" && sig.Signature.Arity == 0 {
		return
	}
	for _, x := range st.shows {
		if x == sig.Signature {
			return
		}
	}
	st.shows = append(st.shows, sig.Signature)
}

// compile orders the literals of a statement.  It returns nil for
// statements with nothing to instantiate.
func compile(s ast.Statement) (*compiled, error) {
	r := &renamer{}
	c := &compiled{stmt: s}
	var body []ast.BodyLiteral
	switch s := s.(type) {
	case *ast.Rule:
		body = r.body(s.Body)
		switch h := s.Head.(type) {
		case nil:
		case *ast.Literal:
			if h.Sign != ast.NoSign {
				return nil, status.Errorf(status.Runtime, "%s: negated literal in head: %s", h.Location, h)
			}
			c.head = r.term(h.Atom)
		case *ast.Choice:
			c.choice = h
			for _, e := range h.Elements {
				c.elems = append(c.elems, compiledElem{
					atom: r.term(e.Atom),
					cond: planOf(r.body(e.Condition))})
			}
		default:
			return nil, status.Errorf(status.Runtime, "%s: unsupported head %s", s.Location, s.Head)
		}
	case *ast.External:
		body = r.body(s.Body)
		c.head = r.term(s.Atom)
	case *ast.ShowTerm:
		body = r.body(s.Body)
		c.head = r.term(s.Term)
	default:
		return nil, nil
	}
	p, bound, err := order(body, nil)
	if err != nil {
		return nil, err
	}
	c.body = p
	c.bodyVars = sortedKeys(bound)
	if c.head != nil {
		if err := checkBound(s.Loc(), bound, c.head); err != nil {
			return nil, err
		}
	}
	if c.choice != nil {
		if err := checkBound(s.Loc(), bound, c.choice.Lower, c.choice.Upper); err != nil {
			return nil, err
		}
		for i := range c.elems {
			e := &c.elems[i]
			cp, cb, err := order(bodyOf(e.cond), bound)
			if err != nil {
				return nil, err
			}
			e.cond = cp
			if err := checkBound(s.Loc(), cb, e.atom); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// planOf and bodyOf carry an unordered condition until it is ordered.
func planOf(ls []ast.BodyLiteral) plan {
	p := make(plan, len(ls))
	for i, l := range ls {
		p[i] = step{lit: l}
	}
	return p
}

func bodyOf(p plan) []ast.BodyLiteral {
	res := make([]ast.BodyLiteral, len(p))
	for i := range p {
		res[i] = p[i].lit
	}
	return res
}

type grounding struct {
	st *state
	ev *evaluator
}

func (gr *grounding) statement(c *compiled) error {
	gr.ev.params = c.params
	return gr.run(c.body, 0, binding{}, nil, func(b binding, body []Lit) error {
		switch s := c.stmt.(type) {
		case *ast.Rule:
			switch {
			case c.choice != nil:
				return gr.choice(c, b, body)
			case c.head == nil:
				r := Rule{Kind: Constraint, Body: body}
				gr.st.addRule(r.String(), r)
				return nil
			}
			heads, err := gr.ev.evalAtom(c.head, b)
			if err != nil {
				return err
			}
			for _, h := range heads {
				r := Rule{Kind: Normal, Head: h, Body: body}
				gr.st.addAtom(h)
				gr.st.addRule(r.String(), r)
			}
		case *ast.External:
			atoms, err := gr.ev.evalAtom(c.head, b)
			if err != nil {
				return err
			}
			for _, a := range atoms {
				gr.st.addAtom(a)
				if !gr.st.isExt[a] {
					gr.st.isExt[a] = true
					gr.st.externals = append(gr.st.externals, a)
				}
			}
		case *ast.ShowTerm:
			ts, err := gr.ev.eval(c.head, b)
			if err != nil {
				return err
			}
			for _, t := range ts {
				st := ShowTerm{Term: t, Body: body}
				var sb strings.Builder
				sb.WriteString(t.String())
				sb.WriteByte('|')
				writeLits(&sb, body)
				if key := sb.String(); !gr.st.termKeys[key] {
					gr.st.termKeys[key] = true
					gr.st.terms = append(gr.st.terms, st)
				}
			}
		default:
			return status.Errorf(status.Logic, "%s: cannot ground %s", s.Loc(), s)
		}
		return nil
	})
}

// choice instantiates a choice rule for one body binding.  Instances are
// keyed by the statement and the binding, so that later passes may replace
// them with more elements.
func (gr *grounding) choice(c *compiled, b binding, body []Lit) error {
	var key strings.Builder
	key.WriteString("choice|")
	key.WriteString(strconv.Itoa(c.id))
	for _, v := range c.bodyVars {
		key.WriteByte('|')
		key.WriteString(b[v].String())
	}
	r := Rule{Kind: Choice, Upper: -1, Body: body}
	var ok bool
	var err error
	if r.Lower, ok, err = gr.bound(c.choice.Lower, b, 0); err != nil || !ok {
		return err
	}
	if r.Upper, ok, err = gr.bound(c.choice.Upper, b, -1); err != nil || !ok {
		return err
	}
	seen := make(map[string]bool)
	for _, e := range c.elems {
		err := gr.run(e.cond, 0, b, nil, func(eb binding, cond []Lit) error {
			atoms, err := gr.ev.evalAtom(e.atom, eb)
			if err != nil {
				return err
			}
			for _, a := range atoms {
				el := Elem{Atom: a, Cond: cond}
				var sb strings.Builder
				sb.WriteString(a.String())
				sb.WriteByte('|')
				writeLits(&sb, cond)
				if k := sb.String(); !seen[k] {
					seen[k] = true
					r.Elems = append(r.Elems, el)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	for _, e := range r.Elems {
		gr.st.addAtom(e.Atom)
	}
	gr.st.addRule(key.String(), r)
	return nil
}

// bound evaluates a choice bound, which must be a single number.
func (gr *grounding) bound(t ast.Term, b binding, dflt int) (int, bool, error) {
	if t == nil {
		return dflt, true, nil
	}
	vs, err := gr.ev.eval(t, b)
	if err != nil {
		return 0, false, err
	}
	if len(vs) != 1 {
		gr.ev.undefined(t)
		return 0, false, nil
	}
	n, err := vs[0].Num()
	if err != nil {
		gr.ev.undefined(t)
		return 0, false, nil
	}
	return n, true, nil
}

func appendLit(ls []Lit, l Lit) []Lit {
	return append(ls[:len(ls):len(ls)], l)
}

// run enumerates the bindings of p from position i on and calls emit with
// each complete binding and the ground literals collected.
func (gr *grounding) run(p plan, i int, b binding, lits []Lit, emit func(binding, []Lit) error) error {
	if i == len(p) {
		return emit(b, lits)
	}
	s := &p[i]
	switch s.mode {
	case modeMatch:
		l := s.lit.(*ast.Literal)
		f, ok := l.Atom.(*ast.Function)
		if !ok {
			return status.Errorf(status.Runtime, "%s: not an atom: %s", l.Location, l.Atom)
		}
		g := sym.Signature{Name: f.Name, Arity: len(f.Args), Sign: f.Sign}
		cands := gr.st.index[g]
		for _, a := range cands {
			nb, ok, err := gr.ev.matchFun(f, a, b)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := gr.run(p, i+1, nb, appendLit(lits, Lit{Atom: a}), emit); err != nil {
				return err
			}
		}
		return nil
	case modeAssign:
		vs, err := gr.ev.eval(s.val, b)
		if err != nil {
			return err
		}
		for _, v := range vs {
			nb, ok, err := gr.ev.match(s.pat, v, b)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if err := gr.run(p, i+1, nb, lits, emit); err != nil {
				return err
			}
		}
		return nil
	}
	switch l := s.lit.(type) {
	case *ast.Boolean:
		if !l.Value {
			return nil
		}
	case *ast.Comparison:
		ok, err := gr.compare(l, b)
		if err != nil || !ok {
			return err
		}
	case *ast.Literal:
		atoms, err := gr.ev.evalAtom(l.Atom, b)
		if err != nil {
			return err
		}
		for _, a := range atoms {
			lit := Lit{Atom: a, Sign: l.Sign}
			if err := gr.run(p, i+1, b, appendLit(lits, lit), emit); err != nil {
				return err
			}
		}
		return nil
	}
	return gr.run(p, i+1, b, lits, emit)
}

func (gr *grounding) compare(l *ast.Comparison, b binding) (bool, error) {
	ls, err := gr.ev.eval(l.Left, b)
	if err != nil {
		return false, err
	}
	rs, err := gr.ev.eval(l.Right, b)
	if err != nil {
		return false, err
	}
	for _, x := range ls {
		for _, y := range rs {
			c := sym.Compare(x, y)
			var ok bool
			switch l.Op {
			case ast.Equal:
				ok = c == 0
			case ast.NotEqual:
				ok = c != 0
			case ast.Less:
				ok = c < 0
			case ast.LessEqual:
				ok = c <= 0
			case ast.Greater:
				ok = c > 0
			case ast.GreaterEqual:
				ok = c >= 0
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}

// warnUndefined warns about body atoms whose predicate has no atoms which
// may become true.
func (gr *grounding) warnUndefined(cs []*compiled) {
	check := func(p plan) {
		for _, s := range p {
			l, ok := s.lit.(*ast.Literal)
			if !ok {
				continue
			}
			f, ok := l.Atom.(*ast.Function)
			if !ok {
				continue
			}
			g := sym.Signature{Name: f.Name, Arity: len(f.Args), Sign: f.Sign}
			if len(gr.st.index[g]) == 0 {
				gr.ev.warn(status.AtomUndefined, l.Location, "atom does not occur in any rule head: "+l.Atom.String())
			}
		}
	}
	for _, c := range cs {
		check(c.body)
		for _, e := range c.elems {
			check(e.cond)
		}
	}
}
