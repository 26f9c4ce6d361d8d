// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package search

import (
	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/ground"
	"github.com/go-air/gasp/sym"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// support is a way an atom may be derived.  gate is a circuit literal which
// is true when the support applies, pos the positive body atoms it
// depends on.  Free supports allow but do not force their atom.
type support struct {
	gate z.Lit
	pos  []sym.Symbol
	body []ground.Lit
	free bool
}

type atomInfo struct {
	lit      z.Lit
	supports []support
}

// translation holds the circuit for a ground program.
type translation struct {
	c     *logic.C
	base  []sym.Symbol // sorted
	atoms map[sym.Symbol]*atomInfo
	roots []z.Lit
}

func (t *translation) atom(a sym.Symbol) *atomInfo {
	info, ok := t.atoms[a]
	if !ok {
		info = &atomInfo{}
		t.atoms[a] = info
		t.base = append(t.base, a)
	}
	return info
}

// lit returns the circuit literal for the truth of l.
func (t *translation) lit(l ground.Lit) z.Lit {
	m := t.c.F
	if info, ok := t.atoms[l.Atom]; ok {
		m = info.lit
	}
	if l.Sign == ast.Negation {
		return m.Not()
	}
	return m
}

func (t *translation) conj(ls []ground.Lit) z.Lit {
	ms := make([]z.Lit, len(ls))
	for i, l := range ls {
		ms[i] = t.lit(l)
	}
	return t.c.Ands(ms...)
}

func positive(lss ...[]ground.Lit) []sym.Symbol {
	var res []sym.Symbol
	for _, ls := range lss {
		for _, l := range ls {
			if l.Sign == ast.NoSign {
				res = append(res, l.Atom)
			}
		}
	}
	return res
}

// translate builds the completion of p.  Externals with a value other
// than False get a free support.
func translate(p *ground.Program, free func(sym.Symbol) bool) *translation {
	t := &translation{c: logic.NewC(), atoms: make(map[sym.Symbol]*atomInfo)}
	for i := range p.Rules {
		r := &p.Rules[i]
		switch r.Kind {
		case ground.Normal:
			t.atom(r.Head)
		case ground.Choice:
			for _, e := range r.Elems {
				t.atom(e.Atom)
			}
		}
	}
	for _, e := range p.Externals {
		t.atom(e)
	}
	sym.Sort(t.base)
	for _, a := range t.base {
		t.atoms[a].lit = t.c.Lit()
	}

	for i := range p.Rules {
		r := &p.Rules[i]
		body := t.conj(r.Body)
		switch r.Kind {
		case ground.Normal:
			info := t.atoms[r.Head]
			info.supports = append(info.supports, support{gate: body, pos: positive(r.Body), body: r.Body})
			t.roots = append(t.roots, t.c.Implies(body, info.lit))
		case ground.Constraint:
			t.roots = append(t.roots, body.Not())
		case ground.Choice:
			counted := make([]z.Lit, 0, len(r.Elems))
			for _, e := range r.Elems {
				info := t.atoms[e.Atom]
				cond := t.conj(e.Cond)
				gate := t.c.And(body, cond)
				lits := append(append([]ground.Lit(nil), r.Body...), e.Cond...)
				info.supports = append(info.supports, support{
					gate: gate,
					pos:  positive(r.Body, e.Cond),
					body: lits,
					free: true})
				counted = append(counted, t.c.And(info.lit, cond))
			}
			if r.Lower <= 0 && (r.Upper < 0 || r.Upper >= len(counted)) {
				continue
			}
			if len(counted) == 0 {
				t.roots = append(t.roots, body.Not())
				continue
			}
			cs := t.c.CardSort(counted)
			bounds := cs.Geq(r.Lower)
			if r.Upper >= 0 {
				bounds = t.c.And(bounds, cs.Leq(r.Upper))
			}
			t.roots = append(t.roots, t.c.Implies(body, bounds))
		}
	}
	for _, e := range p.Externals {
		if free(e) {
			info := t.atoms[e]
			info.supports = append(info.supports, support{gate: t.c.T, free: true})
		}
	}

	for _, a := range t.base {
		info := t.atoms[a]
		gates := make([]z.Lit, len(info.supports))
		for i, s := range info.supports {
			gates[i] = s.gate
		}
		t.roots = append(t.roots, t.c.Implies(info.lit, t.c.Ors(gates...)))
		if sign, _ := a.Sign(); sign {
			if pa, err := a.Negate(); err == nil {
				if pinfo, ok := t.atoms[pa]; ok {
					t.roots = append(t.roots, t.c.And(info.lit, pinfo.lit).Not())
				}
			}
		}
	}
	return t
}
