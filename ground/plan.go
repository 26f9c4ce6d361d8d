// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ground

import (
	"sort"
	"strconv"
	"strings"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/status"
)

type mode int

const (
	modeMatch  mode = iota // positive literal, matched against the domain
	modeAssign             // val = pat, pat is matched against the values of val
	modeFilter             // everything bound
)

type step struct {
	lit  ast.BodyLiteral
	mode mode
	val  ast.Term
	pat  ast.Term
}

type plan []step

// vars adds the variables of t to dst.  If patterns is false, only
// variables below non-pattern subterms are added.
func vars(t ast.Term, dst map[string]bool, patterns bool) {
	switch t := t.(type) {
	case *ast.Variable:
		if patterns {
			dst[t.Name] = true
		}
	case *ast.Function:
		p := patterns || t.External
		for _, a := range t.Args {
			vars(a, dst, p)
		}
	case *ast.UnaryOp:
		vars(t.Arg, dst, true)
	case *ast.BinaryOp:
		vars(t.Left, dst, true)
		vars(t.Right, dst, true)
	case *ast.Interval:
		vars(t.Left, dst, true)
		vars(t.Right, dst, true)
	}
}

func termVars(t ast.Term) map[string]bool {
	res := make(map[string]bool)
	if t != nil {
		vars(t, res, true)
	}
	return res
}

func literalVars(l ast.BodyLiteral) map[string]bool {
	res := make(map[string]bool)
	switch l := l.(type) {
	case *ast.Literal:
		vars(l.Atom, res, true)
	case *ast.Comparison:
		vars(l.Left, res, true)
		vars(l.Right, res, true)
	}
	return res
}

func subset(vs, bound map[string]bool) bool {
	for v := range vs {
		if !bound[v] {
			return false
		}
	}
	return true
}

// isPattern reports whether t can be matched against a value.
func isPattern(t ast.Term) bool {
	switch t := t.(type) {
	case *ast.Variable, *ast.Symbol:
		return true
	case *ast.Function:
		return !t.External
	}
	return false
}

// ready returns the step for l if l can be evaluated with the variables
// in bound.
func ready(l ast.BodyLiteral, bound map[string]bool) (step, bool) {
	switch l := l.(type) {
	case *ast.Literal:
		if l.Sign == ast.NoSign {
			nonPat := make(map[string]bool)
			vars(l.Atom, nonPat, false)
			return step{lit: l, mode: modeMatch}, subset(nonPat, bound)
		}
	case *ast.Comparison:
		if subset(literalVars(l), bound) {
			return step{lit: l, mode: modeFilter}, true
		}
		if l.Op != ast.Equal {
			return step{}, false
		}
		for _, s := range [][2]ast.Term{{l.Right, l.Left}, {l.Left, l.Right}} {
			val, pat := s[0], s[1]
			if !isPattern(pat) || !subset(termVars(val), bound) {
				continue
			}
			nonPat := make(map[string]bool)
			vars(pat, nonPat, false)
			if subset(nonPat, bound) {
				return step{lit: l, mode: modeAssign, val: val, pat: pat}, true
			}
		}
		return step{}, false
	}
	return step{lit: l, mode: modeFilter}, subset(literalVars(l), bound)
}

// order arranges body so that each literal can be evaluated when it is
// reached, taking the first ready literal each time.  bound holds the
// variables bound beforehand, the returned set those bound afterwards.
func order(body []ast.BodyLiteral, bound map[string]bool) (plan, map[string]bool, error) {
	res := make(plan, 0, len(body))
	nb := make(map[string]bool, len(bound))
	for k := range bound {
		nb[k] = true
	}
	rest := append([]ast.BodyLiteral(nil), body...)
	for len(rest) > 0 {
		found := false
		for i, l := range rest {
			s, ok := ready(l, nb)
			if !ok {
				continue
			}
			res = append(res, s)
			for v := range literalVars(l) {
				nb[v] = true
			}
			rest = append(rest[:i], rest[i+1:]...)
			found = true
			break
		}
		if !found {
			unbound := make(map[string]bool)
			for _, l := range rest {
				for v := range literalVars(l) {
					if !nb[v] {
						unbound[v] = true
					}
				}
			}
			return nil, nil, unsafe(rest[0].Loc(), unbound)
		}
	}
	return res, nb, nil
}

func unsafe(loc ast.Location, vs map[string]bool) error {
	names := make([]string, 0, len(vs))
	for v := range vs {
		if isAnon(v) {
			v = "_"
		}
		names = append(names, v)
	}
	sort.Strings(names)
	return status.Errorf(status.Runtime, "%s: unsafe variables: %s", loc, strings.Join(names, ", "))
}

// checkBound reports an unsafe variable error if some variable of ts is
// not in bound.
func checkBound(loc ast.Location, bound map[string]bool, ts ...ast.Term) error {
	unbound := make(map[string]bool)
	for _, t := range ts {
		for v := range termVars(t) {
			if !bound[v] {
				unbound[v] = true
			}
		}
	}
	if len(unbound) > 0 {
		return unsafe(loc, unbound)
	}
	return nil
}

// renamer gives each anonymous variable of a statement a distinct name.
type renamer struct {
	n int
}

func isAnon(name string) bool {
	return len(name) > 1 && name[0] == '_' && name[1] >= '0' && name[1] <= '9'
}

func (r *renamer) term(t ast.Term) ast.Term {
	switch t := t.(type) {
	case *ast.Variable:
		if t.Name == "_" {
			r.n++
			return &ast.Variable{Location: t.Location, Name: "_" + strconv.Itoa(r.n)}
		}
	case *ast.Function:
		if len(t.Args) == 0 {
			return t
		}
		u := *t
		u.Args = r.terms(t.Args)
		return &u
	case *ast.UnaryOp:
		u := *t
		u.Arg = r.term(t.Arg)
		return &u
	case *ast.BinaryOp:
		u := *t
		u.Left, u.Right = r.term(t.Left), r.term(t.Right)
		return &u
	case *ast.Interval:
		u := *t
		u.Left, u.Right = r.term(t.Left), r.term(t.Right)
		return &u
	}
	return t
}

func (r *renamer) terms(ts []ast.Term) []ast.Term {
	res := make([]ast.Term, len(ts))
	for i, t := range ts {
		res[i] = r.term(t)
	}
	return res
}

func (r *renamer) body(ls []ast.BodyLiteral) []ast.BodyLiteral {
	res := make([]ast.BodyLiteral, len(ls))
	for i, l := range ls {
		switch l := l.(type) {
		case *ast.Literal:
			u := *l
			u.Atom = r.term(l.Atom)
			res[i] = &u
		case *ast.Comparison:
			u := *l
			u.Left, u.Right = r.term(l.Left), r.term(l.Right)
			res[i] = &u
		default:
			res[i] = l
		}
	}
	return res
}

// sortedKeys returns the keys of m in order.
func sortedKeys(m map[string]bool) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
