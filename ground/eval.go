// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ground

import (
	"fmt"
	"strings"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/inter"
	"github.com/go-air/gasp/status"
	"github.com/go-air/gasp/sym"
)

// binding maps variable names to values.  Bindings are extended by
// copying.
type binding map[string]sym.Symbol

func (b binding) with(name string, v sym.Symbol) binding {
	res := make(binding, len(b)+1)
	for k, w := range b {
		res[k] = w
	}
	res[name] = v
	return res
}

// evaluator evaluates terms for one grounding call.
type evaluator struct {
	pr       *status.Printer
	consts   map[string]sym.Symbol
	params   map[string]sym.Symbol
	ctx      inter.Context
	callable map[string]bool
	calls    map[string][]sym.Symbol
	warned   map[string]bool
}

func newEvaluator(pr *status.Printer, consts map[string]sym.Symbol, ctx inter.Context) *evaluator {
	return &evaluator{
		pr:       pr,
		consts:   consts,
		ctx:      ctx,
		callable: make(map[string]bool),
		calls:    make(map[string][]sym.Symbol),
		warned:   make(map[string]bool)}
}

// warn passes a warning on once per grounding call.
func (e *evaluator) warn(c status.Code, loc ast.Location, msg string) {
	text := loc.String() + ": info: " + msg
	if e.warned[text] {
		return
	}
	e.warned[text] = true
	e.pr.Warn(c, text)
}

func (e *evaluator) undefined(t ast.Term) {
	e.warn(status.OperationUndefined, t.Loc(), "operation undefined: "+t.String())
}

// constant looks up a parameter or constant name.
func (e *evaluator) constant(name string) (sym.Symbol, bool) {
	if v, ok := e.params[name]; ok {
		return v, true
	}
	v, ok := e.consts[name]
	return v, ok
}

// eval returns the values of t under b.  Undefined operations give no
// values and a warning.  All variables in t must be bound.
func (e *evaluator) eval(t ast.Term, b binding) ([]sym.Symbol, error) {
	switch t := t.(type) {
	case *ast.Symbol:
		return []sym.Symbol{t.Value}, nil
	case *ast.Variable:
		v, ok := b[t.Name]
		if !ok {
			return nil, status.Errorf(status.Logic, "%s: unbound variable %s", t.Location, t.Name)
		}
		return []sym.Symbol{v}, nil
	case *ast.Function:
		if t.External {
			return e.call(t, b)
		}
		if len(t.Args) == 0 && t.Name != "" {
			if v, ok := e.constant(t.Name); ok {
				if !t.Sign {
					return []sym.Symbol{v}, nil
				}
				return e.negate(t, []sym.Symbol{v}), nil
			}
		}
		return e.evalFun(t, b)
	case *ast.UnaryOp:
		vs, err := e.eval(t.Arg, b)
		if err != nil {
			return nil, err
		}
		if t.Op == ast.Minus {
			return e.negate(t, vs), nil
		}
		res := make([]sym.Symbol, 0, len(vs))
		for _, v := range vs {
			n, err := v.Num()
			if err != nil {
				e.undefined(t)
				continue
			}
			if n < 0 {
				n = -n
			}
			res = append(res, sym.Number(n))
		}
		return res, nil
	case *ast.BinaryOp:
		return e.evalBinary(t, b)
	case *ast.Interval:
		ls, err := e.eval(t.Left, b)
		if err != nil {
			return nil, err
		}
		rs, err := e.eval(t.Right, b)
		if err != nil {
			return nil, err
		}
		var res []sym.Symbol
		for _, l := range ls {
			for _, r := range rs {
				ln, lerr := l.Num()
				rn, rerr := r.Num()
				if lerr != nil || rerr != nil {
					e.undefined(t)
					continue
				}
				for i := ln; i <= rn; i++ {
					res = append(res, sym.Number(i))
				}
			}
		}
		return dedup(res), nil
	}
	return nil, status.Errorf(status.Logic, "%s: unexpected term %s", t.Loc(), t)
}

func (e *evaluator) negate(t ast.Term, vs []sym.Symbol) []sym.Symbol {
	res := make([]sym.Symbol, 0, len(vs))
	for _, v := range vs {
		if n, err := v.Num(); err == nil {
			res = append(res, sym.Number(-n))
			continue
		}
		w, err := v.Negate()
		if err != nil {
			e.undefined(t)
			continue
		}
		res = append(res, w)
	}
	return res
}

// product evaluates ts and returns all combinations of their values.
func (e *evaluator) product(ts []ast.Term, b binding) ([][]sym.Symbol, error) {
	res := [][]sym.Symbol{nil}
	for _, a := range ts {
		vs, err := e.eval(a, b)
		if err != nil {
			return nil, err
		}
		next := make([][]sym.Symbol, 0, len(res)*len(vs))
		for _, pre := range res {
			for _, v := range vs {
				tup := make([]sym.Symbol, len(pre), len(pre)+1)
				copy(tup, pre)
				next = append(next, append(tup, v))
			}
		}
		res = next
	}
	return res, nil
}

func (e *evaluator) evalFun(t *ast.Function, b binding) ([]sym.Symbol, error) {
	tups, err := e.product(t.Args, b)
	if err != nil {
		return nil, err
	}
	res := make([]sym.Symbol, 0, len(tups))
	for _, args := range tups {
		s, err := sym.Fun(t.Name, args, t.Sign)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

// evalAtom is like eval but never substitutes constants for the name of
// the atom itself.
func (e *evaluator) evalAtom(t ast.Term, b binding) ([]sym.Symbol, error) {
	f, ok := t.(*ast.Function)
	if !ok || f.External {
		return nil, status.Errorf(status.Runtime, "%s: not an atom: %s", t.Loc(), t)
	}
	return e.evalFun(f, b)
}

func (e *evaluator) evalBinary(t *ast.BinaryOp, b binding) ([]sym.Symbol, error) {
	ls, err := e.eval(t.Left, b)
	if err != nil {
		return nil, err
	}
	rs, err := e.eval(t.Right, b)
	if err != nil {
		return nil, err
	}
	var res []sym.Symbol
	for _, l := range ls {
		for _, r := range rs {
			ln, lerr := l.Num()
			rn, rerr := r.Num()
			if lerr != nil || rerr != nil {
				e.undefined(t)
				continue
			}
			var v int
			switch t.Op {
			case ast.Plus:
				v = ln + rn
			case ast.Sub:
				v = ln - rn
			case ast.Mul:
				v = ln * rn
			case ast.Div, ast.Mod:
				if rn == 0 {
					e.undefined(t)
					continue
				}
				if t.Op == ast.Div {
					v = ln / rn
				} else {
					v = ln % rn
				}
			}
			res = append(res, sym.Number(v))
		}
	}
	return dedup(res), nil
}

// call evaluates an external call.  Results are memoised per call site
// and arguments.
func (e *evaluator) call(t *ast.Function, b binding) ([]sym.Symbol, error) {
	callable, asked := e.callable[t.Name]
	if !asked {
		callable = e.ctx != nil && e.ctx.Callable(t.Name)
		e.callable[t.Name] = callable
	}
	if !callable {
		return nil, status.Errorf(status.Runtime, "%s: function not callable: @%s", t.Location, t.Name)
	}
	tups, err := e.product(t.Args, b)
	if err != nil {
		return nil, err
	}
	var res []sym.Symbol
	for _, args := range tups {
		key := callKey(t.Location, t.Name, args)
		vs, ok := e.calls[key]
		if !ok {
			vs, err = e.ctx.Call(t.Location, t.Name, args)
			if err != nil {
				return nil, status.Wrap(status.Runtime, err, "%s: error in external call @%s", t.Location, t.Name)
			}
			e.calls[key] = vs
		}
		res = append(res, vs...)
	}
	return dedup(res), nil
}

func callKey(loc ast.Location, name string, args []sym.Symbol) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s|%s", loc, name)
	for _, a := range args {
		sb.WriteByte('|')
		sb.WriteString(a.String())
	}
	return sb.String()
}

// match extends b so that pattern t denotes s.  Subterms which are not
// patterns are evaluated and must have all their variables bound.
func (e *evaluator) match(t ast.Term, s sym.Symbol, b binding) (binding, bool, error) {
	switch t := t.(type) {
	case *ast.Symbol:
		return b, t.Value == s, nil
	case *ast.Variable:
		if v, ok := b[t.Name]; ok {
			return b, v == s, nil
		}
		return b.with(t.Name, s), true, nil
	case *ast.Function:
		if t.External || len(t.Args) == 0 {
			break
		}
		return e.matchFun(t, s, b)
	}
	vs, err := e.eval(t, b)
	if err != nil {
		return nil, false, err
	}
	for _, v := range vs {
		if v == s {
			return b, true, nil
		}
	}
	return b, false, nil
}

func (e *evaluator) matchFun(t *ast.Function, s sym.Symbol, b binding) (binding, bool, error) {
	if s.Kind() != sym.KindFunction {
		return b, false, nil
	}
	g, _ := s.Signature()
	if g.Name != t.Name || g.Sign != t.Sign || g.Arity != len(t.Args) {
		return b, false, nil
	}
	args, _ := s.Args()
	for i, a := range t.Args {
		var ok bool
		var err error
		b, ok, err = e.match(a, args[i], b)
		if err != nil || !ok {
			return b, false, err
		}
	}
	return b, true, nil
}

// Eval evaluates a term without variables and external calls to a single
// symbol, using consts for constant names.
func Eval(t ast.Term, consts map[string]sym.Symbol) (sym.Symbol, error) {
	if vs := termVars(t); len(vs) > 0 {
		return sym.Symbol{}, unsafe(t.Loc(), vs)
	}
	e := newEvaluator(nil, consts, nil)
	vs, err := e.eval(t, binding{})
	if err != nil {
		return sym.Symbol{}, err
	}
	if len(vs) != 1 {
		return sym.Symbol{}, status.Errorf(status.Runtime, "%s: term must evaluate to exactly one value: %s", t.Loc(), t)
	}
	return vs[0], nil
}

func dedup(ss []sym.Symbol) []sym.Symbol {
	if len(ss) < 2 {
		return ss
	}
	seen := make(map[sym.Symbol]bool, len(ss))
	res := ss[:0]
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			res = append(res, s)
		}
	}
	return res
}
