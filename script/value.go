// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package script

import (
	"fmt"

	"github.com/go-air/gasp/sym"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Symbol wraps a sym.Symbol as a Starlark value.
type Symbol struct {
	s sym.Symbol
}

var (
	_ starlark.Value      = Symbol{}
	_ starlark.HasAttrs   = Symbol{}
	_ starlark.Comparable = Symbol{}
)

func (v Symbol) String() string       { return v.s.String() }
func (Symbol) Type() string           { return "Symbol" }
func (Symbol) Freeze()                {}
func (Symbol) Truth() starlark.Bool   { return starlark.True }
func (v Symbol) Hash() (uint32, error) { return uint32(v.s.Hash()), nil }

// Sym returns the wrapped symbol.
func (v Symbol) Sym() sym.Symbol { return v.s }

var symbolAttrs = []string{"arguments", "name", "negative", "number", "positive", "string", "type"}

func (v Symbol) AttrNames() []string { return symbolAttrs }

// Attr gives access to the parts of a symbol.  Parts the variant does not
// have are None.
func (v Symbol) Attr(name string) (starlark.Value, error) {
	switch name {
	case "type":
		return starlark.String(v.s.Kind().String()), nil
	case "number":
		if n, err := v.s.Num(); err == nil {
			return starlark.MakeInt(n), nil
		}
	case "string":
		if s, err := v.s.Str(); err == nil {
			return starlark.String(s), nil
		}
	case "name":
		if s, err := v.s.Name(); err == nil {
			return starlark.String(s), nil
		}
	case "negative", "positive":
		if sign, err := v.s.Sign(); err == nil {
			return starlark.Bool(sign == (name == "negative")), nil
		}
	case "arguments":
		if args, err := v.s.Args(); err == nil {
			vs := make([]starlark.Value, len(args))
			for i, a := range args {
				vs[i] = Symbol{a}
			}
			return starlark.NewList(vs), nil
		}
	default:
		return nil, nil
	}
	return starlark.None, nil
}

func (v Symbol) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	c := sym.Compare(v.s, y.(Symbol).s)
	switch op {
	case syntax.EQL:
		return c == 0, nil
	case syntax.NEQ:
		return c != 0, nil
	case syntax.LT:
		return c < 0, nil
	case syntax.LE:
		return c <= 0, nil
	case syntax.GT:
		return c > 0, nil
	case syntax.GE:
		return c >= 0, nil
	}
	return false, fmt.Errorf("unsupported comparison %s", op)
}

// ToSym converts a Starlark value to a symbol.  Symbols, ints, strings and
// tuples of convertible values are accepted.
func ToSym(v starlark.Value) (sym.Symbol, error) {
	switch v := v.(type) {
	case Symbol:
		return v.s, nil
	case starlark.Int:
		n, ok := v.Int64()
		if !ok || int64(int(n)) != n {
			return sym.Symbol{}, fmt.Errorf("integer out of range: %s", v)
		}
		return sym.Number(int(n)), nil
	case starlark.String:
		return sym.String(string(v)), nil
	case starlark.Tuple:
		args := make([]sym.Symbol, len(v))
		for i, a := range v {
			s, err := ToSym(a)
			if err != nil {
				return sym.Symbol{}, fmt.Errorf("tuple index %d: %w", i, err)
			}
			args[i] = s
		}
		return sym.Tuple(args...), nil
	}
	return sym.Symbol{}, fmt.Errorf("cannot convert %s to a symbol", v.Type())
}

// results converts the return value of a script function: None is no
// value, a list gives one value per element and anything else one value.
func results(v starlark.Value) ([]sym.Symbol, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case *starlark.List:
		res := make([]sym.Symbol, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			s, err := ToSym(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("list index %d: %w", i, err)
			}
			res = append(res, s)
		}
		return res, nil
	}
	s, err := ToSym(v)
	if err != nil {
		return nil, err
	}
	return []sym.Symbol{s}, nil
}

func symbols(vs []starlark.Value) ([]sym.Symbol, error) {
	res := make([]sym.Symbol, len(vs))
	for i, v := range vs {
		s, err := ToSym(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		res[i] = s
	}
	return res, nil
}

// builtins are the predeclared names of every script.
var builtins = starlark.StringDict{
	"Function": starlark.NewBuiltin("Function", function),
	"Tuple":    starlark.NewBuiltin("Tuple", tuple),
	"Number":   starlark.NewBuiltin("Number", number),
	"String":   starlark.NewBuiltin("String", str),
	"Infimum":  Symbol{sym.Inf()},
	"Supremum": Symbol{sym.Sup()},
}

func function(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var fargs starlark.Value = starlark.NewList(nil)
	positive := true
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "name", &name, "arguments?", &fargs, "positive?", &positive); err != nil {
		return nil, err
	}
	it, ok := fargs.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("%s: arguments must be iterable, got %s", b.Name(), fargs.Type())
	}
	var vs []starlark.Value
	iter := it.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		vs = append(vs, x)
	}
	ss, err := symbols(vs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	s, err := sym.Fun(name, ss, !positive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return Symbol{s}, nil
}

func tuple(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	ss, err := symbols(args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return Symbol{sym.Tuple(ss...)}, nil
}

func number(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var n int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &n); err != nil {
		return nil, err
	}
	return Symbol{sym.Number(n)}, nil
}

func str(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var s string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &s); err != nil {
		return nil, err
	}
	return Symbol{sym.String(s)}, nil
}
