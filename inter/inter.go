// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package inter holds the interfaces through which a host takes part in
// grounding.
package inter

import (
	"fmt"
	"sort"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/sym"
)

// Interface Callable reports whether a function name may be called
// during grounding.
//
// Callable is asked at most once per distinct name per grounding call.
// A name for which Callable returns false is never passed to Call.
type Callable interface {
	Callable(name string) bool
}

// Interface Caller evaluates an external function.
//
// Call returns the symbols the call site at loc evaluates to when applied
// to args.  Returning no symbols makes the call site fail, returning more
// than one makes the enclosing term range over all of them.
//
// A non-nil error aborts grounding.  The error is kept in the chain of the
// error returned from grounding, so hosts may use status.Signal or their
// own error types to find out why.
type Caller interface {
	Call(loc ast.Location, name string, args []sym.Symbol) ([]sym.Symbol, error)
}

// Interface Context is the capability object passed to a grounding call.
// It is valid only for the duration of that call.
type Context interface {
	Callable
	Caller
}

// Func is a host function usable through Funcs.
type Func func(args []sym.Symbol) ([]sym.Symbol, error)

// Funcs is a Context backed by a map from names to functions.
type Funcs map[string]Func

// Callable implements Callable.
func (fs Funcs) Callable(name string) bool {
	_, ok := fs[name]
	return ok
}

// Call implements Caller.
func (fs Funcs) Call(loc ast.Location, name string, args []sym.Symbol) ([]sym.Symbol, error) {
	f, ok := fs[name]
	if !ok {
		return nil, fmt.Errorf("%s: no function %q", loc, name)
	}
	return f(args)
}

// Names returns the sorted names in fs.
func (fs Funcs) Names() []string {
	res := make([]string, 0, len(fs))
	for k := range fs {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Chain returns a Context which serves each name from the first context
// in cs which can call it.  Nil contexts are skipped.  The context serving
// a name is resolved once, so each context is asked Callable at most once
// per name over the lifetime of the chain.
func Chain(cs ...Context) Context {
	ch := &chain{resolved: make(map[string]Context)}
	for _, c := range cs {
		if c != nil {
			ch.cs = append(ch.cs, c)
		}
	}
	return ch
}

type chain struct {
	cs       []Context
	resolved map[string]Context // nil value: nobody can call the name
}

func (ch *chain) Callable(name string) bool {
	return ch.find(name) != nil
}

func (ch *chain) Call(loc ast.Location, name string, args []sym.Symbol) ([]sym.Symbol, error) {
	c := ch.find(name)
	if c == nil {
		return nil, fmt.Errorf("%s: no function %q", loc, name)
	}
	return c.Call(loc, name, args)
}

func (ch *chain) find(name string) Context {
	if c, ok := ch.resolved[name]; ok {
		return c
	}
	var res Context
	for _, c := range ch.cs {
		if c.Callable(name) {
			res = c
			break
		}
	}
	ch.resolved[name] = res
	return res
}
