// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package script runs the Starlark code of #script blocks and serves the
// functions it defines as external calls.
//
// Script functions receive their arguments as Symbol values, which expose
// the attributes type, number, string, name, arguments, positive and
// negative.  They may return a Symbol, an int, a string, a tuple of those,
// a list giving several values, or None giving no value.  The builtins
// Function, Tuple, Number, String, Infimum and Supremum construct symbols.
package script

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/status"
	"github.com/go-air/gasp/sym"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Lang is the language name of scripts run by this package.
const Lang = "starlark"

// Module holds the globals of all scripts executed so far.
type Module struct {
	log     *slog.Logger
	globals starlark.StringDict
}

// New creates an empty Module.  Script output goes to log at debug level.
func New(log *slog.Logger) *Module {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Module{log: log, globals: make(starlark.StringDict)}
}

func (m *Module) thread(name string) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(th *starlark.Thread, msg string) {
			m.log.Debug(msg, "thread", th.Name)
		},
	}
}

func (m *Module) predeclared() starlark.StringDict {
	res := make(starlark.StringDict, len(builtins)+len(m.globals))
	for k, v := range builtins {
		res[k] = v
	}
	for k, v := range m.globals {
		res[k] = v
	}
	return res
}

// Exec runs code, a script at loc.  Its globals become visible to later
// scripts and as external functions.  Names starting with an underscore
// stay private.
func (m *Module) Exec(loc ast.Location, code string) error {
	th := m.thread("script:" + loc.String())
	// Line numbers of the script are relative to the #script directive.
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, th, loc.String(), code, m.predeclared())
	if err != nil {
		return status.Wrap(status.Runtime, err, "%s: script failed", loc)
	}
	for name, v := range globals {
		if !strings.HasPrefix(name, "_") {
			v.Freeze()
			m.globals[name] = v
		}
	}
	return nil
}

// Callable reports whether a script defined a callable global name.
func (m *Module) Callable(name string) bool {
	_, ok := m.globals[name].(starlark.Callable)
	return ok
}

// Call calls the script function name.
func (m *Module) Call(loc ast.Location, name string, args []sym.Symbol) ([]sym.Symbol, error) {
	fn, ok := m.globals[name].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("%s: no script function %q", loc, name)
	}
	sargs := make(starlark.Tuple, len(args))
	for i, a := range args {
		sargs[i] = Symbol{a}
	}
	v, err := starlark.Call(m.thread("call:"+name), fn, sargs, nil)
	if err != nil {
		return nil, err
	}
	res, err := results(v)
	if err != nil {
		return nil, fmt.Errorf("result of %s: %w", name, err)
	}
	return res, nil
}

// Names returns the sorted names of the callable globals.
func (m *Module) Names() []string {
	var res []string
	for name, v := range m.globals {
		if _, ok := v.(starlark.Callable); ok {
			res = append(res, name)
		}
	}
	sort.Strings(res)
	return res
}
