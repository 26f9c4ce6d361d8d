// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package search

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-air/gasp/ground"
	"github.com/go-air/gasp/parse"
	"github.com/go-air/gasp/sym"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func program(t *testing.T, text string) *ground.Program {
	t.Helper()
	ss, err := parse.Program("", text)
	require.NoError(t, err)
	g := ground.New(nil)
	require.NoError(t, g.Ground([]ground.Instance{{Stmts: ss}}, nil, nil))
	return g.Program()
}

func join(ss []sym.Symbol) string {
	strs := make([]string, len(ss))
	for i, s := range ss {
		strs[i] = s.String()
	}
	return strings.Join(strs, " ")
}

func models(t *testing.T, text string, opts Options) ([]string, Result) {
	t.Helper()
	s := New(program(t, text), opts)
	var res []string
	for a := s.Next(); a != nil; a = s.Next() {
		assert.Equal(t, len(res)+1, a.Number)
		res = append(res, join(a.True))
	}
	assert.Nil(t, s.Next())
	return res, s.Result()
}

func TestStableModels(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a :- not b. b :- not a.", []string{"a", "b"}},
		{"a :- b. b :- a.", []string{""}},
		{"a :- b. b :- a. a :- c. { c }.", []string{"", "a b c"}},
		{"a :- b. b :- a. b :- c. { c }.", []string{"", "a b c"}},
		{"p :- q. q :- r. r :- p. r :- c. { c }.", []string{"", "c p q r"}},
		{"a :- b. b :- a. a :- c. b :- c. { c }.", []string{"", "a b c"}},
		{"a :- b. b :- a. b :- not c. c :- not b.", []string{"a b", "c"}},
		{"{ a; b }.", []string{"", "a", "b", "a b"}},
		{"1 { a; b; c } 2.", []string{"a", "b", "c", "a b", "a c", "b c"}},
		{"-p. p :- not -p.", []string{"-p"}},
		{"{ p; -p }.", []string{"", "p", "-p"}},
		{"{ a }. b :- not not a.", []string{"", "a b"}},
		{"p(1..3). q(X) :- p(X), not r(X). r(2).", []string{"p(1) p(2) p(3) q(1) q(3) r(2)"}},
		{"", []string{""}},
		{"n(1..2). 1 { in(X) : n(X) } 1.", []string{"in(1) n(1) n(2)", "in(2) n(1) n(2)"}},
	}
	for _, tt := range tests {
		got, res := models(t, tt.in, Options{})
		assert.ElementsMatch(t, tt.want, got, tt.in)
		assert.True(t, res.Satisfiable, tt.in)
		assert.True(t, res.Exhausted, tt.in)
		assert.False(t, res.Interrupted, tt.in)
	}
}

func TestUnsatisfiable(t *testing.T) {
	for _, in := range []string{
		"a. :- a.",
		"p :- not p.",
		"2 { a; b } 1.",
		"1 { } .",
	} {
		got, res := models(t, in, Options{})
		assert.Empty(t, got, in)
		assert.Equal(t, Result{Exhausted: true}, res, in)
	}
}

func TestAssumptions(t *testing.T) {
	a, b, c := sym.ID("a", false), sym.ID("b", false), sym.ID("c", false)
	got, res := models(t, "{ a; b }.", Options{Assumptions: []Assumption{{Atom: a, Value: true}, {Atom: b}}})
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, Result{Satisfiable: true, Exhausted: true}, res)

	got, res = models(t, "{ a; b }.", Options{Assumptions: []Assumption{{Atom: c, Value: true}}})
	assert.Empty(t, got)
	assert.Equal(t, Result{Exhausted: true}, res)

	got, _ = models(t, "{ a }.", Options{Assumptions: []Assumption{{Atom: c}}})
	assert.ElementsMatch(t, []string{"", "a"}, got)
}

func TestExternals(t *testing.T) {
	e := sym.ID("e", false)
	const prog = "#external e. a :- e."
	got, _ := models(t, prog, Options{})
	assert.Equal(t, []string{""}, got)

	got, _ = models(t, prog, Options{Externals: map[sym.Symbol]Truth{e: True}})
	assert.Equal(t, []string{"a e"}, got)

	got, _ = models(t, prog, Options{Externals: map[sym.Symbol]Truth{e: False}})
	assert.Equal(t, []string{""}, got)

	got, _ = models(t, prog, Options{Externals: map[sym.Symbol]Truth{e: Free}})
	assert.ElementsMatch(t, []string{"", "a e"}, got)
}

func TestModelLimit(t *testing.T) {
	got, res := models(t, "{ a; b; c }.", Options{Models: 2})
	assert.Len(t, got, 2)
	assert.Equal(t, Result{Satisfiable: true}, res)
}

func TestDeadline(t *testing.T) {
	got, res := models(t, "{ a }.", Options{Deadline: time.Now().Add(-time.Second)})
	assert.Empty(t, got)
	assert.Equal(t, Result{Interrupted: true}, res)

	got, res = models(t, "{ a }.", Options{Deadline: time.Now().Add(time.Minute)})
	assert.Len(t, got, 2)
	assert.Equal(t, Result{Satisfiable: true, Exhausted: true}, res)
}

func TestAnswerCategories(t *testing.T) {
	p := program(t, "#show a/0. #show t(X) : q(X). a. b. q(1). q(2). #show a : b.")
	s := New(p, Options{})
	ans := s.Next()
	require.NotNil(t, ans)
	assert.Equal(t, "a b q(1) q(2)", join(ans.True))
	assert.Empty(t, ans.False)
	assert.Equal(t, "a t(1) t(2)", join(ans.Shown))
	assert.Equal(t, "a t(1) t(2)", join(ans.Terms))
	assert.Nil(t, s.Next())

	p = program(t, "{ a; b }. :- not a.")
	s = New(p, Options{Assumptions: []Assumption{{Atom: sym.ID("b", false)}}})
	ans = s.Next()
	require.NotNil(t, ans)
	assert.Equal(t, "a", join(ans.True))
	assert.Equal(t, "b", join(ans.False))
	assert.Equal(t, "a", join(ans.Shown))

	st := s.Stats()
	assert.Equal(t, 2, st.Atoms)
	assert.Equal(t, 2, st.Rules)
	assert.Equal(t, 1, st.Models)
}

func TestDeterministic(t *testing.T) {
	const prog = "n(1..4). { in(X) : n(X) }. :- in(X), in(X+1)."
	first, _ := models(t, prog, Options{})
	second, _ := models(t, prog, Options{})
	assert.Equal(t, first, second)
	assert.Len(t, first, 8)
}

func TestWriteCNF(t *testing.T) {
	p := program(t, "a :- not b. b :- not a.")
	s := New(p, Options{Assumptions: []Assumption{{Atom: sym.ID("a", false), Value: true}}})
	var buf strings.Builder
	require.NoError(t, s.WriteCNF(&buf))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "c atom "))
	assert.True(t, strings.HasSuffix(lines[0], " a"))
	assert.True(t, strings.HasSuffix(lines[1], " b"))

	var vars, clauses int
	_, err := fmt.Sscanf(lines[2], "p cnf %d %d", &vars, &clauses)
	require.NoError(t, err)
	assert.Equal(t, clauses, len(lines)-3)
	assert.GreaterOrEqual(t, vars, 2)
	var a int
	_, err = fmt.Sscanf(lines[0], "c atom %d a", &a)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("%d 0", a), lines[len(lines)-1])

	s = New(p, Options{Assumptions: []Assumption{{Atom: sym.ID("c", false), Value: true}}})
	buf.Reset()
	require.NoError(t, s.WriteCNF(&buf))
	assert.True(t, strings.HasSuffix(buf.String(), "\n0\n"))
}
