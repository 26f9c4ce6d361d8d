// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package sym

import (
	"math/rand"
	"testing"

	"github.com/go-air/gasp/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFun(t *testing.T, name string, args []Symbol, sign bool) Symbol {
	t.Helper()
	s, err := Fun(name, args, sign)
	require.NoError(t, err)
	return s
}

func sample(t *testing.T) []Symbol {
	a := ID("a", false)
	return []Symbol{
		Inf(),
		Number(-3),
		Number(0),
		Number(7),
		String(""),
		String("a"),
		String("b\"q"),
		a,
		ID("b", false),
		mustFun(t, "f", []Symbol{Number(1)}, false),
		mustFun(t, "f", []Symbol{Number(1), a}, false),
		mustFun(t, "f", []Symbol{Number(2)}, false),
		mustFun(t, "g", nil, false),
		Tuple(),
		Tuple(Number(1)),
		Tuple(Number(1), String("x")),
		ID("a", true),
		mustFun(t, "f", []Symbol{Number(1)}, true),
		Sup(),
	}
}

func TestOrderTotal(t *testing.T) {
	ss := sample(t)
	for _, a := range ss {
		for _, b := range ss {
			c := Compare(a, b)
			assert.Equal(t, -Compare(b, a), c, "antisymmetry %s %s", a, b)
			eq := !Less(a, b) && !Less(b, a)
			assert.Equal(t, a == b, eq, "eq vs order %s %s", a, b)
			if a == b {
				assert.Equal(t, a.Hash(), b.Hash())
			}
		}
	}
	for _, a := range ss {
		for _, b := range ss {
			for _, c := range ss {
				if Less(a, b) && Less(b, c) {
					assert.True(t, Less(a, c), "transitivity %s %s %s", a, b, c)
				}
			}
		}
	}
}

func TestOrderRank(t *testing.T) {
	f := ID("zzz", true)
	order := []Symbol{Inf(), Number(1 << 30), String("zzz"), f, Sup()}
	for i := 1; i < len(order); i++ {
		assert.True(t, Less(order[i-1], order[i]), "%s < %s", order[i-1], order[i])
	}
}

func TestSortedSample(t *testing.T) {
	want := sample(t)
	got := append([]Symbol(nil), want...)
	rand.Shuffle(len(got), func(i, j int) { got[i], got[j] = got[j], got[i] })
	Sort(got)
	for i := 1; i < len(got); i++ {
		assert.True(t, Less(got[i-1], got[i]), "%s < %s", got[i-1], got[i])
	}
	assert.ElementsMatch(t, want, got)
}

func TestInterning(t *testing.T) {
	a1 := mustFun(t, "p", []Symbol{String("x"), Number(3), Tuple(ID("c", false))}, false)
	a2 := mustFun(t, "p", []Symbol{String("x"), Number(3), Tuple(ID("c", false))}, false)
	assert.True(t, a1 == a2)
	assert.Equal(t, a1.Hash(), a2.Hash())

	m := map[Symbol]int{a1: 1}
	assert.Equal(t, 1, m[a2])

	b := mustFun(t, "p", []Symbol{String("x"), Number(4), Tuple(ID("c", false))}, false)
	assert.False(t, a1 == b)
	assert.Equal(t, Number(0), Symbol{})
}

func TestString(t *testing.T) {
	tests := []struct {
		s    Symbol
		want string
	}{
		{Number(-12), "-12"},
		{Inf(), "#inf"},
		{Sup(), "#sup"},
		{String("a\"b\\c\nd"), `"a\"b\\c\nd"`},
		{ID("a", false), "a"},
		{ID("a", true), "-a"},
		{mustFun(t, "f", []Symbol{Number(1), String("s")}, false), `f(1,"s")`},
		{mustFun(t, "f", []Symbol{Number(1)}, true), "-f(1)"},
		{mustFun(t, "f", nil, false), "f"},
		{Tuple(), "()"},
		{Tuple(Number(1)), "(1,)"},
		{Tuple(Number(1), Number(2)), "(1,2)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}

func TestAccessors(t *testing.T) {
	f := mustFun(t, "f", []Symbol{Number(1)}, true)
	n, err := Number(5).Num()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	s, err := String("x").Str()
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	name, err := f.Name()
	require.NoError(t, err)
	assert.Equal(t, "f", name)
	sign, err := f.Sign()
	require.NoError(t, err)
	assert.True(t, sign)
	args, err := f.Args()
	require.NoError(t, err)
	assert.Equal(t, []Symbol{Number(1)}, args)
	assert.Equal(t, KindFunction, f.Kind())

	checks := []error{}
	_, err = f.Num()
	checks = append(checks, err)
	_, err = f.Str()
	checks = append(checks, err)
	_, err = Number(1).Name()
	checks = append(checks, err)
	_, err = Inf().Sign()
	checks = append(checks, err)
	_, err = String("a").Args()
	checks = append(checks, err)
	for _, err := range checks {
		require.Error(t, err)
		assert.Equal(t, status.Logic, status.CodeOf(err))
	}
}

func TestSignedTuple(t *testing.T) {
	_, err := Fun("", []Symbol{Number(1)}, true)
	require.Error(t, err)
	assert.Equal(t, status.Logic, status.CodeOf(err))
}

func TestSignature(t *testing.T) {
	g, ok := mustFun(t, "p", []Symbol{Number(1), Number(2)}, true).Signature()
	require.True(t, ok)
	assert.Equal(t, Signature{Name: "p", Arity: 2, Sign: true}, g)
	assert.Equal(t, "-p/2", g.String())
	_, ok = Number(1).Signature()
	assert.False(t, ok)
}

func TestNegate(t *testing.T) {
	p := ID("p", false)
	np, err := p.Negate()
	require.NoError(t, err)
	assert.Equal(t, ID("p", true), np)
	_, err = Tuple().Negate()
	assert.Error(t, err)
	_, err = Number(1).Negate()
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "function", KindFunction.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}
