// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package inter

import (
	"errors"
	"testing"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/sym"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncs(t *testing.T) {
	fs := Funcs{
		"double": func(args []sym.Symbol) ([]sym.Symbol, error) {
			n, err := args[0].Num()
			if err != nil {
				return nil, err
			}
			return []sym.Symbol{sym.Number(2 * n)}, nil
		},
	}
	assert.True(t, fs.Callable("double"))
	assert.False(t, fs.Callable("triple"))
	res, err := fs.Call(ast.Location{}, "double", []sym.Symbol{sym.Number(4)})
	require.NoError(t, err)
	assert.Equal(t, []sym.Symbol{sym.Number(8)}, res)

	_, err = fs.Call(ast.Location{}, "double", []sym.Symbol{sym.String("x")})
	assert.Error(t, err)
	_, err = fs.Call(ast.Location{File: "a.lp", Line: 2, Column: 3}, "triple", nil)
	assert.EqualError(t, err, `a.lp:2:3: no function "triple"`)
	assert.Equal(t, []string{"double"}, fs.Names())
}

func TestChain(t *testing.T) {
	errA := errors.New("a")
	a := Funcs{"f": func([]sym.Symbol) ([]sym.Symbol, error) { return nil, errA }}
	b := Funcs{
		"f": func([]sym.Symbol) ([]sym.Symbol, error) { return []sym.Symbol{sym.Number(1)}, nil },
		"g": func([]sym.Symbol) ([]sym.Symbol, error) { return []sym.Symbol{sym.Number(2)}, nil },
	}
	c := Chain(nil, a, b)
	assert.True(t, c.Callable("f"))
	assert.True(t, c.Callable("g"))
	assert.False(t, c.Callable("h"))

	_, err := c.Call(ast.Location{}, "f", nil)
	assert.ErrorIs(t, err, errA)
	res, err := c.Call(ast.Location{}, "g", nil)
	require.NoError(t, err)
	assert.Equal(t, []sym.Symbol{sym.Number(2)}, res)
	_, err = c.Call(ast.Location{}, "h", nil)
	assert.Error(t, err)

	assert.False(t, Chain().Callable("f"))
}

type counting struct {
	Funcs
	asked map[string]int
}

func (c *counting) Callable(name string) bool {
	c.asked[name]++
	return c.Funcs.Callable(name)
}

func TestChainAsksOnce(t *testing.T) {
	one := func([]sym.Symbol) ([]sym.Symbol, error) { return []sym.Symbol{sym.Number(1)}, nil }
	a := &counting{Funcs: Funcs{"f": one}, asked: make(map[string]int)}
	b := &counting{Funcs: Funcs{"g": one}, asked: make(map[string]int)}
	c := Chain(a, b)
	for i := 0; i < 3; i++ {
		assert.True(t, c.Callable("f"))
		assert.True(t, c.Callable("g"))
		assert.False(t, c.Callable("h"))
		_, err := c.Call(ast.Location{}, "f", nil)
		require.NoError(t, err)
		_, err = c.Call(ast.Location{}, "g", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{"f": 1, "g": 1, "h": 1}, a.asked)
	assert.Equal(t, map[string]int{"g": 1, "h": 1}, b.asked)
}
