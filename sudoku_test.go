// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gasp_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-air/gasp"
)

func BenchmarkSudoku(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Example_sudoku()
	}
}

const sudokuRules = `
n(1..9). b(0..8).
box(R,C,((R-1)/3)*3 + (C-1)/3) :- n(R), n(C).

% every position on the board has a number
1 { x(R,C,N) : n(N) } 1 :- n(R), n(C).
% every row, column and box has unique numbers
1 { x(R,C,N) : n(C) } 1 :- n(R), n(N).
1 { x(R,C,N) : n(R) } 1 :- n(C), n(N).
1 { x(R,C,N) : box(R,C,B) } 1 :- b(B), n(N).

:- given(R,C,N), not x(R,C,N).
#show x/3.
`

var sudokuPuzzle = []string{
	"53..7....",
	"6..195...",
	".98....6.",
	"8...6...3",
	"4..8.3..1",
	"7...2...6",
	".6....28.",
	"...419..5",
	"....8..79",
}

func Example_sudoku() {
	c, err := gasp.New(nil, nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()
	var givens strings.Builder
	for row, line := range sudokuPuzzle {
		for col, ch := range line {
			if ch != '.' {
				fmt.Fprintf(&givens, "given(%d,%d,%c).\n", row+1, col+1, ch)
			}
		}
	}
	if err := c.Add("base", nil, sudokuRules+givens.String()); err != nil {
		fmt.Println(err)
		return
	}
	if err := c.Ground([]gasp.Part{{Name: "base"}}, nil); err != nil {
		fmt.Println(err)
		return
	}
	var grid [9][9]int
	res, err := c.Solve(nil, func(m *gasp.Model) (bool, error) {
		atoms, err := m.Atoms(gasp.ShowShown)
		if err != nil {
			return false, err
		}
		for _, a := range atoms {
			args, err := a.Args()
			if err != nil {
				return false, err
			}
			r, _ := args[0].Num()
			col, _ := args[1].Num()
			n, _ := args[2].Num()
			grid[r-1][col-1] = n
		}
		return true, nil
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	if !res.IsSatisfiable() {
		fmt.Printf("error, unsat sudoku.\n")
		return
	}
	for _, row := range grid {
		strs := make([]string, 9)
		for i, n := range row {
			strs[i] = fmt.Sprint(n)
		}
		fmt.Println(strings.Join(strs, " "))
	}
	fmt.Println(res)
	// Output: 5 3 4 6 7 8 9 1 2
	// 6 7 2 1 9 5 3 4 8
	// 1 9 8 3 4 2 5 6 7
	// 8 5 9 7 6 1 4 2 3
	// 4 2 6 8 5 3 7 9 1
	// 7 1 3 9 2 4 8 5 6
	// 9 6 1 5 3 7 2 8 4
	// 2 8 7 4 1 9 6 3 5
	// 3 4 5 2 8 6 1 7 9
	// SATISFIABLE exhausted
}
