// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package gasp grounds and solves answer set programs.
//
// A Control collects program fragments, instantiates them and enumerates
// their stable models:
//
//	c, err := gasp.New(nil, logger)
//	...
//	err = c.Add("base", nil, "{ a; b }. :- a, b.")
//	err = c.Ground([]gasp.Part{{Name: "base"}}, nil)
//	res, err := c.Solve(nil, func(m *gasp.Model) (bool, error) {
//		fmt.Println(m)
//		return true, nil
//	})
//
// Grounding is done by package ground on the syntax of package parse.
// Models are found by package search on top of the gini SAT solver.
// Symbols are values of package sym, and errors crossing the API carry a
// code of package status.
//
// Host functions are called from programs as @name(args) and served by
// an inter.Context passed to Ground, and by the functions of
// #script (starlark) blocks.
package gasp
