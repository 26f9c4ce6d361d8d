// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package search

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-air/gini/z"
)

// cnf records the clauses of the completion, each terminated by
// z.LitNull.
type cnf struct {
	lits    []z.Lit
	clauses int
	max     z.Var
}

func (f *cnf) Add(m z.Lit) {
	f.lits = append(f.lits, m)
	if m == z.LitNull {
		f.clauses++
		return
	}
	if v := m.Var(); v > f.max {
		f.max = v
	}
}

// WriteCNF writes the completion of the program with the assumptions and
// external values of s as unit clauses in DIMACS format.  Loop formulas
// are not part of the output, so its models are the supported models of
// the program.  Comment lines map atoms to variables:
//
//	c atom 3 p(1)
func (s *Search) WriteCNF(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, a := range s.t.base {
		fmt.Fprintf(bw, "c atom %d %s\n", s.t.atoms[a].lit.Var(), a)
	}
	units := len(s.assume)
	if s.unsat {
		units++
	}
	fmt.Fprintf(bw, "p cnf %d %d\n", s.cnf.max, s.cnf.clauses+units)
	for _, m := range s.cnf.lits {
		if m == z.LitNull {
			fmt.Fprintln(bw, "0")
			continue
		}
		fmt.Fprintf(bw, "%d ", m.Dimacs())
	}
	for _, m := range s.assume {
		fmt.Fprintf(bw, "%d 0\n", m.Dimacs())
	}
	if s.unsat {
		fmt.Fprintln(bw, "0")
	}
	return bw.Flush()
}
