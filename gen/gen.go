// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
)

// make the rng seedable
var rng = rand.New(rand.NewSource(33))
var mu sync.Mutex

// Seed resets the random source of the package.
func Seed(s int64) {
	mu.Lock()
	defer mu.Unlock()
	rng = rand.New(rand.NewSource(s))
}

// Rand3Sat generates a random 3sat problem with n variables and m
// clauses, n must be at least 3.  The atoms v(1..n) are chosen freely
// and every clause is an integrity constraint excluding the assignments
// which falsify it.
func Rand3Sat(n, m int) string {
	mu.Lock() // for package rng
	defer mu.Unlock()
	var b strings.Builder
	fmt.Fprintf(&b, "var(1..%d).\n{ v(X) : var(X) }.\n", n)
	vs := make([]int, 3)
	for i := 0; i < m; i++ {
		for j := range vs {
			vs[j] = rng.Intn(n) + 1
			for j == 1 && vs[1] == vs[0] {
				vs[j] = rng.Intn(n) + 1
			}
			for j == 2 && (vs[2] == vs[0] || vs[2] == vs[1]) {
				vs[j] = rng.Intn(n) + 1
			}
		}
		b.WriteString(":-")
		for j, v := range vs {
			sep := " "
			if j > 0 {
				sep = ", "
			}
			// a positive clause literal is false when not v(X)
			if rng.Intn(2) == 0 {
				fmt.Fprintf(&b, "%snot v(%d)", sep, v)
			} else {
				fmt.Fprintf(&b, "%sv(%d)", sep, v)
			}
		}
		b.WriteString(".\n")
	}
	return b.String()
}

// HardRand3Sat generates a random 3sat problem
// with n variables near the phase transition.
func HardRand3Sat(n int) string {
	return Rand3Sat(n, 4*n)
}

// Php generates a pigeon hole problem asking
// whether or not p pigeons can be placed
// in h holes with 1 pigeon per hole.
//
// Models assign in(P,H) to each pigeon P.
func Php(p, h int) string {
	return fmt.Sprintf(`pigeon(1..%d). hole(1..%d).
1 { in(P,H) : hole(H) } 1 :- pigeon(P).
:- in(P,H), in(Q,H), P < Q.
#show in/2.
`, p, h)
}
