// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"fmt"
	"sort"
	"strings"
)

// Partition generates a program stating that there exists a partition of
// the elements num(X) into k parts.  Every model is a partition with in(X,P)
// true if and only if element X is in part P.
func Partition(k int) string {
	return fmt.Sprintf(`part(1..%d).
1 { in(X,P) : part(P) } 1 :- num(X).
#show in/2.
`, k)
}

// PyTriples generates a program stating there is a k-partition of the
// first n pythagorean triples (a,b,c) such that no triple lies in a
// single part.
func PyTriples(n, k int) string {
	var b strings.Builder
	_, ts := pytriples(n)
	for _, t := range ts {
		fmt.Fprintf(&b, "triple(%d,%d,%d).\n", t.a, t.b, t.c)
	}
	b.WriteString(`num(A) :- triple(A,_,_).
num(B) :- triple(_,B,_).
num(C) :- triple(_,_,C).
:- triple(A,B,C), in(A,P), in(B,P), in(C,P).
`)
	b.WriteString(Partition(k))
	return b.String()
}

type squares struct {
	d []int
}

func (s *squares) get(i int) int {
	t := s.d
	for len(t) <= i {
		t = append(t, len(t)*len(t))
	}
	s.d = t
	return t[i]
}

func (s *squares) root(v int) int {
	t := s.d
	for len(t)*len(t) < v {
		t = append(t, len(t)*len(t))
	}
	s.d = t
	if t[len(t)-1] == v {
		return len(t) - 1
	}
	i := sort.Search(len(t), func(i int) bool { return t[i] >= v })
	if i < len(t) && t[i] == v {
		return i
	}
	return -1
}

type triple struct {
	a, b, c int
}

// pytriples returns the first n triples ordered by b then a, and the
// index of each element occurring in them.
func pytriples(n int) (map[int]int, []triple) {
	ai, bi := 1, 2
	res := make([]triple, 0, n)
	sqrs := &squares{make([]int, 0, n)}
	in := make(map[int]int, n)
	for len(res) < n {
		a2, b2 := sqrs.get(ai), sqrs.get(bi)
		c2 := a2 + b2
		ci := sqrs.root(c2)
		if ci != -1 {
			in[ai] = 0
			in[bi] = 0
			in[ci] = 0
			res = append(res, triple{ai, bi, ci})
		}
		ai++
		if ai == bi {
			ai = 1
			bi++
		}
	}
	ins := make([]int, 0, len(in))
	for k := range in {
		ins = append(ins, k)
	}
	sort.Ints(ins)
	for i, s := range ins {
		in[s] = i
	}
	return in, res
}
