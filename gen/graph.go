// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"fmt"
	"strings"
)

type edge struct {
	a, b int
}

// RandGraph creates a simple (undirected) random graph with n nodes and m
// edges.  If m > n*(n-1)/2, RandGraph returns nil.
//
// The result is in the form of an edge list, namely each node is idenitified
// by an integer in [0..n) and the edgelist for node i is result[i], which is a
// list of edges.  There are no multi-edges, no self edges, and sampling is
// done without replacement.  The number m is is the number of edges (a, b)
// such that  a < b, the symmetric view of the graph is returned with 2*m edges
// symmetrified.
func RandGraph(n, m int) [][]int {
	if m > n*(n-1)/2 {
		return nil
	}
	mu.Lock()
	defer mu.Unlock()
	ns := make([][]int, n)

	es := make([]edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			es = append(es, edge{i, j})
		}
	}

	for i := 0; i < m; i++ {
		el := len(es)
		j := rng.Intn(el)
		e := es[j]
		ns[e.a] = append(ns[e.a], e.b)
		el--
		es[j], es[el] = es[el], es[j]
		es = es[:el]
	}
	// make it symmetric
	for i, es := range ns {
		for _, j := range es {
			ns[j] = append(ns[j], i)
		}
	}
	return ns
}

// Color creates a program asking if the graph g, in the form returned by
// RandGraph, can be colored with k colors.  Every node must have a color
// and no 2 adjacent nodes may have the same color.
//
// Models assign color(N,C) to each node N.
func Color(g [][]int, k int) string {
	var b strings.Builder
	for a, es := range g {
		fmt.Fprintf(&b, "node(%d).\n", a)
		for _, e := range es {
			if e < a {
				fmt.Fprintf(&b, "edge(%d,%d).\n", a, e)
			}
		}
	}
	fmt.Fprintf(&b, `col(1..%d).
1 { color(N,C) : col(C) } 1 :- node(N).
:- edge(A,B), color(A,C), color(B,C).
#show color/2.
`, k)
	return b.String()
}

// RandColor creates a program asking if a random (simple) graph with n
// nodes and m edges can be colored with k colors.
func RandColor(n, m, k int) string {
	return Color(RandGraph(n, m), k)
}
