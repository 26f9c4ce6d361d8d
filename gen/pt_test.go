// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPart(t *testing.T) {
	elts, trips := pytriples(1000)
	assert.Len(t, trips, 1000)
	for _, p := range trips {
		if p.a*p.a+p.b*p.b != p.c*p.c {
			t.Errorf("bad triple: %d %d %d\n", p.a, p.b, p.c)
		}
		for _, e := range []int{p.a, p.b, p.c} {
			if _, ok := elts[e]; !ok {
				t.Errorf("element %d of %v not indexed", e, p)
			}
		}
	}
	assert.Equal(t, triple{3, 4, 5}, trips[0])
}
