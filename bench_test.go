// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gasp_test

import (
	"testing"
	"time"

	"github.com/go-air/gasp"
	"github.com/go-air/gasp/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeLimit(t *testing.T) {
	// hard problem
	c, _ := grounded(t, gen.Php(12, 11), "--time-limit", "1")
	start := time.Now()
	res, err := c.Solve(nil, nil)
	require.NoError(t, err)
	dur := time.Since(start)
	assert.True(t, res.IsInterrupted())
	assert.False(t, res.IsExhausted())
	assert.False(t, res.IsSatisfiable())
	if dur > 5*time.Second {
		t.Errorf("time limit of 1s ignored, solved for %s", dur)
	}
}

func firstModel(b *testing.B, text string) {
	b.Helper()
	c, err := gasp.New([]string{"-n", "1"}, nil)
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()
	if err := c.Add("base", nil, text); err != nil {
		b.Fatal(err)
	}
	if err := c.Ground([]gasp.Part{{Name: "base"}}, nil); err != nil {
		b.Fatal(err)
	}
	if _, err := c.Solve(nil, nil); err != nil {
		b.Fatal(err)
	}
}

func BenchmarkPhp(b *testing.B) {
	text := gen.Php(7, 7)
	for i := 0; i < b.N; i++ {
		firstModel(b, text)
	}
}

func BenchmarkColor(b *testing.B) {
	gen.Seed(44)
	text := gen.RandColor(50, 100, 4)
	for i := 0; i < b.N; i++ {
		firstModel(b, text)
	}
}

func BenchmarkRand3Sat(b *testing.B) {
	gen.Seed(33)
	text := gen.HardRand3Sat(40)
	for i := 0; i < b.N; i++ {
		firstModel(b, text)
	}
}

func BenchmarkPyTriples(b *testing.B) {
	text := gen.PyTriples(100, 2)
	for i := 0; i < b.N; i++ {
		firstModel(b, text)
	}
}
