// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gasp

import (
	"strings"

	"github.com/go-air/gasp/search"
	"github.com/go-air/gasp/status"
)

// SolveResult summarizes a solve call.
type SolveResult int

const (
	// Satisfiable is set once a model was found.
	Satisfiable SolveResult = 1 << iota
	// Exhausted is set once the search space was fully explored.
	Exhausted
	// Interrupted is set if the search was stopped by a resource limit.
	Interrupted
)

func (r SolveResult) IsSatisfiable() bool { return r&Satisfiable != 0 }
func (r SolveResult) IsExhausted() bool   { return r&Exhausted != 0 }
func (r SolveResult) IsInterrupted() bool { return r&Interrupted != 0 }

func (r SolveResult) String() string {
	var parts []string
	switch {
	case r.IsSatisfiable():
		parts = append(parts, "SATISFIABLE")
	case r.IsExhausted():
		parts = append(parts, "UNSATISFIABLE")
	default:
		parts = append(parts, "UNKNOWN")
	}
	if r.IsExhausted() {
		parts = append(parts, "exhausted")
	}
	if r.IsInterrupted() {
		parts = append(parts, "interrupted")
	}
	return strings.Join(parts, " ")
}

func resultOf(r search.Result) SolveResult {
	var res SolveResult
	if r.Satisfiable {
		res |= Satisfiable
	}
	if r.Exhausted {
		res |= Exhausted
	}
	if r.Interrupted {
		res |= Interrupted
	}
	return res
}

// SolveIter yields the models of one search.
//
// Close may be called any number of times; Next fails after Close and
// Summary then returns the final summary.
type SolveIter struct {
	c      *Control
	s      *search.Search
	prev   State
	model  *Model
	closed bool
	final  SolveResult
}

// Next searches for the next model.  It returns a nil Model when there are
// no more models.  The previous model of it becomes invalid.
func (it *SolveIter) Next() (m *Model, err error) {
	defer status.Guard(&err)
	if it.closed {
		return nil, status.Errorf(status.Logic, "solve iterator is closed")
	}
	it.model.expire()
	it.model = nil
	ans := it.s.Next()
	if ans == nil {
		return nil, nil
	}
	it.model = &Model{ans: ans}
	return it.model, nil
}

func (it *SolveIter) result() SolveResult {
	if it.closed {
		return it.final
	}
	return resultOf(it.s.Result())
}

// Summary returns the summary of the search so far.
func (it *SolveIter) Summary() (res SolveResult, err error) {
	defer status.Guard(&err)
	return it.result(), nil
}

// Close stops the search.  The current model becomes invalid.
func (it *SolveIter) Close() (err error) {
	defer status.Guard(&err)
	if it.closed {
		return nil
	}
	it.final = it.result()
	it.closed = true
	it.model.expire()
	it.model = nil

	c := it.c
	st := it.s.Stats()
	c.stats.Models += st.Models
	c.stats.Loops += st.Loops
	c.stats.Vars = st.Vars
	c.iter = nil
	c.state = it.prev
	if c.state == Fresh {
		c.state = Assembling
	}
	c.log.Debug("solved", "result", it.final.String(), "models", st.Models, "loops", st.Loops, "elapsed", st.Elapsed)
	it.s = nil
	return nil
}
