// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package gasp

import (
	"sort"
	"strings"

	"github.com/go-air/gasp/search"
	"github.com/go-air/gasp/status"
	"github.com/go-air/gasp/sym"
)

// ShowType selects the symbols of a Model.
type ShowType int

const (
	// ShowShown selects the true atoms matching #show signatures, all
	// true atoms if there are none, and the shown terms.
	ShowShown ShowType = 1 << iota
	// ShowAtoms selects all true atoms.
	ShowAtoms
	// ShowTerms selects the terms of #show statements whose condition
	// holds.
	ShowTerms
	// ShowComplement selects the atoms which are false.
	ShowComplement

	ShowAll = ShowShown | ShowAtoms | ShowTerms | ShowComplement
)

// Model is a stable model.  It is valid until the handler it was passed
// to returns, its iterator advances or closes, or its Control closes.
type Model struct {
	ans     *search.Answer
	expired bool
}

func (m *Model) expire() {
	if m != nil {
		m.expired = true
	}
}

// Number gives the position of m among the models of its solve call,
// starting at 1.
func (m *Model) Number() int {
	return m.ans.Number
}

// Contains reports whether atom is true in m.  It is false for an
// expired model.
func (m *Model) Contains(atom sym.Symbol) bool {
	if m.expired {
		return false
	}
	ts := m.ans.True
	i := sort.Search(len(ts), func(i int) bool { return !sym.Less(ts[i], atom) })
	return i < len(ts) && ts[i] == atom
}

// Atoms returns the sorted symbols of the categories in show.
func (m *Model) Atoms(show ShowType) (res []sym.Symbol, err error) {
	defer status.Guard(&err)
	if m.expired {
		return nil, status.Errorf(status.Logic, "model is no longer valid")
	}
	if show&^ShowAll != 0 {
		return nil, status.Errorf(status.Logic, "invalid show type %d", int(show))
	}
	parts := []struct {
		t  ShowType
		ss []sym.Symbol
	}{
		{ShowShown, m.ans.Shown},
		{ShowAtoms, m.ans.True},
		{ShowTerms, m.ans.Terms},
		{ShowComplement, m.ans.False},
	}
	n := 0
	for _, p := range parts {
		if show&p.t != 0 {
			n++
			res = append(res, p.ss...)
		}
	}
	if n > 1 {
		sym.Sort(res)
		res = dedup(res)
	}
	return res, nil
}

func dedup(ss []sym.Symbol) []sym.Symbol {
	if len(ss) < 2 {
		return ss
	}
	j := 1
	for i := 1; i < len(ss); i++ {
		if ss[i] != ss[j-1] {
			ss[j] = ss[i]
			j++
		}
	}
	return ss[:j]
}

// String returns the shown symbols separated by spaces.
func (m *Model) String() string {
	if m.expired {
		return "<expired model>"
	}
	strs := make([]string, len(m.ans.Shown))
	for i, s := range m.ans.Shown {
		strs[i] = s.String()
	}
	return strings.Join(strs, " ")
}
