// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package ground

import (
	"strconv"
	"strings"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/sym"
)

// Lit is a ground body literal.
type Lit struct {
	Atom sym.Symbol
	Sign ast.Sign
}

func (l Lit) String() string {
	return l.Sign.String() + l.Atom.String()
}

// Kind is the kind of a ground rule.
type Kind int

const (
	Normal Kind = iota
	Choice
	Constraint
)

// Elem is a ground choice element.  Atom may be chosen when Cond holds.
type Elem struct {
	Atom sym.Symbol
	Cond []Lit
}

// Rule is a ground rule.
//
//	Normal      Head :- Body.
//	Choice      Lower { Elems } Upper :- Body.
//	Constraint  :- Body.
//
// Upper is negative when a choice has no upper bound.
type Rule struct {
	Kind  Kind
	Head  sym.Symbol
	Elems []Elem
	Lower int
	Upper int
	Body  []Lit
}

func (r *Rule) String() string {
	var sb strings.Builder
	switch r.Kind {
	case Normal:
		sb.WriteString(r.Head.String())
	case Choice:
		if r.Lower > 0 {
			sb.WriteString(strconv.Itoa(r.Lower))
			sb.WriteByte(' ')
		}
		sb.WriteByte('{')
		for i, e := range r.Elems {
			if i > 0 {
				sb.WriteByte(';')
			}
			sb.WriteByte(' ')
			sb.WriteString(e.Atom.String())
			if len(e.Cond) > 0 {
				sb.WriteString(": ")
				writeLits(&sb, e.Cond)
			}
		}
		sb.WriteString(" }")
		if r.Upper >= 0 {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(r.Upper))
		}
	}
	if len(r.Body) > 0 || r.Kind == Constraint {
		if r.Kind != Constraint {
			sb.WriteByte(' ')
		}
		sb.WriteString(":- ")
		writeLits(&sb, r.Body)
	}
	sb.WriteByte('.')
	return sb.String()
}

func writeLits(sb *strings.Builder, ls []Lit) {
	for i, l := range ls {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l.String())
	}
}

// ShowTerm is a ground "#show Term : Body." statement.
type ShowTerm struct {
	Term sym.Symbol
	Body []Lit
}

// Program is a ground program.
type Program struct {
	Rules     []Rule
	Externals []sym.Symbol

	// Selective is set when a "#show." or "#show p/n." statement was seen,
	// then only atoms with a signature in Shows are shown.
	Selective bool
	Shows     []sym.Signature
	Terms     []ShowTerm
}

// Shown reports whether atom a is shown.
func (p *Program) Shown(a sym.Symbol) bool {
	if !p.Selective {
		return true
	}
	g, ok := a.Signature()
	if !ok {
		return false
	}
	for _, s := range p.Shows {
		if s == g {
			return true
		}
	}
	return false
}

// String renders p in the program language, one statement per line.
func (p *Program) String() string {
	var sb strings.Builder
	for i := range p.Rules {
		sb.WriteString(p.Rules[i].String())
		sb.WriteByte('\n')
	}
	for _, e := range p.Externals {
		sb.WriteString("#external ")
		sb.WriteString(e.String())
		sb.WriteString(".\n")
	}
	if p.Selective && len(p.Shows) == 0 {
		sb.WriteString("#show.\n")
	}
	for _, g := range p.Shows {
		sb.WriteString("#show ")
		sb.WriteString(g.String())
		sb.WriteString(".\n")
	}
	for _, t := range p.Terms {
		sb.WriteString("#show ")
		sb.WriteString(t.Term.String())
		if len(t.Body) > 0 {
			sb.WriteString(" : ")
			writeLits(&sb, t.Body)
		}
		sb.WriteString(".\n")
	}
	return sb.String()
}
