// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package ast holds the syntax of logic programs: terms, body literals,
// and statements as produced by package parse and consumed by package
// ground.
package ast

import (
	"fmt"
	"strings"

	"github.com/go-air/gasp/sym"
)

// Location is a position in program text.  Lines and columns start at 1.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	f := l.File
	if f == "" {
		f = "<block>"
	}
	return fmt.Sprintf("%s:%d:%d", f, l.Line, l.Column)
}

// Term is a non-ground term.
type Term interface {
	Loc() Location
	String() string
	term()
}

// Symbol is a constant term.
type Symbol struct {
	Location
	Value sym.Symbol
}

// Variable is a variable.  The name "_" is anonymous.
type Variable struct {
	Location
	Name string
}

// Function is a function term, or an external call if External is set.
type Function struct {
	Location
	Name     string
	Args     []Term
	Sign     bool
	External bool
}

// UnaryOperator is a unary arithmetic operator.
type UnaryOperator int

const (
	Minus UnaryOperator = iota
	Abs
)

// UnaryOp applies a unary operator.
type UnaryOp struct {
	Location
	Op  UnaryOperator
	Arg Term
}

// BinaryOperator is a binary arithmetic operator.
type BinaryOperator int

const (
	Plus BinaryOperator = iota
	Sub
	Mul
	Div
	Mod
)

var binaryOps = [...]string{Plus: "+", Sub: "-", Mul: "*", Div: "/", Mod: "\\"}

func (op BinaryOperator) String() string {
	return binaryOps[op]
}

// BinaryOp applies a binary arithmetic operator.
type BinaryOp struct {
	Location
	Op          BinaryOperator
	Left, Right Term
}

// Interval is the set of numbers from Left to Right.
type Interval struct {
	Location
	Left, Right Term
}

func (t *Symbol) Loc() Location   { return t.Location }
func (t *Variable) Loc() Location { return t.Location }
func (t *Function) Loc() Location { return t.Location }
func (t *UnaryOp) Loc() Location  { return t.Location }
func (t *BinaryOp) Loc() Location { return t.Location }
func (t *Interval) Loc() Location { return t.Location }

func (*Symbol) term()   {}
func (*Variable) term() {}
func (*Function) term() {}
func (*UnaryOp) term()  {}
func (*BinaryOp) term() {}
func (*Interval) term() {}

func (t *Symbol) String() string   { return t.Value.String() }
func (t *Variable) String() string { return t.Name }

func (t *Function) String() string {
	var sb strings.Builder
	if t.External {
		sb.WriteByte('@')
	}
	if t.Sign {
		sb.WriteByte('-')
	}
	sb.WriteString(t.Name)
	if len(t.Args) == 0 && t.Name != "" {
		return sb.String()
	}
	sb.WriteByte('(')
	writeTerms(&sb, t.Args)
	if len(t.Args) == 1 && t.Name == "" {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return sb.String()
}

func (t *UnaryOp) String() string {
	if t.Op == Abs {
		return "|" + t.Arg.String() + "|"
	}
	return "-" + t.Arg.String()
}

func (t *BinaryOp) String() string {
	return "(" + t.Left.String() + t.Op.String() + t.Right.String() + ")"
}

func (t *Interval) String() string {
	return "(" + t.Left.String() + ".." + t.Right.String() + ")"
}

func writeTerms(sb *strings.Builder, ts []Term) {
	for i, a := range ts {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.String())
	}
}

// Sign is the default negation prefix of a literal.
type Sign int

const (
	NoSign Sign = iota
	Negation
	DoubleNegation
)

func (s Sign) String() string {
	switch s {
	case Negation:
		return "not "
	case DoubleNegation:
		return "not not "
	}
	return ""
}

// BodyLiteral is an element of a rule body or condition.
type BodyLiteral interface {
	Loc() Location
	String() string
	bodyLiteral()
}

// Literal is a possibly negated atom.  Atom is a *Function or a
// *Symbol holding an identifier-like value.
type Literal struct {
	Location
	Sign Sign
	Atom Term
}

// ComparisonOperator is a relation between terms.
type ComparisonOperator int

const (
	Equal ComparisonOperator = iota
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
)

var comparisonOps = [...]string{
	Equal: "=", NotEqual: "!=", Less: "<", LessEqual: "<=", Greater: ">", GreaterEqual: ">="}

func (op ComparisonOperator) String() string {
	return comparisonOps[op]
}

// Comparison compares two terms.
type Comparison struct {
	Location
	Op          ComparisonOperator
	Left, Right Term
}

// Boolean is #true or #false.
type Boolean struct {
	Location
	Value bool
}

func (l *Literal) Loc() Location    { return l.Location }
func (l *Comparison) Loc() Location { return l.Location }
func (l *Boolean) Loc() Location    { return l.Location }

func (*Literal) bodyLiteral()    {}
func (*Comparison) bodyLiteral() {}
func (*Boolean) bodyLiteral()    {}

func (l *Literal) String() string { return l.Sign.String() + l.Atom.String() }

func (l *Comparison) String() string {
	return l.Left.String() + l.Op.String() + l.Right.String()
}

func (l *Boolean) String() string {
	if l.Value {
		return "#true"
	}
	return "#false"
}

// Statement is a top level syntax unit.
type Statement interface {
	Loc() Location
	String() string
	statement()
}

// Head is the head of a rule: a *Literal without sign, a *Choice, or
// nil for integrity constraints.
type Head interface {
	Loc() Location
	String() string
	head()
}

func (*Literal) head() {}
func (*Choice) head()  {}

// ChoiceElement is an element of a choice head.
type ChoiceElement struct {
	Atom      Term
	Condition []BodyLiteral
}

// Choice is a choice head with optional bounds.
type Choice struct {
	Location
	Lower, Upper Term
	Elements     []ChoiceElement
}

func (h *Choice) Loc() Location { return h.Location }

func (h *Choice) String() string {
	var sb strings.Builder
	if h.Lower != nil {
		sb.WriteString(h.Lower.String())
		sb.WriteByte(' ')
	}
	sb.WriteByte('{')
	for i, e := range h.Elements {
		if i > 0 {
			sb.WriteString("; ")
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.Atom.String())
		if len(e.Condition) > 0 {
			sb.WriteString(": ")
			writeBody(&sb, e.Condition)
		}
	}
	if len(h.Elements) > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteByte('}')
	if h.Upper != nil {
		sb.WriteByte(' ')
		sb.WriteString(h.Upper.String())
	}
	return sb.String()
}

func writeBody(sb *strings.Builder, body []BodyLiteral) {
	for i, l := range body {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(l.String())
	}
}

// Rule is a rule, fact, or integrity constraint.
type Rule struct {
	Location
	Head Head
	Body []BodyLiteral
}

// Program starts the fragment Name with formal parameters Params.
type Program struct {
	Location
	Name   string
	Params []string
}

// External declares external atoms.
type External struct {
	Location
	Atom Term
	Body []BodyLiteral
}

// ShowSignature selects atoms with the given signature for display.
// The empty name with arity 0 is "#show.", which hides all atoms.
type ShowSignature struct {
	Location
	Signature sym.Signature
}

// ShowTerm displays Term whenever Body holds.
type ShowTerm struct {
	Location
	Term Term
	Body []BodyLiteral
}

// Const defines a constant.
type Const struct {
	Location
	Name  string
	Value Term
}

// Include includes another file.
type Include struct {
	Location
	Path string
}

// Script embeds code in another language.
type Script struct {
	Location
	Lang string
	Code string
}

func (s *Rule) Loc() Location          { return s.Location }
func (s *Program) Loc() Location       { return s.Location }
func (s *External) Loc() Location      { return s.Location }
func (s *ShowSignature) Loc() Location { return s.Location }
func (s *ShowTerm) Loc() Location      { return s.Location }
func (s *Const) Loc() Location         { return s.Location }
func (s *Include) Loc() Location       { return s.Location }
func (s *Script) Loc() Location        { return s.Location }

func (*Rule) statement()          {}
func (*Program) statement()       {}
func (*External) statement()      {}
func (*ShowSignature) statement() {}
func (*ShowTerm) statement()      {}
func (*Const) statement()         {}
func (*Include) statement()       {}
func (*Script) statement()        {}

func (s *Rule) String() string {
	var sb strings.Builder
	if s.Head != nil {
		sb.WriteString(s.Head.String())
		if len(s.Body) > 0 {
			sb.WriteByte(' ')
		}
	}
	if len(s.Body) > 0 || s.Head == nil {
		sb.WriteString(":- ")
		writeBody(&sb, s.Body)
	}
	sb.WriteByte('.')
	return sb.String()
}

func (s *Program) String() string {
	if len(s.Params) == 0 {
		return "#program " + s.Name + "."
	}
	return "#program " + s.Name + "(" + strings.Join(s.Params, ",") + ")."
}

func (s *External) String() string {
	var sb strings.Builder
	sb.WriteString("#external ")
	sb.WriteString(s.Atom.String())
	if len(s.Body) > 0 {
		sb.WriteString(" : ")
		writeBody(&sb, s.Body)
	}
	sb.WriteByte('.')
	return sb.String()
}

func (s *ShowSignature) String() string {
	if s.Signature.Name == "" && s.Signature.Arity == 0 {
		return "#show."
	}
	return "#show " + s.Signature.String() + "."
}

func (s *ShowTerm) String() string {
	var sb strings.Builder
	sb.WriteString("#show ")
	sb.WriteString(s.Term.String())
	if len(s.Body) > 0 {
		sb.WriteString(" : ")
		writeBody(&sb, s.Body)
	}
	sb.WriteByte('.')
	return sb.String()
}

func (s *Const) String() string {
	return "#const " + s.Name + " = " + s.Value.String() + "."
}

func (s *Include) String() string {
	return "#include \"" + sym.Quote(s.Path) + "\"."
}

func (s *Script) String() string {
	return "#script (" + s.Lang + ")" + s.Code + "#end."
}
