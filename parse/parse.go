// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package parse reads logic programs into package ast.
//
// The parser is recursive descent over a three token window:
//
//	statement → ":-" body "."
//	          | head [":-" body] "."
//	          | "#show" ["-"] name "/" number "." | "#show" "." | "#show" term [":" body] "."
//	          | "#const" name "=" term "."
//	          | "#program" name ["(" name {"," name} ")"] "."
//	          | "#external" atom [":" body] "."
//	          | "#include" string "."
//	          | "#script" "(" lang ")" code "#end" "."
//	head      → atom | [term] "{" [elem {";" elem}] "}" [term]
//	elem      → atom [":" literal {"," literal}]
//	body      → literal {("," | ";") literal}
//	literal   → ["not" ["not"]] (atom | term cmp term | "#true" | "#false")
//	term      → sum [".." sum]
//	sum       → product {("+" | "-") product}
//	product   → unary {("*" | "/" | "\") unary}
//	unary     → "-" unary | "|" term "|" | primary
//	primary   → number | string | "#inf" | "#sup" | variable | "_"
//	          | ["@"] name ["(" [term {"," term}] ")"] | "(" [term {"," term} [","]] ")"
package parse

import (
	"fmt"
	"strconv"

	"github.com/go-air/gasp/ast"
	"github.com/go-air/gasp/sym"
)

// Error is a syntax error.
type Error struct {
	Pos ast.Location
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

type parser struct {
	lex   *lexer
	tok   Token // current token
	peek  Token
	peek2 Token
}

// bailout carries a syntax error out of the descent.
type bailout struct{ err error }

func newParser(file, text string) *parser {
	p := &parser{lex: newLexer(file, text)}
	p.next()
	p.next()
	p.next()
	return p
}

func (p *parser) next() {
	p.tok = p.peek
	p.peek = p.peek2
	if p.tok.err != nil {
		panic(bailout{p.tok.err})
	}
	if p.peek.err != nil {
		p.peek2 = p.peek
		return
	}
	t, err := p.lex.next()
	if err != nil {
		t = Token{Type: tokEOF, err: err}
	}
	p.peek2 = t
}

func (p *parser) fail(pos ast.Location, format string, args ...any) {
	panic(bailout{&Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}})
}

func (p *parser) check(t TokenType) bool {
	return p.tok.Type == t
}

func (p *parser) match(t TokenType) bool {
	if p.check(t) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(t TokenType) Token {
	tok := p.tok
	if !p.check(t) {
		p.fail(tok.Pos, "unexpected %s, expected %s", tok.Type, t)
	}
	p.next()
	return tok
}

func recoverBailout(errp *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*errp = b.err
	}
}

// Statements parses text and passes each statement to f in order.  file
// names the source in locations.  Statements before a syntax error are
// passed to f.  An error from f stops parsing and is returned as is.
func Statements(file, text string, f func(ast.Statement) error) (err error) {
	defer recoverBailout(&err)
	p := newParser(file, text)
	for !p.check(tokEOF) {
		s := p.statement()
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Program parses text into a list of statements.
func Program(file, text string) ([]ast.Statement, error) {
	var res []ast.Statement
	err := Statements(file, text, func(s ast.Statement) error {
		res = append(res, s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Term parses a single term.
func Term(text string) (t ast.Term, err error) {
	defer recoverBailout(&err)
	p := newParser("<term>", text)
	t = p.term()
	if !p.check(tokEOF) {
		p.fail(p.tok.Pos, "unexpected %s after term", p.tok.Type)
	}
	return t, nil
}

// Symbol parses the text form of a symbol, as produced by
// sym.Symbol.String.
func Symbol(text string) (sym.Symbol, error) {
	t, err := Term(text)
	if err != nil {
		return sym.Symbol{}, err
	}
	return Constant(t)
}

// Constant converts a term without variables, arithmetic, intervals or
// external calls into a symbol.
func Constant(t ast.Term) (sym.Symbol, error) {
	switch t := t.(type) {
	case *ast.Symbol:
		return t.Value, nil
	case *ast.Function:
		if t.External {
			break
		}
		args := make([]sym.Symbol, len(t.Args))
		for i, a := range t.Args {
			s, err := Constant(a)
			if err != nil {
				return sym.Symbol{}, err
			}
			args[i] = s
		}
		return sym.Fun(t.Name, args, t.Sign)
	case *ast.UnaryOp:
		if t.Op != ast.Minus {
			break
		}
		s, err := Constant(t.Arg)
		if err != nil {
			return sym.Symbol{}, err
		}
		if n, err := s.Num(); err == nil {
			return sym.Number(-n), nil
		}
		return s.Negate()
	}
	return sym.Symbol{}, &Error{Pos: t.Loc(), Msg: "not a constant: " + t.String()}
}

func (p *parser) statement() ast.Statement {
	tok := p.tok
	switch tok.Type {
	case tokIf:
		p.next()
		body := p.body()
		p.expect(tokDot)
		return &ast.Rule{Location: tok.Pos, Body: body}
	case tokFalse:
		if p.peek.Type == tokIf || p.peek.Type == tokDot {
			p.next()
			var body []ast.BodyLiteral
			if p.match(tokIf) {
				body = p.body()
			}
			p.expect(tokDot)
			return &ast.Rule{Location: tok.Pos, Body: body}
		}
	case tokShow:
		p.next()
		return p.show(tok.Pos)
	case tokConst:
		p.next()
		name := p.expect(tokIdent).Literal
		p.expect(tokEq)
		val := p.term()
		p.expect(tokDot)
		return &ast.Const{Location: tok.Pos, Name: name, Value: val}
	case tokProgram:
		p.next()
		s := &ast.Program{Location: tok.Pos, Name: p.expect(tokIdent).Literal}
		if p.match(tokLParen) {
			if !p.check(tokRParen) {
				s.Params = append(s.Params, p.expect(tokIdent).Literal)
				for p.match(tokComma) {
					s.Params = append(s.Params, p.expect(tokIdent).Literal)
				}
			}
			p.expect(tokRParen)
		}
		p.expect(tokDot)
		return s
	case tokExternal:
		p.next()
		s := &ast.External{Location: tok.Pos, Atom: p.atom()}
		if p.match(tokColon) {
			s.Body = p.body()
		}
		p.expect(tokDot)
		return s
	case tokInclude:
		p.next()
		path := p.expect(tokString).Literal
		p.expect(tokDot)
		return &ast.Include{Location: tok.Pos, Path: path}
	case tokScript:
		p.next()
		return &ast.Script{Location: tok.Pos, Lang: tok.Literal, Code: tok.Code}
	}
	r := &ast.Rule{Location: tok.Pos, Head: p.head()}
	if p.match(tokIf) {
		r.Body = p.body()
	}
	p.expect(tokDot)
	return r
}

func (p *parser) show(pos ast.Location) ast.Statement {
	if p.match(tokDot) {
		return &ast.ShowSignature{Location: pos}
	}
	neg := p.check(tokMinus) && p.peek.Type == tokIdent && p.peek2.Type == tokSlash
	if neg || (p.check(tokIdent) && p.peek.Type == tokSlash) {
		if neg {
			p.next()
		}
		name := p.expect(tokIdent).Literal
		p.expect(tokSlash)
		ntok := p.expect(tokNumber)
		n, err := strconv.Atoi(ntok.Literal)
		if err != nil {
			p.fail(ntok.Pos, "invalid arity %s", ntok.Literal)
		}
		p.expect(tokDot)
		return &ast.ShowSignature{Location: pos, Signature: sym.Signature{Name: name, Arity: n, Sign: neg}}
	}
	s := &ast.ShowTerm{Location: pos, Term: p.term()}
	if p.match(tokColon) {
		s.Body = p.body()
	}
	p.expect(tokDot)
	return s
}

func (p *parser) head() ast.Head {
	pos := p.tok.Pos
	if p.check(tokLBrace) {
		return p.choice(pos, nil)
	}
	t := p.term()
	if p.check(tokLBrace) {
		return p.choice(pos, t)
	}
	p.checkAtom(t)
	return &ast.Literal{Location: pos, Atom: t}
}

func (p *parser) choice(pos ast.Location, lower ast.Term) ast.Head {
	p.expect(tokLBrace)
	h := &ast.Choice{Location: pos, Lower: lower}
	if !p.check(tokRBrace) {
		h.Elements = append(h.Elements, p.element())
		for p.match(tokSemi) {
			h.Elements = append(h.Elements, p.element())
		}
	}
	p.expect(tokRBrace)
	if p.startsTerm() {
		h.Upper = p.term()
	}
	return h
}

func (p *parser) element() ast.ChoiceElement {
	e := ast.ChoiceElement{Atom: p.atom()}
	if p.match(tokColon) {
		e.Condition = append(e.Condition, p.literal())
		for p.match(tokComma) {
			e.Condition = append(e.Condition, p.literal())
		}
	}
	return e
}

func (p *parser) body() []ast.BodyLiteral {
	res := []ast.BodyLiteral{p.literal()}
	for p.match(tokComma) || p.match(tokSemi) {
		res = append(res, p.literal())
	}
	return res
}

var comparisons = map[TokenType]ast.ComparisonOperator{
	tokEq: ast.Equal,
	tokNe: ast.NotEqual,
	tokLt: ast.Less,
	tokLe: ast.LessEqual,
	tokGt: ast.Greater,
	tokGe: ast.GreaterEqual,
}

var complement = map[ast.ComparisonOperator]ast.ComparisonOperator{
	ast.Equal:        ast.NotEqual,
	ast.NotEqual:     ast.Equal,
	ast.Less:         ast.GreaterEqual,
	ast.LessEqual:    ast.Greater,
	ast.Greater:      ast.LessEqual,
	ast.GreaterEqual: ast.Less,
}

func (p *parser) literal() ast.BodyLiteral {
	pos := p.tok.Pos
	sign := ast.NoSign
	if p.match(tokNot) {
		sign = ast.Negation
		if p.match(tokNot) {
			sign = ast.DoubleNegation
		}
	}
	if p.check(tokTrue) || p.check(tokFalse) {
		v := p.check(tokTrue)
		p.next()
		if sign == ast.Negation {
			v = !v
		}
		return &ast.Boolean{Location: pos, Value: v}
	}
	t := p.term()
	if op, ok := comparisons[p.tok.Type]; ok {
		p.next()
		if sign == ast.Negation {
			op = complement[op]
		}
		return &ast.Comparison{Location: pos, Op: op, Left: t, Right: p.term()}
	}
	p.checkAtom(t)
	return &ast.Literal{Location: pos, Sign: sign, Atom: t}
}

func (p *parser) atom() ast.Term {
	t := p.term()
	p.checkAtom(t)
	return t
}

func (p *parser) checkAtom(t ast.Term) {
	if f, ok := t.(*ast.Function); ok && f.Name != "" && !f.External {
		return
	}
	p.fail(t.Loc(), "expected an atom, got %s", t)
}

func (p *parser) startsTerm() bool {
	switch p.tok.Type {
	case tokNumber, tokString, tokInf, tokSup, tokVariable, tokAnon,
		tokIdent, tokAt, tokLParen, tokMinus, tokBar:
		return true
	}
	return false
}

func (p *parser) term() ast.Term {
	l := p.sum()
	if p.check(tokDots) {
		pos := p.tok.Pos
		p.next()
		return &ast.Interval{Location: pos, Left: l, Right: p.sum()}
	}
	return l
}

func (p *parser) sum() ast.Term {
	l := p.product()
	for p.check(tokPlus) || p.check(tokMinus) {
		op := ast.Plus
		if p.check(tokMinus) {
			op = ast.Sub
		}
		pos := p.tok.Pos
		p.next()
		l = &ast.BinaryOp{Location: pos, Op: op, Left: l, Right: p.product()}
	}
	return l
}

var products = map[TokenType]ast.BinaryOperator{
	tokStar:      ast.Mul,
	tokSlash:     ast.Div,
	tokBackslash: ast.Mod,
}

func (p *parser) product() ast.Term {
	l := p.unary()
	for {
		op, ok := products[p.tok.Type]
		if !ok {
			return l
		}
		pos := p.tok.Pos
		p.next()
		l = &ast.BinaryOp{Location: pos, Op: op, Left: l, Right: p.unary()}
	}
}

func (p *parser) unary() ast.Term {
	pos := p.tok.Pos
	switch {
	case p.match(tokMinus):
		return negate(pos, p.unary())
	case p.match(tokBar):
		arg := p.term()
		p.expect(tokBar)
		return &ast.UnaryOp{Location: pos, Op: ast.Abs, Arg: arg}
	}
	return p.primary()
}

// negate folds a minus into number constants and functions where
// possible.
func negate(pos ast.Location, t ast.Term) ast.Term {
	switch t := t.(type) {
	case *ast.Symbol:
		if n, err := t.Value.Num(); err == nil {
			return &ast.Symbol{Location: pos, Value: sym.Number(-n)}
		}
	case *ast.Function:
		if t.Name != "" && !t.External && !t.Sign {
			t.Sign = true
			t.Location = pos
			return t
		}
	}
	return &ast.UnaryOp{Location: pos, Op: ast.Minus, Arg: t}
}

func (p *parser) primary() ast.Term {
	tok := p.tok
	switch tok.Type {
	case tokNumber:
		p.next()
		n, err := strconv.Atoi(tok.Literal)
		if err != nil {
			p.fail(tok.Pos, "invalid number %s", tok.Literal)
		}
		return &ast.Symbol{Location: tok.Pos, Value: sym.Number(n)}
	case tokString:
		p.next()
		return &ast.Symbol{Location: tok.Pos, Value: sym.String(tok.Literal)}
	case tokInf:
		p.next()
		return &ast.Symbol{Location: tok.Pos, Value: sym.Inf()}
	case tokSup:
		p.next()
		return &ast.Symbol{Location: tok.Pos, Value: sym.Sup()}
	case tokVariable, tokAnon:
		p.next()
		name := tok.Literal
		if tok.Type == tokAnon {
			name = "_"
		}
		return &ast.Variable{Location: tok.Pos, Name: name}
	case tokAt:
		p.next()
		name := p.expect(tokIdent).Literal
		return &ast.Function{Location: tok.Pos, Name: name, Args: p.args(), External: true}
	case tokIdent:
		p.next()
		return &ast.Function{Location: tok.Pos, Name: tok.Literal, Args: p.args()}
	case tokLParen:
		p.next()
		if p.match(tokRParen) {
			return &ast.Function{Location: tok.Pos}
		}
		first := p.term()
		if p.match(tokRParen) {
			return first
		}
		f := &ast.Function{Location: tok.Pos, Args: []ast.Term{first}}
		for p.match(tokComma) {
			if p.check(tokRParen) {
				break
			}
			f.Args = append(f.Args, p.term())
		}
		p.expect(tokRParen)
		return f
	}
	p.fail(tok.Pos, "unexpected %s", tok.Type)
	return nil
}

// args parses an optional argument list.
func (p *parser) args() []ast.Term {
	if !p.match(tokLParen) {
		return nil
	}
	var res []ast.Term
	if p.match(tokRParen) {
		return res
	}
	res = append(res, p.term())
	for p.match(tokComma) {
		res = append(res, p.term())
	}
	p.expect(tokRParen)
	return res
}
