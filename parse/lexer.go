// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package parse

import (
	"strconv"
	"strings"

	"github.com/go-air/gasp/ast"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	tokEOF TokenType = iota
	tokIdent
	tokVariable
	tokAnon
	tokNumber
	tokString
	tokScript // Literal holds the language, Code the body

	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokComma
	tokSemi
	tokDot
	tokDots
	tokColon
	tokIf
	tokBar
	tokAt
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokBackslash
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe

	tokNot
	tokShow
	tokConst
	tokProgram
	tokExternal
	tokInclude
	tokInf
	tokSup
	tokTrue
	tokFalse
)

var tokNames = map[TokenType]string{
	tokEOF:       "end of input",
	tokIdent:     "identifier",
	tokVariable:  "variable",
	tokAnon:      "_",
	tokNumber:    "number",
	tokString:    "string",
	tokScript:    "#script",
	tokLParen:    "(",
	tokRParen:    ")",
	tokLBrace:    "{",
	tokRBrace:    "}",
	tokComma:     ",",
	tokSemi:      ";",
	tokDot:       ".",
	tokDots:      "..",
	tokColon:     ":",
	tokIf:        ":-",
	tokBar:       "|",
	tokAt:        "@",
	tokPlus:      "+",
	tokMinus:     "-",
	tokStar:      "*",
	tokSlash:     "/",
	tokBackslash: "\\",
	tokEq:        "=",
	tokNe:        "!=",
	tokLt:        "<",
	tokLe:        "<=",
	tokGt:        ">",
	tokGe:        ">=",
	tokNot:       "not",
	tokShow:      "#show",
	tokConst:     "#const",
	tokProgram:   "#program",
	tokExternal:  "#external",
	tokInclude:   "#include",
	tokInf:       "#inf",
	tokSup:       "#sup",
	tokTrue:      "#true",
	tokFalse:     "#false",
}

func (t TokenType) String() string {
	if s, ok := tokNames[t]; ok {
		return s
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

var directives = map[string]TokenType{
	"show":     tokShow,
	"const":    tokConst,
	"program":  tokProgram,
	"external": tokExternal,
	"include":  tokInclude,
	"inf":      tokInf,
	"sup":      tokSup,
	"true":     tokTrue,
	"false":    tokFalse,
}

// Token is a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Code    string
	Pos     ast.Location
	err     error // lexical error, raised when the token is reached
}

// lexer tokenizes program text.
type lexer struct {
	file    string
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char, 0 at end of input
	line    int
	col     int
}

func newLexer(file, input string) *lexer {
	l := &lexer{file: file, input: input, line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.col++
}

func (l *lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

func (l *lexer) loc() ast.Location {
	return ast.Location{File: l.file, Line: l.line, Column: l.col}
}

func (l *lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) skipSpaceAndComments() error {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '%' && l.peekChar() == '*':
			start := l.loc()
			l.readChar()
			l.readChar()
			for {
				if l.atEOF() {
					return &Error{Pos: start, Msg: "unterminated block comment"}
				}
				if l.ch == '*' && l.peekChar() == '%' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
		case l.ch == '%':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return nil
		}
	}
	return nil
}

// next returns the next token.
func (l *lexer) next() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	pos := l.loc()
	tok := Token{Pos: pos}
	if l.atEOF() {
		tok.Type = tokEOF
		return tok, nil
	}
	two := func(t TokenType) (Token, error) {
		l.readChar()
		l.readChar()
		tok.Type = t
		return tok, nil
	}
	one := func(t TokenType) (Token, error) {
		l.readChar()
		tok.Type = t
		return tok, nil
	}
	c, d := l.ch, l.peekChar()
	switch {
	case c == '(':
		return one(tokLParen)
	case c == ')':
		return one(tokRParen)
	case c == '{':
		return one(tokLBrace)
	case c == '}':
		return one(tokRBrace)
	case c == ',':
		return one(tokComma)
	case c == ';':
		return one(tokSemi)
	case c == '.' && d == '.':
		return two(tokDots)
	case c == '.':
		return one(tokDot)
	case c == ':' && d == '-':
		return two(tokIf)
	case c == ':':
		return one(tokColon)
	case c == '|':
		return one(tokBar)
	case c == '@':
		return one(tokAt)
	case c == '+':
		return one(tokPlus)
	case c == '-':
		return one(tokMinus)
	case c == '*':
		return one(tokStar)
	case c == '/':
		return one(tokSlash)
	case c == '\\':
		return one(tokBackslash)
	case c == '=' && d == '=':
		return two(tokEq)
	case c == '=':
		return one(tokEq)
	case c == '!' && d == '=':
		return two(tokNe)
	case c == '<' && d == '>':
		return two(tokNe)
	case c == '<' && d == '=':
		return two(tokLe)
	case c == '<':
		return one(tokLt)
	case c == '>' && d == '=':
		return two(tokGe)
	case c == '>':
		return one(tokGt)
	case c == '"':
		return l.readString(pos)
	case c == '#':
		return l.readDirective(pos)
	case isDigit(c):
		start := l.pos
		for isDigit(l.ch) {
			l.readChar()
		}
		tok.Type = tokNumber
		tok.Literal = l.input[start:l.pos]
		return tok, nil
	case isLetter(c) || c == '_':
		w := l.readWord()
		tok.Literal = w
		tok.Type = wordType(w)
		return tok, nil
	}
	return tok, &Error{Pos: pos, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
}

func (l *lexer) readWord() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' || l.ch == '\'' {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// wordType classifies a word by its first character which is not an
// underscore.
func wordType(w string) TokenType {
	if w == "_" {
		return tokAnon
	}
	if w == "not" {
		return tokNot
	}
	t := strings.TrimLeft(w, "_")
	if t == "" || isUpper(t[0]) {
		return tokVariable
	}
	return tokIdent
}

func (l *lexer) readString(pos ast.Location) (Token, error) {
	l.readChar()
	var sb strings.Builder
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			return Token{}, &Error{Pos: pos, Msg: "unterminated string"}
		case l.ch == '"':
			l.readChar()
			return Token{Type: tokString, Literal: sb.String(), Pos: pos}, nil
		case l.ch == '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case '\\', '"':
				sb.WriteByte(l.ch)
			default:
				return Token{}, &Error{Pos: l.loc(), Msg: "invalid escape sequence"}
			}
			l.readChar()
		default:
			sb.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func (l *lexer) readDirective(pos ast.Location) (Token, error) {
	l.readChar()
	w := l.readWord()
	if w == "script" {
		return l.readScript(pos)
	}
	t, ok := directives[w]
	if !ok {
		return Token{}, &Error{Pos: pos, Msg: "unknown directive #" + w}
	}
	return Token{Type: t, Pos: pos}, nil
}

// readScript reads "(lang) code #end." after "#script".
func (l *lexer) readScript(pos ast.Location) (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	if l.ch != '(' {
		return Token{}, &Error{Pos: l.loc(), Msg: "expected ( after #script"}
	}
	l.readChar()
	lang := l.readWord()
	if lang == "" || l.ch != ')' {
		return Token{}, &Error{Pos: l.loc(), Msg: "malformed script language"}
	}
	l.readChar()
	start := l.pos
	for {
		if l.atEOF() {
			return Token{}, &Error{Pos: pos, Msg: "#script without #end"}
		}
		if l.ch == '#' && strings.HasPrefix(l.input[l.pos:], "#end") {
			code := l.input[start:l.pos]
			for i := 0; i < len("#end"); i++ {
				l.readChar()
			}
			for l.ch == ' ' || l.ch == '\t' {
				l.readChar()
			}
			if l.ch != '.' {
				return Token{}, &Error{Pos: l.loc(), Msg: "expected . after #end"}
			}
			l.readChar()
			return Token{Type: tokScript, Literal: lang, Code: code, Pos: pos}, nil
		}
		l.readChar()
	}
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLetter(c byte) bool { return isUpper(c) || (c >= 'a' && c <= 'z') }
