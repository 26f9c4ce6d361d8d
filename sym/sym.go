// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package sym provides symbols, the values of logic programs.
//
// A Symbol is one of
//
//	Number    an int
//	Infimum   #inf, smaller than every other symbol
//	Supremum  #sup, greater than every other symbol
//	String    a quoted string
//	Function  an optionally negated name applied to arguments
//
// Identifiers are functions without arguments and tuples are functions
// with the empty name.
//
// Strings and functions are interned in a process wide table, so two
// symbols are structurally equal exactly when they are ==, and symbols
// may be used as map keys.  The table lives as long as the process:
// symbols stay valid after the Control which created them is closed, and
// their storage is never reclaimed.
package sym

import (
	"encoding/binary"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-air/gasp/status"
	"github.com/zeebo/xxh3"
)

// Kind is the variant tag of a Symbol.
type Kind int

const (
	KindNumber Kind = iota
	KindInfimum
	KindSupremum
	KindString
	KindFunction
)

// rank gives the position of each kind in the total order.
var rank = [...]int{
	KindInfimum:  0,
	KindNumber:   1,
	KindString:   2,
	KindFunction: 3,
	KindSupremum: 4,
}

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInfimum:
		return "infimum"
	case KindSupremum:
		return "supremum"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Symbol is an immutable logic program value.  The zero Symbol is
// the number 0.
type Symbol struct {
	kind Kind
	num  int
	n    *node
}

type node struct {
	id   uint64
	str  string // string contents or function name
	args []Symbol
	sign bool
	hash uint64
}

type funKey struct {
	name string
	sign bool
	args string
}

var table = struct {
	sync.Mutex
	strs map[string]*node
	funs map[funKey]*node
	next uint64
}{
	strs: make(map[string]*node),
	funs: make(map[funKey]*node),
}

const (
	seedNumber = iota + 1
	seedInfimum
	seedSupremum
	seedString
	seedFunction
)

// Number creates a number symbol.
func Number(n int) Symbol {
	return Symbol{kind: KindNumber, num: n}
}

// Inf returns #inf.
func Inf() Symbol {
	return Symbol{kind: KindInfimum}
}

// Sup returns #sup.
func Sup() Symbol {
	return Symbol{kind: KindSupremum}
}

// String creates a string symbol.
func String(s string) Symbol {
	table.Lock()
	defer table.Unlock()
	n, ok := table.strs[s]
	if !ok {
		table.next++
		n = &node{id: table.next, str: s, hash: xxh3.HashStringSeed(s, seedString)}
		table.strs[s] = n
	}
	return Symbol{kind: KindString, n: n}
}

// ID creates an identifier, a function without arguments.
func ID(name string, sign bool) Symbol {
	return fun(name, nil, sign)
}

// Fun creates a function symbol.  An empty name denotes a tuple, which
// may not be signed.
func Fun(name string, args []Symbol, sign bool) (Symbol, error) {
	if name == "" && sign {
		return Symbol{}, status.Errorf(status.Logic, "tuples must not be signed")
	}
	return fun(name, args, sign), nil
}

// Tuple creates a tuple of args.
func Tuple(args ...Symbol) Symbol {
	return fun("", args, false)
}

func fun(name string, args []Symbol, sign bool) Symbol {
	key := funKey{name: name, sign: sign, args: argsKey(args)}
	table.Lock()
	defer table.Unlock()
	n, ok := table.funs[key]
	if !ok {
		table.next++
		n = &node{
			id:   table.next,
			str:  name,
			args: append([]Symbol(nil), args...),
			sign: sign,
			hash: funHash(name, args, sign)}
		table.funs[key] = n
	}
	return Symbol{kind: KindFunction, n: n}
}

// argsKey encodes the identity of args.  Interned arguments are identified
// by their node id, numbers by their value.
func argsKey(args []Symbol) string {
	if len(args) == 0 {
		return ""
	}
	buf := make([]byte, 0, 9*len(args))
	for _, a := range args {
		buf = append(buf, byte(a.kind))
		switch a.kind {
		case KindNumber:
			buf = binary.LittleEndian.AppendUint64(buf, uint64(a.num))
		case KindString, KindFunction:
			buf = binary.LittleEndian.AppendUint64(buf, a.n.id)
		}
	}
	return string(buf)
}

func funHash(name string, args []Symbol, sign bool) uint64 {
	buf := make([]byte, 0, 8*(len(args)+2))
	buf = binary.LittleEndian.AppendUint64(buf, xxh3.HashString(name))
	if sign {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	for _, a := range args {
		buf = binary.LittleEndian.AppendUint64(buf, a.Hash())
	}
	return xxh3.HashSeed(buf, seedFunction)
}

// Kind returns the variant of s.
func (s Symbol) Kind() Kind {
	return s.kind
}

func mismatch(want Kind, got Kind) error {
	return status.Errorf(status.Logic, "unexpected symbol type: want %s, got %s", want, got)
}

// Num returns the value of a number.
func (s Symbol) Num() (int, error) {
	if s.kind != KindNumber {
		return 0, mismatch(KindNumber, s.kind)
	}
	return s.num, nil
}

// Str returns the contents of a string.
func (s Symbol) Str() (string, error) {
	if s.kind != KindString {
		return "", mismatch(KindString, s.kind)
	}
	return s.n.str, nil
}

// Name returns the name of a function.
func (s Symbol) Name() (string, error) {
	if s.kind != KindFunction {
		return "", mismatch(KindFunction, s.kind)
	}
	return s.n.str, nil
}

// Sign returns whether a function is classically negated.
func (s Symbol) Sign() (bool, error) {
	if s.kind != KindFunction {
		return false, mismatch(KindFunction, s.kind)
	}
	return s.n.sign, nil
}

// Args returns the arguments of a function.  The result must not be
// modified.
func (s Symbol) Args() ([]Symbol, error) {
	if s.kind != KindFunction {
		return nil, mismatch(KindFunction, s.kind)
	}
	return s.n.args, nil
}

// Hash returns a hash of s consistent with ==.
func (s Symbol) Hash() uint64 {
	switch s.kind {
	case KindNumber:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(s.num))
		return xxh3.HashSeed(b[:], seedNumber)
	case KindInfimum:
		return xxh3.HashSeed(nil, seedInfimum)
	case KindSupremum:
		return xxh3.HashSeed(nil, seedSupremum)
	}
	return s.n.hash
}

// Compare returns -1, 0, 1 if a is less than, equal to, or greater
// than b.
func Compare(a, b Symbol) int {
	if a == b {
		return 0
	}
	if ra, rb := rank[a.kind], rank[b.kind]; ra != rb {
		return cmpInt(ra, rb)
	}
	switch a.kind {
	case KindNumber:
		return cmpInt(a.num, b.num)
	case KindString:
		return strings.Compare(a.n.str, b.n.str)
	case KindFunction:
		if a.n.sign != b.n.sign {
			if b.n.sign {
				return -1
			}
			return 1
		}
		if c := strings.Compare(a.n.str, b.n.str); c != 0 {
			return c
		}
		as, bs := a.n.args, b.n.args
		for i := 0; i < len(as) && i < len(bs); i++ {
			if c := Compare(as[i], bs[i]); c != 0 {
				return c
			}
		}
		return cmpInt(len(as), len(bs))
	}
	return 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Less reports whether a sorts before b.
func Less(a, b Symbol) bool {
	return Compare(a, b) < 0
}

// Equal reports whether a and b are the same symbol.
func Equal(a, b Symbol) bool {
	return a == b
}

// Sort sorts ss in symbol order.
func Sort(ss []Symbol) {
	sort.Slice(ss, func(i, j int) bool { return Less(ss[i], ss[j]) })
}

// IsTuple reports whether s is a function with the empty name.
func (s Symbol) IsTuple() bool {
	return s.kind == KindFunction && s.n.str == ""
}

// Signature identifies a predicate.
type Signature struct {
	Name  string
	Arity int
	Sign  bool
}

func (g Signature) String() string {
	if g.Sign {
		return "-" + g.Name + "/" + strconv.Itoa(g.Arity)
	}
	return g.Name + "/" + strconv.Itoa(g.Arity)
}

// Signature returns the signature of a function, ok is false for other
// kinds.
func (s Symbol) Signature() (g Signature, ok bool) {
	if s.kind != KindFunction {
		return g, false
	}
	return Signature{Name: s.n.str, Arity: len(s.n.args), Sign: s.n.sign}, true
}

// Negate returns the classical complement of a non-tuple function.
func (s Symbol) Negate() (Symbol, error) {
	if s.kind != KindFunction || s.n.str == "" {
		return Symbol{}, status.Errorf(status.Logic, "cannot negate %s", s)
	}
	return fun(s.n.str, s.n.args, !s.n.sign), nil
}

// String renders s in its canonical textual form.
func (s Symbol) String() string {
	var sb strings.Builder
	s.write(&sb)
	return sb.String()
}

func (s Symbol) write(sb *strings.Builder) {
	switch s.kind {
	case KindNumber:
		sb.WriteString(strconv.Itoa(s.num))
	case KindInfimum:
		sb.WriteString("#inf")
	case KindSupremum:
		sb.WriteString("#sup")
	case KindString:
		sb.WriteByte('"')
		sb.WriteString(Quote(s.n.str))
		sb.WriteByte('"')
	case KindFunction:
		if s.n.sign {
			sb.WriteByte('-')
		}
		sb.WriteString(s.n.str)
		args := s.n.args
		if len(args) == 0 && s.n.str != "" {
			return
		}
		sb.WriteByte('(')
		for i, a := range args {
			if i > 0 {
				sb.WriteByte(',')
			}
			a.write(sb)
		}
		if len(args) == 1 && s.n.str == "" {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	}
}

// Quote escapes backslashes, double quotes and newlines in s.
func Quote(s string) string {
	if !strings.ContainsAny(s, "\\\"\n") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
