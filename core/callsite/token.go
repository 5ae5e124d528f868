// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package callsite

import (
	"go/token"
	"strconv"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	// Literal is a string literal; Value holds its unquoted text.
	Literal Kind = iota + 1
	// Ident is an identifier or keyword.
	Ident
	// Punct is an operator or delimiter such as ",", ";" or "(".
	Punct
	// Opaque is any other source fragment, such as a number or a whole
	// pre-rendered expression.
	Opaque
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "literal"
	case Ident:
		return "identifier"
	case Punct:
		return "punctuation"
	case Opaque:
		return "expression"
	default:
		return "invalid"
	}
}

// Token is one element of a call site.
type Token struct {
	Kind  Kind
	Text  string // source text
	Value string // unquoted value, for Literal tokens
	Pos   token.Position
}

// Is reports whether t is the punctuation p.
func (t Token) Is(p string) bool {
	return t.Kind == Punct && t.Text == p
}

// Lit returns a Literal token for the string s.
func Lit(s string) Token {
	return Token{Kind: Literal, Text: strconv.Quote(s), Value: s}
}

// Name returns an Ident token.
func Name(name string) Token {
	return Token{Kind: Ident, Text: name}
}

// Punc returns a Punct token.
func Punc(p string) Token {
	return Token{Kind: Punct, Text: p}
}

// Expr returns an Opaque token holding the source text of an expression.
func Expr(src string) Token {
	return Token{Kind: Opaque, Text: src}
}

// render joins tokens back into source text.
func render(toks []Token) string {
	var b strings.Builder

	for i, t := range toks {
		if i > 0 && needsSpace(toks[i-1], t) {
			b.WriteByte(' ')
		}

		b.WriteString(t.Text)
	}

	return b.String()
}

func needsSpace(prev, cur Token) bool {
	if prev.Is(",") || prev.Is(";") {
		return true
	}

	return prev.Kind != Punct && cur.Kind != Punct
}
