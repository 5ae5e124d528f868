// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package callsite

import (
	"errors"
	"fmt"

	"codeberg.org/pixivfe/gettextgen/core/failure"
)

var (
	errExpectedCatalog  = errors.New("expected catalog")
	errExpectedComma    = errors.New("expected `,` after catalog")
	errExpectedMessage  = errors.New("expected a message string literal")
	errEmptyMessage     = errors.New("message must not be empty")
	errMissingItemCount = errors.New("item count should be specified")
	errExpectedDomain   = errors.New("expected a translation domain (for instance \"myapp\")")
	errDomainNotString  = errors.New("domain should be a str")
	errExpectedLocale   = errors.New("expected a language identifier")
)

// parser is a recursive-descent parser over a token slice.
type parser struct {
	toks []Token
	pos  int
}

func (p *parser) peek() (Token, bool) {
	if p.pos >= len(p.toks) {
		return Token{}, false
	}

	return p.toks[p.pos], true
}

func (p *parser) next() (Token, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}

	return t, ok
}

// accept consumes the punctuation punct if it is next.
func (p *parser) accept(punct string) bool {
	if t, ok := p.peek(); ok && t.Is(punct) {
		p.pos++

		return true
	}

	return false
}

// expr consumes tokens up to the next top-level "," or ";" and returns them.
func (p *parser) expr() []Token {
	start := p.pos
	depth := 0

	for p.pos < len(p.toks) {
		t := p.toks[p.pos]

		switch {
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--
		case depth <= 0 && (t.Is(",") || t.Is(";")):
			return p.toks[start:p.pos]
		}

		p.pos++
	}

	return p.toks[start:p.pos]
}

// literal consumes a string literal.
func (p *parser) literal() (Token, bool) {
	t, ok := p.peek()
	if !ok || t.Kind != Literal {
		return Token{}, false
	}

	p.pos++

	return t, true
}

// args parses the comma-separated format arguments following ";".
// An empty argument ends the list.
func (p *parser) args() []string {
	var out []string

	for {
		e := p.expr()
		if len(e) == 0 {
			return out
		}

		out = append(out, render(e))

		if !p.accept(",") {
			return out
		}
	}
}

// parse turns a call site into an Extraction.
func parse(toks []Token) (Extraction, error) {
	p := &parser{toks: toks}

	if len(toks) == 0 {
		return nil, parseError(errExpectedCatalog, Token{})
	}

	pos := toks[0].Pos

	catalog := p.expr()
	if len(catalog) == 0 {
		return nil, parseError(errExpectedCatalog, toks[0])
	}

	if !p.accept(",") {
		t, _ := p.peek()

		return nil, parseError(errExpectedComma, t)
	}

	msg, ok := p.literal()
	if !ok {
		t, _ := p.peek()

		return nil, parseError(errExpectedMessage, t)
	}

	if msg.Value == "" {
		return nil, parseError(errEmptyMessage, msg)
	}

	var (
		plural    Token
		hasPlural bool
		stray     bool
	)

	if p.accept(",") {
		plural, hasPlural = p.literal()
		stray = !hasPlural
	}

	var args []string

	// Any other trailing layout, a comma without a plural literal included,
	// yields no format arguments.
	if !stray && p.accept(";") {
		args = p.args()
	}

	if !hasPlural {
		return &Simple{Catalog: render(catalog), Message: msg.Value, Args: args, Pos: pos}, nil
	}

	if len(args) == 0 {
		return nil, failure.Newf(failure.ErrConfiguration, "parse call site",
			"%s: %w", pos, errMissingItemCount)
	}

	return &Plural{
		Catalog: render(catalog),
		Message: msg.Value,
		Plural:  plural.Value,
		Args:    args,
		Pos:     pos,
	}, nil
}

// ParseInit parses an initialization directive: a domain string literal
// followed by comma-separated locale identifiers.
func ParseInit(toks []Token) (domain string, locales []string, err error) {
	p := &parser{toks: toks}

	t, ok := p.next()
	if !ok {
		return "", nil, configError(errExpectedDomain, Token{})
	}

	if t.Kind != Literal {
		return "", nil, configError(errDomainNotString, t)
	}

	domain = t.Value

	if _, ok := p.peek(); !ok {
		return domain, nil, nil
	}

	if !p.accept(",") {
		t, _ := p.peek()

		return "", nil, configError(fmt.Errorf("expected `,`, got %q", t.Text), t)
	}

	for {
		t, ok := p.next()
		if !ok || t.Kind != Ident {
			return "", nil, configError(errExpectedLocale, t)
		}

		locales = append(locales, t.Text)

		if !p.accept(",") {
			break
		}
	}

	if t, ok := p.peek(); ok {
		return "", nil, configError(fmt.Errorf("unexpected %s %q", t.Kind, t.Text), t)
	}

	return domain, locales, nil
}

func parseError(err error, at Token) error {
	return failure.Newf(failure.ErrParse, "parse call site", "%s: %w", describe(at), err)
}

func configError(err error, at Token) error {
	return failure.Newf(failure.ErrConfiguration, "parse init directive", "%s: %w", describe(at), err)
}

func describe(t Token) string {
	if t.Kind == 0 {
		return "end of input"
	}

	if t.Pos.IsValid() {
		return fmt.Sprintf("%s: at %q", t.Pos, t.Text)
	}

	return fmt.Sprintf("at %q", t.Text)
}
