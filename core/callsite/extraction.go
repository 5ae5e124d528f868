// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package callsite

import (
	"go/token"
	"strconv"
	"strings"
)

// Extraction is the result of parsing a call site: a *Simple or a *Plural.
type Extraction interface {
	// Msgid returns the message id.
	Msgid() string
	// Source returns the position of the call site's first token.
	Source() token.Position
	// Expr renders the equivalent runtime call against package pkg.
	Expr(pkg string) string

	isExtraction()
}

// Simple is a gettext-mode extraction.
type Simple struct {
	Catalog string
	Message string
	Args    []string
	Pos     token.Position
}

// Plural is an ngettext-mode extraction. Args[0] is the pluralization count.
type Plural struct {
	Catalog string
	Message string
	Plural  string
	Args    []string
	Pos     token.Position
}

func (s *Simple) Msgid() string          { return s.Message }
func (s *Simple) Source() token.Position { return s.Pos }
func (*Simple) isExtraction()            {}

func (p *Plural) Msgid() string          { return p.Message }
func (p *Plural) Source() token.Position { return p.Pos }
func (*Plural) isExtraction()            {}

// Count returns the pluralization count expression.
func (p *Plural) Count() string {
	return p.Args[0]
}

// Expr renders pkg.Tr(catalog, "message", args...).
func (s *Simple) Expr(pkg string) string {
	parts := append([]string{s.Catalog, strconv.Quote(s.Message)}, s.Args...)

	return pkg + ".Tr(" + strings.Join(parts, ", ") + ")"
}

// Expr renders pkg.TrN(catalog, "message", "plural", count, args...).
func (p *Plural) Expr(pkg string) string {
	parts := append([]string{p.Catalog, strconv.Quote(p.Message), strconv.Quote(p.Plural)}, p.Args...)

	return pkg + ".TrN(" + strings.Join(parts, ", ") + ")"
}
