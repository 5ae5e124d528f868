// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package scan discovers translation call sites in Go source code.

Two kinds of call sites are recognized. Calls to Tr, TrN, MustTr and MustTrN of
the runtime package are found through each file's imports, however the package
is named locally:

	i18n.TrN(catalog, "one file", "{} files", n)

Directive comments carry the raw call-site text and work in any file:

	//i18n:extract catalog, "one file", "{} files"; n
	//i18n:init "myapp", fr, de

Sites are reported in source order, so the template records the first
occurrence of each message.
*/
package scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"

	"codeberg.org/pixivfe/gettextgen/core/callsite"
	"codeberg.org/pixivfe/gettextgen/core/failure"
)

// Defaults for Options.
const (
	DefaultRuntimePackage  = "codeberg.org/pixivfe/gettextgen/i18n"
	DefaultDirectivePrefix = "i18n:"
)

const (
	directiveExtract = "extract"
	directiveInit    = "init"
)

var (
	errConflictingInit  = errors.New("conflicting init directives")
	errPluralNotLiteral = errors.New("expected a plural message string literal")
)

// Options configures a Scanner.
type Options struct {
	// Root is the directory source references are made relative to.
	Root string
	// RuntimePackage is the import path providing Tr and TrN.
	RuntimePackage string
	// DirectivePrefix follows "//" in directive comments.
	DirectivePrefix string
	// Tags are extra build tags used when loading packages.
	Tags []string
}

// Site is one call site, ready for extraction.
type Site struct {
	Pos       token.Position
	Tokens    []callsite.Token
	Directive bool
}

// Init is a parsed init directive.
type Init struct {
	Domain  string
	Locales []string
	Pos     token.Position
}

// Scanner finds call sites in Go packages.
type Scanner struct {
	opts   Options
	logger zerolog.Logger
}

// New returns a Scanner, filling in defaults for empty options.
func New(opts Options) *Scanner {
	if opts.RuntimePackage == "" {
		opts.RuntimePackage = DefaultRuntimePackage
	}

	if opts.DirectivePrefix == "" {
		opts.DirectivePrefix = DefaultDirectivePrefix
	}

	if opts.Root != "" {
		if abs, err := filepath.Abs(opts.Root); err == nil {
			opts.Root = abs
		}
	}

	return &Scanner{
		opts:   opts,
		logger: log.With().Str("sys", "scan").Logger(),
	}
}

// Load parses the packages matching patterns without type-checking them.
func (s *Scanner) Load(ctx context.Context, patterns ...string) ([]*packages.Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:     s.opts.Root,
	}

	if len(s.opts.Tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(s.opts.Tags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, failure.Newf(failure.ErrParse, "load packages", "failed to load %v: %w", patterns, err)
	}

	var errs []error

	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e)
		}
	})

	if len(errs) > 0 {
		return nil, failure.New(failure.ErrParse, "load packages", errors.Join(errs...))
	}

	s.logger.Debug().Strs("patterns", patterns).Int("packages", len(pkgs)).Msg("Loaded packages")

	return pkgs, nil
}

// Scan extracts every call site of the packages matching patterns.
func (s *Scanner) Scan(ctx context.Context, ex *callsite.Extractor, patterns ...string) error {
	pkgs, err := s.Load(ctx, patterns...)
	if err != nil {
		return err
	}

	for _, p := range pkgs {
		for _, f := range p.Syntax {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := s.ScanFile(p.Fset, f, ex); err != nil {
				return err
			}
		}
	}

	s.logger.Info().
		Int("sites", ex.Seen).
		Int("added", ex.Added).
		Str("domain", ex.Domain).
		Msg("Extracted messages")

	return nil
}

// ScanFile extracts every call site of f in source order.
func (s *Scanner) ScanFile(fset *token.FileSet, f *ast.File, ex *callsite.Extractor) error {
	if err := s.scanFile(fset, f, ex); err != nil {
		var fe *failure.Error
		if errors.As(err, &fe) && fe.Domain == "" {
			fe.WithDomain(ex.Domain)
		}

		return err
	}

	return nil
}

func (s *Scanner) scanFile(fset *token.FileSet, f *ast.File, ex *callsite.Extractor) error {
	sites, err := s.Sites(fset, f)
	if err != nil {
		return err
	}

	for _, site := range sites {
		if _, err := ex.Extract(site.Tokens); err != nil {
			return err
		}
	}

	return nil
}

// Sites returns the call sites of f in source order.
func (s *Scanner) Sites(fset *token.FileSet, f *ast.File) ([]Site, error) {
	var sites []Site

	if name, ok := s.runtimeName(f); ok {
		var siteErr error

		ast.Inspect(f, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || siteErr != nil {
				return siteErr == nil
			}

			site, ok, err := s.callSite(fset, call, name)
			if err != nil {
				siteErr = err

				return false
			}

			if ok {
				sites = append(sites, site)
			}

			return true
		})

		if siteErr != nil {
			return nil, siteErr
		}
	}

	directives, err := s.directives(fset, f, directiveExtract)
	if err != nil {
		return nil, err
	}

	for _, d := range directives {
		sites = append(sites, Site{Pos: d.pos, Tokens: d.tokens, Directive: true})
	}

	sort.SliceStable(sites, func(i, j int) bool { return sites[i].Pos.Offset < sites[j].Pos.Offset })

	return sites, nil
}

// FindInit returns the init directive of the packages matching patterns, or
// nil when there is none. Several directives must agree.
func (s *Scanner) FindInit(ctx context.Context, patterns ...string) (*Init, error) {
	pkgs, err := s.Load(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	var found *Init

	for _, p := range pkgs {
		for _, f := range p.Syntax {
			inits, err := s.Inits(p.Fset, f)
			if err != nil {
				return nil, err
			}

			for _, in := range inits {
				if found == nil {
					found = in

					continue
				}

				if found.Domain != in.Domain || !slices.Equal(found.Locales, in.Locales) {
					return nil, failure.Newf(failure.ErrConfiguration, "find init directive",
						"%w: %s and %s", errConflictingInit, found.Pos, in.Pos)
				}
			}
		}
	}

	return found, nil
}

// Inits returns the parsed init directives of f.
func (s *Scanner) Inits(fset *token.FileSet, f *ast.File) ([]*Init, error) {
	directives, err := s.directives(fset, f, directiveInit)
	if err != nil {
		return nil, err
	}

	out := make([]*Init, 0, len(directives))

	for _, d := range directives {
		domain, locales, err := callsite.ParseInit(d.tokens)
		if err != nil {
			return nil, err
		}

		out = append(out, &Init{Domain: domain, Locales: locales, Pos: d.pos})
	}

	return out, nil
}

// runtimeName returns the name the runtime package is referred to by in f.
func (s *Scanner) runtimeName(f *ast.File) (string, bool) {
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != s.opts.RuntimePackage {
			continue
		}

		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				return "", false
			}

			return spec.Name.Name, true
		}

		return path.Base(p), true
	}

	return "", false
}

// callSite converts a runtime call into call-site tokens:
// catalog, message[, plural][; args...].
// A plural runtime call whose plural form is not a string literal is an
// ErrParse.
func (s *Scanner) callSite(fset *token.FileSet, call *ast.CallExpr, pkgName string) (Site, bool, error) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return Site{}, false, nil
	}

	if x, ok := sel.X.(*ast.Ident); !ok || x.Name != pkgName {
		return Site{}, false, nil
	}

	var fixed int

	switch sel.Sel.Name {
	case "Tr", "MustTr":
		fixed = 2
	case "TrN", "MustTrN":
		fixed = 3

		if len(call.Args) > 2 {
			if lit, ok := ast.Unparen(call.Args[2]).(*ast.BasicLit); !ok || lit.Kind != token.STRING {
				return Site{}, false, failure.Newf(failure.ErrParse, "scan call site",
					"%s: %w", s.position(fset, call.Args[2].Pos()), errPluralNotLiteral)
			}
		}
	default:
		return Site{}, false, nil
	}

	var toks []callsite.Token

	for i, arg := range call.Args {
		switch {
		case i == fixed:
			toks = append(toks, s.punct(fset, arg.Pos(), ";"))
		case i > 0:
			toks = append(toks, s.punct(fset, arg.Pos(), ","))
		}

		last := i == len(call.Args)-1 && call.Ellipsis.IsValid()
		toks = append(toks, s.argToken(fset, arg, i > 0 && i < fixed, last))
	}

	pos := s.position(fset, call.Pos())
	if len(toks) > 0 {
		pos = toks[0].Pos
	}

	return Site{Pos: pos, Tokens: toks}, true, nil
}

func (s *Scanner) argToken(fset *token.FileSet, arg ast.Expr, message, spread bool) callsite.Token {
	pos := s.position(fset, arg.Pos())

	if lit, ok := ast.Unparen(arg).(*ast.BasicLit); ok && lit.Kind == token.STRING && message {
		if v, err := strconv.Unquote(lit.Value); err == nil {
			return callsite.Token{Kind: callsite.Literal, Text: lit.Value, Value: v, Pos: pos}
		}
	}

	var buf bytes.Buffer

	if err := printer.Fprint(&buf, fset, arg); err != nil {
		buf.Reset()
		fmt.Fprintf(&buf, "%T", arg)
	}

	if spread {
		buf.WriteString("...")
	}

	return callsite.Token{Kind: callsite.Opaque, Text: buf.String(), Pos: pos}
}

func (s *Scanner) punct(fset *token.FileSet, p token.Pos, text string) callsite.Token {
	return callsite.Token{Kind: callsite.Punct, Text: text, Pos: s.position(fset, p)}
}

type directive struct {
	pos    token.Position
	tokens []callsite.Token
}

// directives returns the tokenized text of every //<prefix><name> comment in f.
func (s *Scanner) directives(fset *token.FileSet, f *ast.File, name string) ([]directive, error) {
	marker := "//" + s.opts.DirectivePrefix + name

	var out []directive

	for _, group := range f.Comments {
		for _, c := range group.List {
			rest, ok := strings.CutPrefix(c.Text, marker)
			if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
				continue
			}

			start := s.position(fset, c.Slash)
			start.Offset += len(marker)
			start.Column += len(marker)

			toks, err := callsite.Tokenize(rest, start)
			if err != nil {
				return nil, failure.New(failure.ErrParse, "scan directive", err)
			}

			out = append(out, directive{pos: s.position(fset, c.Slash), tokens: toks})
		}
	}

	return out, nil
}

// position resolves p, with the file name made relative to the root.
func (s *Scanner) position(fset *token.FileSet, p token.Pos) token.Position {
	pos := fset.Position(p)

	if s.opts.Root != "" && filepath.IsAbs(pos.Filename) {
		if rel, err := filepath.Rel(s.opts.Root, pos.Filename); err == nil && !strings.HasPrefix(rel, "..") {
			pos.Filename = rel
		}
	}

	pos.Filename = filepath.ToSlash(pos.Filename)

	return pos
}
