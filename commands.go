// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/config"
	"codeberg.org/pixivfe/gettextgen/core/audit"
	"codeberg.org/pixivfe/gettextgen/core/callsite"
	"codeberg.org/pixivfe/gettextgen/core/catalog"
	"codeberg.org/pixivfe/gettextgen/core/embedder"
	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/pot"
	"codeberg.org/pixivfe/gettextgen/core/registry"
	"codeberg.org/pixivfe/gettextgen/core/scan"
	"codeberg.org/pixivfe/gettextgen/core/toolchain"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errNoDomain       = errors.New("no translation domain: pass one to init, set project.domain or add an init directive")
)

// app runs build steps against one configuration.
type app struct {
	cfg    *config.Config
	layout registry.Layout
	stdout io.Writer
	logger zerolog.Logger
}

func newApp(cfg *config.Config, stdout io.Writer) *app {
	return &app{
		cfg:    cfg,
		layout: cfg.Layout(),
		stdout: stdout,
		logger: log.With().Str("sys", "cli").Logger(),
	}
}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	var step func(context.Context, []string) error

	switch name {
	case "init":
		step = a.initialize
	case "domain":
		step = a.domain
	case "extract":
		step = a.extract
	case "compile":
		step = a.compile
	case "embed":
		step = a.embed
	case "build":
		step = a.build
	default:
		return fmt.Errorf("%w %q: %w", errUnknownCommand, name, errUsage)
	}

	return a.timed(ctx, name, func(ctx context.Context) error {
		return step(ctx, args)
	})
}

// timed runs fn inside an audit span named step.
func (a *app) timed(ctx context.Context, step string, fn func(context.Context) error) error {
	span := audit.Span{Step: step}
	ctx = span.Begin(ctx)

	span.Error = fn(ctx)
	span.End()

	return span.Error
}

func (a *app) registry() *registry.Registry {
	reg := registry.New(a.layout, a.templates())
	reg.KeepDuplicateLocales = a.cfg.Locales.KeepDuplicates

	return reg
}

func (a *app) templates() *pot.Manager {
	m := pot.NewManager(a.layout)
	m.Created = a.cfg.Project.CreationDate

	return m
}

func (a *app) scanner() *scan.Scanner {
	return scan.New(scan.Options{
		Root:            a.cfg.Project.Root,
		RuntimePackage:  a.cfg.Extract.RuntimePackage,
		DirectivePrefix: a.cfg.Extract.DirectivePrefix,
		Tags:            a.cfg.Extract.Tags,
	})
}

// initialize records the domain and locales. The domain comes from the
// arguments, then project.domain, then an init directive in the sources.
func (a *app) initialize(ctx context.Context, args []string) error {
	return a.initializeFrom(ctx, args, nil)
}

// initializeFrom is initialize with the package patterns searched for an
// init directive.
func (a *app) initializeFrom(ctx context.Context, args, patterns []string) error {
	domain, locales, err := a.resolveInit(ctx, args, patterns)
	if err != nil {
		return err
	}

	_, err = a.registry().Initialize(domain, locales)

	return err
}

func (a *app) resolveInit(ctx context.Context, args, patterns []string) (string, []string, error) {
	if len(args) > 0 {
		return args[0], args[1:], nil
	}

	if a.cfg.Project.Domain != "" {
		return a.cfg.Project.Domain, a.cfg.Project.Locales, nil
	}

	directive, err := a.scanner().FindInit(ctx, patterns...)
	if err != nil {
		return "", nil, err
	}

	if directive == nil {
		return "", nil, failure.New(failure.ErrConfiguration, "initialize", errNoDomain)
	}

	a.logger.Info().
		Str("domain", directive.Domain).
		Str("source", directive.Pos.String()).
		Msg("Using init directive")

	return directive.Domain, directive.Locales, nil
}

func (a *app) domain(_ context.Context, _ []string) error {
	domain, err := a.registry().Domain()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(a.stdout, domain)

	return err
}

func (a *app) extract(ctx context.Context, patterns []string) error {
	md, err := a.registry().Load()
	if err != nil {
		return err
	}

	ex := callsite.NewExtractor(md.Domain, a.templates())

	return a.scanner().Scan(ctx, ex, patterns...)
}

func (a *app) compile(ctx context.Context, _ []string) error {
	md, err := a.registry().Load()
	if err != nil {
		return err
	}

	tc, err := toolchain.New(a.cfg.ToolchainOptions())
	if err != nil {
		return failure.New(failure.ErrConfiguration, "compile", err)
	}

	return catalog.Run(ctx, a.layout, tc, md)
}

func (a *app) embed(_ context.Context, args []string) error {
	flags := flag.NewFlagSet("embed", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	output := flags.String("o", a.cfg.Embed.Output, "path of the generated Go file")
	pkg := flags.String("pkg", a.cfg.Embed.Package, "package name of the generated Go file")

	if err := flags.Parse(args); err != nil {
		return failure.New(failure.ErrConfiguration, "embed", err)
	}

	md, err := a.registry().Load()
	if err != nil {
		return err
	}

	return embedder.WriteFile(a.layout, md, embedder.Options{
		Output:         a.resolve(*output),
		Package:        *pkg,
		RuntimePackage: a.cfg.Extract.RuntimePackage,
	})
}

// build runs every step in order, stopping at the first failure.
func (a *app) build(ctx context.Context, patterns []string) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"init", func(ctx context.Context) error { return a.initializeFrom(ctx, nil, patterns) }},
		{"extract", func(ctx context.Context) error { return a.extract(ctx, patterns) }},
		{"compile", func(ctx context.Context) error { return a.compile(ctx, nil) }},
		{"embed", func(ctx context.Context) error { return a.embed(ctx, nil) }},
	}

	for _, s := range steps {
		if err := a.timed(ctx, s.name, s.fn); err != nil {
			return err
		}
	}

	return nil
}

func (a *app) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(a.cfg.Project.Root, path)
}
