// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog keeps locale catalogues in step with the template and compiles
them to binary catalogues.

Locales are processed one at a time, in the order of the metadata record, and
the first failure stops the run.
*/
package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/registry"
	"codeberg.org/pixivfe/gettextgen/core/toolchain"
)

const dirPermissions = 0o755

// Synchronizer merges or bootstraps the locale catalogue of every locale.
type Synchronizer struct {
	layout    registry.Layout
	toolchain toolchain.Toolchain
	logger    zerolog.Logger
}

// NewSynchronizer returns a Synchronizer using tc for layout.
func NewSynchronizer(layout registry.Layout, tc toolchain.Toolchain) *Synchronizer {
	return &Synchronizer{
		layout:    layout,
		toolchain: tc,
		logger:    log.With().Str("sys", "catalog").Logger(),
	}
}

// Synchronize updates po/<locale>.po for every locale of md against the
// template. Existing catalogues are merged, missing ones are created.
func (s *Synchronizer) Synchronize(ctx context.Context, md *registry.Metadata) error {
	pot := s.layout.TemplatePath(md.Domain)

	if _, err := os.Stat(pot); err != nil {
		return failure.New(failure.ErrCatalogIO, "synchronize", err).WithDomain(md.Domain)
	}

	for _, locale := range md.Locales {
		if err := s.synchronizeLocale(ctx, md.Domain, locale, pot); err != nil {
			return err
		}
	}

	return nil
}

func (s *Synchronizer) synchronizeLocale(ctx context.Context, domain, locale, pot string) error {
	path := s.layout.LocalePath(locale)

	_, err := os.Stat(path)

	switch {
	case err == nil:
		err = s.toolchain.Merge(ctx, path, pot)
		if err == nil {
			s.logger.Info().Str("locale", locale).Str("path", path).Msg("Merged locale catalogue")
		}
	case errors.Is(err, os.ErrNotExist):
		if err = os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
			return failure.New(failure.ErrCatalogIO, "synchronize", err).WithDomain(domain).WithLocale(locale)
		}

		err = s.toolchain.Bootstrap(ctx, pot, path, locale)
		if err == nil {
			s.logger.Info().Str("locale", locale).Str("path", path).Msg("Created locale catalogue")
		}
	default:
		return failure.New(failure.ErrCatalogIO, "synchronize", err).WithDomain(domain).WithLocale(locale)
	}

	if err != nil {
		return failure.New(failure.ErrSync, "synchronize", err).
			WithDomain(domain).
			WithLocale(locale).
			WithOutput(toolchain.Output(err))
	}

	return nil
}

// Compiler writes translations/<locale>/LC_MESSAGES/<domain>.mo for every locale.
type Compiler struct {
	layout    registry.Layout
	toolchain toolchain.Toolchain
	logger    zerolog.Logger
}

// NewCompiler returns a Compiler using tc for layout.
func NewCompiler(layout registry.Layout, tc toolchain.Toolchain) *Compiler {
	return &Compiler{
		layout:    layout,
		toolchain: tc,
		logger:    log.With().Str("sys", "catalog").Logger(),
	}
}

// Compile compiles the locale catalogue of every locale of md. A locale
// without a catalogue fails with failure.ErrCompile.
func (c *Compiler) Compile(ctx context.Context, md *registry.Metadata) error {
	for _, locale := range md.Locales {
		if err := c.compileLocale(ctx, md.Domain, locale); err != nil {
			return err
		}
	}

	return nil
}

func (c *Compiler) compileLocale(ctx context.Context, domain, locale string) error {
	src := c.layout.LocalePath(locale)

	if _, err := os.Stat(src); err != nil {
		return failure.Newf(failure.ErrCompile, "compile",
			"locale catalogue %s is unavailable: %w", src, err).WithDomain(domain).WithLocale(locale)
	}

	if err := os.MkdirAll(c.layout.CompiledDir(locale), dirPermissions); err != nil {
		return failure.New(failure.ErrCompile, "compile", err).WithDomain(domain).WithLocale(locale)
	}

	dst := c.layout.CompiledPath(domain, locale)

	if err := c.toolchain.Compile(ctx, src, dst); err != nil {
		return failure.New(failure.ErrCompile, "compile", err).
			WithDomain(domain).
			WithLocale(locale).
			WithOutput(toolchain.Output(err))
	}

	c.logger.Info().Str("locale", locale).Str("path", dst).Msg("Compiled locale catalogue")

	return nil
}

// Run synchronizes then compiles every locale of md.
func Run(ctx context.Context, layout registry.Layout, tc toolchain.Toolchain, md *registry.Metadata) error {
	if err := NewSynchronizer(layout, tc).Synchronize(ctx, md); err != nil {
		return err
	}

	return NewCompiler(layout, tc).Compile(ctx, md)
}
