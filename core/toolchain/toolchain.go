// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package toolchain provides the external collaborators that merge, bootstrap and
compile locale catalogues.

Two implementations are available: [GNU] runs msgmerge, msginit and msgfmt as
subprocesses, and [Native] performs the same transformations in-process on top
of package po. Both report failures as *[ToolError] so callers can surface the
diagnostic output unchanged.
*/
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Kinds accepted by New.
const (
	KindGNU    = "gnu"
	KindNative = "native"
	// KindAuto selects GNU when all three tools are on PATH and Native otherwise.
	KindAuto = "auto"
)

var errUnknownKind = errors.New("unknown toolchain kind")

// Toolchain merges, bootstraps and compiles locale catalogues.
type Toolchain interface {
	// Merge updates the locale catalogue at poPath against the template at
	// potPath, in place.
	Merge(ctx context.Context, poPath, potPath string) error
	// Bootstrap creates the locale catalogue at poPath from the template at
	// potPath for locale.
	Bootstrap(ctx context.Context, potPath, poPath, locale string) error
	// Compile writes the binary catalogue of poPath to moPath.
	Compile(ctx context.Context, poPath, moPath string) error
}

// Options configures New.
type Options struct {
	Kind     string
	Msgmerge string
	Msginit  string
	Msgfmt   string
}

// New returns the toolchain selected by opts.Kind. An empty kind selects GNU.
func New(opts Options) (Toolchain, error) {
	switch strings.ToLower(opts.Kind) {
	case "", KindGNU:
		return opts.gnu(), nil
	case KindNative:
		return NewNative(), nil
	case KindAuto:
		g := opts.gnu()
		if err := g.Available(); err != nil {
			g.logger.Info().Err(err).Msg("GNU gettext not found, using the native toolchain")

			return NewNative(), nil
		}

		return g, nil
	default:
		return nil, fmt.Errorf("%w: %q (expected %q, %q or %q)",
			errUnknownKind, opts.Kind, KindGNU, KindNative, KindAuto)
	}
}

// ValidKind reports whether kind is accepted by New.
func ValidKind(kind string) bool {
	switch strings.ToLower(kind) {
	case "", KindGNU, KindNative, KindAuto:
		return true
	default:
		return false
	}
}

func (opts Options) gnu() *GNU {
	g := NewGNU()

	if opts.Msgmerge != "" {
		g.Msgmerge = opts.Msgmerge
	}

	if opts.Msginit != "" {
		g.Msginit = opts.Msginit
	}

	if opts.Msgfmt != "" {
		g.Msgfmt = opts.Msgfmt
	}

	return g
}

// ToolError is returned when a collaborator exits unsuccessfully.
type ToolError struct {
	Tool   string
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Output returns the diagnostic output carried by err, if any.
func Output(err error) string {
	var te *ToolError
	if errors.As(err, &te) {
		return te.Output
	}

	return ""
}
