// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package registry records the translation domain and target locales of a project.

The record is written once per build by [Registry.Initialize] and read back by
every later step through [Registry.Load]. Build steps may run as separate
processes, so nothing is kept in memory between them: the file on disk is the
only source of truth.
*/
package registry

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"codeberg.org/pixivfe/gettextgen/core/atomicfile"
	"codeberg.org/pixivfe/gettextgen/core/failure"
)

const filePermissions = 0o644

var (
	errEmptyDomain       = errors.New("expected a translation domain (for instance \"myapp\")")
	errDomainNotLiteral  = errors.New("domain should be a plain text literal")
	errInvalidLocale     = errors.New("expected a locale identifier")
	errNotInitialized    = errors.New("initialize before use")
	localeIdentifierExpr = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// TemplateResetter creates or truncates the template catalogue of a domain.
type TemplateResetter interface {
	Reset(domain string) error
}

// Registry reads and writes the metadata record of one project.
type Registry struct {
	layout   Layout
	template TemplateResetter
	logger   zerolog.Logger

	// KeepDuplicateLocales disables de-duplication of repeated locales.
	KeepDuplicateLocales bool
}

// New returns a Registry for layout. template may be nil when the caller only
// loads existing records.
func New(layout Layout, template TemplateResetter) *Registry {
	return &Registry{
		layout:   layout,
		template: template,
		logger:   log.With().Str("sys", "registry").Logger(),
	}
}

// Layout returns the layout the registry was created with.
func (r *Registry) Layout() Layout {
	return r.layout
}

// Initialize validates domain and locales, writes the metadata record
// (replacing any previous one) and resets the template catalogue.
func (r *Registry) Initialize(domain string, locales []string) (*Metadata, error) {
	if err := ValidateDomain(domain); err != nil {
		return nil, failure.New(failure.ErrConfiguration, "initialize", err)
	}

	for _, l := range locales {
		if err := ValidateLocale(l); err != nil {
			return nil, failure.New(failure.ErrConfiguration, "initialize", err).WithDomain(domain)
		}
	}

	if !r.KeepDuplicateLocales {
		locales = dedupe(locales)
	}

	md := &Metadata{Version: MetadataVersion, Domain: domain, Locales: locales}

	data, err := encodeMetadata(md)
	if err != nil {
		return nil, failure.New(failure.ErrConfiguration, "initialize", err).WithDomain(domain)
	}

	path := r.layout.MetadataPath()

	if err := atomicfile.Write(path, data, filePermissions); err != nil {
		return nil, failure.Newf(failure.ErrConfiguration, "initialize",
			"failed to write metadata record %s: %w", path, err).WithDomain(domain)
	}

	if r.template != nil {
		if err := r.template.Reset(domain); err != nil {
			return nil, err
		}
	}

	r.logger.Info().
		Str("domain", domain).
		Strs("locales", locales).
		Str("path", path).
		Msg("Initialized translation domain")

	return md, nil
}

// Load reads the metadata record. It fails with failure.ErrConfiguration when
// Initialize has not run for this project.
func (r *Registry) Load() (*Metadata, error) {
	path := r.layout.MetadataPath()

	data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the project layout
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, failure.Newf(failure.ErrConfiguration, "load metadata",
				"%w: no metadata record at %s", errNotInitialized, path)
		}

		return nil, failure.New(failure.ErrConfiguration, "load metadata", err)
	}

	md, err := decodeMetadata(data)
	if err != nil {
		return nil, failure.Newf(failure.ErrConfiguration, "load metadata", "%s: %w", path, err)
	}

	return md, nil
}

// Domain returns the domain of the current record.
func (r *Registry) Domain() (string, error) {
	md, err := r.Load()
	if err != nil {
		return "", err
	}

	return md.Domain, nil
}

// ValidateDomain checks that domain is a plain text literal usable as a file name.
func ValidateDomain(domain string) error {
	if domain == "" {
		return errEmptyDomain
	}

	if domain == "." || domain == ".." ||
		strings.ContainsAny(domain, "\"'`/\\") ||
		strings.IndexFunc(domain, isSpaceOrControl) >= 0 {
		return fmt.Errorf("%w, got %q", errDomainNotLiteral, domain)
	}

	return nil
}

// ValidateLocale checks that locale is an identifier naming a language tag,
// such as "fr", "pt_BR" or "zh_Hant".
func ValidateLocale(locale string) error {
	if !localeIdentifierExpr.MatchString(locale) {
		return fmt.Errorf("%w, got %q", errInvalidLocale, locale)
	}

	if _, err := language.Parse(strings.ReplaceAll(locale, "_", "-")); err != nil {
		return fmt.Errorf("%w, got %q: %w", errInvalidLocale, locale, err)
	}

	return nil
}

func isSpaceOrControl(r rune) bool {
	return r <= ' ' || r == 0x7f
}

// dedupe removes repeated locales, keeping the first occurrence of each.
func dedupe(locales []string) []string {
	seen := make(map[string]struct{}, len(locales))
	out := make([]string, 0, len(locales))

	for _, l := range locales {
		if _, ok := seen[l]; ok {
			continue
		}

		seen[l] = struct{}{}
		out = append(out, l)
	}

	return out
}
