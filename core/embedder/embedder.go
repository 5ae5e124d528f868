// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package embedder gathers compiled catalogues for inclusion in the host program.
package embedder

import (
	"errors"
	"fmt"
	"os"

	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/registry"
	"codeberg.org/pixivfe/gettextgen/i18n"
)

// Artifact is the compiled catalogue of one locale.
type Artifact struct {
	Locale string
	Path   string
	Data   []byte
}

// Assemble reads the compiled catalogue of every locale of md, in record
// order. Repeated locales yield repeated artifacts.
func Assemble(layout registry.Layout, md *registry.Metadata) ([]Artifact, error) {
	out := make([]Artifact, 0, len(md.Locales))

	for _, locale := range md.Locales {
		path := layout.CompiledPath(md.Domain, locale)

		data, err := os.ReadFile(path) // #nosec G304 -- path is derived from the project layout
		if err != nil {
			kind := failure.ErrCatalogIO
			if errors.Is(err, os.ErrNotExist) {
				kind = failure.ErrMissingArtifact
			}

			return nil, failure.Newf(kind, "embed", "%s: %w", path, err).
				WithDomain(md.Domain).
				WithLocale(locale)
		}

		out = append(out, Artifact{Locale: locale, Path: path, Data: data})
	}

	return out, nil
}

// Translations parses artifacts into the runtime structure.
func Translations(domain string, artifacts []Artifact) (*i18n.Translations, error) {
	catalogs := make([]*i18n.Catalog, 0, len(artifacts))

	for _, a := range artifacts {
		c, err := i18n.NewCatalog(domain, a.Locale, a.Data)
		if err != nil {
			return nil, failure.New(failure.ErrMissingArtifact, "embed", fmt.Errorf("%s: %w", a.Path, err)).
				WithDomain(domain).
				WithLocale(a.Locale)
		}

		catalogs = append(catalogs, c)
	}

	return i18n.New(domain, catalogs...), nil
}

// Load assembles the artifacts of md and parses them.
func Load(layout registry.Layout, md *registry.Metadata) (*i18n.Translations, error) {
	artifacts, err := Assemble(layout, md)
	if err != nil {
		return nil, err
	}

	return Translations(md.Domain, artifacts)
}
