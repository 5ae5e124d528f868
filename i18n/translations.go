// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/text/language"
)

// Translations holds the compiled catalogues of one domain in registration
// order. Repeated locales are kept as separate entries; lookups resolve to
// the first one.
type Translations struct {
	domain   string
	catalogs []*Catalog

	// tags and byTag cover the distinct tags, in first-seen order.
	tags    []language.Tag
	byTag   map[language.Tag]*Catalog
	matcher language.Matcher
}

// New returns the translations of domain made of catalogs, in order.
func New(domain string, catalogs ...*Catalog) *Translations {
	t := &Translations{
		domain:   domain,
		catalogs: catalogs,
		byTag:    make(map[language.Tag]*Catalog, len(catalogs)),
	}

	for _, c := range catalogs {
		if _, ok := t.byTag[c.tag]; ok {
			continue
		}

		t.byTag[c.tag] = c
		t.tags = append(t.tags, c.tag)
	}

	if len(t.tags) > 0 {
		t.matcher = language.NewMatcher(t.tags)
	}

	return t
}

// Load reads the compiled catalogues of domain for locales from fsys, laid out
// as described by CatalogPath. A missing catalogue fails with
// ErrMissingArtifact.
func Load(fsys fs.FS, domain string, locales ...string) (*Translations, error) {
	return LoadDir(fsys, DefaultDir, domain, locales...)
}

// LoadDir is like Load with catalogues read from dir/<locale>/LC_MESSAGES
// instead of DefaultDir.
func LoadDir(fsys fs.FS, dir, domain string, locales ...string) (*Translations, error) {
	catalogs := make([]*Catalog, 0, len(locales))

	for _, locale := range locales {
		name := catalogPath(dir, domain, locale)

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrMissingArtifact, name)
			}

			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		c, err := NewCatalog(domain, locale, data)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}

		catalogs = append(catalogs, c)
	}

	return New(domain, catalogs...), nil
}

// Domain returns the translation domain.
func (t *Translations) Domain() string {
	return t.domain
}

// Len returns the number of catalogues, repeated locales included.
func (t *Translations) Len() int {
	return len(t.catalogs)
}

// Locales returns the locale of every catalogue, in order.
func (t *Translations) Locales() []string {
	out := make([]string, len(t.catalogs))
	for i, c := range t.catalogs {
		out[i] = c.locale
	}

	return out
}

// Catalogs returns a copy of the catalogue list.
func (t *Translations) Catalogs() []*Catalog {
	return append([]*Catalog(nil), t.catalogs...)
}

// Languages returns the distinct language tags, in first-seen order.
func (t *Translations) Languages() []language.Tag {
	return append([]language.Tag(nil), t.tags...)
}

// Lookup returns the catalogue whose locale is exactly locale, or whose tag
// is equivalent to it, or nil.
func (t *Translations) Lookup(locale string) *Catalog {
	for _, c := range t.catalogs {
		if c.locale == locale {
			return c
		}
	}

	tag, err := ParseLocale(locale)
	if err != nil {
		return nil
	}

	return t.byTag[tag]
}

// Match returns the catalogue that best serves the user preferences, given as
// locale identifiers or Accept-Language values in priority order. It returns
// nil when no catalogue is a reasonable match.
func (t *Translations) Match(preferred ...string) *Catalog {
	if t.matcher == nil {
		return nil
	}

	var want []language.Tag

	for _, p := range preferred {
		tags, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			if tag, err := ParseLocale(p); err == nil {
				want = append(want, tag)
			}

			continue
		}

		want = append(want, tags...)
	}

	if len(want) == 0 {
		return nil
	}

	_, index, confidence := t.matcher.Match(want...)
	if confidence == language.No {
		return nil
	}

	return t.byTag[t.tags[index]]
}
