// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"encoding/binary"
	"fmt"
	"path"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/leonelquinteros/gotext/plurals"
	"golang.org/x/text/language"
)

const moMagic uint32 = 0x950412de

// DefaultDir is the directory compiled catalogues are kept in, relative to
// the project root.
const DefaultDir = "translations"

// CatalogPath returns the slash-separated path of the compiled catalogue of
// domain for locale, relative to the project root.
func CatalogPath(domain, locale string) string {
	return catalogPath(DefaultDir, domain, locale)
}

func catalogPath(dir, domain, locale string) string {
	return path.Join(dir, locale, "LC_MESSAGES", domain+".mo")
}

// Catalog is the compiled catalogue of one locale.
type Catalog struct {
	domain string
	locale string
	tag    language.Tag

	translations map[string]*gotext.Translation
	plural       func(n int) int
}

// NewCatalog parses the MO data of domain for locale.
func NewCatalog(domain, locale string, data []byte) (*Catalog, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: %s: truncated data", errInvalidCatalog, locale)
	}

	if m := binary.LittleEndian.Uint32(data); m != moMagic && binary.BigEndian.Uint32(data) != moMagic {
		return nil, fmt.Errorf("%w: %s: bad magic number %#x", errInvalidCatalog, locale, m)
	}

	tag, err := ParseLocale(locale)
	if err != nil {
		return nil, err
	}

	mo := gotext.NewMo()
	mo.Parse(data)

	return &Catalog{
		domain:       domain,
		locale:       locale,
		tag:          tag,
		translations: mo.GetDomain().GetTranslations(),
		plural:       pluralFunc(mo.PluralForms),
	}, nil
}

// pluralFunc compiles the plural= expression of a Plural-Forms header value.
// Headers that are absent or fail to compile get the Germanic rule.
func pluralFunc(header string) func(n int) int {
	for _, field := range strings.Split(header, ";") {
		key, value, ok := strings.Cut(field, "=")
		if !ok || strings.TrimSpace(key) != "plural" {
			continue
		}

		expr, err := plurals.Compile(strings.TrimSpace(value))
		if err != nil {
			break
		}

		return func(n int) int {
			if n < 0 {
				n = -n
			}

			return expr.Eval(uint32(n))
		}
	}

	return func(n int) int {
		if n == 1 {
			return 0
		}

		return 1
	}
}

// ParseLocale parses a locale identifier such as "pt_BR" as a language tag.
func ParseLocale(locale string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", locale, err)
	}

	return tag, nil
}

// Domain returns the translation domain of c.
func (c *Catalog) Domain() string { return c.domain }

// Locale returns the locale identifier c was loaded for.
func (c *Catalog) Locale() string { return c.locale }

// Tag returns the language tag of c.
func (c *Catalog) Tag() language.Tag { return c.tag }

// Get returns the translation of msgid. It reports false and returns msgid
// when there is none.
func (c *Catalog) Get(msgid string) (string, bool) {
	if c == nil {
		return msgid, false
	}

	tr, ok := c.translations[msgid]
	if !ok || !tr.IsTranslated() {
		return msgid, false
	}

	return tr.Get(), true
}

// GetN returns the plural form of msgid for n. Without a translation it
// returns msgid when n is 1 and plural otherwise.
func (c *Catalog) GetN(msgid, plural string, n int) (string, bool) {
	fallback := plural
	if n == 1 {
		fallback = msgid
	}

	if c == nil {
		return fallback, false
	}

	tr, ok := c.translations[msgid]
	if !ok {
		return fallback, false
	}

	if idx := c.plural(n); tr.IsTranslatedN(idx) {
		return tr.GetN(idx), true
	}

	return fallback, false
}

func (c *Catalog) String() string {
	if c == nil {
		return "<nil>"
	}

	return c.domain + "/" + c.locale
}
