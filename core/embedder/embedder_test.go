// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package embedder

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/po"
	"codeberg.org/pixivfe/gettextgen/core/registry"
	"codeberg.org/pixivfe/gettextgen/i18n"
)

const generated = `// Code generated by gettextgen. DO NOT EDIT.

package app

import (
	"embed"

	i18n "codeberg.org/pixivfe/gettextgen/i18n"
)

//go:embed "translations/fr/LC_MESSAGES/demo.mo"
//go:embed "translations/de/LC_MESSAGES/demo.mo"
var catalogs embed.FS

// Domain is the translation domain of the embedded catalogs.
const Domain = "demo"

// Locales lists the embedded locales in registration order.
var Locales = []string{"fr", "de", "fr"}

// Translations parses the embedded catalogs.
func Translations() (*i18n.Translations, error) {
	return i18n.LoadDir(catalogs, "translations", Domain, Locales...)
}
`

func writeCompiled(t *testing.T, layout registry.Layout, domain, locale, hello string) {
	t.Helper()

	f := &po.File{Entries: []*po.Entry{{ID: "Hello", Str: []string{hello}}}}
	f.SetHeaderField("Language", locale)
	f.SetHeaderField("Plural-Forms", "nplurals=2; plural=(n != 1);")

	var buf bytes.Buffer
	require.NoError(t, f.WriteMO(&buf))

	path := layout.CompiledPath(domain, locale)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func newLayout(t *testing.T) (registry.Layout, *registry.Metadata) {
	t.Helper()

	layout := registry.DefaultLayout(t.TempDir(), "demo")
	writeCompiled(t, layout, "demo", "fr", "Bonjour")
	writeCompiled(t, layout, "demo", "de", "Hallo")

	return layout, &registry.Metadata{Domain: "demo", Locales: []string{"fr", "de", "fr"}}
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	layout, md := newLayout(t)

	artifacts, err := Assemble(layout, md)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	for i, locale := range md.Locales {
		assert.Equal(t, locale, artifacts[i].Locale)
		assert.Equal(t, layout.CompiledPath("demo", locale), artifacts[i].Path)
		assert.NotEmpty(t, artifacts[i].Data)
	}

	assert.Equal(t, artifacts[0].Data, artifacts[2].Data)
}

func TestAssembleMissingArtifact(t *testing.T) {
	t.Parallel()

	layout, md := newLayout(t)
	md.Locales = append(md.Locales, "ja")

	_, err := Assemble(layout, md)
	require.ErrorIs(t, err, failure.ErrMissingArtifact)
	require.ErrorIs(t, err, i18n.ErrMissingArtifact)

	var fe *failure.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "ja", fe.Locale)
}

func TestTranslations(t *testing.T) {
	t.Parallel()

	layout, md := newLayout(t)

	tr, err := Load(layout, md)
	require.NoError(t, err)

	assert.Equal(t, []string{"fr", "de", "fr"}, tr.Locales())
	assert.Equal(t, "Hallo", i18n.MustTr(tr.Lookup("de"), "Hello"))
	assert.Equal(t, "Bonjour", i18n.MustTr(tr.Match("fr-BE"), "Hello"))

	_, err = Translations("demo", []Artifact{{Locale: "fr", Path: "fr.mo", Data: []byte("garbage")}})
	assert.ErrorIs(t, err, failure.ErrMissingArtifact)
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	layout, md := newLayout(t)

	var buf bytes.Buffer
	err := Generate(&buf, layout, md, Options{
		Output:  filepath.Join(layout.Root, "catalogs.go"),
		Package: "app",
	})
	require.NoError(t, err)
	assert.Equal(t, generated, buf.String())
}

func TestGenerateOutsideOutputDir(t *testing.T) {
	t.Parallel()

	layout, md := newLayout(t)

	err := Generate(&bytes.Buffer{}, layout, md, Options{Output: filepath.Join(layout.Root, "internal", "catalogs.go")})
	require.ErrorIs(t, err, failure.ErrConfiguration)
	assert.ErrorIs(t, err, errOutsideOutput)

	err = Generate(&bytes.Buffer{}, layout, md, Options{})
	assert.ErrorIs(t, err, failure.ErrConfiguration)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	layout, md := newLayout(t)
	out := filepath.Join(layout.Root, "catalogs.go")

	require.NoError(t, WriteFile(layout, md, Options{Output: out, Package: "app"}))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, generated, string(data))

	require.NoError(t, WriteFile(layout, md, Options{Output: out, Package: "app"}))
}

func TestPackageName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/src/app":          "app",
		"/src/My-Project":   "myproject",
		"/src/i18n_catalog": "i18n_catalog",
		"/src/2024":         "translations",
	}

	for dir, want := range tests {
		assert.Equal(t, want, packageName(filepath.FromSlash(dir)), dir)
	}
}
