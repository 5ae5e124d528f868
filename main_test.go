// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/gettextgen/config"
	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/pot"
	"codeberg.org/pixivfe/gettextgen/core/toolchain"
)

// newTestApp loads the configuration of a fresh project using the native
// toolchain.
func newTestApp(t *testing.T, env map[string]string) (*app, *bytes.Buffer) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/demo\n"), 0o644))

	t.Setenv("GETTEXTGEN_ROOT", root)
	t.Setenv("GETTEXTGEN_TOOLCHAIN", toolchain.KindNative)

	for k, v := range env {
		t.Setenv(k, v)
	}

	var cfg config.Config
	require.NoError(t, cfg.Load(""))

	var stdout bytes.Buffer

	return newApp(&cfg, &stdout), &stdout
}

func TestDispatchUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t, nil)

	err := a.dispatch(context.Background(), "translate", nil)
	require.ErrorIs(t, err, errUnknownCommand)
	assert.ErrorIs(t, err, errUsage)
}

func TestStepsBeforeInit(t *testing.T) {
	a, _ := newTestApp(t, nil)

	for _, cmd := range []string{"domain", "extract", "compile", "embed"} {
		err := a.dispatch(context.Background(), cmd, nil)
		assert.ErrorIs(t, err, failure.ErrConfiguration, cmd)
	}
}

func TestInitAndDomain(t *testing.T) {
	a, stdout := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, "init", []string{"demo", "fr", "de", "fr"}))
	require.NoError(t, a.dispatch(ctx, "domain", nil))
	assert.Equal(t, "demo\n", stdout.String())

	md, err := a.registry().Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"fr", "de"}, md.Locales)

	assert.FileExists(t, a.layout.TemplatePath("demo"))

	err = a.dispatch(ctx, "init", []string{"my domain"})
	assert.ErrorIs(t, err, failure.ErrConfiguration)
}

func TestInitFromConfiguration(t *testing.T) {
	a, _ := newTestApp(t, map[string]string{
		"GETTEXTGEN_DOMAIN":                 "webapp",
		"GETTEXTGEN_LOCALES":                "ja,ja",
		"GETTEXTGEN_KEEP_DUPLICATE_LOCALES": "true",
	})

	require.NoError(t, a.dispatch(context.Background(), "init", nil))

	md, err := a.registry().Load()
	require.NoError(t, err)
	assert.Equal(t, "webapp", md.Domain)
	assert.Equal(t, []string{"ja", "ja"}, md.Locales)
}

func TestCompileAndEmbed(t *testing.T) {
	a, _ := newTestApp(t, map[string]string{"SOURCE_DATE_EPOCH": "0"})
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, "init", []string{"demo", "fr"}))

	tmpl := a.templates()
	_, err := tmpl.Record("demo", pot.Message{ID: "Hello", File: "main.go", Line: 3})
	require.NoError(t, err)

	header, err := os.ReadFile(a.layout.TemplatePath("demo"))
	require.NoError(t, err)
	assert.Contains(t, string(header), `"POT-Creation-Date: 1970-01-01 00:00+0000\n"`)

	require.NoError(t, a.dispatch(ctx, "compile", nil))

	po, err := os.ReadFile(a.layout.LocalePath("fr"))
	require.NoError(t, err)
	assert.Contains(t, string(po), `msgid "Hello"`)

	// Translate and recompile.
	translated := strings.Replace(string(po), "msgid \"Hello\"\nmsgstr \"\"", "msgid \"Hello\"\nmsgstr \"Bonjour\"", 1)
	require.NoError(t, os.WriteFile(a.layout.LocalePath("fr"), []byte(translated), 0o644))
	require.NoError(t, a.dispatch(ctx, "compile", nil))

	data, err := os.ReadFile(a.layout.CompiledPath("demo", "fr"))
	require.NoError(t, err)

	mo := gotext.NewMo()
	mo.Parse(data)
	assert.Equal(t, "Bonjour", mo.Get("Hello"))

	require.NoError(t, a.dispatch(ctx, "embed", []string{"-o", "catalogs.go", "-pkg", "l10n"}))

	src, err := os.ReadFile(filepath.Join(a.cfg.Project.Root, "catalogs.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package l10n")
	assert.Contains(t, string(src), `//go:embed "translations/fr/LC_MESSAGES/demo.mo"`)

	err = a.dispatch(ctx, "embed", []string{"-unknown"})
	assert.ErrorIs(t, err, failure.ErrConfiguration)
}

func TestEmbedBeforeCompile(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()

	require.NoError(t, a.dispatch(ctx, "init", []string{"demo", "fr"}))

	err := a.dispatch(ctx, "embed", nil)
	assert.ErrorIs(t, err, failure.ErrMissingArtifact)
}
