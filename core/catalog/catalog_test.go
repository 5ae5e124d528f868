// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leonelquinteros/gotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/pot"
	"codeberg.org/pixivfe/gettextgen/core/registry"
	"codeberg.org/pixivfe/gettextgen/core/toolchain"
)

// recorder wraps a toolchain and records every call.
type recorder struct {
	next  toolchain.Toolchain
	calls []string
	fail  map[string]error
}

func (r *recorder) Merge(ctx context.Context, poPath, potPath string) error {
	r.calls = append(r.calls, "merge "+poPath)
	if err := r.fail["merge"]; err != nil {
		return err
	}

	return r.next.Merge(ctx, poPath, potPath)
}

func (r *recorder) Bootstrap(ctx context.Context, potPath, poPath, locale string) error {
	r.calls = append(r.calls, "bootstrap "+locale)
	if err := r.fail["bootstrap"]; err != nil {
		return err
	}

	return r.next.Bootstrap(ctx, potPath, poPath, locale)
}

func (r *recorder) Compile(ctx context.Context, poPath, moPath string) error {
	r.calls = append(r.calls, "compile "+moPath)
	if err := r.fail["compile"]; err != nil {
		return err
	}

	return r.next.Compile(ctx, poPath, moPath)
}

type project struct {
	layout   registry.Layout
	meta     *registry.Metadata
	template *pot.Manager
}

func newProject(t *testing.T, locales ...string) *project {
	t.Helper()

	layout := registry.DefaultLayout(t.TempDir(), "demo")
	templates := pot.NewManager(layout)

	md, err := registry.New(layout, templates).Initialize("demo", locales)
	require.NoError(t, err)

	p := &project{layout: layout, meta: md, template: templates}
	p.record(t, pot.Message{ID: "Hello", File: "main.go", Line: 3})
	p.record(t, pot.Message{ID: "one file", Plural: "{} files", File: "main.go", Line: 4})

	return p
}

func (p *project) record(t *testing.T, msg pot.Message) {
	t.Helper()

	_, err := p.template.Record(p.meta.Domain, msg)
	require.NoError(t, err)
}

func (p *project) readLocale(t *testing.T, locale string) string {
	t.Helper()

	data, err := os.ReadFile(p.layout.LocalePath(locale))
	require.NoError(t, err)

	return string(data)
}

func TestSynchronizeBootstrapsThenMerges(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr", "de")
	rec := &recorder{next: toolchain.NewNative()}
	sync := NewSynchronizer(p.layout, rec)

	require.NoError(t, sync.Synchronize(context.Background(), p.meta))
	require.NoError(t, sync.Synchronize(context.Background(), p.meta))

	want := []string{
		"bootstrap fr",
		"bootstrap de",
		"merge " + p.layout.LocalePath("fr"),
		"merge " + p.layout.LocalePath("de"),
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSynchronizeIsIdempotent(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr")
	sync := NewSynchronizer(p.layout, toolchain.NewNative())

	require.NoError(t, sync.Synchronize(context.Background(), p.meta))
	first := p.readLocale(t, "fr")

	require.NoError(t, sync.Synchronize(context.Background(), p.meta))
	assert.Equal(t, first, p.readLocale(t, "fr"))
}

func TestSynchronizePreservesTranslations(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr")
	sync := NewSynchronizer(p.layout, toolchain.NewNative())
	require.NoError(t, sync.Synchronize(context.Background(), p.meta))

	translated := strings.Replace(p.readLocale(t, "fr"),
		"msgid \"Hello\"\nmsgstr \"\"", "msgid \"Hello\"\nmsgstr \"Bonjour\"", 1)
	require.NoError(t, os.WriteFile(p.layout.LocalePath("fr"), []byte(translated), 0o644))

	p.record(t, pot.Message{ID: "Goodbye", File: "main.go", Line: 9})
	require.NoError(t, sync.Synchronize(context.Background(), p.meta))

	got := p.readLocale(t, "fr")
	assert.Contains(t, got, "msgid \"Hello\"\nmsgstr \"Bonjour\"")
	assert.Contains(t, got, "msgid \"Goodbye\"\nmsgstr \"\"")
	assert.Equal(t, 1, strings.Count(got, "msgid \"Hello\""))
}

func TestSynchronizeFailure(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr", "de")
	toolErr := &toolchain.ToolError{Tool: "msginit", Output: "msginit: invalid locale\n", Err: errors.New("exit status 1")}
	rec := &recorder{next: toolchain.NewNative(), fail: map[string]error{"bootstrap": toolErr}}

	err := NewSynchronizer(p.layout, rec).Synchronize(context.Background(), p.meta)
	require.ErrorIs(t, err, failure.ErrSync)

	var fe *failure.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "fr", fe.Locale)
	assert.Equal(t, "demo", fe.Domain)
	assert.Equal(t, "msginit: invalid locale\n", fe.Output)
	assert.Equal(t, []string{"bootstrap fr"}, rec.calls, "the first failure stops the run")
}

func TestSynchronizeMissingTemplate(t *testing.T) {
	t.Parallel()

	layout := registry.DefaultLayout(t.TempDir(), "demo")
	md := &registry.Metadata{Domain: "demo", Locales: []string{"fr"}}

	err := NewSynchronizer(layout, toolchain.NewNative()).Synchronize(context.Background(), md)
	assert.ErrorIs(t, err, failure.ErrCatalogIO)
}

func TestCompile(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr")
	require.NoError(t, NewSynchronizer(p.layout, toolchain.NewNative()).Synchronize(context.Background(), p.meta))

	translated := strings.Replace(p.readLocale(t, "fr"),
		"msgid \"Hello\"\nmsgstr \"\"", "msgid \"Hello\"\nmsgstr \"Bonjour\"", 1)
	require.NoError(t, os.WriteFile(p.layout.LocalePath("fr"), []byte(translated), 0o644))

	require.NoError(t, NewCompiler(p.layout, toolchain.NewNative()).Compile(context.Background(), p.meta))

	data, err := os.ReadFile(p.layout.CompiledPath("demo", "fr"))
	require.NoError(t, err)

	mo := gotext.NewMo()
	mo.Parse(data)
	assert.Equal(t, "Bonjour", mo.Get("Hello"))
	assert.Equal(t, "one file", mo.GetN("one file", "{} files", 1), "untranslated messages fall back to the msgid")
}

func TestCompileMissingLocaleCatalog(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr")
	rec := &recorder{next: toolchain.NewNative()}

	err := NewCompiler(p.layout, rec).Compile(context.Background(), p.meta)
	require.ErrorIs(t, err, failure.ErrCompile)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, rec.calls)
}

func TestCompileFailure(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr")
	require.NoError(t, NewSynchronizer(p.layout, toolchain.NewNative()).Synchronize(context.Background(), p.meta))

	toolErr := &toolchain.ToolError{Tool: "msgfmt", Output: "fr.po:7: end-of-line within string\n", Err: errors.New("exit status 1")}
	rec := &recorder{fail: map[string]error{"compile": toolErr}}

	err := NewCompiler(p.layout, rec).Compile(context.Background(), p.meta)
	require.ErrorIs(t, err, failure.ErrCompile)
	assert.Contains(t, err.Error(), "fr.po:7: end-of-line within string")

	_, statErr := os.Stat(p.layout.CompiledDir("fr"))
	assert.NoError(t, statErr, "output directories are created before compiling")
}

func TestRun(t *testing.T) {
	t.Parallel()

	p := newProject(t, "fr", "ja")
	require.NoError(t, Run(context.Background(), p.layout, toolchain.NewNative(), p.meta))

	for _, locale := range p.meta.Locales {
		_, err := os.Stat(p.layout.CompiledPath("demo", locale))
		assert.NoError(t, err, locale)
	}
}
