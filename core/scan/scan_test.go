// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package scan

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/pixivfe/gettextgen/core/callsite"
	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/pot"
)

const source = `package main

import (
	tr "codeberg.org/pixivfe/gettextgen/i18n"
	"example.com/other"
)

func main() {
	cat := tr.MustLoad()
	_ = tr.Tr(cat, "Hello")
	//i18n:extract cat, "From a directive"
	_ = tr.TrN(cat, "one file", "{} files", len(files), user.Name)
	_ = tr.MustTr(cat, ` + "`raw`" + `, args...)
	_ = other.Tr(cat, "ignored")
	//i18n:extractor is not a directive
}
`

type memoryRecorder struct {
	msgs []pot.Message
}

func (m *memoryRecorder) Record(_ string, msg pot.Message) (bool, error) {
	for _, seen := range m.msgs {
		if seen.ID == msg.ID {
			return false, nil
		}
	}

	m.msgs = append(m.msgs, msg)

	return true, nil
}

func parseSource(t *testing.T, root, src string) (*token.FileSet, *ast.File) {
	t.Helper()

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, filepath.Join(root, "cmd", "main.go"), src, parser.ParseComments)
	require.NoError(t, err)

	return fset, f
}

func TestSites(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fset, f := parseSource(t, root, source)

	sites, err := New(Options{Root: root}).Sites(fset, f)
	require.NoError(t, err)

	lit := func(s string) callsite.Token { return callsite.Lit(s) }
	comma := callsite.Punc(",")

	want := [][]callsite.Token{
		{callsite.Expr("cat"), comma, lit("Hello")},
		{callsite.Name("cat"), comma, lit("From a directive")},
		{
			callsite.Expr("cat"), comma, lit("one file"), comma, lit("{} files"),
			callsite.Punc(";"), callsite.Expr("len(files)"), comma, callsite.Expr("user.Name"),
		},
		{callsite.Expr("cat"), comma, {Kind: callsite.Literal, Text: "`raw`", Value: "raw"}, callsite.Punc(";"), callsite.Expr("args...")},
	}

	got := make([][]callsite.Token, 0, len(sites))
	for _, s := range sites {
		got = append(got, s.Tokens)
	}

	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(callsite.Token{}, "Pos")); diff != "" {
		t.Errorf("sites mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, sites[1].Directive)
	assert.Equal(t, "cmd/main.go", sites[0].Pos.Filename)
	assert.Equal(t, 10, sites[0].Pos.Line)
	assert.Equal(t, 11, sites[1].Tokens[0].Pos.Line)
}

func TestScanFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fset, f := parseSource(t, root, source)

	rec := &memoryRecorder{}
	ex := callsite.NewExtractor("demo", rec)

	require.NoError(t, New(Options{Root: root}).ScanFile(fset, f, ex))

	want := []pot.Message{
		{ID: "Hello", File: "cmd/main.go", Line: 10},
		{ID: "From a directive", File: "cmd/main.go", Line: 11},
		{ID: "one file", Plural: "{} files", File: "cmd/main.go", Line: 12},
		{ID: "raw", File: "cmd/main.go", Line: 13},
	}
	if diff := cmp.Diff(want, rec.msgs); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 4, ex.Seen)
	assert.Equal(t, 4, ex.Added)
}

func TestScanFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		kind error
	}{
		{
			name: "dynamic message",
			body: `_ = i18n.Tr(cat, msg)`,
			kind: failure.ErrParse,
		},
		{
			name: "dynamic plural",
			body: `_ = i18n.TrN(cat, "one", many, n)`,
			kind: failure.ErrParse,
		},
		{
			name: "missing item count",
			body: `_ = i18n.TrN(cat, "one", "{} many")`,
			kind: failure.ErrConfiguration,
		},
		{
			name: "malformed directive",
			body: "//i18n:extract cat, \"unterminated\n\t_ = cat",
			kind: failure.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := "package main\n\nimport \"codeberg.org/pixivfe/gettextgen/i18n\"\n\nfunc main() {\n\t" + tt.body + "\n}\n"
			fset, f := parseSource(t, t.TempDir(), src)

			err := New(Options{}).ScanFile(fset, f, callsite.NewExtractor("demo", &memoryRecorder{}))
			require.ErrorIs(t, err, tt.kind)

			var fe *failure.Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "demo", fe.Domain)
		})
	}
}

func TestSitesWithoutRuntimeImport(t *testing.T) {
	t.Parallel()

	src := "package main\n\nimport . \"codeberg.org/pixivfe/gettextgen/i18n\"\n\n" +
		"//gettext:extract cat, \"custom prefix\"\n" +
		"var _ = i18n.Tr(cat, \"not the runtime\")\n"
	fset, f := parseSource(t, t.TempDir(), src)

	sites, err := New(Options{DirectivePrefix: "gettext:"}).Sites(fset, f)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	assert.Equal(t, "custom prefix", sites[0].Tokens[2].Value)
}

func TestInits(t *testing.T) {
	t.Parallel()

	src := "package main\n\n//i18n:init \"demo\", fr, pt_BR\nfunc main() {}\n"
	fset, f := parseSource(t, t.TempDir(), src)

	inits, err := New(Options{}).Inits(fset, f)
	require.NoError(t, err)
	require.Len(t, inits, 1)
	assert.Equal(t, "demo", inits[0].Domain)
	assert.Equal(t, []string{"fr", "pt_BR"}, inits[0].Locales)
	assert.Equal(t, 3, inits[0].Pos.Line)

	fset, f = parseSource(t, t.TempDir(), "package main\n\n//i18n:init demo\n")
	_, err = New(Options{}).Inits(fset, f)
	assert.ErrorIs(t, err, failure.ErrConfiguration)
}

func TestScanModule(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("loads packages with the go command")
	}

	root := t.TempDir()
	files := map[string]string{
		"go.mod":       "module example.com/demo\n\ngo 1.22\n",
		"i18n/i18n.go": "package i18n\n\nfunc Tr(cat any, msg string, args ...any) string { return msg }\n",
		"main.go": "package main\n\nimport \"example.com/demo/i18n\"\n\n" +
			"//i18n:init \"demo\", fr\nfunc main() {\n\t_ = i18n.Tr(nil, \"Hello\")\n}\n",
	}

	for name, contents := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	}

	s := New(Options{Root: root, RuntimePackage: "example.com/demo/i18n"})

	in, err := s.FindInit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, in)
	assert.Equal(t, "demo", in.Domain)
	assert.Equal(t, []string{"fr"}, in.Locales)
	assert.Equal(t, "main.go", in.Pos.Filename)

	rec := &memoryRecorder{}
	require.NoError(t, s.Scan(context.Background(), callsite.NewExtractor("demo", rec)))
	assert.Equal(t, []pot.Message{{ID: "Hello", File: "main.go", Line: 7}}, rec.msgs)
}
