// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package embedder

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/core/atomicfile"
	"codeberg.org/pixivfe/gettextgen/core/failure"
	"codeberg.org/pixivfe/gettextgen/core/registry"
)

// DefaultRuntimePackage is the import path of the runtime used by generated code.
const DefaultRuntimePackage = "codeberg.org/pixivfe/gettextgen/i18n"

const filePermissions = 0o644

var errOutsideOutput = errors.New("compiled catalogs must be inside the directory of the generated file")

// Options configures Generate.
type Options struct {
	// Output is the path of the generated file. Compiled catalogues must live
	// below its directory.
	Output string
	// Package is the package clause of the generated file. It defaults to the
	// name of Output's directory.
	Package string
	// RuntimePackage is the import path of the runtime.
	RuntimePackage string
}

type fileData struct {
	Package        string
	RuntimePackage string
	Domain         string
	Dir            string
	Locales        []string
	Patterns       []string
}

var fileTemplate = template.Must(template.New("embed").Parse(`// Code generated by gettextgen. DO NOT EDIT.

package {{.Package}}

import (
	"embed"

	i18n "{{.RuntimePackage}}"
)

{{range .Patterns}}//go:embed {{printf "%q" .}}
{{end -}}
var catalogs embed.FS

// Domain is the translation domain of the embedded catalogs.
const Domain = {{printf "%q" .Domain}}

// Locales lists the embedded locales in registration order.
var Locales = []string{ {{- range $i, $l := .Locales}}{{if $i}}, {{end}}{{printf "%q" $l}}{{end -}} }

// Translations parses the embedded catalogs.
func Translations() (*i18n.Translations, error) {
	return i18n.LoadDir(catalogs, {{printf "%q" .Dir}}, Domain, Locales...)
}
`))

// Generate writes a Go source file embedding the compiled catalogues of md.
// Every catalogue must exist.
func Generate(w io.Writer, layout registry.Layout, md *registry.Metadata, opts Options) error {
	src, err := generate(layout, md, opts)
	if err != nil {
		return err
	}

	if _, err := w.Write(src); err != nil {
		return failure.New(failure.ErrCatalogIO, "embed", err).WithDomain(md.Domain)
	}

	return nil
}

// WriteFile generates opts.Output, leaving it untouched when its content
// would not change.
func WriteFile(layout registry.Layout, md *registry.Metadata, opts Options) error {
	src, err := generate(layout, md, opts)
	if err != nil {
		return err
	}

	written, err := atomicfile.WriteIfChanged(opts.Output, src, filePermissions)
	if err != nil {
		return failure.New(failure.ErrCatalogIO, "embed", err).WithDomain(md.Domain)
	}

	log.Info().
		Str("sys", "embedder").
		Str("path", opts.Output).
		Strs("locales", md.Locales).
		Bool("written", written).
		Msg("Generated catalog embedding")

	return nil
}

func generate(layout registry.Layout, md *registry.Metadata, opts Options) ([]byte, error) {
	if opts.Output == "" {
		return nil, failure.Newf(failure.ErrConfiguration, "embed", "no output file given").WithDomain(md.Domain)
	}

	artifacts, err := Assemble(layout, md)
	if err != nil {
		return nil, err
	}

	outDir, err := filepath.Abs(filepath.Dir(opts.Output))
	if err != nil {
		return nil, failure.New(failure.ErrConfiguration, "embed", err).WithDomain(md.Domain)
	}

	data := fileData{
		Package:        opts.Package,
		RuntimePackage: opts.RuntimePackage,
		Domain:         md.Domain,
		Locales:        md.Locales,
	}

	if data.Package == "" {
		data.Package = packageName(outDir)
	}

	if data.RuntimePackage == "" {
		data.RuntimePackage = DefaultRuntimePackage
	}

	if data.Dir, err = relativeTo(outDir, layout.TranslationsPath()); err != nil {
		return nil, failure.New(failure.ErrConfiguration, "embed", err).WithDomain(md.Domain)
	}

	seen := make(map[string]struct{}, len(artifacts))

	for _, a := range artifacts {
		rel, err := relativeTo(outDir, a.Path)
		if err != nil {
			return nil, failure.New(failure.ErrConfiguration, "embed", err).WithDomain(md.Domain).WithLocale(a.Locale)
		}

		if _, ok := seen[rel]; ok {
			continue
		}

		seen[rel] = struct{}{}
		data.Patterns = append(data.Patterns, rel)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, failure.New(failure.ErrConfiguration, "embed", err).WithDomain(md.Domain)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, failure.Newf(failure.ErrConfiguration, "embed", "generated invalid Go source: %w", err).WithDomain(md.Domain)
	}

	return src, nil
}

// relativeTo returns target relative to dir, slash-separated, failing when
// target is not below dir.
func relativeTo(dir, target string) (string, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errOutsideOutput, err)
	}

	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s is outside %s", errOutsideOutput, target, dir)
	}

	return rel, nil
}

// packageName derives a package clause from a directory name.
func packageName(dir string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r - 'A' + 'a'
		default:
			return -1
		}
	}, filepath.Base(dir))

	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		return "translations"
	}

	return name
}
