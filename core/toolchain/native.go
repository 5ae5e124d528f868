// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package toolchain

import (
	"bytes"
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/pixivfe/gettextgen/core/atomicfile"
	"codeberg.org/pixivfe/gettextgen/core/po"
)

const filePermissions = 0o644

// Native performs merge, bootstrap and compile in-process.
//
// Merge keeps the translations and header of the locale catalogue, orders
// entries like the template and turns entries that left the template into
// obsolete "#~" entries. Unchanged catalogues are not rewritten.
type Native struct {
	logger zerolog.Logger
}

// NewNative returns a Native toolchain.
func NewNative() *Native {
	return &Native{
		logger: log.With().Str("sys", "toolchain").Str("kind", KindNative).Logger(),
	}
}

func (n *Native) Merge(ctx context.Context, poPath, potPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	def, err := po.ReadFile(poPath)
	if err != nil {
		return n.fail("merge", err)
	}

	ref, err := po.ReadFile(potPath)
	if err != nil {
		return n.fail("merge", err)
	}

	written, err := atomicfile.WriteIfChanged(poPath, merge(def, ref).Bytes(), filePermissions)
	if err != nil {
		return n.fail("merge", err)
	}

	n.logger.Debug().Str("path", poPath).Bool("written", written).Msg("Merged locale catalogue")

	return nil
}

func (n *Native) Bootstrap(ctx context.Context, potPath, poPath, locale string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ref, err := po.ReadFile(potPath)
	if err != nil {
		return n.fail("bootstrap", err)
	}

	if err := atomicfile.Write(poPath, bootstrap(ref, locale).Bytes(), filePermissions); err != nil {
		return n.fail("bootstrap", err)
	}

	n.logger.Debug().Str("path", poPath).Str("locale", locale).Msg("Created locale catalogue")

	return nil
}

func (n *Native) Compile(ctx context.Context, poPath, moPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := po.ReadFile(poPath)
	if err != nil {
		return n.fail("compile", err)
	}

	var buf bytes.Buffer
	if err := f.WriteMO(&buf); err != nil {
		return n.fail("compile", err)
	}

	if err := atomicfile.Write(moPath, buf.Bytes(), filePermissions); err != nil {
		return n.fail("compile", err)
	}

	n.logger.Debug().
		Str("path", moPath).
		Int("messages", f.CompiledMessages()).
		Msg("Compiled locale catalogue")

	return nil
}

func (n *Native) fail(op string, err error) error {
	return &ToolError{Tool: "native " + op, Output: err.Error(), Err: err}
}

// merge returns def updated against the template ref.
func merge(def, ref *po.File) *po.File {
	out := &po.File{}

	if def.Header != nil {
		out.Header = def.Header.Clone()
	}

	if created := ref.HeaderField("POT-Creation-Date"); created != "" {
		out.SetHeaderField("POT-Creation-Date", created)
	}

	nplurals := out.NPlurals()

	existing := make(map[string]*po.Entry, len(def.Entries))
	for _, e := range def.Entries {
		// An active entry wins over an obsolete one with the same key.
		if prev, ok := existing[e.Key()]; ok && !prev.Obsolete {
			continue
		}

		existing[e.Key()] = e
	}

	used := make(map[string]struct{}, len(ref.Entries))

	for _, r := range ref.Active() {
		key := r.Key()
		if _, dup := used[key]; dup {
			continue
		}

		used[key] = struct{}{}

		var e *po.Entry

		if old, ok := existing[key]; ok {
			e = old.Clone()
			e.Obsolete = false
			e.Plural = r.Plural
			e.Comments = mergeComments(old.Comments, r.Comments)
		} else {
			e = r.Clone()
			e.Str = nil
		}

		if e.IsPlural() {
			e.Resize(nplurals)
		} else {
			e.Resize(1)
		}

		out.Entries = append(out.Entries, e)
	}

	for _, e := range def.Entries {
		if _, ok := used[e.Key()]; ok || !hasTranslation(e) {
			continue
		}

		used[e.Key()] = struct{}{}

		obsolete := e.Clone()
		obsolete.Obsolete = true
		out.Entries = append(out.Entries, obsolete)
	}

	return out
}

// mergeComments keeps the translator comments and flags of a locale entry and
// takes its source references and extracted comments from the template.
func mergeComments(def, ref []string) []string {
	var translator, flags, source []string

	for _, c := range def {
		switch {
		case strings.HasPrefix(c, "#,"):
			flags = append(flags, c)
		case !isSourceComment(c) && !strings.HasPrefix(c, "#|"):
			translator = append(translator, c)
		}
	}

	for _, c := range ref {
		if isSourceComment(c) {
			source = append(source, c)
		}
	}

	out := make([]string, 0, len(translator)+len(source)+len(flags))
	out = append(out, translator...)
	out = append(out, source...)

	return append(out, flags...)
}

// isSourceComment reports whether c is an extracted comment, a "#:" reference
// or a "# file:line" reference as written to templates.
func isSourceComment(c string) bool {
	if strings.HasPrefix(c, "#.") || strings.HasPrefix(c, "#:") {
		return true
	}

	ref, ok := strings.CutPrefix(c, "# ")
	if !ok || strings.ContainsAny(ref, " \t") {
		return false
	}

	i := strings.LastIndexByte(ref, ':')
	if i <= 0 || i == len(ref)-1 {
		return false
	}

	for _, r := range ref[i+1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// bootstrap returns a fresh locale catalogue for locale built from ref.
func bootstrap(ref *po.File, locale string) *po.File {
	out := &po.File{}

	if ref.Header != nil {
		out.Header = ref.Header.Clone()
	}

	forms := PluralForms(locale)

	out.SetHeaderField("Last-Translator", "Automatically generated")
	out.SetHeaderField("Language-Team", "none")
	out.SetHeaderField("Language", locale)
	out.SetHeaderField("Content-Type", "text/plain; charset=UTF-8")
	out.SetHeaderField("Plural-Forms", forms)

	nplurals := out.NPlurals()

	for _, r := range ref.Active() {
		e := r.Clone()
		e.Str = nil

		if e.IsPlural() {
			e.Resize(nplurals)
		} else {
			e.Resize(1)
		}

		out.Entries = append(out.Entries, e)
	}

	return out
}

func hasTranslation(e *po.Entry) bool {
	for _, s := range e.Str {
		if s != "" {
			return true
		}
	}

	return false
}
