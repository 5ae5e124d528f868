// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// File is a parsed catalogue.
type File struct {
	// Header is the msgid "" entry, or nil when the catalogue has none.
	Header  *Entry
	Entries []*Entry
}

// ReadFile parses the catalogue at path.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- catalogue paths come from the project layout
	if err != nil {
		return nil, err
	}

	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// Lookup returns the active (non-obsolete) entry with msgid id and no context.
func (f *File) Lookup(id string) *Entry {
	for _, e := range f.Entries {
		if !e.Obsolete && !e.HasContext && e.ID == id {
			return e
		}
	}

	return nil
}

// Has reports whether f holds an active entry with msgid id.
func (f *File) Has(id string) bool {
	return f.Lookup(id) != nil
}

// Active returns the non-obsolete entries in file order.
func (f *File) Active() []*Entry {
	out := make([]*Entry, 0, len(f.Entries))

	for _, e := range f.Entries {
		if !e.Obsolete {
			out = append(out, e)
		}
	}

	return out
}

// HeaderField returns the value of a header field such as "Language",
// or "" when absent.
func (f *File) HeaderField(name string) string {
	if f.Header == nil || len(f.Header.Str) == 0 {
		return ""
	}

	for _, line := range strings.Split(f.Header.Str[0], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}

	return ""
}

// SetHeaderField sets a header field, replacing an existing one in place or
// appending it. A header entry is created when missing.
func (f *File) SetHeaderField(name, value string) {
	if f.Header == nil {
		f.Header = &Entry{Str: []string{""}}
	}

	if len(f.Header.Str) == 0 {
		f.Header.Str = []string{""}
	}

	lines := strings.Split(strings.TrimSuffix(f.Header.Str[0], "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		lines = nil
	}

	field := name + ": " + value
	replaced := false

	for i, line := range lines {
		key, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			lines[i] = field
			replaced = true

			break
		}
	}

	if !replaced {
		lines = append(lines, field)
	}

	f.Header.Str[0] = strings.Join(lines, "\n") + "\n"
}

// NPlurals returns the nplurals value of the Plural-Forms header, or 2 when
// the header is absent or unparsable.
func (f *File) NPlurals() int {
	return parseNPlurals(f.HeaderField("Plural-Forms"))
}

func parseNPlurals(pluralForms string) int {
	const fallback = 2

	for _, part := range strings.Split(pluralForms, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(key) != "nplurals" {
			continue
		}

		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err == nil && n > 0 {
			return n
		}
	}

	return fallback
}

// Bytes returns the catalogue in .po syntax.
func (f *File) Bytes() []byte {
	var buf bytes.Buffer

	_, _ = f.WriteTo(&buf)

	return buf.Bytes()
}
