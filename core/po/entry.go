// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package po

import "strings"

// contextSeparator joins msgctxt and msgid in compiled catalogues.
const contextSeparator = "\x04"

// Entry is a single message block.
type Entry struct {
	// Comments are the raw comment lines preceding the entry, including their
	// leading '#', for example "# main.go:12" or "#, fuzzy".
	Comments []string

	Context    string
	HasContext bool

	ID     string
	Plural string

	// Str holds msgstr for singular entries (one element) or msgstr[i] for
	// plural entries.
	Str []string

	Obsolete bool
}

// IsPlural reports whether the entry carries a msgid_plural.
func (e *Entry) IsPlural() bool {
	return e.Plural != ""
}

// Key returns the lookup key of the entry: msgid, prefixed by msgctxt if any.
func (e *Entry) Key() string {
	if e.HasContext {
		return e.Context + contextSeparator + e.ID
	}

	return e.ID
}

// Fuzzy reports whether the entry is flagged fuzzy.
func (e *Entry) Fuzzy() bool {
	for _, c := range e.Comments {
		if strings.HasPrefix(c, "#,") && strings.Contains(c, "fuzzy") {
			return true
		}
	}

	return false
}

// Translated reports whether every msgstr slot of the entry is filled in.
func (e *Entry) Translated() bool {
	if len(e.Str) == 0 {
		return false
	}

	for _, s := range e.Str {
		if s == "" {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	c := *e
	c.Comments = append([]string(nil), e.Comments...)
	c.Str = append([]string(nil), e.Str...)

	return &c
}

// Resize sets the number of msgstr slots to n, keeping existing values.
func (e *Entry) Resize(n int) {
	if n < 1 {
		n = 1
	}

	switch {
	case len(e.Str) > n:
		e.Str = e.Str[:n]
	case len(e.Str) < n:
		e.Str = append(e.Str, make([]string, n-len(e.Str))...)
	}
}
